package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/auth"
)

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(handler *Handler, verifier auth.TokenVerifier, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "borang-server",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/event", handler.EventInfo)
		api.GET("/families", handler.ListFamilies)
		api.GET("/submissions/status", handler.CheckStatus)
		api.POST("/submissions", handler.Submit)
	}

	admin := api.Group("/admin")
	admin.Use(AuthMiddleware(verifier, logger))
	{
		admin.GET("/report", handler.Report)
		admin.GET("/report/export", handler.ExportReport)
		admin.GET("/report/reminder", handler.Reminder)
		admin.POST("/submissions/:rowIndex/status", handler.SetStatus)
		admin.GET("/submissions/:rowIndex/audit", handler.AuditTrail)
		admin.GET("/receipts/:ref", handler.Receipt)
	}

	return router
}
