package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/auth"
	"github.com/firdaushadi/borang-server/internal/config"
	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
	"github.com/firdaushadi/borang-server/internal/export"
	"github.com/firdaushadi/borang-server/internal/notify"
	"github.com/firdaushadi/borang-server/internal/service"
	"github.com/firdaushadi/borang-server/internal/storage"
)

// Handler exposes the submission and admin operations over HTTP.
type Handler struct {
	submissions *service.SubmissionService
	reviews     *service.ReviewService
	reports     *service.ReportService
	receipts    storage.ReceiptStore
	event       config.EventConfig
	bank        config.BankConfig
	whatsapp    string
	logger      *zap.Logger
}

// NewHandler creates an API handler.
func NewHandler(
	submissions *service.SubmissionService,
	reviews *service.ReviewService,
	reports *service.ReportService,
	receipts storage.ReceiptStore,
	event config.EventConfig,
	bank config.BankConfig,
	whatsappNumber string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		submissions: submissions,
		reviews:     reviews,
		reports:     reports,
		receipts:    receipts,
		event:       event,
		bank:        bank,
		whatsapp:    whatsappNumber,
		logger:      logger,
	}
}

// EventInfo serves the event and bank-transfer details the payment form shows.
func (h *Handler) EventInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"event": h.event,
		"bank":  h.bank,
	})
}

// ListFamilies serves the roster for the family picker.
func (h *Handler) ListFamilies(c *gin.Context) {
	families, err := h.submissions.ListFamilies(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"families": families})
}

// CheckStatus serves the admission pre-check for one family.
func (h *Handler) CheckStatus(c *gin.Context) {
	check, err := h.submissions.CheckFamilyStatus(c.Request.Context(), c.Query("family"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := gin.H{"submitted": check.Submitted}
	if check.Submitted {
		resp["status"] = check.Status.String()
		resp["statusLabel"] = check.Status.Label()
	}
	c.JSON(http.StatusOK, resp)
}

// Submit accepts a multipart payment submission: a family name and a receipt.
func (h *Handler) Submit(c *gin.Context) {
	familyName := c.PostForm("family")

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		h.renderError(c, entity.NewValidationError("payment receipt is required"))
		return
	}
	defer file.Close()

	if header.Size > service.MaxReceiptSize {
		h.renderError(c, entity.NewValidationError("receipt exceeds the 50MB size limit"))
		return
	}

	receipt, err := io.ReadAll(io.LimitReader(file, service.MaxReceiptSize+1))
	if err != nil {
		h.renderError(c, fmt.Errorf("failed to read receipt upload: %w", err))
		return
	}

	result, err := h.submissions.Submit(c.Request.Context(), service.SubmitRequest{
		FamilyName: familyName,
		Receipt:    receipt,
		MimeType:   header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Report serves the reconciliation overview for the admin dashboard.
func (h *Handler) Report(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Overview(c.Request.Context()))
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus applies an admin review decision to one ledger row.
func (h *Handler) SetStatus(c *gin.Context) {
	rowIndex, err := strconv.Atoi(c.Param("rowIndex"))
	if err != nil {
		h.renderError(c, entity.NewValidationError("invalid row index %q", c.Param("rowIndex")))
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderError(c, entity.NewValidationError("status is required"))
		return
	}

	updated, err := h.reviews.SetStatus(c.Request.Context(), SessionFrom(c), rowIndex, workflow.State(req.Status))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AuditTrail serves the recorded review actions for one ledger row.
func (h *Handler) AuditTrail(c *gin.Context) {
	rowIndex, err := strconv.Atoi(c.Param("rowIndex"))
	if err != nil {
		h.renderError(c, entity.NewValidationError("invalid row index %q", c.Param("rowIndex")))
		return
	}

	entries, err := h.reviews.AuditTrail(c.Request.Context(), SessionFrom(c), rowIndex)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// receiptContentTypes maps stored receipt extensions back to the MIME type
// the browser needs to render them inline.
var receiptContentTypes = map[string]string{
	".jpg": "image/jpeg",
	".png": "image/png",
	".pdf": "application/pdf",
}

// Receipt serves a stored receipt so the dashboard can show it next to the
// submission under review.
func (h *Handler) Receipt(c *gin.Context) {
	ref := c.Param("ref")

	content, err := h.receipts.Read(c.Request.Context(), ref)
	if err != nil {
		h.logger.Warn("Receipt not found", zap.String("ref", ref), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Resit tidak dijumpai.",
			"code":  "RECEIPT_NOT_FOUND",
		})
		return
	}

	contentType, ok := receiptContentTypes[filepath.Ext(ref)]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, content)
}

// ExportReport serves the reconciliation report as an XLSX download.
func (h *Handler) ExportReport(c *gin.Context) {
	overview := h.reports.Overview(c.Request.Context())

	workbook, err := export.ReportWorkbook(overview.Report)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="laporan-pembayaran.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// Reminder serves the unpaid-families WhatsApp message and deep link.
func (h *Handler) Reminder(c *gin.Context) {
	overview := h.reports.Overview(c.Request.Context())
	if overview.RosterUnavailable {
		h.renderError(c, entity.ErrSourceUnavailable)
		return
	}

	message := notify.BuildUnpaidReport(h.event.Title, overview.Unpaid)
	c.JSON(http.StatusOK, gin.H{
		"unpaidCount": len(overview.Unpaid),
		"message":     message,
		"whatsappUrl": notify.WhatsAppURL(h.whatsapp, message),
	})
}

// renderError maps domain errors onto HTTP responses. The body always carries
// a human-readable reason that distinguishes an unreachable backing service
// from an operation the system itself rejected.
func (h *Handler) renderError(c *gin.Context, err error) {
	var already *entity.AlreadySubmittedError
	var validation *entity.ValidationError

	switch {
	case errors.As(err, &already):
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Keluarga ini telah menghantar resit pembayaran.",
			"code":        "ALREADY_SUBMITTED",
			"status":      already.Status.String(),
			"statusLabel": already.Status.Label(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Reason,
			"code":  "VALIDATION_FAILED",
		})
	case errors.Is(err, entity.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Gagal menyambung ke pangkalan data. Sila cuba sebentar lagi.",
			"code":  "SOURCE_UNAVAILABLE",
		})
	case errors.Is(err, entity.ErrUpdateFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Gagal mengemaskini status. Paparan tidak diubah.",
			"code":  "UPDATE_FAILED",
		})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Peralihan status tidak dibenarkan.",
			"code":  "INVALID_TRANSITION",
		})
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
			"code":  "UNAUTHORIZED",
		})
	default:
		h.logger.Error("Unhandled API error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Ralat sistem. Sila cuba sebentar lagi.",
			"code":  "INTERNAL",
		})
	}
}
