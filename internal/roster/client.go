package roster

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
)

// Source fetches the roster. Declared here so services can take a narrow
// dependency and tests can substitute a fixture.
type Source interface {
	Fetch(ctx context.Context) ([]entity.Family, error)
}

// Client fetches the published roster CSV over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a roster client for the published sheet URL.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and parses the roster. Any network or parse failure is
// wrapped in entity.ErrSourceUnavailable so callers can distinguish an
// unreachable sheet from an empty one.
func (c *Client) Fetch(ctx context.Context) ([]entity.Family, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build roster request: %v", entity.ErrSourceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Roster fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: fetch roster: %v", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Roster fetch returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: roster fetch status %d", entity.ErrSourceUnavailable, resp.StatusCode)
	}

	families, err := ParseCSV(resp.Body)
	if err != nil {
		c.logger.Error("Roster parse failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}

	c.logger.Debug("Roster fetched", zap.Int("families", len(families)))
	return families, nil
}
