// Package ledger talks to the submissions ledger: an Apps-Script-style web
// endpoint in front of the payments sheet. Rows are appended on submission and
// mutated only by status updates addressed by row index.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// Store is the ledger boundary the services depend on.
type Store interface {
	FetchAll(ctx context.Context) ([]entity.Submission, error)
	CheckStatus(ctx context.Context, familyName string) (*StatusCheck, error)
	Append(ctx context.Context, sub NewSubmission) (*AppendResult, error)
	UpdateStatus(ctx context.Context, rowIndex int, status workflow.State) error
}

// Client implements Store over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a ledger client for the given endpoint URL.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Submitted bool            `json:"submitted"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

// FetchAll returns every submission row in sheet order.
func (c *Client) FetchAll(ctx context.Context) ([]entity.Submission, error) {
	env, err := c.get(ctx, url.Values{"action": {"getSubmissions"}})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: ledger refused getSubmissions: %s", entity.ErrSourceUnavailable, env.Message)
	}

	var rows []ledgerRow
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("%w: decode ledger rows: %v", entity.ErrSourceUnavailable, err)
		}
	}

	submissions := make([]entity.Submission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, row.toSubmission())
	}

	c.logger.Debug("Ledger fetched", zap.Int("rows", len(submissions)))
	return submissions, nil
}

// CheckStatus asks the ledger whether a family already has a submission.
func (c *Client) CheckStatus(ctx context.Context, familyName string) (*StatusCheck, error) {
	env, err := c.get(ctx, url.Values{
		"action":     {"checkStatus"},
		"familyName": {familyName},
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: ledger refused checkStatus: %s", entity.ErrSourceUnavailable, env.Message)
	}

	check := &StatusCheck{Submitted: env.Submitted}
	if env.Submitted {
		check.Status = workflow.StateFromLabel(env.Status)
	}
	return check, nil
}

// Append adds a new submission row. An AppendResult with OK=false means the
// ledger itself rejected the row (typically a duplicate family); transport
// failures come back as entity.ErrSourceUnavailable.
func (c *Client) Append(ctx context.Context, sub NewSubmission) (*AppendResult, error) {
	payload := map[string]interface{}{
		"action":          "submitPayment",
		"familyName":      sub.FamilyName,
		"adults":          sub.Adults,
		"children":        sub.Children,
		"totalAmount":     sub.TotalAmount,
		"receiptRef":      sub.ReceiptRef,
		"status":          sub.Status.Label(),
		"extractedAmount": sub.ExtractedAmount,
	}

	env, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &AppendResult{OK: env.Success, Message: env.Message}, nil
}

// UpdateStatus changes the status of the row at rowIndex. The ledger addresses
// rows positionally, so rowIndex is the only valid update key.
//
// A transport failure keeps entity.ErrSourceUnavailable in the wrap chain
// alongside entity.ErrUpdateFailed, so callers can tell an unreachable ledger
// apart from an update the ledger rejected.
func (c *Client) UpdateStatus(ctx context.Context, rowIndex int, status workflow.State) error {
	payload := map[string]interface{}{
		"action":   "updateStatus",
		"rowIndex": rowIndex,
		"status":   status.Label(),
	}

	env, err := c.post(ctx, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrUpdateFailed, err)
	}
	if !env.Success {
		c.logger.Warn("Ledger rejected status update",
			zap.Int("row_index", rowIndex),
			zap.String("message", env.Message))
		return fmt.Errorf("%w: %s", entity.ErrUpdateFailed, env.Message)
	}

	return nil
}

func (c *Client) get(ctx context.Context, query url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build ledger request: %v", entity.ErrSourceUnavailable, err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, payload map[string]interface{}) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode ledger payload: %v", entity.ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build ledger request: %v", entity.ErrSourceUnavailable, err)
	}
	// Apps Script web apps reject preflighted content types; plain text avoids
	// a redirect-breaking CORS preflight just as the original form did.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Ledger call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: ledger call: %v", entity.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Ledger returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: ledger status %d", entity.ErrSourceUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode ledger response: %v", entity.ErrSourceUnavailable, err)
	}

	return &env, nil
}
