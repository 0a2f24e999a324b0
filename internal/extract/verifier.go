package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// Verification is the outcome of reading a receipt against the expected fee.
type Verification struct {
	// ExtractedAmount is the numeric token read off the receipt, or empty if
	// extraction failed or was skipped.
	ExtractedAmount string

	// InitialStatus is PENDING or APPROVED. Rejection is always a manual
	// admin action, never an extraction outcome.
	InitialStatus workflow.State
}

// Verifier decides a submission's initial status from its receipt.
type Verifier struct {
	extractor Extractor
	logger    *zap.Logger
}

// NewVerifier creates a verifier backed by the given extraction capability.
func NewVerifier(extractor Extractor, logger *zap.Logger) *Verifier {
	return &Verifier{
		extractor: extractor,
		logger:    logger,
	}
}

// Verify reads the receipt and compares the extracted amount to the expected
// fee. The extraction call is best-effort: any failure degrades to an absent
// amount and PENDING status rather than failing the submission. Verify never
// returns an error for that reason.
func (v *Verifier) Verify(ctx context.Context, receipt []byte, mimeType string, expected float64) Verification {
	degraded := Verification{InitialStatus: workflow.StatePending}

	text, err := v.extractor.ExtractText(ctx, receipt, mimeType)
	if err != nil {
		v.logger.Warn("Receipt extraction failed, submission continues as PENDING",
			zap.String("mime_type", mimeType),
			zap.Error(err))
		return degraded
	}

	token, value, ok := ParseAmount(text)
	if !ok {
		v.logger.Warn("No amount found in extraction response",
			zap.String("response", text))
		return degraded
	}

	status := workflow.StatePending
	if value == expected {
		status = workflow.StateApproved
	}

	v.logger.Info("Receipt amount extracted",
		zap.String("extracted", token),
		zap.Float64("expected", expected),
		zap.String("initial_status", status.String()))

	return Verification{
		ExtractedAmount: token,
		InitialStatus:   status,
	}
}
