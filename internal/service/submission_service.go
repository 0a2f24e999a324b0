package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/extract"
	"github.com/firdaushadi/borang-server/internal/ledger"
	"github.com/firdaushadi/borang-server/internal/pricing"
	"github.com/firdaushadi/borang-server/internal/roster"
	"github.com/firdaushadi/borang-server/internal/storage"
)

// Receipt upload limits, enforced before any network call.
const MaxReceiptSize = 50 * 1024 * 1024

var allowedReceiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// The ledger flags duplicate submissions with this phrase in its message.
const duplicateMarker = "telah menghantar"

// SubmitRequest is one payment submission.
type SubmitRequest struct {
	FamilyName string
	Receipt    []byte
	MimeType   string
}

// SubmitResult reports an accepted submission back to the caller.
type SubmitResult struct {
	FamilyName      string  `json:"familyName"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
	TotalAmount     float64 `json:"totalAmount"`
	ExtractedAmount string  `json:"extractedAmount,omitempty"`
	Status          string  `json:"status"`
	StatusLabel     string  `json:"statusLabel"`
	ReceiptRef      string  `json:"receiptRef"`
}

// SubmissionService runs the submission flow: validation, admission control,
// fee computation, receipt verification and the ledger append.
type SubmissionService struct {
	roster   roster.Source
	ledger   ledger.Store
	verifier *extract.Verifier
	receipts storage.ReceiptStore
	prices   pricing.PriceTable
	logger   *zap.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	rosterSource roster.Source,
	ledgerStore ledger.Store,
	verifier *extract.Verifier,
	receipts storage.ReceiptStore,
	prices pricing.PriceTable,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		roster:   rosterSource,
		ledger:   ledgerStore,
		verifier: verifier,
		receipts: receipts,
		prices:   prices,
		logger:   logger,
	}
}

// ListFamilies returns the current roster, sorted for the family picker.
func (s *SubmissionService) ListFamilies(ctx context.Context) ([]entity.Family, error) {
	return s.roster.Fetch(ctx)
}

// CheckFamilyStatus runs the admission pre-check for the picker: has this
// family already submitted, and with what status?
func (s *SubmissionService) CheckFamilyStatus(ctx context.Context, familyName string) (*ledger.StatusCheck, error) {
	name := entity.NormalizeName(familyName)
	if name == "" {
		return nil, entity.NewValidationError("family name is required")
	}
	return s.ledger.CheckStatus(ctx, name)
}

// Submit accepts one payment submission.
//
// The admission check and the ledger append are two separate round trips, so
// two racing submissions for the same family can both pass the check; the
// ledger's own uniqueness rule is the source of truth and its rejection is
// mapped back to AlreadySubmittedError here.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}
	name := entity.NormalizeName(req.FamilyName)

	// Admission control: one submission per family.
	check, err := s.ledger.CheckStatus(ctx, name)
	if err != nil {
		return nil, err
	}
	if check.Submitted {
		return nil, &entity.AlreadySubmittedError{FamilyName: name, Status: check.Status}
	}

	// The fee is computed from the family's counts as they stand right now.
	families, err := s.roster.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	family, ok := findFamily(families, name)
	if !ok {
		return nil, entity.NewValidationError("family %q is not on the roster", name)
	}

	total := pricing.ComputeTotal(family.Adults, family.Children, s.prices)

	// Best-effort receipt reading; a failed extraction leaves the submission
	// PENDING and never blocks it.
	verification := s.verifier.Verify(ctx, req.Receipt, req.MimeType, total)

	receiptRef, err := s.receipts.Save(ctx, req.Receipt, req.MimeType)
	if err != nil {
		s.logger.Error("Failed to store receipt", zap.Error(err))
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	result, err := s.ledger.Append(ctx, ledger.NewSubmission{
		FamilyName:      family.Name,
		Adults:          family.Adults,
		Children:        family.Children,
		TotalAmount:     total,
		ReceiptRef:      receiptRef,
		Status:          verification.InitialStatus,
		ExtractedAmount: verification.ExtractedAmount,
	})
	if err != nil {
		return nil, err
	}
	if !result.OK {
		if strings.Contains(result.Message, duplicateMarker) {
			// Lost a duplicate race; surface the winner's status.
			status := check.Status
			if recheck, err := s.ledger.CheckStatus(ctx, name); err == nil && recheck.Submitted {
				status = recheck.Status
			}
			return nil, &entity.AlreadySubmittedError{FamilyName: name, Status: status}
		}
		return nil, fmt.Errorf("ledger rejected submission: %s", result.Message)
	}

	s.logger.Info("Submission accepted",
		zap.String("family", family.Name),
		zap.Float64("total", total),
		zap.String("initial_status", verification.InitialStatus.String()))

	return &SubmitResult{
		FamilyName:      family.Name,
		Adults:          family.Adults,
		Children:        family.Children,
		TotalAmount:     total,
		ExtractedAmount: verification.ExtractedAmount,
		Status:          verification.InitialStatus.String(),
		StatusLabel:     verification.InitialStatus.Label(),
		ReceiptRef:      receiptRef,
	}, nil
}

func validateSubmission(req SubmitRequest) error {
	if entity.NormalizeName(req.FamilyName) == "" {
		return entity.NewValidationError("family name is required")
	}
	if len(req.Receipt) == 0 {
		return entity.NewValidationError("payment receipt is required")
	}
	if len(req.Receipt) > MaxReceiptSize {
		return entity.NewValidationError("receipt exceeds the 50MB size limit")
	}
	if !allowedReceiptTypes[req.MimeType] {
		return entity.NewValidationError("unsupported receipt format %q, upload JPG, PNG or PDF", req.MimeType)
	}
	return nil
}

func findFamily(families []entity.Family, name string) (entity.Family, bool) {
	for _, f := range families {
		if entity.NormalizeName(f.Name) == name {
			return f, true
		}
	}
	return entity.Family{}, false
}
