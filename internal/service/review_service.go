package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/audit"
	"github.com/firdaushadi/borang-server/internal/auth"
	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
	"github.com/firdaushadi/borang-server/internal/ledger"
)

// ReviewService executes admin status changes on submissions. Every operation
// requires an auth.Session capability; there is no ambient admin state.
type ReviewService struct {
	ledger ledger.Store
	audit  audit.Repository
	logger *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(ledgerStore ledger.Store, auditRepo audit.Repository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		ledger: ledgerStore,
		audit:  auditRepo,
		logger: logger,
	}
}

// SetStatus transitions the submission at rowIndex to the target status.
//
// Row index is the only update key: family names are not guaranteed stable or
// unique across ledger mutations. Concurrent admins racing on the same row
// resolve as last write wins. The returned submission reflects the confirmed
// new state; nothing is updated optimistically.
func (s *ReviewService) SetStatus(ctx context.Context, session *auth.Session, rowIndex int, target workflow.State) (*entity.Submission, error) {
	if session == nil {
		return nil, auth.ErrUnauthorized
	}

	trigger, err := workflow.TriggerFor(target)
	if err != nil {
		return nil, fmt.Errorf("%w: status %s cannot be set manually", workflow.ErrInvalidTransition, target)
	}

	submissions, err := s.ledger.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	current, ok := findByRowIndex(submissions, rowIndex)
	if !ok {
		return nil, fmt.Errorf("%w: no submission at row %d", entity.ErrUpdateFailed, rowIndex)
	}

	machine := workflow.NewReviewMachine(current.Status)
	if err := machine.Fire(trigger); err != nil {
		return nil, err
	}

	if err := s.ledger.UpdateStatus(ctx, rowIndex, machine.State()); err != nil {
		return nil, err
	}

	// The status change is confirmed; a failed audit write is logged but does
	// not undo it.
	entry := &audit.Entry{
		RowIndex:   rowIndex,
		FamilyName: current.FamilyName,
		OldStatus:  current.Status,
		NewStatus:  machine.State(),
		Operator:   session.Operator,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("Failed to record review audit entry",
			zap.Int("row_index", rowIndex),
			zap.Error(err))
	}

	s.logger.Info("Submission status updated",
		zap.Int("row_index", rowIndex),
		zap.String("family", current.FamilyName),
		zap.String("from", current.Status.String()),
		zap.String("to", machine.State().String()),
		zap.String("operator", session.Operator))

	updated := current
	updated.Status = machine.State()
	return &updated, nil
}

// AuditTrail returns the recorded status changes for one ledger row.
func (s *ReviewService) AuditTrail(ctx context.Context, session *auth.Session, rowIndex int) ([]audit.Entry, error) {
	if session == nil {
		return nil, auth.ErrUnauthorized
	}
	return s.audit.ListByRowIndex(ctx, rowIndex)
}

func findByRowIndex(submissions []entity.Submission, rowIndex int) (entity.Submission, bool) {
	for _, sub := range submissions {
		if sub.RowIndex == rowIndex {
			return sub, true
		}
	}
	return entity.Submission{}, false
}
