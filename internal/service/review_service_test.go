package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/auth"
	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

func testSession() *auth.Session {
	return &auth.Session{Operator: "bendahari"}
}

func seededLedger() *fakeLedger {
	return &fakeLedger{rows: []entity.Submission{
		{RowIndex: 2, FamilyName: "Ali", TotalAmount: 90, Status: workflow.StateApproved},
		{RowIndex: 3, FamilyName: "Ahmad", TotalAmount: 30, Status: workflow.StatePending},
	}}
}

func TestSetStatus_ApproveAndReject(t *testing.T) {
	ledgerFake := seededLedger()
	auditFake := &fakeAudit{}
	svc := NewReviewService(ledgerFake, auditFake, zap.NewNop())

	updated, err := svc.SetStatus(context.Background(), testSession(), 3, workflow.StateRejected)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateRejected, updated.Status)

	// Re-firing in the opposite direction: last write wins.
	updated, err = svc.SetStatus(context.Background(), testSession(), 3, workflow.StateApproved)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateApproved, updated.Status)

	require.Len(t, ledgerFake.updates, 2)
	assert.Equal(t, workflow.StateApproved, ledgerFake.rows[1].Status)
}

func TestSetStatus_ReapproveIsIdempotentButStillWrites(t *testing.T) {
	ledgerFake := seededLedger()
	svc := NewReviewService(ledgerFake, &fakeAudit{}, zap.NewNop())

	updated, err := svc.SetStatus(context.Background(), testSession(), 2, workflow.StateApproved)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateApproved, updated.Status)
	// The update is still issued even though nothing changed for the caller.
	require.Len(t, ledgerFake.updates, 1)
	assert.Equal(t, 2, ledgerFake.updates[0].rowIndex)
}

func TestSetStatus_NeverBackToPending(t *testing.T) {
	ledgerFake := seededLedger()
	svc := NewReviewService(ledgerFake, &fakeAudit{}, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), testSession(), 2, workflow.StatePending)

	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Empty(t, ledgerFake.updates)
}

func TestSetStatus_RequiresSession(t *testing.T) {
	svc := NewReviewService(seededLedger(), &fakeAudit{}, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), nil, 3, workflow.StateApproved)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestSetStatus_UnknownRow(t *testing.T) {
	svc := NewReviewService(seededLedger(), &fakeAudit{}, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), testSession(), 99, workflow.StateApproved)
	assert.ErrorIs(t, err, entity.ErrUpdateFailed)
}

func TestSetStatus_NoOptimisticUpdateOnFailure(t *testing.T) {
	ledgerFake := seededLedger()
	ledgerFake.updateErr = entity.ErrUpdateFailed
	auditFake := &fakeAudit{}
	svc := NewReviewService(ledgerFake, auditFake, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), testSession(), 3, workflow.StateApproved)

	assert.ErrorIs(t, err, entity.ErrUpdateFailed)
	// Row untouched, nothing audited.
	assert.Equal(t, workflow.StatePending, ledgerFake.rows[1].Status)
	assert.Empty(t, auditFake.entries)
}

func TestSetStatus_RecordsAuditTrail(t *testing.T) {
	ledgerFake := seededLedger()
	auditFake := &fakeAudit{}
	svc := NewReviewService(ledgerFake, auditFake, zap.NewNop())

	_, err := svc.SetStatus(context.Background(), testSession(), 3, workflow.StateRejected)
	require.NoError(t, err)

	entries, err := svc.AuditTrail(context.Background(), testSession(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Ahmad", entries[0].FamilyName)
	assert.Equal(t, workflow.StatePending, entries[0].OldStatus)
	assert.Equal(t, workflow.StateRejected, entries[0].NewStatus)
	assert.Equal(t, "bendahari", entries[0].Operator)
}

func TestAuditTrail_RequiresSession(t *testing.T) {
	svc := NewReviewService(seededLedger(), &fakeAudit{}, zap.NewNop())

	_, err := svc.AuditTrail(context.Background(), nil, 3)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}
