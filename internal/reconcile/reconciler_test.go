package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

func sub(name string, amount float64, status workflow.State) entity.Submission {
	return entity.Submission{FamilyName: name, TotalAmount: amount, Status: status}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	report := Reconcile(nil, nil)

	assert.Empty(t, report.Paid)
	assert.Empty(t, report.Unpaid)
	assert.Equal(t, 0.0, report.TotalCollected)
}

func TestReconcile_UnpaidIsRosterMinusLedger(t *testing.T) {
	roster := []entity.Family{
		{Name: "Zainal", Adults: 2, Children: 3},
		{Name: "Ahmad", Adults: 1, Children: 0},
		{Name: "Ali", Adults: 2, Children: 1},
	}
	ledger := []entity.Submission{
		sub("Ali", 90, workflow.StateApproved),
	}

	report := Reconcile(roster, ledger)

	require.Len(t, report.Unpaid, 2)
	// Sorted ascending by name.
	assert.Equal(t, "Ahmad", report.Unpaid[0].Name)
	assert.Equal(t, "Zainal", report.Unpaid[1].Name)
}

func TestReconcile_MatchIsTrimOnlyCaseSensitive(t *testing.T) {
	roster := []entity.Family{
		{Name: "Ahmad"},
		{Name: "ali"},
	}
	ledger := []entity.Submission{
		sub("  Ahmad ", 30, workflow.StatePending), // trims to an exact match
		sub("Ali", 90, workflow.StatePending),      // case differs, no match
	}

	report := Reconcile(roster, ledger)

	require.Len(t, report.Unpaid, 1)
	assert.Equal(t, "ali", report.Unpaid[0].Name)
}

func TestReconcile_PaidPreservesLedgerOrder(t *testing.T) {
	ledger := []entity.Submission{
		sub("Zul", 30, workflow.StatePending),
		sub("Ahmad", 60, workflow.StateApproved),
		sub("Mat", 90, workflow.StateRejected),
	}

	report := Reconcile(nil, ledger)

	require.Len(t, report.Paid, 3)
	assert.Equal(t, "Zul", report.Paid[0].FamilyName)
	assert.Equal(t, "Ahmad", report.Paid[1].FamilyName)
	assert.Equal(t, "Mat", report.Paid[2].FamilyName)
}

func TestReconcile_TotalCollectedSumsApprovedOnly(t *testing.T) {
	ledger := []entity.Submission{
		sub("A", 30, workflow.StateApproved),
		sub("B", 60, workflow.StatePending),
		sub("C", 30, workflow.StateRejected),
	}

	report := Reconcile(nil, ledger)

	assert.Equal(t, 30.0, report.TotalCollected)
}

func TestReconcile_LedgerEntriesOffRosterStayPaid(t *testing.T) {
	// A ledger row whose family was removed from the roster still counts as
	// paid and still contributes to the collected total.
	roster := []entity.Family{{Name: "Ali"}}
	ledger := []entity.Submission{sub("Ghost", 60, workflow.StateApproved)}

	report := Reconcile(roster, ledger)

	require.Len(t, report.Paid, 1)
	assert.Equal(t, 60.0, report.TotalCollected)
	require.Len(t, report.Unpaid, 1)
	assert.Equal(t, "Ali", report.Unpaid[0].Name)
}

func TestReconcile_Idempotent(t *testing.T) {
	roster := []entity.Family{{Name: "B"}, {Name: "A"}}
	ledger := []entity.Submission{sub("B", 30, workflow.StateApproved)}

	first := Reconcile(roster, ledger)
	second := Reconcile(roster, ledger)

	assert.Equal(t, first, second)
}
