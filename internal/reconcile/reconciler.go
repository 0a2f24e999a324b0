// Package reconcile joins the roster and the submissions ledger into the
// paid/unpaid view the admin dashboard works from.
package reconcile

import (
	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// Report is the result of one reconciliation pass. It is recomputed in full on
// every refresh and never cached; both input lists may be empty.
type Report struct {
	// Paid is the ledger as-is, in ledger (arrival) order. Entries whose
	// family name is not on the current roster still appear here.
	Paid []entity.Submission `json:"paid"`

	// Unpaid holds the roster families with no ledger entry, sorted ascending
	// by name.
	Unpaid []entity.Family `json:"unpaid"`

	// TotalCollected sums TotalAmount over APPROVED entries only. PENDING and
	// REJECTED submissions never contribute.
	TotalCollected float64 `json:"totalCollected"`
}

// Reconcile classifies every roster family as paid or unpaid and computes the
// collected total. Membership is decided by exact match on the normalized
// (trim-only, case-sensitive) family name; no fuzzy matching.
func Reconcile(roster []entity.Family, ledger []entity.Submission) Report {
	submitted := make(map[string]struct{}, len(ledger))
	report := Report{
		Paid: ledger,
	}

	for _, sub := range ledger {
		submitted[entity.NormalizeName(sub.FamilyName)] = struct{}{}
		if sub.Status == workflow.StateApproved {
			report.TotalCollected += sub.TotalAmount
		}
	}

	unpaid := make([]entity.Family, 0, len(roster))
	for _, fam := range roster {
		if _, ok := submitted[entity.NormalizeName(fam.Name)]; !ok {
			unpaid = append(unpaid, fam)
		}
	}
	entity.SortFamiliesByName(unpaid)
	report.Unpaid = unpaid

	if report.Paid == nil {
		report.Paid = []entity.Submission{}
	}

	return report
}
