// Package pricing computes the fee a family owes for the event.
package pricing

// PriceTable holds the per-head prices in RM.
type PriceTable struct {
	Adult float64
	Child float64
}

// ComputeTotal returns the amount owed for the given attendance counts.
// It must be called with the selected family's counts at fee-computation time;
// the result is stored on the submission and never recomputed afterwards.
// Zero counts are valid.
func ComputeTotal(adults, children int, table PriceTable) float64 {
	return float64(adults)*table.Adult + float64(children)*table.Child
}
