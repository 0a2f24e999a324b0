package ledger

import (
	"time"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// ledgerRow is the wire shape of one sheet row as the Apps Script endpoint
// returns it. Field casing and the Malay status labels come from the sheet.
type ledgerRow struct {
	Timestamp       string  `json:"Timestamp"`
	FamilyName      string  `json:"FamilyName"`
	Adults          int     `json:"Adults"`
	Children        int     `json:"Children"`
	TotalAmount     float64 `json:"TotalAmount"`
	ReceiptURL      string  `json:"ReceiptUrl"`
	Status          string  `json:"Status"`
	ExtractedAmount string  `json:"ExtractedAmount,omitempty"`
	RowIndex        int     `json:"rowIndex"`
}

func (r ledgerRow) toSubmission() entity.Submission {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		ts = time.Time{}
	}
	return entity.Submission{
		RowIndex:        r.RowIndex,
		Timestamp:       ts,
		FamilyName:      entity.NormalizeName(r.FamilyName),
		Adults:          r.Adults,
		Children:        r.Children,
		TotalAmount:     r.TotalAmount,
		ExtractedAmount: r.ExtractedAmount,
		ReceiptRef:      r.ReceiptURL,
		Status:          workflow.StateFromLabel(r.Status),
	}
}

// NewSubmission is the payload appended to the ledger for a fresh submission.
// The row index is assigned server-side by the ledger.
type NewSubmission struct {
	FamilyName      string
	Adults          int
	Children        int
	TotalAmount     float64
	ReceiptRef      string
	Status          workflow.State
	ExtractedAmount string
}

// StatusCheck is the result of the admission pre-check for one family.
type StatusCheck struct {
	Submitted bool
	Status    workflow.State
}

// AppendResult reports whether the ledger accepted a new submission. A
// rejection (OK=false) with a message is an application-level outcome, not a
// transport failure; the ledger enforces one submission per family server-side.
type AppendResult struct {
	OK      bool
	Message string
}
