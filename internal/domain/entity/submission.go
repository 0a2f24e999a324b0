package entity

import (
	"time"

	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

// Submission is one payment submission row in the ledger.
//
// FamilyName links back to the roster by exact (trim-only, case-sensitive)
// match. Adults/Children/TotalAmount are denormalized copies taken at
// submission time and are never recomputed, even if the roster later changes.
//
// RowIndex is the positional identifier assigned by the ledger and is the only
// key status updates are addressed by. It must stay stable for the life of the
// row; if the ledger is ever compacted or reordered externally, updates would
// hit the wrong row. That risk belongs to the ledger collaborator.
type Submission struct {
	RowIndex        int            `json:"rowIndex"`
	Timestamp       time.Time      `json:"timestamp"`
	FamilyName      string         `json:"familyName"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	TotalAmount     float64        `json:"totalAmount"`
	ExtractedAmount string         `json:"extractedAmount,omitempty"`
	ReceiptRef      string         `json:"receiptRef"`
	Status          workflow.State `json:"status"`
}
