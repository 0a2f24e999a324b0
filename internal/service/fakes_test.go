package service

import (
	"context"

	"github.com/firdaushadi/borang-server/internal/audit"
	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
	"github.com/firdaushadi/borang-server/internal/ledger"
)

type fakeRoster struct {
	families []entity.Family
	err      error
}

func (f *fakeRoster) Fetch(ctx context.Context) ([]entity.Family, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.families, nil
}

// fakeLedger mimics the Apps Script ledger including its server-side
// one-submission-per-family rule.
type fakeLedger struct {
	rows []entity.Submission

	fetchErr  error
	checkErr  error
	appendErr error
	updateErr error

	// forceCheckClear makes CheckStatus report "not submitted" regardless of
	// rows, simulating a duplicate race lost between check and append.
	forceCheckClear bool

	appended []ledger.NewSubmission
	updates  []statusUpdate
}

type statusUpdate struct {
	rowIndex int
	status   workflow.State
}

func (f *fakeLedger) FetchAll(ctx context.Context) ([]entity.Submission, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}

func (f *fakeLedger) CheckStatus(ctx context.Context, familyName string) (*ledger.StatusCheck, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	if f.forceCheckClear {
		return &ledger.StatusCheck{}, nil
	}
	for _, row := range f.rows {
		if row.FamilyName == familyName {
			return &ledger.StatusCheck{Submitted: true, Status: row.Status}, nil
		}
	}
	return &ledger.StatusCheck{}, nil
}

func (f *fakeLedger) Append(ctx context.Context, sub ledger.NewSubmission) (*ledger.AppendResult, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	for _, row := range f.rows {
		if row.FamilyName == sub.FamilyName {
			return &ledger.AppendResult{OK: false, Message: "Keluarga ini telah menghantar resit."}, nil
		}
	}
	f.appended = append(f.appended, sub)
	f.rows = append(f.rows, entity.Submission{
		RowIndex:        len(f.rows) + 2, // sheet rows start after the header
		FamilyName:      sub.FamilyName,
		Adults:          sub.Adults,
		Children:        sub.Children,
		TotalAmount:     sub.TotalAmount,
		ExtractedAmount: sub.ExtractedAmount,
		ReceiptRef:      sub.ReceiptRef,
		Status:          sub.Status,
	})
	return &ledger.AppendResult{OK: true}, nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, rowIndex int, status workflow.State) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{rowIndex: rowIndex, status: status})
	for i := range f.rows {
		if f.rows[i].RowIndex == rowIndex {
			f.rows[i].Status = status
			return nil
		}
	}
	return entity.ErrUpdateFailed
}

type fakeAudit struct {
	entries []audit.Entry
	err     error
}

func (f *fakeAudit) Record(ctx context.Context, entry *audit.Entry) error {
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) ListByRowIndex(ctx context.Context, rowIndex int) ([]audit.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []audit.Entry
	for _, e := range f.entries {
		if e.RowIndex == rowIndex {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeReceiptStore struct {
	saved int
	err   error
}

func (f *fakeReceiptStore) Save(ctx context.Context, content []byte, mimeType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved++
	return "receipts/fake.png", nil
}

func (f *fakeReceiptStore) Read(ctx context.Context, ref string) ([]byte, error) {
	return nil, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, receipt []byte, mimeType string) (string, error) {
	return f.text, f.err
}
