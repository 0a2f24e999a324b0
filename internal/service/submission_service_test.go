package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
	"github.com/firdaushadi/borang-server/internal/domain/workflow"
	"github.com/firdaushadi/borang-server/internal/extract"
	"github.com/firdaushadi/borang-server/internal/pricing"
)

var testPrices = pricing.PriceTable{Adult: 30, Child: 30}

func newSubmissionService(rosterFake *fakeRoster, ledgerFake *fakeLedger, extractorFake *fakeExtractor) *SubmissionService {
	return NewSubmissionService(
		rosterFake,
		ledgerFake,
		extract.NewVerifier(extractorFake, zap.NewNop()),
		&fakeReceiptStore{},
		testPrices,
		zap.NewNop(),
	)
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		FamilyName: "Ali",
		Receipt:    []byte("receipt image bytes"),
		MimeType:   "image/png",
	}
}

func TestSubmit_MatchingAmountAutoApproves(t *testing.T) {
	rosterFake := &fakeRoster{families: []entity.Family{{Name: "Ali", Adults: 2, Children: 1}}}
	ledgerFake := &fakeLedger{}
	svc := newSubmissionService(rosterFake, ledgerFake, &fakeExtractor{text: "90"})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 90.0, result.TotalAmount)
	assert.Equal(t, "90", result.ExtractedAmount)
	assert.Equal(t, workflow.StateApproved.String(), result.Status)
	assert.Equal(t, "LULUS", result.StatusLabel)

	require.Len(t, ledgerFake.appended, 1)
	assert.Equal(t, workflow.StateApproved, ledgerFake.appended[0].Status)
	assert.Equal(t, 90.0, ledgerFake.appended[0].TotalAmount)
}

func TestSubmit_MismatchedAmountStaysPending(t *testing.T) {
	rosterFake := &fakeRoster{families: []entity.Family{{Name: "Ali", Adults: 2, Children: 1}}}
	ledgerFake := &fakeLedger{}
	svc := newSubmissionService(rosterFake, ledgerFake, &fakeExtractor{text: "58"})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, workflow.StatePending.String(), result.Status)
	assert.Equal(t, "58", result.ExtractedAmount)
}

func TestSubmit_ExtractionFailureStillSubmits(t *testing.T) {
	rosterFake := &fakeRoster{families: []entity.Family{{Name: "Ali", Adults: 2, Children: 1}}}
	ledgerFake := &fakeLedger{}
	svc := newSubmissionService(rosterFake, ledgerFake, &fakeExtractor{err: errors.New("model down")})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, workflow.StatePending.String(), result.Status)
	assert.Empty(t, result.ExtractedAmount)
	assert.Len(t, ledgerFake.appended, 1)
}

func TestSubmit_SecondSubmissionRejected(t *testing.T) {
	rosterFake := &fakeRoster{families: []entity.Family{{Name: "Ahmad", Adults: 1, Children: 0}}}
	ledgerFake := &fakeLedger{}
	svc := newSubmissionService(rosterFake, ledgerFake, &fakeExtractor{text: "30"})

	req := validRequest()
	req.FamilyName = "Ahmad"

	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), req)
	var already *entity.AlreadySubmittedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "Ahmad", already.FamilyName)
	// The first submission auto-approved, and that status is surfaced.
	assert.Equal(t, workflow.StateApproved, already.Status)
}

func TestSubmit_DuplicateRaceLostAtAppend(t *testing.T) {
	// The admission check reports a clear path but the ledger's server-side
	// uniqueness rule rejects the append: the loser of the race still gets
	// AlreadySubmitted, not a raw ledger error.
	rosterFake := &fakeRoster{families: []entity.Family{{Name: "Ali", Adults: 2, Children: 1}}}
	ledgerFake := &fakeLedger{
		forceCheckClear: true,
		rows: []entity.Submission{
			{RowIndex: 2, FamilyName: "Ali", Status: workflow.StateApproved},
		},
	}
	svc := newSubmissionService(rosterFake, ledgerFake, &fakeExtractor{text: "90"})

	_, err := svc.Submit(context.Background(), validRequest())
	var already *entity.AlreadySubmittedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "Ali", already.FamilyName)
}

func TestSubmit_ValidationBeforeNetwork(t *testing.T) {
	// A failing ledger would error any networked step; validation failures
	// must surface first.
	ledgerFake := &fakeLedger{checkErr: entity.ErrSourceUnavailable}
	svc := newSubmissionService(&fakeRoster{err: entity.ErrSourceUnavailable}, ledgerFake, &fakeExtractor{})

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{"missing family", SubmitRequest{Receipt: []byte("x"), MimeType: "image/png"}},
		{"missing receipt", SubmitRequest{FamilyName: "Ali", MimeType: "image/png"}},
		{"oversized receipt", SubmitRequest{FamilyName: "Ali", Receipt: make([]byte, MaxReceiptSize+1), MimeType: "image/png"}},
		{"wrong type", SubmitRequest{FamilyName: "Ali", Receipt: []byte("x"), MimeType: "text/html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			var validation *entity.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestSubmit_FamilyNotOnRoster(t *testing.T) {
	svc := newSubmissionService(&fakeRoster{families: []entity.Family{{Name: "Ali"}}}, &fakeLedger{}, &fakeExtractor{})

	req := validRequest()
	req.FamilyName = "Unknown"

	_, err := svc.Submit(context.Background(), req)
	var validation *entity.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSubmit_LedgerOutageSurfaces(t *testing.T) {
	svc := newSubmissionService(
		&fakeRoster{families: []entity.Family{{Name: "Ali", Adults: 2, Children: 1}}},
		&fakeLedger{checkErr: entity.ErrSourceUnavailable},
		&fakeExtractor{text: "90"},
	)

	_, err := svc.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, entity.ErrSourceUnavailable)
}

func TestCheckFamilyStatus(t *testing.T) {
	ledgerFake := &fakeLedger{rows: []entity.Submission{
		{RowIndex: 2, FamilyName: "Ali", Status: workflow.StatePending},
	}}
	svc := newSubmissionService(&fakeRoster{}, ledgerFake, &fakeExtractor{})

	check, err := svc.CheckFamilyStatus(context.Background(), " Ali ")
	require.NoError(t, err)
	assert.True(t, check.Submitted)
	assert.Equal(t, workflow.StatePending, check.Status)

	check, err = svc.CheckFamilyStatus(context.Background(), "Ahmad")
	require.NoError(t, err)
	assert.False(t, check.Submitted)

	_, err = svc.CheckFamilyStatus(context.Background(), "  ")
	var validation *entity.ValidationError
	assert.ErrorAs(t, err, &validation)
}
