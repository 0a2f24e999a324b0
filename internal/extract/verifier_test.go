package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, receipt []byte, mimeType string) (string, error) {
	return f.text, f.err
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantToken string
		wantValue float64
		wantOK    bool
	}{
		{"bare number", "60", "60", 60, true},
		{"decimal fraction", "Total: 60.00", "60.00", 60, true},
		{"leading text", "RM 144", "144", 144, true},
		{"first token wins", "paid 30 of 90", "30", 30, true},
		{"no number", "tak jumpa", "", 0, false},
		{"empty", "", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, value, ok := ParseAmount(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestVerify_MatchingAmountApproves(t *testing.T) {
	v := NewVerifier(&fakeExtractor{text: "Total: 60.00"}, zap.NewNop())

	result := v.Verify(context.Background(), []byte("receipt"), "image/png", 60)

	assert.Equal(t, workflow.StateApproved, result.InitialStatus)
	assert.Equal(t, "60.00", result.ExtractedAmount)
}

func TestVerify_MismatchStaysPending(t *testing.T) {
	v := NewVerifier(&fakeExtractor{text: "58"}, zap.NewNop())

	result := v.Verify(context.Background(), []byte("receipt"), "image/png", 60)

	assert.Equal(t, workflow.StatePending, result.InitialStatus)
	assert.Equal(t, "58", result.ExtractedAmount)
}

func TestVerify_ExtractionFailureDegrades(t *testing.T) {
	v := NewVerifier(&fakeExtractor{err: errors.New("model unreachable")}, zap.NewNop())

	result := v.Verify(context.Background(), []byte("receipt"), "image/png", 60)

	assert.Equal(t, workflow.StatePending, result.InitialStatus)
	assert.Empty(t, result.ExtractedAmount)
}

func TestVerify_UnparsableTextDegrades(t *testing.T) {
	v := NewVerifier(&fakeExtractor{text: "cannot read this receipt"}, zap.NewNop())

	result := v.Verify(context.Background(), []byte("receipt"), "image/png", 60)

	assert.Equal(t, workflow.StatePending, result.InitialStatus)
	assert.Empty(t, result.ExtractedAmount)
}

func TestVerify_NeverRejects(t *testing.T) {
	for _, text := range []string{"0", "999999", "58.5", ""} {
		v := NewVerifier(&fakeExtractor{text: text}, zap.NewNop())
		result := v.Verify(context.Background(), []byte("receipt"), "image/png", 60)
		assert.NotEqual(t, workflow.StateRejected, result.InitialStatus, "text %q", text)
	}
}
