// Package extract reads a monetary amount off an uploaded payment receipt and
// decides whether the submission can be auto-approved.
package extract

import "context"

// The prompt mirrors the one the payment form used; the model is asked for a
// bare number so the first-numeric-token parse below stays trivial.
const extractionPrompt = "Extract the total payment amount from this receipt. " +
	"Return ONLY the number (e.g., 144). If you cannot find it, return 0."

// Extractor is the external document-understanding capability. Implementations
// return the model's raw text response for the receipt.
type Extractor interface {
	ExtractText(ctx context.Context, receipt []byte, mimeType string) (string, error)
}
