package extract

import (
	"regexp"
	"strconv"
)

// First numeric token with an optional decimal fraction. Thousands separators
// are not expected on the receipts this system sees.
var amountPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseAmount extracts the first numeric token from model output.
// Returns the matched token, its numeric value, and whether a token was found.
func ParseAmount(text string) (string, float64, bool) {
	token := amountPattern.FindString(text)
	if token == "" {
		return "", 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return "", 0, false
	}

	return token, value, true
}
