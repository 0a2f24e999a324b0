package entity

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Family is a registered family from the roster sheet. A roster snapshot is
// immutable; it is re-fetched on demand and never cached persistently.
type Family struct {
	Name     string `json:"name"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

// NormalizeName is the single place that defines how family names are matched
// between the roster and the ledger: trim surrounding whitespace, keep case.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// SortFamiliesByName sorts families ascending by name in place using a
// locale-aware comparison. Malay uses the Latin script, so this also behaves
// sensibly for the occasional English name in the sheet.
//
// A collate.Collator carries mutable iterator state, so each call builds its
// own; sorts may then run concurrently (one per reconciliation or roster
// fetch).
func SortFamiliesByName(families []Family) {
	collator := collate.New(language.Malay)
	sort.SliceStable(families, func(i, j int) bool {
		return collator.CompareString(families[i].Name, families[j].Name) < 0
	})
}
