// Package roster reads the registered-family list from the published roster
// sheet (CSV export). The roster is the authoritative source for family names
// and attendance counts; it is fetched fresh on demand and never cached.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
)

// Sheet column layout: column A is a running number the parser ignores.
const (
	colName     = 1
	colAdults   = 2
	colChildren = 3
	minColumns  = 4
)

// ParseCSV parses the roster sheet. The first row is the header and is
// discarded; rows with a blank name are skipped; non-numeric counts parse as
// zero. Families are returned sorted ascending by name.
func ParseCSV(r io.Reader) ([]entity.Family, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // the sheet has ragged trailing columns

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster CSV: %w", err)
	}

	families := make([]entity.Family, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < minColumns {
			continue
		}

		name := entity.NormalizeName(row[colName])
		if name == "" {
			continue
		}

		families = append(families, entity.Family{
			Name:     name,
			Adults:   parseCount(row[colAdults]),
			Children: parseCount(row[colChildren]),
		})
	}

	entity.SortFamiliesByName(families)
	return families, nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(entity.NormalizeName(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
