// Package reconstruct rebuilds the logical rows of a tariff schedule from
// classified OCR lines.
//
// The table has no explicit structure: rows, nesting and shared codes are
// inferred from coordinates alone. Reconstruction runs in document order
// (page, then top Y) and in four steps:
//
//   - Merge joins lines the OCR engine split because they wrapped
//   - Group builds "Cattle: Weighing less than ..." from indentation
//   - Propagate broadcasts tariff paragraph codes to the rows they govern
//   - FillCommodityNumbers carries commodity numbers down to their rows
//
// Every step takes and returns an Ordered slice; nothing is shared
// between calls.
package reconstruct

import (
	"fmt"

	"github.com/gardar/tariffscan/pkg/classify"
	"github.com/gardar/tariffscan/pkg/ledger"
)

// Result holds the reconstruction output
type Result struct {
	// Rows is every row after propagation and commodity filling,
	// including bare commodity-number and tariff rows.
	Rows Ordered
	// Final is the subset that forms the output table
	Final []Row
}

// FromLines converts classified lines to rows in document order
func FromLines(lines []classify.Line) Ordered {
	rows := make([]Row, len(lines))
	for i, l := range lines {
		rows[i] = RowFromLine(l)
	}
	return Sort(rows)
}

// Reconstruct runs every step on lines
func Reconstruct(lines []classify.Line, cfg Config) (*Result, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no classified lines to reconstruct", ledger.ErrEmptyInput)
	}
	return ReconstructRows(FromLines(lines), cfg)
}

// ReconstructRows runs every step on rows loaded from an intermediate table
func ReconstructRows(rows []Row, cfg Config) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to reconstruct", ledger.ErrEmptyInput)
	}
	ordered := Merge(Sort(rows), cfg)
	ordered = Group(ordered)
	ordered = Propagate(ordered, cfg)
	ordered = FillCommodityNumbers(ordered)
	return &Result{Rows: ordered, Final: Finalize(ordered)}, nil
}
