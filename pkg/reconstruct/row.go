package reconstruct

import (
	"sort"
	"strings"

	"github.com/gardar/tariffscan/pkg/classify"
)

// Row is one logical entry of the schedule under reconstruction.
// Positional fields are kept for downstream joins.
type Row struct {
	CommodityNumber         string
	Description             string
	HierarchicalDescription string
	TariffParagraph         string
	Page                    int
	X                       float64 // top-left X, the indentation anchor
	TopY                    float64
	BottomY                 float64
}

// IsParent reports whether the description is a heading such as "Cattle:"
func (r Row) IsParent() bool {
	return strings.HasSuffix(r.Description, ":")
}

// RowFromLine copies a classified line into a Row
func RowFromLine(l classify.Line) Row {
	return Row{
		CommodityNumber: l.CommodityNumber,
		Description:     strings.TrimSpace(l.Description),
		TariffParagraph: l.TariffParagraph,
		Page:            l.Page(),
		X:               l.X(),
		TopY:            l.TopY(),
		BottomY:         l.BottomY(),
	}
}

// Ordered is a sequence of rows in document order: page ascending, then
// top Y ascending. Build it with Sort.
type Ordered []Row

// Sort returns a copy of rows in document order. Rows sharing a page and
// top Y keep their input order.
func Sort(rows []Row) Ordered {
	out := make(Ordered, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].TopY < out[j].TopY
	})
	return out
}

// pageSpans returns [start, end) index pairs of each page in an Ordered slice
func pageSpans(rows Ordered) [][2]int {
	var spans [][2]int
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].Page != rows[start].Page {
			spans = append(spans, [2]int{start, i})
			start = i
		}
	}
	return spans
}
