package reconstruct

import "strings"

// Merge joins OCR line-wrapping artifacts. A description line is appended
// to the one above it when it starts further right, sits less than
// MergeGap below it on the same page, and the line above does not end in
// a colon.
//
// The sweep is a single greedy pass: a line absorbed into its predecessor
// is not considered as the head of another merge, so a sentence wrapped
// over three lines yields two rows.
func Merge(rows Ordered, cfg Config) Ordered {
	rows = Sort(rows)
	merged := make(Ordered, len(rows))
	copy(merged, rows)
	absorbed := make([]bool, len(rows))

	for i := 0; i+1 < len(rows); i++ {
		if absorbed[i] {
			continue
		}
		cur, next := rows[i], rows[i+1]
		if cur.Description == "" || next.Description == "" {
			continue
		}
		if continues(cur, next, cfg) {
			merged[i].Description = cur.Description + " " + next.Description
			absorbed[i+1] = true
		}
	}

	out := make(Ordered, 0, len(merged))
	for i, r := range merged {
		if !absorbed[i] {
			out = append(out, r)
		}
	}
	return out
}

func continues(cur, next Row, cfg Config) bool {
	if cur.Page != next.Page || strings.HasSuffix(cur.Description, ":") {
		return false
	}
	gap := next.TopY - cur.TopY
	return next.X > cur.X && gap >= 0 && gap < cfg.MergeGap
}
