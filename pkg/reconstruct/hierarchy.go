package reconstruct

import (
	"sort"
	"strings"
)

// indentationLevels ranks the distinct X start positions of the
// description rows on one page, leftmost = 0. Positions are compared
// exactly; nearby values are not snapped together.
func indentationLevels(rows Ordered) map[float64]int {
	seen := make(map[float64]bool)
	var xs []float64
	for _, r := range rows {
		if r.Description == "" || seen[r.X] {
			continue
		}
		seen[r.X] = true
		xs = append(xs, r.X)
	}
	sort.Float64s(xs)

	levels := make(map[float64]int, len(xs))
	for level, x := range xs {
		levels[x] = level
	}
	return levels
}

// Group assigns each description row its hierarchical description: the
// parent labels (descriptions ending in ':') active at shallower
// indentation levels, followed by the row's own text.
//
// Parent rows carry no hierarchical description and are removed. Rows
// without a description (commodity numbers, tariff codes) pass through
// untouched for propagation.
func Group(rows Ordered) Ordered {
	rows = Sort(rows)
	out := make(Ordered, 0, len(rows))

	for _, span := range pageSpans(rows) {
		page := rows[span[0]:span[1]]
		levels := indentationLevels(page)
		// text currently active at each level; reset per page
		active := make([]string, len(levels))

		for _, r := range page {
			desc := strings.TrimSpace(r.Description)
			if desc == "" {
				out = append(out, r)
				continue
			}

			level := levels[r.X]
			active[level] = desc
			for deeper := level + 1; deeper < len(active); deeper++ {
				active[deeper] = ""
			}

			if r.IsParent() {
				if r.HierarchicalDescription != "" {
					out = append(out, r)
				}
				continue
			}

			r.HierarchicalDescription = withAncestors(active[:level], desc)
			out = append(out, r)
		}
	}
	return out
}

// withAncestors prefixes desc with every ancestor that is a parent label
func withAncestors(ancestors []string, desc string) string {
	parts := make([]string, 0, len(ancestors)+1)
	for _, text := range ancestors {
		if strings.HasSuffix(text, ":") {
			parts = append(parts, text)
		}
	}
	return strings.Join(append(parts, desc), " ")
}
