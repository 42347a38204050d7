package reconstruct

import "math"

// Propagate gives every row with a hierarchical description a tariff
// paragraph. A code whose bottom edge lies within ProximityWindow below
// the row's bottom edge on the same page is copied directly. Otherwise the
// next code in document order is broadcast to every row on its page that
// lies between the row and the code (extended by the row-to-code distance
// plus ForwardSlack) and has no code yet.
//
// Rows no rule reaches keep an empty tariff paragraph.
func Propagate(rows Ordered, cfg Config) Ordered {
	rows = Sort(rows)

	for i := range rows {
		if rows[i].HierarchicalDescription == "" {
			continue
		}
		y := rows[i].BottomY

		if code, ok := nearbyCode(rows, rows[i].Page, y, y+cfg.ProximityWindow); ok {
			rows[i].TariffParagraph = code
			continue
		}

		j := nextCode(rows, i)
		if j < 0 {
			continue
		}
		source := rows[j]
		distance := math.Abs(source.BottomY - y)
		maxY := source.BottomY + distance + cfg.ForwardSlack
		for k := range rows {
			r := &rows[k]
			if r.Page == source.Page && r.TariffParagraph == "" && r.BottomY >= y && r.BottomY <= maxY {
				r.TariffParagraph = source.TariffParagraph
			}
		}
	}
	return rows
}

// nearbyCode returns the first code on page whose bottom Y is in [minY, maxY]
func nearbyCode(rows Ordered, page int, minY, maxY float64) (string, bool) {
	for _, r := range rows {
		if r.TariffParagraph != "" && r.Page == page && r.BottomY >= minY && r.BottomY <= maxY {
			return r.TariffParagraph, true
		}
	}
	return "", false
}

// nextCode returns the index of the first row after i carrying a code, or -1
func nextCode(rows Ordered, i int) int {
	for j := i + 1; j < len(rows); j++ {
		if rows[j].TariffParagraph != "" {
			return j
		}
	}
	return -1
}

// FillCommodityNumbers carries each commodity number down to the rows
// below it until the next number. A leading first row without a number
// takes the first number found below it.
func FillCommodityNumbers(rows Ordered) Ordered {
	rows = Sort(rows)

	last := ""
	for i := range rows {
		if rows[i].CommodityNumber != "" {
			last = rows[i].CommodityNumber
			continue
		}
		rows[i].CommodityNumber = last
	}

	if len(rows) > 0 && rows[0].CommodityNumber == "" {
		for _, r := range rows[1:] {
			if r.CommodityNumber != "" {
				rows[0].CommodityNumber = r.CommodityNumber
				break
			}
		}
	}
	return rows
}

// Finalize keeps the rows that carry a hierarchical description
func Finalize(rows Ordered) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.HierarchicalDescription != "" {
			out = append(out, r)
		}
	}
	return out
}
