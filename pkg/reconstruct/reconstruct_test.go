package reconstruct

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/tariffscan/pkg/classify"
	"github.com/gardar/tariffscan/pkg/ledger"
)

func desc(page int, x, y float64, text string) Row {
	return Row{Description: text, Page: page, X: x, TopY: y, BottomY: y + 15}
}

func code(page int, y float64, value string) Row {
	return Row{TariffParagraph: value, Page: page, X: 1200, TopY: y - 15, BottomY: y}
}

func number(page int, y float64, value string) Row {
	return Row{CommodityNumber: value, Page: page, X: 2, TopY: y, BottomY: y + 15}
}

func descriptions(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Description)
	}
	return out
}

func TestSortIsStableByPageThenY(t *testing.T) {
	rows := []Row{
		desc(2, 10, 50, "c"),
		desc(1, 10, 90, "b"),
		desc(1, 40, 20, "a1"),
		desc(1, 10, 20, "a2"),
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, descriptions(Sort(rows)))
	// input untouched
	assert.Equal(t, "c", rows[0].Description)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name     string
		rows     []Row
		expected []string
	}{
		{
			name:     "wrapped line is joined",
			rows:     []Row{desc(1, 50, 110, "Weighing less than 200"), desc(1, 70, 118, "pounds each.")},
			expected: []string{"Weighing less than 200 pounds each."},
		},
		{
			name:     "colon ends a heading",
			rows:     []Row{desc(1, 10, 100, "Cattle:"), desc(1, 50, 110, "Weighing")},
			expected: []string{"Cattle:", "Weighing"},
		},
		{
			name:     "same indentation is a new row",
			rows:     []Row{desc(1, 50, 100, "Calves"), desc(1, 50, 110, "Cows")},
			expected: []string{"Calves", "Cows"},
		},
		{
			name:     "gap at threshold is not a wrap",
			rows:     []Row{desc(1, 50, 100, "Calves"), desc(1, 60, 150, "Cows")},
			expected: []string{"Calves", "Cows"},
		},
		{
			name:     "page break is not a wrap",
			rows:     []Row{desc(1, 50, 3000, "Calves"), desc(2, 60, 10, "Cows")},
			expected: []string{"Calves", "Cows"},
		},
		{
			name:     "three-way wrap merges once",
			rows:     []Row{desc(1, 50, 100, "a"), desc(1, 60, 110, "b"), desc(1, 70, 120, "c")},
			expected: []string{"a b", "c"},
		},
		{
			name:     "non-description neighbour blocks the merge",
			rows:     []Row{desc(1, 50, 100, "a"), number(1, 105, "0010 600"), desc(1, 60, 110, "b")},
			expected: []string{"a", "", "b"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Merge(Sort(tc.rows), cfg)
			assert.Equal(t, tc.expected, descriptions(out))

			// never grows, never loses a fragment
			assert.LessOrEqual(t, len(out), len(tc.rows))
			joined := strings.Join(descriptions(out), "\n")
			for _, r := range tc.rows {
				assert.Contains(t, joined, r.Description)
			}
		})
	}
}

func TestGroupCattle(t *testing.T) {
	rows := Sort([]Row{
		desc(1, 10, 100, "Cattle:"),
		desc(1, 50, 110, "Weighing less than 200 pounds each (calves)."),
		desc(1, 70, 115, "Weighing 200 pounds and less than 700 pounds each."),
	})
	out := Group(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "Cattle: Weighing less than 200 pounds each (calves).", out[0].HierarchicalDescription)
	assert.Equal(t, "Cattle: Weighing 200 pounds and less than 700 pounds each.", out[1].HierarchicalDescription)
}

func TestReconstructCattleMergesCloseSiblings(t *testing.T) {
	rows := []Row{
		desc(1, 10, 100, "Cattle:"),
		desc(1, 50, 110, "Weighing less than 200 pounds each (calves)."),
		desc(1, 70, 115, "Weighing 200 pounds and less than 700 pounds each."),
	}

	// the second child starts 5px below and 20px right of the first, so the
	// merge step reads it as a wrapped continuation before grouping
	result, err := ReconstructRows(rows, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, result.Final, 1)
	assert.Equal(t,
		"Cattle: Weighing less than 200 pounds each (calves). Weighing 200 pounds and less than 700 pounds each.",
		result.Final[0].HierarchicalDescription)

	// children a full line apart stay separate rows
	rows[2] = desc(1, 70, 160, "Weighing 200 pounds and less than 700 pounds each.")
	result, err = ReconstructRows(rows, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, result.Final, 2)
	assert.Equal(t, "Cattle: Weighing less than 200 pounds each (calves).", result.Final[0].HierarchicalDescription)
	assert.Equal(t, "Cattle: Weighing 200 pounds and less than 700 pounds each.", result.Final[1].HierarchicalDescription)
}

func TestGroup(t *testing.T) {
	rows := Sort([]Row{
		desc(1, 10, 100, "Live animals:"),
		desc(1, 30, 120, "Cattle:"),
		desc(1, 50, 140, "Calves"),
		desc(1, 30, 160, "Horses"),
		desc(1, 10, 180, "Meat, fresh"),
		desc(1, 50, 200, "Lard"),
		number(1, 210, "0010 600"),
		desc(2, 50, 100, "Sheep"),
	})
	out := Group(rows)

	var got []string
	for _, r := range out {
		got = append(got, r.HierarchicalDescription)
	}
	assert.Equal(t, []string{
		"Live animals: Cattle: Calves",
		"Live animals: Horses",
		"Meat, fresh",
		"Lard", // ancestor without colon is not a parent
		"",     // commodity number row passes through
		"Sheep",
	}, got)
}

func TestGroupResetsPerPage(t *testing.T) {
	rows := Sort([]Row{
		desc(1, 10, 100, "Cattle:"),
		desc(2, 50, 100, "Calves"),
	})
	out := Group(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "Calves", out[0].HierarchicalDescription)
}

func TestGroupKeepsParentWithContent(t *testing.T) {
	parent := desc(1, 10, 100, "Cattle:")
	parent.HierarchicalDescription = "Cattle:"
	out := Group(Ordered{parent})
	require.Len(t, out, 1)
}

func TestGroupHierarchyIsWellFormed(t *testing.T) {
	rows := Sort([]Row{
		desc(1, 10, 100, "A:"),
		desc(1, 20, 200, "B:"),
		desc(1, 30, 300, "C:"),
		desc(1, 40, 400, "leaf one"),
		desc(1, 20, 500, "leaf two"),
		desc(1, 30, 600, "leaf three"),
	})
	levels := indentationLevels(rows)
	labelLevel := map[string]int{}
	for _, r := range rows {
		if r.IsParent() {
			labelLevel[r.Description] = levels[r.X]
		}
	}

	for _, r := range Group(rows) {
		prefix := strings.TrimSuffix(r.HierarchicalDescription, r.Description)
		for _, part := range strings.Fields(prefix) {
			assert.True(t, strings.HasSuffix(part, ":"), part)
			assert.Less(t, labelLevel[part], levels[r.X])
		}
	}
}

func TestPropagateProximity(t *testing.T) {
	row := desc(1, 50, 480, "Live cattle")
	row.HierarchicalDescription = row.Description
	row.BottomY = 495

	out := Propagate(Sort([]Row{row, code(1, 500, "701")}), DefaultConfig())
	require.Len(t, out, 2)
	assert.Equal(t, "701", out[0].TariffParagraph)
}

func TestPropagateForward(t *testing.T) {
	sheep := desc(1, 50, 100, "Sheep and lambs")
	sheep.HierarchicalDescription = sheep.Description
	goats := desc(1, 50, 165, "Goats")
	goats.HierarchicalDescription = goats.Description
	horses := desc(1, 50, 245, "Horses")
	horses.HierarchicalDescription = horses.Description

	// 702 sits 40 below the sheep row: window runs to 155+40+10
	out := Propagate(Sort([]Row{sheep, code(1, 155, "702"), goats, horses}), DefaultConfig())

	got := map[string]string{}
	for _, r := range out {
		got[r.Description] = r.TariffParagraph
	}
	assert.Equal(t, "702", got["Sheep and lambs"])
	assert.Equal(t, "702", got["Goats"])
	assert.Equal(t, "", got["Horses"], "no code left below horses")
}

func TestPropagateBroadcastsToPrecedingRows(t *testing.T) {
	a := desc(1, 50, 85, "Calves")
	a.HierarchicalDescription = a.Description
	b := desc(1, 50, 115, "Cows")
	b.HierarchicalDescription = b.Description

	out := Propagate(Sort([]Row{a, b, code(1, 150, "701")}), DefaultConfig())
	assert.Equal(t, "701", out[0].TariffParagraph)
	assert.Equal(t, "701", out[1].TariffParagraph)
}

func TestPropagateIgnoresCodesOnOtherPages(t *testing.T) {
	a := desc(1, 50, 85, "Calves")
	a.HierarchicalDescription = a.Description

	out := Propagate(Sort([]Row{a, code(2, 102, "701")}), DefaultConfig())
	assert.Equal(t, "", out[0].TariffParagraph)
}

func TestFillCommodityNumbers(t *testing.T) {
	rows := Sort([]Row{
		desc(1, 50, 100, "Calves"),
		number(1, 110, "0010 600"),
		desc(1, 50, 120, "Cows"),
		number(1, 200, "0010 700"),
		desc(1, 50, 210, "Bulls"),
	})
	out := FillCommodityNumbers(rows)
	got := map[string]string{}
	for _, r := range out {
		if r.Description != "" {
			got[r.Description] = r.CommodityNumber
		}
	}
	assert.Equal(t, map[string]string{"Calves": "0010 600", "Cows": "0010 600", "Bulls": "0010 700"}, got)
}

func TestReconstruct(t *testing.T) {
	rec := func(text string, x, y float64) ledger.WordRecord {
		return ledger.WordRecord{Text: text, Box: ledger.NewRect(x, y, x+300, y+18), Page: 28, Confidence: 0.9}
	}
	records := []ledger.WordRecord{
		rec("Cattle:", 10, 100),
		rec("0010 600", 2, 130),
		rec("Weighing less than 200 pounds each", 50, 130),
		rec("(calves).", 60, 160),
		rec("701", 1200, 165),
		rec("0010 700", 2, 300),
		rec("Weighing 200 pounds or more each", 50, 300),
		rec("702", 1200, 320),
	}
	lines := classify.New(classify.DefaultConfig()).Lines(records)

	result, err := Reconstruct(lines, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, result.Final, 2)

	assert.Equal(t, "Cattle: Weighing less than 200 pounds each (calves).", result.Final[0].HierarchicalDescription)
	assert.Equal(t, "0010 600", result.Final[0].CommodityNumber)
	assert.Equal(t, "701", result.Final[0].TariffParagraph)

	assert.Equal(t, "Cattle: Weighing 200 pounds or more each", result.Final[1].HierarchicalDescription)
	assert.Equal(t, "0010 700", result.Final[1].CommodityNumber)
	assert.Equal(t, "702", result.Final[1].TariffParagraph)

	// all non-parent rows survive in Rows for the intermediate table
	assert.Greater(t, len(result.Rows), len(result.Final))
}

func TestReconstructEmpty(t *testing.T) {
	_, err := Reconstruct(nil, DefaultConfig())
	assert.ErrorIs(t, err, ledger.ErrEmptyInput)
}
