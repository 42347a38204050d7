package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/pipeline"
	"github.com/gardar/tariffscan/pkg/store"
	"github.com/gardar/tariffscan/pkg/table"
)

func TestDerivedOutputs(t *testing.T) {
	out := derivedOutputs("/in/page-28.hocr", true, false)
	assert.Equal(t, outputs{table: "/in/page-28.table.csv", intermediate: "/in/page-28.lines.csv"}, out)

	for _, path := range []string{out.table, out.intermediate, "/in/page-28.markup.pdf"} {
		assert.True(t, isOutput(path), path)
	}
	assert.False(t, isOutput("/in/page-28.csv"))
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	rec := func(text string, x, y float64) ledger.WordRecord {
		return ledger.WordRecord{Text: text, Box: ledger.NewRect(x, y, x+300, y+18), Page: 1, Confidence: 0.9}
	}
	input := filepath.Join(dir, "page.csv")
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, ledger.WriteCSV(f, []ledger.WordRecord{
		rec("Sheep:", 10, 100),
		rec("0020 000", 2, 130),
		rec("Lambs", 50, 130),
		rec("702", 1200, 140),
	}))
	require.NoError(t, f.Close())

	db, err := store.Open(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	out := derivedOutputs(input, true, true)
	require.NoError(t, process(t.Context(), input, out, pipeline.DefaultConfig(), db))

	data, err := os.Open(out.table)
	require.NoError(t, err)
	defer data.Close()
	rows, err := table.ReadFinal(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sheep: Lambs", rows[0].Description)
	assert.Equal(t, "0020 000", rows[0].CommodityNumber)
	assert.Equal(t, "702", rows[0].TariffParagraph)
	assert.Equal(t, "No", rows[0].Unit)

	assert.FileExists(t, out.intermediate)
	assert.FileExists(t, out.markup)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, input, runs[0].Source)
}
