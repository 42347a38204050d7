package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/table"
)

func record(text string, x, y float64) ledger.WordRecord {
	return ledger.WordRecord{Text: text, Box: ledger.NewRect(x, y, x+300, y+18), Page: 28, Confidence: 0.9}
}

// page28 is a trimmed Schedule A page with a header, two commodities and
// rates in the right-hand columns
func page28() []ledger.WordRecord {
	return []ledger.WordRecord{
		record("SCHEDULE A", 600, 20),
		record("Cattle:", 10, 100),
		record("0010 600", 2, 130),
		record("Weighing less than 200 pounds each", 50, 130),
		record("Free", 1400, 132),
		record("(calves).", 60, 160),
		record("701", 1200, 165),
		record("0010 700", 2, 300),
		record("Weighing 200 pounds or more each", 50, 300),
		record("31b", 1800, 302),
		record("702", 1200, 320),
		record("- 28 -", 900, 2800),
	}
}

var expectedTable = []table.FinalRow{
	{
		CommodityNumber: "0010 600",
		Description:     "Cattle: Weighing less than 200 pounds each (calves).",
		Unit:            "No",
		Rate1930:        "Free",
		TariffParagraph: "701",
	},
	{
		CommodityNumber: "0010 700",
		Description:     "Cattle: Weighing 200 pounds or more each",
		Unit:            "No",
		RateTrade:       "3¢ lb",
		TariffParagraph: "702",
	},
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), page28(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, expectedTable, result.Table)
	assert.Len(t, result.Final, 2)
	for _, l := range result.Lines {
		assert.NotEqual(t, "SCHEDULE A", l.Record.Text)
		assert.NotEqual(t, "Free", l.Record.Text, "rate columns are not classified")
	}
}

func TestRunFromIntermediate(t *testing.T) {
	first, err := Run(context.Background(), page28(), DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteIntermediate(&buf, first.Input, false))

	in, err := Parse(context.Background(), buf.Bytes(), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, in.Rows)
	assert.Empty(t, in.Records)

	second, err := RunInput(context.Background(), in, DefaultConfig())
	require.NoError(t, err)

	// rate candidates are not part of the intermediate table
	want := make([]table.FinalRow, len(expectedTable))
	copy(want, expectedTable)
	for i := range want {
		want[i].Rate1930, want[i].RateTrade = "", ""
	}
	assert.Equal(t, want, second.Table)
}

func TestParseWordLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ledger.WriteCSV(&buf, page28()))

	in, err := Parse(context.Background(), buf.Bytes(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, ledger.FormatCSV, in.Format)
	assert.Len(t, in.Records, len(page28()))

	result, err := RunInput(context.Background(), in, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, expectedTable, result.Table)
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse(context.Background(), []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, DefaultConfig())
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), nil, DefaultConfig())
	assert.ErrorIs(t, err, ledger.ErrEmptyInput)

	// only header lines
	_, err = Run(context.Background(), []ledger.WordRecord{record("SCHEDULE A", 600, 20)}, DefaultConfig())
	assert.ErrorIs(t, err, ledger.ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, page28(), DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariffscan.yml")
	data := `
classifier:
  skip_leading: 14
reconstruct:
  merge_gap: 40
units:
  default_unit: "No"
documentai:
  project_id: "scan-project"
  location: "eu"
  processor_id: "abc123"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Classifier.SkipLeading)
	assert.Equal(t, 40.0, cfg.Reconstruct.MergeGap)
	assert.Equal(t, "No", cfg.Units.DefaultUnit)
	assert.Equal(t, "eu", cfg.DocumentAI.Location)

	// untouched keys keep their defaults
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Classifier.FooterY, cfg.Classifier.FooterY)
	assert.Equal(t, defaults.Classifier.SkipPhrases, cfg.Classifier.SkipPhrases)
	assert.Equal(t, defaults.Reconstruct.ProximityWindow, cfg.Reconstruct.ProximityWindow)
	assert.Equal(t, defaults.Rates, cfg.Rates)
	assert.NotEmpty(t, cfg.Units.Categories)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("reconstruct:\n  merge_gap: 0\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}
