package store

import (
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/tariffscan/pkg/table"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "db", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndRows(t *testing.T) {
	s := openTestStore(t)
	rows := []table.FinalRow{
		{CommodityNumber: "0010 600", Description: "Cattle: Calves", Unit: "No", Rate1930: "2½¢ lb", TariffParagraph: "701"},
		{CommodityNumber: "0010 700", Description: "Cattle: Other", Unit: "No", RateTrade: "1½¢ lb", TariffParagraph: "701"},
		{CommodityNumber: "0020 000", Description: "Sheep and lambs"},
	}

	run, err := s.SaveRun("page-28.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, 3, run.RowCount)
	_, err = ulid.ParseStrict(run.ID)
	assert.NoError(t, err)

	got, err := s.Rows(run.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestRunsAreOrdered(t *testing.T) {
	s := openTestStore(t)
	first, err := s.SaveRun("a.csv", []table.FinalRow{{Description: "a"}})
	require.NoError(t, err)
	second, err := s.SaveRun("b.csv", nil)
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, "b.csv", runs[1].Source)
	assert.Empty(t, runs[0].Rows, "rows are not loaded by Runs")
}

func TestRowsUnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Rows("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestEmptyRun(t *testing.T) {
	s := openTestStore(t)
	run, err := s.SaveRun("empty.csv", nil)
	require.NoError(t, err)

	got, err := s.Rows(run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
