// Package table reads and writes the two CSV tables of a run: the
// intermediate table of classified lines and the final six-column
// schedule. Column names and order are a contract with downstream users.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/reconstruct"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the table package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetFormatter sets the log formatter for the table package
func SetFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}

// Intermediate table columns
const (
	ColPage                    = "Page"
	ColTopLeftX                = "TopLeft_X"
	ColTopLeftY                = "TopLeft_Y"
	ColBottomRightY            = "BottomRight_Y"
	ColCommodityNumber         = "Commodity Number"
	ColCommodityDescription    = "Commodity Description"
	ColTariffParagraph         = "Tariff Paragraph"
	ColHierarchicalDescription = "Hierarchical Description"
)

// Final table columns
const (
	ColScheduleNumber  = "SCHEDULE A COMMODITY NUMBER"
	ColDescription     = "COMMODITY DESCRIPTION AND ECONOMIC CLASS"
	ColUnit            = "UNIT OF QUANTITY"
	ColRate1930        = "RATE OF DUTY 1930"
	ColRateTrade       = "RATE OF DUTY TRADE AGREEMENT"
	ColFinalTariffPara = "TARIFF PARAGRAPH"
)

// IntermediateColumns is the intermediate header without the hierarchy column
var IntermediateColumns = []string{
	ColPage, ColTopLeftX, ColTopLeftY, ColBottomRightY,
	ColCommodityNumber, ColCommodityDescription, ColTariffParagraph,
}

// FinalColumns is the final header, exactly and in order
var FinalColumns = []string{
	ColScheduleNumber, ColDescription, ColUnit,
	ColRate1930, ColRateTrade, ColFinalTariffPara,
}

// FinalRow is one row of the output schedule. Unpopulated cells are "".
type FinalRow struct {
	CommodityNumber string
	Description     string
	Unit            string
	Rate1930        string
	RateTrade       string
	TariffParagraph string
}

func (r FinalRow) cells() []string {
	return []string{r.CommodityNumber, r.Description, r.Unit, r.Rate1930, r.RateTrade, r.TariffParagraph}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteIntermediate writes rows as the intermediate table. With hierarchy
// set, the Hierarchical Description column is appended.
func WriteIntermediate(w io.Writer, rows []reconstruct.Row, hierarchy bool) error {
	header := append([]string(nil), IntermediateColumns...)
	if hierarchy {
		header = append(header, ColHierarchicalDescription)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		cells := []string{
			strconv.Itoa(r.Page), formatFloat(r.X), formatFloat(r.TopY), formatFloat(r.BottomY),
			r.CommodityNumber, r.Description, r.TariffParagraph,
		}
		if hierarchy {
			cells = append(cells, r.HierarchicalDescription)
		}
		if err := writer.Write(cells); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadIntermediate reads an intermediate table. Rows with a bad page or
// coordinate are skipped; the Hierarchical Description column is optional.
func ReadIntermediate(r io.Reader) ([]reconstruct.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ledger.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx, err := ledger.IndexColumns(header, IntermediateColumns...)
	if err != nil {
		return nil, err
	}
	get := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []reconstruct.Row
	for line := 2; ; line++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		row, err := intermediateRow(cells, get)
		if errors.Is(err, ledger.ErrMalformedRecord) {
			log.WithField("line", line).WithError(err).Warn("Skipping intermediate row")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: intermediate table has no rows", ledger.ErrEmptyInput)
	}
	return rows, nil
}

func intermediateRow(cells []string, get func([]string, string) string) (reconstruct.Row, error) {
	row := reconstruct.Row{
		CommodityNumber:         get(cells, ColCommodityNumber),
		Description:             get(cells, ColCommodityDescription),
		TariffParagraph:         get(cells, ColTariffParagraph),
		HierarchicalDescription: get(cells, ColHierarchicalDescription),
	}
	var err error
	if row.Page, err = ledger.ParsePage(get(cells, ColPage)); err != nil {
		return row, err
	}
	if row.X, err = ledger.ParseFloat(get(cells, ColTopLeftX)); err != nil {
		return row, err
	}
	if row.TopY, err = ledger.ParseFloat(get(cells, ColTopLeftY)); err != nil {
		return row, err
	}
	if row.BottomY, err = ledger.ParseFloat(get(cells, ColBottomRightY)); err != nil {
		return row, err
	}
	return row, nil
}

// WriteFinal writes the six-column schedule
func WriteFinal(w io.Writer, rows []FinalRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(FinalColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.cells()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadFinal reads a six-column schedule. Every final column is required.
func ReadFinal(r io.Reader) ([]FinalRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ledger.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx, err := ledger.IndexColumns(header, FinalColumns...)
	if err != nil {
		return nil, err
	}

	var rows []FinalRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			if i := idx[name]; i < len(cells) {
				return cells[i]
			}
			return ""
		}
		rows = append(rows, FinalRow{
			CommodityNumber: get(ColScheduleNumber),
			Description:     get(ColDescription),
			Unit:            get(ColUnit),
			Rate1930:        get(ColRate1930),
			RateTrade:       get(ColRateTrade),
			TariffParagraph: get(ColFinalTariffPara),
		})
	}
	return rows, nil
}
