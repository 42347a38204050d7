package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Word ledger CSV columns, in the order WriteCSV emits them
const (
	ColWord         = "Word"
	ColConfidence   = "Confidence"
	ColTopLeftX     = "TopLeft_X"
	ColTopLeftY     = "TopLeft_Y"
	ColTopRightX    = "TopRight_X"
	ColTopRightY    = "TopRight_Y"
	ColBottomLeftX  = "BottomLeft_X"
	ColBottomLeftY  = "BottomLeft_Y"
	ColBottomRightX = "BottomRight_X"
	ColBottomRightY = "BottomRight_Y"
	ColPage         = "Page"
)

// Columns is the full word ledger header
var Columns = []string{
	ColWord, ColConfidence,
	ColTopLeftX, ColTopLeftY,
	ColTopRightX, ColTopRightY,
	ColBottomLeftX, ColBottomLeftY,
	ColBottomRightX, ColBottomRightY,
	ColPage,
}

// requiredColumns are the columns the reconstruction depends on
var requiredColumns = []string{ColWord, ColTopLeftX, ColTopLeftY, ColBottomRightY, ColPage}

// IndexColumns maps header names to their position and fails with
// ErrSchemaMismatch when any required column is absent.
func IndexColumns(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return idx, nil
}

// ParseFloat parses a finite numeric cell; pandas writes integers as "12.0"
func ParseFloat(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, fmt.Errorf("%w: empty numeric cell", ErrMalformedRecord)
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite value %q", ErrMalformedRecord, cell)
	}
	return v, nil
}

// ParsePage parses a 1-based page number cell
func ParsePage(cell string) (int, error) {
	v, err := ParseFloat(cell)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ReadCSV reads a word ledger CSV. Rows with missing text or position are
// skipped with a warning; a missing column or an empty result is fatal.
func ReadCSV(r io.Reader) ([]WordRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx, err := IndexColumns(header, requiredColumns...)
	if err != nil {
		return nil, err
	}

	var records []WordRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		rec, err := recordFromRow(row, idx)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) {
				log.WithFields(logrus.Fields{"line": line}).WithError(err).Warn("Skipping word record")
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no valid word records", ErrEmptyInput)
	}
	log.WithField("records", len(records)).Debug("Loaded word ledger")
	return records, nil
}

func cell(row []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func recordFromRow(row []string, idx map[string]int) (WordRecord, error) {
	var rec WordRecord
	text, _ := cell(row, idx, ColWord)
	rec.Text = strings.TrimSpace(text)

	num := func(name string) (float64, error) {
		c, _ := cell(row, idx, name)
		return ParseFloat(c)
	}
	// optional corners fall back to the axis-aligned box
	optional := func(name string, fallback float64) float64 {
		c, ok := cell(row, idx, name)
		if !ok {
			return fallback
		}
		v, err := ParseFloat(c)
		if err != nil {
			return fallback
		}
		return v
	}

	x1, err := num(ColTopLeftX)
	if err != nil {
		return rec, err
	}
	y1, err := num(ColTopLeftY)
	if err != nil {
		return rec, err
	}
	y2, err := num(ColBottomRightY)
	if err != nil {
		return rec, err
	}
	pageCell, _ := cell(row, idx, ColPage)
	if rec.Page, err = ParsePage(pageCell); err != nil {
		return rec, err
	}

	x2 := optional(ColBottomRightX, x1)
	rec.Box = Quad{
		TopLeft:     Point{X: x1, Y: y1},
		TopRight:    Point{X: optional(ColTopRightX, x2), Y: optional(ColTopRightY, y1)},
		BottomRight: Point{X: x2, Y: y2},
		BottomLeft:  Point{X: optional(ColBottomLeftX, x1), Y: optional(ColBottomLeftY, y2)},
	}
	rec.Confidence = optional(ColConfidence, 0)
	return rec, nil
}

// WriteCSV writes records in the word ledger format
func WriteCSV(w io.Writer, records []WordRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, r := range records {
		row := []string{
			r.Text, f(r.Confidence),
			f(r.Box.TopLeft.X), f(r.Box.TopLeft.Y),
			f(r.Box.TopRight.X), f(r.Box.TopRight.Y),
			f(r.Box.BottomLeft.X), f(r.Box.BottomLeft.Y),
			f(r.Box.BottomRight.X), f(r.Box.BottomRight.Y),
			strconv.Itoa(r.Page),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
