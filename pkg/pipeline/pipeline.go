// Package pipeline runs every stage of a schedule reconstruction, from OCR
// records to the six-column table.
//
// Stages run in order and each consumes the previous stage's output:
// record filter, line classifier, row reconstruction, unit inference and
// rate extraction.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gardar/tariffscan/pkg/classify"
	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/rates"
	"github.com/gardar/tariffscan/pkg/reconstruct"
	"github.com/gardar/tariffscan/pkg/table"
	"github.com/gardar/tariffscan/pkg/units"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the pipeline package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetFormatter sets the log formatter for the pipeline package
func SetFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}

// Result holds the output of every stage of one run
type Result struct {
	Lines []classify.Line   // classified lines; empty when the run started from rows
	Input []reconstruct.Row // rows before reconstruction, for the intermediate table
	Rows  reconstruct.Ordered
	Final []reconstruct.Row
	Table []table.FinalRow
}

// Run reconstructs the schedule held in records
func Run(ctx context.Context, records []ledger.WordRecord, cfg Config) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no word records", ledger.ErrEmptyInput)
	}

	classifier := classify.New(cfg.Classifier)
	kept, banded := classifier.Filter(records)
	lines := classifier.Lines(kept)
	log.WithFields(logrus.Fields{
		"records": len(records),
		"kept":    len(kept),
		"banded":  len(banded),
		"lines":   len(lines),
	}).Debug("Classified records")
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines left after filtering", ledger.ErrEmptyInput)
	}

	result, err := RunRows(ctx, reconstruct.FromLines(lines), rates.Candidates(banded), cfg)
	if err != nil {
		return nil, err
	}
	result.Lines = lines
	return result, nil
}

// RunRows reconstructs the schedule from unreconstructed rows, such as
// an intermediate table saved by an earlier run
func RunRows(ctx context.Context, rows []reconstruct.Row, candidates []rates.Candidate, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := make([]reconstruct.Row, len(rows))
	anchors := make([]rates.Anchor, 0)
	for i, r := range rows {
		r.HierarchicalDescription = ""
		input[i] = r
		if r.CommodityNumber != "" {
			anchors = append(anchors, rates.Anchor{Number: r.CommodityNumber, Page: r.Page, Y: r.TopY})
		}
	}

	rebuilt, err := reconstruct.ReconstructRows(input, cfg.Reconstruct)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inferencer, err := units.New(cfg.Units)
	if err != nil {
		return nil, err
	}
	var numbers, descriptions []string
	for _, r := range rebuilt.Rows {
		numbers = append(numbers, r.CommodityNumber)
		descriptions = append(descriptions, r.Description)
	}
	unitContext := units.Context(numbers, descriptions)
	found := rates.Attach(candidates, anchors, cfg.Rates)

	out := make([]table.FinalRow, 0, len(rebuilt.Final))
	for _, r := range rebuilt.Final {
		rate := found[r.CommodityNumber]
		out = append(out, table.FinalRow{
			CommodityNumber: r.CommodityNumber,
			Description:     r.HierarchicalDescription,
			Unit:            inferencer.Infer(r.HierarchicalDescription, unitContext[r.CommodityNumber]),
			Rate1930:        rate.Rate1930,
			RateTrade:       rate.Trade,
			TariffParagraph: r.TariffParagraph,
		})
	}

	log.WithFields(logrus.Fields{
		"rows":       len(rebuilt.Rows),
		"final":      len(out),
		"rate_codes": len(found),
	}).Info("Reconstructed schedule")

	return &Result{Input: input, Rows: rebuilt.Rows, Final: rebuilt.Final, Table: out}, nil
}
