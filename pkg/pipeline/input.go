package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gardar/tariffscan/pkg/gdocai"
	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/reconstruct"
	"github.com/gardar/tariffscan/pkg/table"
)

// Input is what a file holds: OCR records, or the rows of an
// intermediate table saved by an earlier run
type Input struct {
	Source  string
	Format  ledger.Format
	Records []ledger.WordRecord
	Rows    []reconstruct.Row
}

// Load reads path in any supported format. PDFs are sent to Document AI
// and need cfg.DocumentAI to be set.
func Load(ctx context.Context, path string, cfg Config) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in, err := Parse(ctx, data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.Source = path
	return in, nil
}

// Parse reads data in any supported format
func Parse(ctx context.Context, data []byte, cfg Config) (*Input, error) {
	in := &Input{Format: ledger.Detect(data)}
	log.WithFields(logrus.Fields{"format": in.Format, "bytes": len(data)}).Debug("Parsing input")

	var err error
	switch in.Format {
	case ledger.FormatCSV:
		if isIntermediate(data) {
			in.Rows, err = table.ReadIntermediate(bytes.NewReader(data))
		} else {
			in.Records, err = ledger.ReadCSV(bytes.NewReader(data))
		}
	case ledger.FormatHOCR:
		in.Records, err = ledger.ParseHOCR(data)
	case ledger.FormatDocAIJSON:
		doc, perr := gdocai.ParseJSON(data)
		if perr != nil {
			return nil, perr
		}
		in.Records = gdocai.RecordsFromProto(doc)
	case ledger.FormatPDF:
		doc, perr := gdocai.ProcessDocument(ctx, data, "application/pdf", &cfg.DocumentAI)
		if perr != nil {
			return nil, perr
		}
		in.Records = gdocai.RecordsFromProto(doc)
	default:
		return nil, fmt.Errorf("unsupported input format")
	}
	if err != nil {
		return nil, err
	}
	if len(in.Records) == 0 && len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: no records in %s input", ledger.ErrEmptyInput, in.Format)
	}
	return in, nil
}

// isIntermediate reports whether a CSV header is the intermediate table's
func isIntermediate(data []byte) bool {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	return bytes.Contains(header, []byte(table.ColCommodityDescription))
}

// RunInput runs the pipeline on whatever in holds. The intermediate table
// does not carry the rate columns, so a run resumed from one leaves both
// rate of duty columns empty.
func RunInput(ctx context.Context, in *Input, cfg Config) (*Result, error) {
	if len(in.Rows) > 0 {
		log.WithField("source", in.Source).Warn("Resuming from an intermediate table; rates of duty will be empty")
		return RunRows(ctx, in.Rows, nil, cfg)
	}
	return Run(ctx, in.Records, cfg)
}
