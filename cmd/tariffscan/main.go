// tariffscan is a command-line tool for rebuilding the table of a scanned
// tariff schedule from its OCR output.
//
// The input may be a word ledger CSV, an hOCR file, a saved Document AI
// response, an intermediate table from an earlier run, or a scanned PDF
// (sent to Document AI, which needs the documentai section of the config).
//
// Usage:
//
//	tariffscan -input page-28.csv -output final-table.csv [options]
//	tariffscan -watch ./incoming [options]
//
// Flags:
//
//	-config string        Path to the YAML configuration file (defaults built in)
//	-input string         Path to the OCR input file
//	-output string        Path to save the final table CSV (stdout when empty)
//	-intermediate string  Path to save the intermediate table CSV
//	-markup string        Path to save a debug PDF of lines and rows
//	-db string            SQLite database to record every run in
//	-watch string         Directory to watch for new OCR files
//	-log-level string     debug, info, warn or error (default "info")
//
// In watch mode every output is written next to the input file as
// <name>.table.csv, <name>.lines.csv and <name>.markup.pdf.
//
// Example:
//
//	tariffscan -config tariffscan.yml -input schedule-a.json -output schedule-a.csv -markup debug.pdf
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gardar/tariffscan/pkg/gdocai"
	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/markup"
	"github.com/gardar/tariffscan/pkg/pipeline"
	"github.com/gardar/tariffscan/pkg/store"
	"github.com/gardar/tariffscan/pkg/table"
	"github.com/gardar/tariffscan/pkg/watch"
)

var log = logrus.New()

// outputs names the files one run writes; empty paths are skipped
type outputs struct {
	table        string
	intermediate string
	markup       string
}

// derivedOutputs names the watch mode outputs of input
func derivedOutputs(input string, intermediate, markup bool) outputs {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	out := outputs{table: base + ".table.csv"}
	if intermediate {
		out.intermediate = base + ".lines.csv"
	}
	if markup {
		out.markup = base + ".markup.pdf"
	}
	return out
}

// isOutput reports files written by watch mode, so they are not read back
func isOutput(path string) bool {
	for _, suffix := range []string{".table.csv", ".lines.csv", ".markup.pdf"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func setupLogging(levelName string) error {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return err
	}
	formatter := &logrus.TextFormatter{FullTimestamp: true}
	log.SetLevel(level)
	log.SetFormatter(formatter)
	for _, set := range []struct {
		level     func(logrus.Level)
		formatter func(logrus.Formatter)
	}{
		{ledger.SetLogLevel, ledger.SetFormatter},
		{gdocai.SetLogLevel, gdocai.SetFormatter},
		{pipeline.SetLogLevel, pipeline.SetFormatter},
		{table.SetLogLevel, table.SetFormatter},
		{watch.SetLogLevel, watch.SetFormatter},
	} {
		set.level(level)
		set.formatter(formatter)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	inputPath := flag.String("input", "", "Path to the OCR input file (required unless -watch is set)")
	outputPath := flag.String("output", "", "Path to save the final table CSV (stdout when empty)")
	intermediatePath := flag.String("intermediate", "", "Path to save the intermediate table CSV")
	markupPath := flag.String("markup", "", "Path to save a debug PDF of lines and rows")
	dbPath := flag.String("db", "", "SQLite database to record every run in")
	watchDir := flag.String("watch", "", "Directory to watch for new OCR files")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")

	flag.Parse()

	if err := setupLogging(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -log-level %q\n", *logLevel)
		os.Exit(1)
	}

	// Validate that either input or watch flag is provided (but not both)
	if (*inputPath == "") == (*watchDir == "") {
		fmt.Fprintln(os.Stderr, "Error: Either -input or -watch flag must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var db *store.Store
	if *dbPath != "" {
		var err error
		if db, err = store.Open(*dbPath); err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *inputPath != "" {
		out := outputs{table: *outputPath, intermediate: *intermediatePath, markup: *markupPath}
		if err := process(ctx, *inputPath, out, cfg, db); err != nil {
			log.Fatalf("Failed to process %s: %v", *inputPath, err)
		}
		return
	}

	log.WithField("dir", *watchDir).Info("Watching for OCR files")
	exts := []string{".csv", ".hocr", ".html", ".json", ".pdf"}
	err := watch.Dir(ctx, *watchDir, exts, func(path string) error {
		if isOutput(path) {
			return nil
		}
		return process(ctx, path, derivedOutputs(path, *intermediatePath != "", *markupPath != ""), cfg, db)
	})
	if err != nil {
		log.Fatalf("Watcher failed: %v", err)
	}
}

// process runs the pipeline on one input file and writes every output
func process(ctx context.Context, path string, out outputs, cfg pipeline.Config, db *store.Store) error {
	in, err := pipeline.Load(ctx, path, cfg)
	if err != nil {
		return err
	}
	result, err := pipeline.RunInput(ctx, in, cfg)
	if err != nil {
		return err
	}

	var final bytes.Buffer
	if err := table.WriteFinal(&final, result.Table); err != nil {
		return fmt.Errorf("failed to write final table: %w", err)
	}
	if out.table == "" {
		if _, err := os.Stdout.Write(final.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(out.table, final.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write final table: %w", err)
	}

	if out.intermediate != "" {
		var buf bytes.Buffer
		if err := table.WriteIntermediate(&buf, result.Input, false); err != nil {
			return fmt.Errorf("failed to write intermediate table: %w", err)
		}
		if err := os.WriteFile(out.intermediate, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write intermediate table: %w", err)
		}
	}

	if out.markup != "" {
		if len(result.Lines) == 0 {
			log.WithField("path", path).Warn("No classified lines for the markup PDF; input was an intermediate table")
		} else {
			pdf, err := markup.Render(result.Lines, result.Final, markup.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to render markup: %w", err)
			}
			if err := os.WriteFile(out.markup, pdf, 0644); err != nil {
				return fmt.Errorf("failed to write markup: %w", err)
			}
		}
	}

	fields := logrus.Fields{"input": path, "format": in.Format, "rows": len(result.Table)}
	if db != nil {
		run, err := db.SaveRun(path, result.Table)
		if err != nil {
			return err
		}
		fields["run"] = run.ID
	}
	log.WithFields(fields).Info("Schedule reconstructed")
	return nil
}
