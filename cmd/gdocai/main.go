// gdocai is a command-line tool for OCR'ing scanned tariff schedules with
// Google Document AI and saving the result as a word ledger CSV.
//
// Every line Document AI detects becomes one ledger row with its text,
// confidence, four corners in page pixels and page number. The raw API
// response can be kept as JSON and converted again later without another
// API call.
//
// Configuration:
//
// The tool requires a YAML configuration file with Google Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//
// Usage:
//
//	gdocai -config config.yml -pdf input.pdf -output words.csv [options]
//	gdocai -from-json response.json -output words.csv
//
// Flags:
//
//	-config string     Path to the YAML configuration file (required with -pdf)
//	-pdf string        Path to the input PDF file
//	-from-json string  Saved Document AI response to convert instead of calling the API
//	-output string     Path to save the word ledger CSV
//	-debug-api string  Path to save the raw API response as JSON
//	-log-level string  debug, info, warn or error (default "info")
//
// Authentication:
//
// The tool uses the GOOGLE_APPLICATION_CREDENTIALS environment variable
// for authentication with Google Cloud.
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	gdocai -config config.yml -pdf schedule-a.pdf -output words.csv -debug-api schedule-a.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/tariffscan/pkg/gdocai"
	"github.com/gardar/tariffscan/pkg/ledger"
)

var log = logrus.New()

// loadConfig reads a YAML file into a Google Document AI config
func loadConfig(path string) (*gdocai.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg gdocai.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file (required with -pdf)")
	pdfPath := flag.String("pdf", "", "Path to the input PDF file")
	jsonPath := flag.String("from-json", "", "Saved Document AI response to convert instead of calling the API")
	outputPath := flag.String("output", "", "Path to save the word ledger CSV")
	debugAPIPath := flag.String("debug-api", "", "Path to save API response as JSON")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")

	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -log-level %q\n", *logLevel)
		os.Exit(1)
	}
	formatter := &logrus.TextFormatter{FullTimestamp: true}
	log.SetLevel(level)
	log.SetFormatter(formatter)
	gdocai.SetLogLevel(level)
	gdocai.SetFormatter(formatter)
	ledger.SetLogLevel(level)
	ledger.SetFormatter(formatter)

	// Validate that either pdf or from-json flag is provided (but not both)
	if (*pdfPath == "") == (*jsonPath == "") {
		fmt.Fprintln(os.Stderr, "Error: Either -pdf or -from-json flag must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *pdfPath != "" && *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required with -pdf")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *outputPath == "" && *debugAPIPath == "" {
		fmt.Fprintln(os.Stderr, "Error: At least one output flag must be provided (-output or -debug-api)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var doc *documentaipb.Document
	if *pdfPath != "" {
		doc = processPDF(*configPath, *pdfPath)
	} else {
		data, err := os.ReadFile(*jsonPath)
		if err != nil {
			log.Fatalf("Failed to read Document AI JSON: %v", err)
		}
		if doc, err = gdocai.ParseJSON(data); err != nil {
			log.Fatalf("Failed to load Document AI JSON: %v", err)
		}
	}

	if *debugAPIPath != "" {
		apiJSON, err := gdocai.ToJSON(doc)
		if err != nil {
			log.Fatalf("Failed to convert API response to JSON: %v", err)
		}
		if err := os.WriteFile(*debugAPIPath, apiJSON, 0644); err != nil {
			log.Fatalf("Failed to write API response JSON: %v", err)
		}
		log.WithField("path", *debugAPIPath).Info("API response JSON saved")
	}

	if *outputPath != "" {
		records := gdocai.RecordsFromProto(doc)
		if len(records) == 0 {
			log.Fatalf("Document AI found no text lines")
		}
		f, err := os.Create(*outputPath)
		if err != nil {
			log.Fatalf("Failed to create output: %v", err)
		}
		defer f.Close()
		if err := ledger.WriteCSV(f, records); err != nil {
			log.Fatalf("Failed to write word ledger: %v", err)
		}
		log.WithFields(logrus.Fields{"path": *outputPath, "records": len(records)}).Info("Word ledger saved")
	}
}

func processPDF(configPath, pdfPath string) *documentaipb.Document {
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF file: %v", err)
	}
	mtype := mimetype.Detect(pdfBytes)
	if !mtype.Is("application/pdf") && !mtype.Is("image/tiff") && !mtype.Is("image/png") && !mtype.Is("image/jpeg") {
		log.Fatalf("Unsupported input type %s", mtype.String())
	}

	doc, err := gdocai.ProcessDocument(context.Background(), pdfBytes, mtype.String(), cfg)
	if err != nil {
		log.Fatalf("Error processing document: %v", err)
	}
	return doc
}
