// Package gdocai turns Google Document AI OCR responses into word records.
//
// Document AI returns the full text of a document once and points into it
// from every layout element. This package resolves those anchors for each
// detected line, scales its bounding polygon to page pixels and emits one
// ledger.WordRecord per line, in page order.
//
// Main Functions:
//
//   - ProcessDocument: sends a document to Google Document AI for processing
//   - RecordsFromProto: converts a Document AI response to word records
//   - ToJSON / ParseJSON: save and reload raw responses, so a scan is only
//     sent to the API once
//
// Usage Requirements:
//
//   - Google Cloud project with Document AI API enabled
//   - Document AI processor configured for OCR
//   - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
//     or Config.CredentialsFile
package gdocai

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the gdocai package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetFormatter sets the log formatter for the gdocai package
func SetFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}

// Config identifies the Document AI processor
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"` // defaults to GOOGLE_APPLICATION_CREDENTIALS
}
