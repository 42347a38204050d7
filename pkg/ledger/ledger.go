// Package ledger holds the raw OCR records a tariff schedule is rebuilt from.
//
// A WordRecord is one text detection: its text, the four corners of its
// bounding box, the 1-based page it was found on and the engine's confidence.
// Records are immutable values; later stages never modify them.
//
// The package reads records from the formats OCR engines commonly emit:
//
//   - ReadCSV: the word ledger CSV (Word, Confidence, four corners, Page)
//   - ParseHOCR: hOCR HTML, one record per ocr_line
//   - Detect: sniffs which of the supported formats a file is in
//
// Document AI responses are converted by the gdocai package.
package ledger

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the ledger package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetFormatter sets the log formatter for the ledger package
func SetFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}
