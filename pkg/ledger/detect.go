package ledger

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
)

// Format identifies the kind of OCR output a file holds
type Format int

const (
	FormatUnknown   Format = iota
	FormatCSV              // word ledger or intermediate table
	FormatHOCR             // hOCR HTML
	FormatDocAIJSON        // Document AI response saved as JSON
	FormatPDF              // scanned PDF, still to be OCR'ed
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatHOCR:
		return "hocr"
	case FormatDocAIJSON:
		return "docai-json"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Detect sniffs the format of data
func Detect(data []byte) Format {
	mtype := mimetype.Detect(data)
	log.WithField("mime_type", mtype.String()).Debug("Detected input type")

	switch {
	case mtype.Is("application/pdf"):
		return FormatPDF
	case mtype.Is("application/json"):
		return FormatDocAIJSON
	case mtype.Is("text/html"), mtype.Is("application/xhtml+xml"):
		return FormatHOCR
	case mtype.Is("text/xml") && bytes.Contains(data, []byte("ocr_page")):
		return FormatHOCR
	case mtype.Is("text/csv"), mtype.Is("text/plain"):
		return FormatCSV
	}
	return FormatUnknown
}
