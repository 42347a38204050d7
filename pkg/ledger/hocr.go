package ledger

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// hOCR classes that Tesseract and friends use for a single text line
var lineClasses = []string{"ocr_line", "ocr_caption", "ocr_header", "ocr_textfloat"}

// ParseHOCR converts hOCR HTML into word records, one per text line.
// Line text is the line's words joined by single spaces, the box is the
// line bbox (or the union of its word boxes) and the confidence is the
// mean x_wconf scaled to 0..1.
func ParseHOCR(data []byte) ([]WordRecord, error) {
	decoded, err := decodeHOCR(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var records []WordRecord
	pages := 0

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			pages++
			pageNumber := pages
			if ppageno, ok := parseTitle(attrVal(n, "title"))["ppageno"]; ok && len(ppageno) > 0 {
				// ppageno is 0-based
				if p, err := strconv.Atoi(ppageno[0]); err == nil {
					pageNumber = p + 1
				}
			}
			records = append(records, pageRecords(n, pageNumber)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if pages == 0 {
		return nil, fmt.Errorf("%w: no ocr_page elements found in hOCR data", ErrEmptyInput)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: hOCR data contains no text lines", ErrEmptyInput)
	}
	return records, nil
}

// single-byte charsets hOCR files are declared in, by lowercase label
var hocrCharsets = map[string]*charmap.Charmap{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"iso8859-15":   charmap.ISO8859_15,
	"latin-9":      charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// decodeHOCR converts a document declared in a single-byte charset to
// UTF-8. Undeclared, UTF-8 and ASCII documents are returned as-is.
func decodeHOCR(data []byte) ([]byte, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	lower := strings.ToLower(string(head))
	i := strings.Index(lower, "charset=")
	if i < 0 {
		return data, nil
	}
	enc := strings.FieldsFunc(lower[i+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(enc) == 0 {
		return data, nil
	}
	switch enc[0] {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return data, nil
	}
	cm, ok := hocrCharsets[enc[0]]
	if !ok {
		return nil, fmt.Errorf("unsupported hOCR charset %q", enc[0])
	}
	decoded, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", enc[0], err)
	}
	return decoded, nil
}

// pageRecords collects every line under a page node
func pageRecords(page *html.Node, pageNumber int) []WordRecord {
	var records []WordRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isLine(n) {
			rec, err := lineRecord(n, pageNumber)
			if err != nil {
				log.WithField("page", pageNumber).WithError(err).Warn("Skipping hOCR line")
				return
			}
			records = append(records, rec)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := page.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return records
}

func lineRecord(n *html.Node, pageNumber int) (WordRecord, error) {
	rec := WordRecord{Page: pageNumber}

	lineBox, hasLineBox := parseBBox(attrVal(n, "title"))
	var wordBox Quad
	hasWordBox := false

	var words []string
	var confSum float64
	confCount := 0

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
			text := textContent(c)
			if text == "" {
				return
			}
			words = append(words, text)
			props := parseTitle(attrVal(c, "title"))
			if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
				if v, err := strconv.ParseFloat(conf[0], 64); err == nil {
					confSum += v
					confCount++
				}
			}
			if b, ok := parseBBox(attrVal(c, "title")); ok {
				if hasWordBox {
					wordBox = wordBox.Union(b)
				} else {
					wordBox, hasWordBox = b, true
				}
			}
			return
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	if len(words) > 0 {
		rec.Text = strings.Join(words, " ")
	} else {
		rec.Text = textContent(n)
	}

	switch {
	case hasLineBox:
		rec.Box = lineBox
	case hasWordBox:
		rec.Box = wordBox
	default:
		return rec, fmt.Errorf("%w: line %q has no bbox", ErrMalformedRecord, attrVal(n, "id"))
	}

	if confCount > 0 {
		rec.Confidence = confSum / float64(confCount) / 100
	}
	return rec, rec.Validate()
}

// parseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func parseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

func parseBBox(title string) (Quad, bool) {
	bbox, ok := parseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return Quad{}, false
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return Quad{}, false
		}
		v[i] = f
	}
	return NewRect(v[0], v[1], v[2], v[3]), true
}

func isLine(n *html.Node) bool {
	for _, class := range lineClasses {
		if hasClass(n, class) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// textContent gets all text from a node and its children
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := textContent(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
