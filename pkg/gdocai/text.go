package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// anchoredText is the document text indexed the way text anchors count,
// by code point
type anchoredText []rune

func newAnchoredText(doc *documentaipb.Document) anchoredText {
	return anchoredText(doc.GetText())
}

// segments concatenates the anchored segments of layout, clamping
// offsets that run past the text
func (t anchoredText) segments(layout *documentaipb.Document_Page_Layout) string {
	anchor := layout.GetTextAnchor()
	if anchor == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start := clamp(int(seg.GetStartIndex()), 0, len(t))
		end := clamp(int(seg.GetEndIndex()), start, len(t))
		b.WriteString(string(t[start:end]))
	}
	return b.String()
}

// line is the text of a line layout with its trailing break dropped and
// inner whitespace collapsed
func (t anchoredText) line(layout *documentaipb.Document_Page_Layout) string {
	return strings.Join(strings.Fields(t.segments(layout)), " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
