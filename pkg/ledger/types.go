package ledger

import (
	"fmt"
	"math"
	"strings"
)

// Point is a 2-D pixel coordinate, origin at the top-left of the page
type Point struct {
	X float64
	Y float64
}

// Quad is a bounding box given by its four corners, as produced by OCR
// engines that report rotated or skewed boxes.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// NewRect creates an axis-aligned Quad from the x1, y1 (top-left) and
// x2, y2 (bottom-right) coordinates found in hOCR 'bbox' properties.
func NewRect(x1, y1, x2, y2 float64) Quad {
	return Quad{
		TopLeft:     Point{X: x1, Y: y1},
		TopRight:    Point{X: x2, Y: y1},
		BottomRight: Point{X: x2, Y: y2},
		BottomLeft:  Point{X: x1, Y: y2},
	}
}

// Union returns the smallest axis-aligned Quad covering both q and o
func (q Quad) Union(o Quad) Quad {
	return NewRect(
		math.Min(q.TopLeft.X, o.TopLeft.X),
		math.Min(q.TopLeft.Y, o.TopLeft.Y),
		math.Max(q.BottomRight.X, o.BottomRight.X),
		math.Max(q.BottomRight.Y, o.BottomRight.Y),
	)
}

// WordRecord is one OCR detection. The tariff pipeline only looks at the
// text, the top-left corner (the line anchor), the bottom-right Y and the page.
type WordRecord struct {
	Text       string
	Box        Quad
	Page       int     // 1-based
	Confidence float64 // 0.0 - 1.0
}

// TopLeftX is the horizontal anchor of the record
func (w WordRecord) TopLeftX() float64 { return w.Box.TopLeft.X }

// TopLeftY is the vertical anchor of the record
func (w WordRecord) TopLeftY() float64 { return w.Box.TopLeft.Y }

// BottomRightY is the lower edge used when matching tariff paragraphs
func (w WordRecord) BottomRightY() float64 { return w.Box.BottomRight.Y }

// Validate reports ErrMalformedRecord when the record has no text, no valid
// page or a non-finite anchor coordinate.
func (w WordRecord) Validate() error {
	if strings.TrimSpace(w.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrMalformedRecord)
	}
	if w.Page < 1 {
		return fmt.Errorf("%w: page %d is not 1-based", ErrMalformedRecord, w.Page)
	}
	for _, v := range []float64{w.TopLeftX(), w.TopLeftY(), w.BottomRightY()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %q", ErrMalformedRecord, w.Text)
		}
	}
	return nil
}
