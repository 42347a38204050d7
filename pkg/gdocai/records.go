package gdocai

import (
	"math"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"

	"github.com/gardar/tariffscan/pkg/ledger"
)

// RecordsFromProto converts every line Document AI detected into a word
// record. Pages without a page number are numbered in response order.
func RecordsFromProto(doc *documentaipb.Document) []ledger.WordRecord {
	if doc == nil {
		return nil
	}

	text := newAnchoredText(doc)
	var records []ledger.WordRecord
	for i, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		if pageNum < 1 {
			pageNum = i + 1
		}
		width, height := pageSize(page)

		skipped := 0
		for _, line := range page.GetLines() {
			layout := line.GetLayout()
			box, ok := quadFromPoly(layout.GetBoundingPoly(), width, height)
			if !ok {
				skipped++
				continue
			}
			rec := ledger.WordRecord{
				Text:       text.line(layout),
				Box:        box,
				Page:       pageNum,
				Confidence: float64(layout.GetConfidence()),
			}
			if err := rec.Validate(); err != nil {
				skipped++
				continue
			}
			records = append(records, rec)
		}

		if skipped > 0 {
			log.WithFields(logrus.Fields{"page": pageNum, "skipped": skipped}).Warn("Skipped lines without text or position")
		}
	}
	return records
}

// pageSize returns the page dimension in pixels, or 1x1 when unknown so
// normalized vertices are kept as-is
func pageSize(page *documentaipb.Document_Page) (float64, float64) {
	dim := page.GetDimension()
	if dim == nil || dim.GetWidth() <= 0 || dim.GetHeight() <= 0 {
		return 1, 1
	}
	return float64(dim.GetWidth()), float64(dim.GetHeight())
}

// quadFromPoly prefers pixel vertices and falls back to normalized ones
// scaled by the page size. A polygon that is not a quadrilateral becomes
// its bounding rectangle.
func quadFromPoly(poly *documentaipb.BoundingPoly, width, height float64) (ledger.Quad, bool) {
	var points []ledger.Point
	for _, v := range poly.GetVertices() {
		points = append(points, ledger.Point{X: float64(v.GetX()), Y: float64(v.GetY())})
	}
	if len(points) == 0 {
		for _, v := range poly.GetNormalizedVertices() {
			points = append(points, ledger.Point{X: float64(v.GetX()) * width, Y: float64(v.GetY()) * height})
		}
	}

	switch len(points) {
	case 0:
		return ledger.Quad{}, false
	case 4:
		// Document AI orders vertices clockwise from the top-left
		return ledger.Quad{
			TopLeft:     points[0],
			TopRight:    points[1],
			BottomRight: points[2],
			BottomLeft:  points[3],
		}, true
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return ledger.NewRect(minX, minY, maxX, maxY), true
}
