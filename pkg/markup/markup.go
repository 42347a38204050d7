// Package markup renders a debug PDF of a reconstruction run.
//
// Each OCR page becomes a PDF page the size of its text extent. Classified
// lines are drawn as boxes colored by role with their text fitted inside,
// and the hierarchical description of every final row is printed under
// the row it belongs to. Lines and rows are on separate optional content
// layers so either can be hidden in a viewer.
package markup

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/tariffscan/pkg/classify"
	"github.com/gardar/tariffscan/pkg/ledger"
	"github.com/gardar/tariffscan/pkg/reconstruct"
)

// Render draws lines and rows into a new PDF
func Render(lines []classify.Line, rows []reconstruct.Row, cfg Config) ([]byte, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines to render", ledger.ErrEmptyInput)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultConfig().Scale
	}

	pages := make(map[int][]classify.Line)
	for _, l := range lines {
		pages[l.Page()] = append(pages[l.Page()], l)
	}
	rowsByPage := make(map[int][]reconstruct.Row)
	for _, r := range rows {
		rowsByPage[r.Page] = append(rowsByPage[r.Page], r)
	}
	numbers := make([]int, 0, len(pages))
	for n := range pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(cfg.Compress)
	pdf.SetCreator("tariffscan", true)

	encodingErrors, words := 0, 0
	for _, n := range numbers {
		w, h := extent(pages[n], cfg.Margin)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w * cfg.Scale, Ht: h * cfg.Scale})
		transform := func(x, y float64) (float64, float64) {
			return x * cfg.Scale, y * cfg.Scale
		}

		layer := pdf.AddLayer(fmt.Sprintf("Lines (Page %d)", n), true)
		pdf.BeginLayer(layer)
		pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)
		for _, l := range pages[n] {
			if !drawLine(pdf, l, transform, cfg.Font) {
				encodingErrors++
			}
			words++
		}
		pdf.EndLayer()

		if len(rowsByPage[n]) > 0 {
			layer = pdf.AddLayer(fmt.Sprintf("Rows (Page %d)", n), true)
			pdf.BeginLayer(layer)
			for _, r := range rowsByPage[n] {
				drawRow(pdf, r, transform, cfg.Font)
			}
			pdf.EndLayer()
		}
	}

	// Report encoding errors if more than a threshold
	if encodingErrors > 0 && encodingErrors > words/10 {
		return nil, fmt.Errorf("character encoding issues in %d of %d lines", encodingErrors, words)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// extent is the bottom-right corner of everything on a page plus margin
func extent(lines []classify.Line, margin float64) (float64, float64) {
	var w, h float64
	for _, l := range lines {
		box := l.Record.Box
		w = math.Max(w, math.Max(box.TopRight.X, box.BottomRight.X))
		h = math.Max(h, math.Max(box.BottomLeft.Y, box.BottomRight.Y))
	}
	return w + margin, h + margin
}

func roleColor(role classify.Role) rgb {
	switch role {
	case classify.RoleCommodityNumber:
		return colorCommodity
	case classify.RoleTariffParagraph:
		return colorTariff
	default:
		return colorDescription
	}
}

// latin1 converts text to ISO-8859-1 to avoid PDF encoding issues
func latin1(text string) (string, bool) {
	out, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return text, false
	}
	return out, true
}

// drawLine renders a line box and its text fitted to the box width. It
// reports false when the text could not be encoded.
func drawLine(pdf *fpdf.Fpdf, l classify.Line, transform func(x, y float64) (float64, float64), font FontConfig) bool {
	box := l.Record.Box
	x, y := transform(box.TopLeft.X, box.TopLeft.Y)
	x2, y2 := transform(box.BottomRight.X, box.BottomRight.Y)
	width, height := x2-x, y2-y

	c := roleColor(l.Role)
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.Rect(x, y, width, height, "D")

	text, ok := latin1(l.Record.Text)
	strWidth := pdf.GetStringWidth(text)
	if strWidth > 0 && width > 0 {
		pdf.SetFontSize(font.Size * width / strWidth)
	}
	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x, y+fontSize*font.AscentRatio, text)
	pdf.SetFontSize(font.Size)
	return ok
}

// drawRow prints a row's hierarchical description just below it
func drawRow(pdf *fpdf.Fpdf, r reconstruct.Row, transform func(x, y float64) (float64, float64), font FontConfig) {
	if r.HierarchicalDescription == "" {
		return
	}
	label := r.HierarchicalDescription
	if r.TariffParagraph != "" {
		label += " [" + r.TariffParagraph + "]"
	}
	text, _ := latin1(label)

	x, y := transform(r.X, r.BottomY)
	size := font.Size * 0.6
	pdf.SetFont(font.Name, "I", size)
	pdf.SetTextColor(colorHierarchy.r, colorHierarchy.g, colorHierarchy.b)
	pdf.Text(x, y+size*font.AscentRatio, text)
	pdf.SetFont(font.Name, font.Style, font.Size)
}
