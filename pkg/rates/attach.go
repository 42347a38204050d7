package rates

import (
	"math"
	"sort"
	"strings"

	"github.com/gardar/tariffscan/pkg/ledger"
)

// Candidate is OCR text from the rate columns that may hold a rate
type Candidate struct {
	Text string
	Page int
	X    float64
	Y    float64
}

// Anchor is the position of a commodity number line
type Anchor struct {
	Number string
	Page   int
	Y      float64
}

// Rates holds the two rate-of-duty cells of one commodity number
type Rates struct {
	Rate1930 string
	Trade    string
}

// Candidates converts OCR records to rate candidates
func Candidates(records []ledger.WordRecord) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		out = append(out, Candidate{Text: rec.Text, Page: rec.Page, X: rec.TopLeftX(), Y: rec.TopLeftY()})
	}
	return out
}

// Attach assigns every candidate holding a rate to the nearest anchor on
// its page within cfg.RowTolerance. Rates of one commodity number are
// space-joined in document order, per column.
func Attach(candidates []Candidate, anchors []Anchor, cfg Config) map[string]Rates {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	cols := make(map[string][2][]string)
	var order []string
	for _, c := range ordered {
		rate := Normalize(c.Text)
		if rate == "" {
			continue
		}
		number, ok := nearest(anchors, c.Page, c.Y, cfg.RowTolerance)
		if !ok {
			continue
		}
		entry, seen := cols[number]
		if !seen {
			order = append(order, number)
		}
		col := cfg.Column(c.X, c.Text)
		entry[col] = append(entry[col], rate)
		cols[number] = entry
	}

	out := make(map[string]Rates, len(order))
	for _, number := range order {
		entry := cols[number]
		out[number] = Rates{
			Rate1930: strings.Join(entry[Column1930], " "),
			Trade:    strings.Join(entry[ColumnTrade], " "),
		}
	}
	return out
}

// nearest returns the number of the closest anchor on page; the first
// anchor wins a tie
func nearest(anchors []Anchor, page int, y, tolerance float64) (string, bool) {
	best, found := math.Inf(1), ""
	for _, a := range anchors {
		if a.Page != page || a.Number == "" {
			continue
		}
		if d := math.Abs(a.Y - y); d <= tolerance && d < best {
			best, found = d, a.Number
		}
	}
	return found, found != ""
}
