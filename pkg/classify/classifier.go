package classify

import (
	"strings"

	"github.com/gardar/tariffscan/pkg/ledger"
)

// Classifier applies a rule list plus the header/noise filters
type Classifier struct {
	rules  []Rule
	skip   []string
	config Config
}

// New creates a Classifier using DefaultRules, preceded by
// GluedCommodityNumberRule when config.SplitGluedNumbers is set
func New(config Config) *Classifier {
	rules := DefaultRules
	if config.SplitGluedNumbers {
		rules = append([]Rule{GluedCommodityNumberRule}, DefaultRules...)
	}
	return NewWithRules(config, rules)
}

// NewWithRules creates a Classifier with a custom rule order
func NewWithRules(config Config, rules []Rule) *Classifier {
	skip := make([]string, 0, len(config.SkipPhrases))
	for _, p := range config.SkipPhrases {
		if p = strings.TrimSpace(p); p != "" {
			skip = append(skip, strings.ToUpper(p))
		}
	}
	return &Classifier{rules: rules, skip: skip, config: config}
}

// Classify returns the role and normalized value for text
func (c *Classifier) Classify(text string) (Role, string) {
	return classifyWith(c.rules, text)
}

// Skip reports whether text contains a header or noise phrase
func (c *Classifier) Skip(text string) bool {
	upper := strings.ToUpper(text)
	for _, phrase := range c.skip {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}

// Filter splits records into those the classifier should see and those
// inside an excluded column band. Leading and footer records are dropped.
func (c *Classifier) Filter(records []ledger.WordRecord) (kept, banded []ledger.WordRecord) {
	if c.config.SkipLeading > 0 {
		if c.config.SkipLeading >= len(records) {
			return nil, nil
		}
		records = records[c.config.SkipLeading:]
	}
	for _, rec := range records {
		if c.config.FooterY > 0 && rec.TopLeftY() >= c.config.FooterY {
			continue
		}
		if c.inBand(rec.TopLeftX()) {
			banded = append(banded, rec)
			continue
		}
		kept = append(kept, rec)
	}
	return kept, banded
}

func (c *Classifier) inBand(x float64) bool {
	for _, b := range c.config.ExcludeBands {
		if b.Contains(x) {
			return true
		}
	}
	return false
}

// Lines classifies records in input order. Header lines are dropped,
// short numeric descriptions become tariff paragraphs and pure numbers
// are discarded.
func (c *Classifier) Lines(records []ledger.WordRecord) []Line {
	lines := make([]Line, 0, len(records))
	for _, rec := range records {
		text := strings.TrimSpace(rec.Text)
		if text == "" || c.Skip(text) {
			continue
		}
		role, value := c.Classify(text)
		lines = append(lines, NewLine(rec, role, value))
	}

	lines = PromoteShortCodes(lines)
	return DropNoise(lines)
}

// PromoteShortCodes moves descriptions like "701." into the tariff
// paragraph field, emptying the description
func PromoteShortCodes(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		if l.Role == RoleDescription && l.Description != "" {
			if code, ok := shortCode(l.Description); ok {
				l = NewLine(l.Record, RoleTariffParagraph, code)
			}
		}
		out[i] = l
	}
	return out
}

// DropNoise removes lines whose description is only digits or a negative number
func DropNoise(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Role == RoleDescription && isNumberNoise(l.Description) {
			continue
		}
		out = append(out, l)
	}
	return out
}
