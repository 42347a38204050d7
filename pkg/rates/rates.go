// Package rates extracts rate-of-duty values from the right-hand columns
// of a schedule page and attaches them to commodity numbers.
package rates

import (
	"regexp"
	"strings"
)

// Column is the rate-of-duty column a value belongs to
type Column int

const (
	Column1930 Column = iota
	ColumnTrade
)

func (c Column) String() string {
	if c == ColumnTrade {
		return "trade agreement"
	}
	return "1930"
}

// corrections rewrites OCR misreads of ¢ and ½, applied in order
var corrections = []struct{ from, to string }{
	{"2y21b", "2½¢ lb"},
	{"31b", "3¢ lb"},
	{"1ye", "1½¢"},
	{"8plb", "8¢ lb"},
	{"2t", "2¢"},
	{"3t", "3¢"},
	{"4each", "4¢ each"},
	{"10lb", "10¢ lb"},
	{"6lb", "6¢ lb"},
	{"5lb", "5¢ lb"},
	{"7lb", "7¢ lb"},
}

// patterns are tried in order; the first match is the rate
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?½?%`),
	regexp.MustCompile(`\d+%%\d*`),
	regexp.MustCompile(`(?i)free\.?`),
	regexp.MustCompile(`(?i)\$\d+(?:\.\d+)?(?:\s*each)?`),
	regexp.MustCompile(`(?i)\d+½?¢(?:\s*(?:lb|each))?`),
	regexp.MustCompile(`1½`),
	regexp.MustCompile(`\d+t`),
	regexp.MustCompile(`(?i)\d+plb`),
	regexp.MustCompile(`(?i)\d+each`),
}

// Normalize corrects known OCR artifacts in text and returns the first
// rate found, or "" when text holds no rate
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, c := range corrections {
		text = strings.ReplaceAll(text, c.from, c.to)
	}
	for _, p := range patterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// tradeIndicators mark text printed next to trade agreement rates
var tradeIndicators = []string{
	"bound", "gatt", "agreement", "u.k.", "u. k.", "can.", "mex.",
	"cuba", "braz.", "hond.", "guat.", "el salv.", "c. rica",
	"para.", "ecuad.", "venz.", "peru", "arg.", "neth.", "colomb.",
}

// contextColumn guesses the column from the words around a rate
func contextColumn(text string) Column {
	lower := strings.ToLower(text)
	for _, indicator := range tradeIndicators {
		if strings.Contains(lower, indicator) {
			return ColumnTrade
		}
	}
	return Column1930
}
