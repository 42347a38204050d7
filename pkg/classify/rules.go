package classify

import (
	"regexp"
	"strings"
)

// Rule maps text to a role when Match accepts it. Match returns the
// normalized value to store.
type Rule struct {
	Name  string
	Role  Role
	Match func(text string) (string, bool)
}

var (
	// "0010 600", "0010 7000", "0010 700 a"
	commodityPattern = regexp.MustCompile(`^(\d{4})\s+(\d{3,4})(?:\s*([A-Za-z]))?$`)
	// "701", "(2)"
	tariffPattern = regexp.MustCompile(`^\(?\d{1,4}\)?$`)
	// short code with up to 3 trailing letters, checked after stripping punctuation
	shortCodePattern = regexp.MustCompile(`^\d{3}[A-Za-z]{0,3}$`)
	specialChars     = regexp.MustCompile(`[^\w\s]`)
	numberNoise      = regexp.MustCompile(`^-?\d+$`)

	// "0010 60 0"
	splitTailPattern = regexp.MustCompile(`^(\d{4})\s+(\d{2})\s*(\d)$`)
	// "600 0010"
	swappedPattern = regexp.MustCompile(`^(\d{3})\s+(\d{4})$`)
	// "0010600"
	gluedPattern = regexp.MustCompile(`^(\d{4})(\d{3})$`)
)

// letters OCR reads in place of digits
var lookalikes = map[rune]rune{
	'O': '0', 'o': '0',
	'l': '1', 'I': '1',
	'S': '5', 'G': '6', 'B': '8',
}

// CommodityNumberRule recognizes a 4-digit group followed by a 3-4 digit group
var CommodityNumberRule = Rule{
	Name: "commodity-number",
	Role: RoleCommodityNumber,
	Match: func(text string) (string, bool) {
		m := commodityPattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return joinCommodity(m[1], m[2], m[3]), true
	},
}

// CorrectedCommodityNumberRule recognizes commodity numbers CommodityNumberRule
// rejects because of look-alike letters ("0O10 700"), a split last group
// ("0010 60 0") or swapped groups ("600 0010"). The heading group must be
// 0001-0999; larger values are page or act references.
var CorrectedCommodityNumberRule = Rule{
	Name: "corrected-commodity-number",
	Role: RoleCommodityNumber,
	Match: func(text string) (string, bool) {
		fixed := correctDigits(text)
		var value string
		if m := commodityPattern.FindStringSubmatch(fixed); m != nil {
			value = joinCommodity(m[1], m[2], m[3])
		} else if m := splitTailPattern.FindStringSubmatch(fixed); m != nil {
			value = joinCommodity(m[1], m[2]+m[3], "")
		} else if m := swappedPattern.FindStringSubmatch(fixed); m != nil {
			value = joinCommodity(m[2], m[1], "")
		} else {
			return "", false
		}
		return value, validHeading(value)
	},
}

// GluedCommodityNumberRule splits a 7-digit run into "dddd ddd". It is not
// part of DefaultRules since such runs are otherwise dropped as noise.
var GluedCommodityNumberRule = Rule{
	Name: "glued-commodity-number",
	Role: RoleCommodityNumber,
	Match: func(text string) (string, bool) {
		m := gluedPattern.FindStringSubmatch(correctDigits(text))
		if m == nil {
			return "", false
		}
		value := joinCommodity(m[1], m[2], "")
		return value, validHeading(value)
	},
}

// TariffParagraphRule recognizes a bare or parenthesized 1-4 digit code
var TariffParagraphRule = Rule{
	Name: "tariff-paragraph",
	Role: RoleTariffParagraph,
	Match: func(text string) (string, bool) {
		if tariffPattern.MatchString(text) {
			return text, true
		}
		return "", false
	},
}

// DefaultRules is the rule order used for tariff schedules
var DefaultRules = []Rule{CommodityNumberRule, CorrectedCommodityNumberRule, TariffParagraphRule}

// Classify runs the default rules on text. It is a pure function of text.
func Classify(text string) (Role, string) {
	return classifyWith(DefaultRules, text)
}

func classifyWith(rules []Rule, text string) (Role, string) {
	text = strings.TrimSpace(text)
	for _, rule := range rules {
		if value, ok := rule.Match(text); ok {
			return rule.Role, value
		}
	}
	return RoleDescription, text
}

func joinCommodity(heading, item, suffix string) string {
	value := heading + " " + item
	if suffix != "" {
		value += " " + suffix
	}
	return value
}

// correctDigits replaces look-alike letters that touch a digit. It repeats
// until stable so runs like "OO10" resolve outward from the digits.
func correctDigits(text string) string {
	rs := []rune(text)
	for changed := true; changed; {
		changed = false
		for i, r := range rs {
			d, ok := lookalikes[r]
			if !ok {
				continue
			}
			if isDigit(rs, i-1) || isDigit(rs, i+1) {
				rs[i] = d
				changed = true
			}
		}
	}
	return string(rs)
}

func isDigit(rs []rune, i int) bool {
	return i >= 0 && i < len(rs) && rs[i] >= '0' && rs[i] <= '9'
}

// validHeading reports whether the 4-digit heading of a commodity number
// lies in 0001-0999
func validHeading(value string) bool {
	heading, _, _ := strings.Cut(value, " ")
	return len(heading) == 4 && heading[0] == '0' && heading != "0000"
}

// shortCode reports whether a description is really a tariff code the
// primary rules missed, e.g. "701." or "702a"
func shortCode(desc string) (string, bool) {
	cleaned := specialChars.ReplaceAllString(desc, "")
	if shortCodePattern.MatchString(cleaned) {
		return cleaned, true
	}
	return "", false
}

// isNumberNoise reports descriptions that are only a (negative) number
func isNumberNoise(desc string) bool {
	return numberNoise.MatchString(desc)
}
