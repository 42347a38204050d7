package units

import (
	"regexp"
	"strings"
)

// Rule maps a unit word pattern to a label. An empty Unit means the
// matched word itself, capitalized.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Unit    string
}

func rule(name, pattern, unit string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(`(?i)\b(?:` + pattern + `)\b`), Unit: unit}
}

// GenericRules are tried in order when no context category applies
var GenericRules = []Rule{
	rule("pound", `lbs?|pounds?`, "Lb"),
	rule("kilogram", `kg|kilograms?`, ""),
	rule("ton", `tons?|tonnes?`, ""),
	rule("gallon", `gal|gallons?`, ""),
	rule("quart", `qt|quarts?`, ""),
	rule("pint", `pt|pints?`, ""),
	rule("ounce", `oz|ounces?`, ""),
	rule("cubic-foot", `cu\s?ft|cubic\s+feet`, ""),
	rule("square-foot", `sq\s?ft|square\s+feet`, ""),
	rule("linear-foot", `linear\s+feet|lin\s?ft`, ""),
	rule("yard", `yards?|yd`, ""),
	rule("meter", `meter|metres?|m`, ""),
	rule("each", `each|ea`, "No"),
	rule("dozen", `dozen|doz`, ""),
	rule("gross", `gross`, ""),
	rule("case", `cases?`, ""),
	rule("box", `box|boxes`, ""),
	rule("bag", `bags?`, ""),
	rule("bale", `bales?`, ""),
	rule("bundle", `bundles?`, ""),
	rule("head", `head|hd`, "Head"),
	rule("number", `no|number`, "No"),
}

func matchRules(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		m := r.Pattern.FindString(text)
		if m == "" {
			continue
		}
		if r.Unit != "" {
			return r.Unit, true
		}
		return capitalize(m), true
	}
	return "", false
}

func capitalize(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
