// Package units infers the unit of quantity of a schedule row from its
// description text.
//
// Inference is keyword driven and has no positional input. Context
// categories (livestock, weight, volume, count) are tried first, in order;
// generic unit words ("pounds", "each", "head") are the fallback.
package units

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is a domain context: when any keyword occurs in the text, the
// first of Units found as a whole word is returned, else Default.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Units    []string `yaml:"units"`
	Default  string   `yaml:"default"`
}

// Config holds the context categories and the fallback unit
type Config struct {
	Categories  []Category `yaml:"categories"`
	DefaultUnit string     `yaml:"default_unit"` // returned when nothing matches
}

// DefaultCategories are tuned for Group 00 (animals and animal products)
var DefaultCategories = []Category{
	{
		Name:     "livestock",
		Keywords: []string{"cattle", "sheep", "lamb", "swine", "pig", "horse", "animal"},
		Units:    []string{"No", "Head"},
		Default:  "No",
	},
	{
		Name:     "weight",
		Keywords: []string{"meat", "beef", "pork", "carcass", "dressed", "fresh", "frozen"},
		Units:    []string{"Lb", "Cwt"},
		Default:  "Lb",
	},
	{
		Name:     "volume",
		Keywords: []string{"liquid", "oil", "milk", "beverage"},
		Units:    []string{"Gal", "Qt"},
		Default:  "Gal",
	},
	{
		Name:     "count",
		Keywords: []string{"eggs", "birds", "chickens", "turkeys", "ducks", "poultry"},
		Units:    []string{"No", "Doz"},
		Default:  "No",
	},
}

// DefaultConfig returns the default categories and no fallback unit
func DefaultConfig() Config {
	categories := make([]Category, len(DefaultCategories))
	copy(categories, DefaultCategories)
	return Config{Categories: categories}
}

type category struct {
	name     string
	keywords []string
	units    []*regexp.Regexp
	labels   []string
	fallback string
}

// Inferencer assigns units using compiled categories and GenericRules
type Inferencer struct {
	categories  []category
	rules       []Rule
	defaultUnit string
}

// New compiles cfg into an Inferencer
func New(cfg Config) (*Inferencer, error) {
	inf := &Inferencer{rules: GenericRules, defaultUnit: cfg.DefaultUnit}
	for _, c := range cfg.Categories {
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("unit category %q has no keywords", c.Name)
		}
		compiled := category{name: c.Name, fallback: c.Default}
		for _, k := range c.Keywords {
			compiled.keywords = append(compiled.keywords, strings.ToLower(k))
		}
		for _, u := range c.Units {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(u) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("unit category %q: %w", c.Name, err)
			}
			compiled.units = append(compiled.units, re)
			compiled.labels = append(compiled.labels, u)
		}
		inf.categories = append(inf.categories, compiled)
	}
	return inf, nil
}

// Infer returns the unit for description. context is any other text known
// about the commodity, usually every description sharing its number.
func (inf *Inferencer) Infer(description, context string) string {
	description = strings.ToLower(strings.TrimSpace(description))
	if description == "" {
		return ""
	}
	combined := strings.TrimSpace(description + " " + strings.ToLower(context))

	for _, c := range inf.categories {
		if !c.matches(combined) {
			continue
		}
		for i, re := range c.units {
			if re.MatchString(combined) {
				return c.labels[i]
			}
		}
		return c.fallback
	}

	// generic words only count in the row's own text
	if unit, ok := matchRules(inf.rules, description); ok {
		return unit
	}
	return inf.defaultUnit
}

func (c category) matches(text string) bool {
	for _, k := range c.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Context collects, per commodity number, the descriptions that carry it,
// space-joined in input order
func Context(numbers, descriptions []string) map[string]string {
	parts := make(map[string][]string)
	for i := range numbers {
		if i >= len(descriptions) {
			break
		}
		number, desc := strings.TrimSpace(numbers[i]), strings.TrimSpace(descriptions[i])
		if number == "" || desc == "" {
			continue
		}
		parts[number] = append(parts[number], desc)
	}

	out := make(map[string]string, len(parts))
	for number, descs := range parts {
		out[number] = strings.Join(descs, " ")
	}
	return out
}
