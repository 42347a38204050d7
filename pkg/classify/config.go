package classify

// Band is a horizontal strip of the page, bounds exclusive
type Band struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
}

// Contains reports whether x lies strictly inside the band
func (b Band) Contains(x float64) bool {
	return x > b.MinX && x < b.MaxX
}

// Config holds the classifier and record filter options
type Config struct {
	SkipPhrases  []string `yaml:"skip_phrases"`  // case-insensitive header/noise phrases
	SkipLeading  int      `yaml:"skip_leading"`  // records to drop from the start, in OCR order
	FooterY      float64  `yaml:"footer_y"`      // drop records starting at or below this Y (0 = off)
	ExcludeBands []Band   `yaml:"exclude_bands"` // unit/rate columns, routed away from the classifier
	// read 7-digit runs like "0010600" as commodity numbers instead of noise
	SplitGluedNumbers bool `yaml:"split_glued_numbers"`
}

// DefaultSkipPhrases are the schedule headers, column titles and notices
// seen on Schedule A pages
var DefaultSkipPhrases = []string{
	"GROUP 00", "ANIMALS AND ANIMAL PRODUCTS", "RATE OR DUTY",
	"SCHEDULE A", "UNIT OR", "TARIPE", "ECONOMIC CLASS", "ILIIOR",
	"COMMODIT", "QUANTITY", "PARAGRAPH", "1930 TARIFF ACT", "TRADE AGREEMENT",
	"(EXCEPT AS NOTED)", "BREEDING", "MEAT PRODUCTS",
}

// DefaultConfig returns the phrase list with every positional filter off
func DefaultConfig() Config {
	return Config{
		SkipPhrases: append([]string(nil), DefaultSkipPhrases...),
	}
}
