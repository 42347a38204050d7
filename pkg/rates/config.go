package rates

// Band is a horizontal strip of the page, bounds inclusive
type Band struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
}

// Contains reports whether x lies inside the band
func (b Band) Contains(x float64) bool {
	return x >= b.MinX && x <= b.MaxX
}

// Config locates the two rate columns on a 300 DPI page
type Config struct {
	Band1930  Band `yaml:"band_1930"`
	BandTrade Band `yaml:"band_trade"`
	// in the 1930 band, text right of SplitX may still be a trade rate
	// when its context says so
	SplitX       float64 `yaml:"split_x"`
	RowTolerance float64 `yaml:"row_tolerance"` // max Y distance to a commodity number
}

// DefaultConfig returns the Schedule A column layout
func DefaultConfig() Config {
	return Config{
		Band1930:     Band{MinX: 1350, MaxX: 1700},
		BandTrade:    Band{MinX: 1700, MaxX: 2150},
		SplitX:       1550,
		RowTolerance: 50,
	}
}

// Column picks the rate column for a value found at x inside text
func (c Config) Column(x float64, text string) Column {
	switch {
	case c.Band1930.Contains(x):
		if x < c.SplitX || contextColumn(text) == Column1930 {
			return Column1930
		}
		return ColumnTrade
	case c.BandTrade.Contains(x):
		return ColumnTrade
	default:
		return contextColumn(text)
	}
}
