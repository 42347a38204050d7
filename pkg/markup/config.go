package markup

// Config holds user options for rendering the debug PDF
type Config struct {
	Scale    float64 // PDF points per OCR pixel
	Margin   float64 // pixels added right of and below the OCR extent
	Compress bool    // compress page content streams
	Font     FontConfig
}

// DefaultConfig maps 300 DPI scans to real page size
func DefaultConfig() Config {
	return Config{
		Scale:    72.0 / 300.0,
		Margin:   50,
		Compress: true,
		Font:     DefaultFont,
	}
}

// FontConfig contains font settings for the line text
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

type rgb struct{ r, g, b int }

// line box colors by role
var (
	colorDescription = rgb{0, 90, 200}
	colorCommodity   = rgb{0, 150, 60}
	colorTariff      = rgb{220, 0, 0}
	colorHierarchy   = rgb{120, 0, 160}
)
