package reconstruct

// Config holds the pixel thresholds of the reconstruction. The defaults
// match 300 DPI scans of Schedule A.
type Config struct {
	MergeGap        float64 `yaml:"merge_gap"`        // max top-Y gap of a wrapped continuation line
	ProximityWindow float64 `yaml:"proximity_window"` // a code this far below a row belongs to it
	ForwardSlack    float64 `yaml:"forward_slack"`    // padding added to the forward broadcast window
}

// DefaultConfig returns the thresholds tuned for Schedule A scans
func DefaultConfig() Config {
	return Config{
		MergeGap:        50,
		ProximityWindow: 5,
		ForwardSlack:    10,
	}
}
