package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/tariffscan/pkg/classify"
	"github.com/gardar/tariffscan/pkg/gdocai"
	"github.com/gardar/tariffscan/pkg/rates"
	"github.com/gardar/tariffscan/pkg/reconstruct"
	"github.com/gardar/tariffscan/pkg/units"
)

// Config holds the options of every stage
type Config struct {
	Classifier  classify.Config    `yaml:"classifier"`
	Reconstruct reconstruct.Config `yaml:"reconstruct"`
	Units       units.Config       `yaml:"units"`
	Rates       rates.Config       `yaml:"rates"`
	DocumentAI  gdocai.Config      `yaml:"documentai"`
}

// DefaultConfig returns the settings for 300 DPI scans of Schedule A.
// Records below the footer line and in the unit and rate columns are kept
// away from the classifier.
func DefaultConfig() Config {
	classifier := classify.DefaultConfig()
	classifier.FooterY = 2700
	classifier.ExcludeBands = []classify.Band{{MinX: 1305, MaxX: 2150}}

	return Config{
		Classifier:  classifier,
		Reconstruct: reconstruct.DefaultConfig(),
		Units:       units.DefaultConfig(),
		Rates:       rates.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their default; lists in the file replace the default list.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Reconstruct.MergeGap <= 0 {
		return cfg, fmt.Errorf("reconstruct.merge_gap must be positive")
	}
	return cfg, nil
}
