// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/cutgen/internal/generation"
	"github.com/jonathan/cutgen/internal/geometry"
)

// Config represents the generator configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
// Counts, ratios and sizes where zero is meaningful are pointers so "unset" can be told apart.
type Config struct {
	// Output
	Out         string `json:"out,omitempty" yaml:"out,omitempty"`                     // Path prefix of the dataset files
	Count       int    `json:"count,omitempty" yaml:"count,omitempty" validate:"gte=0"` // Number of datasets to generate
	Xlsx        bool   `json:"xlsx,omitempty" yaml:"xlsx,omitempty"`                   // Also write a workbook
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`   // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	// Generation
	Policy            string   `json:"policy,omitempty" yaml:"policy,omitempty" validate:"omitempty,oneof=basic mixed"`
	Seed              uint64   `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 picks a fresh seed
	NbStacks          *int     `json:"nb_stacks,omitempty" yaml:"nb_stacks,omitempty" validate:"omitempty,gte=0"`
	AvgStackSize      *int     `json:"avg_stack_size,omitempty" yaml:"avg_stack_size,omitempty" validate:"omitempty,gte=0"`
	AvgDefects        *int     `json:"avg_defects,omitempty" yaml:"avg_defects,omitempty" validate:"omitempty,gte=0"`
	NbPlates          *int     `json:"nb_plates,omitempty" yaml:"nb_plates,omitempty" validate:"omitempty,gte=0"`
	LargeItemRatio    *float64 `json:"large_item_ratio,omitempty" yaml:"large_item_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	BorderDefectRatio *float64 `json:"border_defect_ratio,omitempty" yaml:"border_defect_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	NoDefectRatio     *float64 `json:"no_defect_ratio,omitempty" yaml:"no_defect_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	DefectMinSize     *int     `json:"defect_min_size,omitempty" yaml:"defect_min_size,omitempty" validate:"omitempty,gte=0,lte=20"`
	MaxAttempts       *int     `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"omitempty,gte=0"`

	// Geometry overrides; zero keeps the default bound
	MinWaste    int `json:"min_waste,omitempty" yaml:"min_waste,omitempty" validate:"gte=0"`
	MinXX       int `json:"min_xx,omitempty" yaml:"min_xx,omitempty" validate:"gte=0"`
	MinYY       int `json:"min_yy,omitempty" yaml:"min_yy,omitempty" validate:"gte=0"`
	MaxXX       int `json:"max_xx,omitempty" yaml:"max_xx,omitempty" validate:"gte=0"`
	PlateWidth  int `json:"plate_width,omitempty" yaml:"plate_width,omitempty" validate:"gte=0"`
	PlateHeight int `json:"plate_height,omitempty" yaml:"plate_height,omitempty" validate:"gte=0"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Policy == generation.PolicyBasic && c.NoDefectRatio != nil && *c.NoDefectRatio > 0 {
		return fmt.Errorf("config error: 'no_defect_ratio' is only used by the mixed policy")
	}

	params := c.Params()
	if err := validate.Struct(params.Geometry); err != nil {
		return fmt.Errorf("config error: invalid geometry: %w", err)
	}
	if params.Geometry.MinWaste > params.Geometry.MaxXX {
		return fmt.Errorf("config error: 'min_waste' (%d) exceeds 'max_xx' (%d)", params.Geometry.MinWaste, params.Geometry.MaxXX)
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.Policy == "" {
		result.Policy = defaults.Policy
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Count == 0 {
		result.Count = defaults.Count
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}
	if result.MinWaste == 0 {
		result.MinWaste = defaults.MinWaste
	}
	if result.MinXX == 0 {
		result.MinXX = defaults.MinXX
	}
	if result.MinYY == 0 {
		result.MinYY = defaults.MinYY
	}
	if result.MaxXX == 0 {
		result.MaxXX = defaults.MaxXX
	}
	if result.PlateWidth == 0 {
		result.PlateWidth = defaults.PlateWidth
	}
	if result.PlateHeight == 0 {
		result.PlateHeight = defaults.PlateHeight
	}

	// Pointer fields: use default if nil
	if result.NbStacks == nil {
		result.NbStacks = defaults.NbStacks
	}
	if result.AvgStackSize == nil {
		result.AvgStackSize = defaults.AvgStackSize
	}
	if result.AvgDefects == nil {
		result.AvgDefects = defaults.AvgDefects
	}
	if result.NbPlates == nil {
		result.NbPlates = defaults.NbPlates
	}
	if result.LargeItemRatio == nil {
		result.LargeItemRatio = defaults.LargeItemRatio
	}
	if result.BorderDefectRatio == nil {
		result.BorderDefectRatio = defaults.BorderDefectRatio
	}
	if result.NoDefectRatio == nil {
		result.NoDefectRatio = defaults.NoDefectRatio
	}
	if result.DefectMinSize == nil {
		result.DefectMinSize = defaults.DefectMinSize
	}
	if result.MaxAttempts == nil {
		result.MaxAttempts = defaults.MaxAttempts
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Params resolves the generation parameters, falling back to the benchmark
// defaults for every unset field.
func (c *Config) Params() generation.Params {
	p := generation.DefaultParams()

	if c.NbStacks != nil {
		p.NbStacks = *c.NbStacks
	}
	if c.AvgStackSize != nil {
		p.AvgStackSize = *c.AvgStackSize
	}
	if c.AvgDefects != nil {
		p.AvgDefects = *c.AvgDefects
	}
	if c.NbPlates != nil {
		p.NbPlates = *c.NbPlates
	}
	if c.LargeItemRatio != nil {
		p.LargeItemRatio = *c.LargeItemRatio
	}
	if c.BorderDefectRatio != nil {
		p.BorderDefectRatio = *c.BorderDefectRatio
	}
	if c.NoDefectRatio != nil {
		p.NoDefectRatio = *c.NoDefectRatio
	}
	if c.DefectMinSize != nil {
		p.DefectMinSize = *c.DefectMinSize
	}
	if c.MaxAttempts != nil {
		p.MaxAttempts = *c.MaxAttempts
	}

	p.Geometry = c.geometry()
	return p
}

func (c *Config) geometry() geometry.Geometry {
	g := geometry.Default()
	if c.MinWaste > 0 {
		g.MinWaste = c.MinWaste
	}
	if c.MinXX > 0 {
		g.MinXX = c.MinXX
	}
	if c.MinYY > 0 {
		g.MinYY = c.MinYY
	}
	if c.MaxXX > 0 {
		g.MaxXX = c.MaxXX
	}
	if c.PlateWidth > 0 {
		g.PlateWidth = c.PlateWidth
	}
	if c.PlateHeight > 0 {
		g.PlateHeight = c.PlateHeight
	}
	return g
}

// Float returns a pointer to v, for building configs in code
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for building configs in code
func Int(v int) *int {
	return &v
}
