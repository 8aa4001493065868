package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"texsqueeze/internal/batch"
	"texsqueeze/internal/quality"
	"texsqueeze/internal/texture"
)

// Config holds paths and quality settings for one run.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	ScenePath  string `json:"scene"`
	TextureDir string `json:"texture_dir"`
	SaveDir    string `json:"save_dir"`

	// Fixed quality
	Quality       string `json:"quality"`
	CustomQuality int    `json:"custom_quality"`

	// Quality by distance
	Distance DistanceConfig `json:"distance"`

	// Output
	Format        string `json:"format"`
	WriteVariants *bool  `json:"write_variants,omitempty"` // distance mode; nil means true
}

// DistanceConfig holds the distance gradient settings.
type DistanceConfig struct {
	MinDistance           float64  `json:"min_distance"`
	MaxDistance           *float64 `json:"max_distance,omitempty"`
	NearestQuality        string   `json:"nearest_quality"`
	NearestCustomQuality  int      `json:"nearest_custom_quality"`
	FarthestQuality       string   `json:"farthest_quality"`
	FarthestCustomQuality int      `json:"farthest_custom_quality"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ScenePath     string
	TextureDir    string
	SaveDir       string
	Quality       string
	CustomQuality int
	Format        string

	// Distance gradient. Nil distances mean the flag was not given, so an
	// explicit 0 still overrides the config file.
	MinDistance           *float64
	MaxDistance           *float64
	NearestQuality        string
	NearestCustomQuality  int
	FarthestQuality       string
	FarthestCustomQuality int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.ScenePath != "" {
		c.ScenePath = flags.ScenePath
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.SaveDir != "" {
		c.SaveDir = flags.SaveDir
	}
	if flags.Quality != "" {
		c.Quality = flags.Quality
	}
	if flags.CustomQuality > 0 {
		c.CustomQuality = flags.CustomQuality
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.MinDistance != nil {
		c.Distance.MinDistance = *flags.MinDistance
	}
	if flags.MaxDistance != nil {
		maxDist := *flags.MaxDistance
		c.Distance.MaxDistance = &maxDist
	}
	if flags.NearestQuality != "" {
		c.Distance.NearestQuality = flags.NearestQuality
	}
	if flags.NearestCustomQuality > 0 {
		c.Distance.NearestCustomQuality = flags.NearestCustomQuality
	}
	if flags.FarthestQuality != "" {
		c.Distance.FarthestQuality = flags.FarthestQuality
	}
	if flags.FarthestCustomQuality > 0 {
		c.Distance.FarthestCustomQuality = flags.FarthestCustomQuality
	}

	// Resolve relative paths against base dir. The save path has no
	// default: an empty one is reported by the operation that needs it.
	if c.BaseDir != "" {
		c.ScenePath = resolvePath(c.BaseDir, c.ScenePath)
		c.TextureDir = resolvePath(c.BaseDir, c.TextureDir)
		c.SaveDir = resolvePath(c.BaseDir, c.SaveDir)
	}
	if c.TextureDir == "" && c.ScenePath != "" {
		c.TextureDir = filepath.Dir(c.ScenePath)
	}

	// Defaults for quality settings
	if c.Quality == "" {
		c.Quality = string(quality.Preset4096)
	}
	if c.CustomQuality <= 0 {
		c.CustomQuality = 1024
	}
	d := &c.Distance
	if d.NearestQuality == "" {
		d.NearestQuality = string(quality.Preset4096)
	}
	if d.NearestCustomQuality <= 0 {
		d.NearestCustomQuality = 1024
	}
	if d.FarthestQuality == "" {
		d.FarthestQuality = string(quality.Preset512)
	}
	if d.FarthestCustomQuality <= 0 {
		d.FarthestCustomQuality = 512
	}
	if d.MaxDistance == nil {
		maxDist := 10.0
		d.MaxDistance = &maxDist
	}
	if c.Format == "" {
		c.Format = string(texture.FormatPNG)
	}
}

// FixedResolution returns the resolution selected for fixed-quality mode.
func (c Config) FixedResolution() (int, error) {
	p, err := quality.ParsePreset(c.Quality)
	if err != nil {
		return 0, fmt.Errorf("config: quality: %w", err)
	}
	return p.Resolution(c.CustomQuality)
}

// Range builds and validates the distance gradient.
func (c Config) Range() (quality.Range, error) {
	d := c.Distance
	if d.MinDistance < 0 {
		return quality.Range{}, fmt.Errorf("config: min distance %g must not be negative", d.MinDistance)
	}
	if d.MaxDistance == nil {
		return quality.Range{}, errors.New("config: max distance not set")
	}

	near, err := presetResolution(d.NearestQuality, d.NearestCustomQuality)
	if err != nil {
		return quality.Range{}, fmt.Errorf("config: nearest quality: %w", err)
	}
	far, err := presetResolution(d.FarthestQuality, d.FarthestCustomQuality)
	if err != nil {
		return quality.Range{}, fmt.Errorf("config: farthest quality: %w", err)
	}

	r := quality.Range{MinDistance: d.MinDistance, MaxDistance: *d.MaxDistance, Near: near, Far: far}
	if err := r.Validate(); err != nil {
		return quality.Range{}, err
	}
	return r, nil
}

// BatchOptions returns the output options for the batch applier.
func (c Config) BatchOptions() (batch.Options, error) {
	f, err := texture.ParseFormat(c.Format)
	if err != nil {
		return batch.Options{}, fmt.Errorf("config: %w", err)
	}
	return batch.Options{
		Format:          f,
		DistanceInPlace: c.WriteVariants != nil && !*c.WriteVariants,
	}, nil
}

func presetResolution(name string, custom int) (int, error) {
	p, err := quality.ParsePreset(name)
	if err != nil {
		return 0, err
	}
	return p.Resolution(custom)
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
