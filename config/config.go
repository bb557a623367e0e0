package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the mockup editor and its remote
// collaborators. Fields may be loaded from a JSON file and overridden by
// command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Canvas / viewport parameters
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
	MinZoom      float64 `json:"min_zoom"`
	MaxZoom      float64 `json:"max_zoom"`
	HitRadius    float64 `json:"hit_radius"`    // corner hit radius in canvas pixels
	PanThreshold float64 `json:"pan_threshold"` // movement below this is a click, not a pan

	// Chroma-key detection parameters
	TargetColor    string  `json:"target_color"` // hex, e.g. "#00b140"
	Tolerance      float64 `json:"tolerance"`    // max euclidean RGB distance
	MinPixels      int     `json:"min_pixels"`   // matched-pixel floor
	DilationRadius int     `json:"dilation_radius"`

	// Remote endpoints
	CompositorURL string `json:"compositor_url"`
	TemplateURL   string `json:"template_url"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		CanvasWidth:    960,
		CanvasHeight:   600,
		MinZoom:        0.5,
		MaxZoom:        8.0,
		HitRadius:      12,
		PanThreshold:   5,
		TargetColor:    "#00b140",
		Tolerance:      60,
		MinPixels:      1000,
		DilationRadius: 3,
		CompositorURL:  "http://localhost:8090/composite",
		TemplateURL:    "http://localhost:8090/templates",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CanvasWidth < 100 {
		c.CanvasWidth = 960
	}
	if c.CanvasHeight < 100 {
		c.CanvasHeight = 600
	}
	if c.MinZoom <= 0 {
		c.MinZoom = 0.5
	}
	if c.MaxZoom <= c.MinZoom {
		c.MaxZoom = c.MinZoom * 16
	}
	if c.HitRadius <= 0 {
		c.HitRadius = 12
	}
	if c.PanThreshold <= 0 {
		c.PanThreshold = 5
	}
	if c.Tolerance <= 0 || c.Tolerance > 442 { // 442 ~ max possible RGB distance
		c.Tolerance = 60
	}
	if c.MinPixels <= 0 {
		c.MinPixels = 1000
	}
	if c.DilationRadius < 0 || c.DilationRadius > 16 {
		c.DilationRadius = 3
	}
	if c.TargetColor == "" {
		c.TargetColor = "#00b140"
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
