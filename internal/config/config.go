// Package config loads the optional HCL configuration file.
//
// Values are layered: Defaults, then the file, then command-line flags
// (applied by the cli package). Attributes missing from the file keep the
// value they had before decoding.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Config is the decoded geomap.hcl file.
type Config struct {
	LogLevel   string  `hcl:"log_level,optional"`
	LogFormat  string  `hcl:"log_format,optional"`
	LogFile    string  `hcl:"log_file,optional"`
	WidthScale float64 `hcl:"width_scale,optional"`
	Background string  `hcl:"background,optional"`
	// Format forces the file kind of every positional path: "gl", "sg" or "poly".
	Format string `hcl:"format,optional"`

	Palette  []PaletteEntry `hcl:"palette,block"`
	Layers   []Layer        `hcl:"layer,block"`
	Polygons []Polygon      `hcl:"polygon,block"`
}

// PaletteEntry pins the display color of one edge color id.
type PaletteEntry struct {
	ColorID int32  `hcl:"color_id"`
	Hex     string `hcl:"hex"`
}

// Layer names a graph file to load into the scene.
type Layer struct {
	Name    string `hcl:"name,label"`
	Path    string `hcl:"path"`
	Layer   int    `hcl:"layer,optional"`
	Visible *bool  `hcl:"visible,optional"`
}

// IsVisible defaults to true when the attribute is absent.
func (l Layer) IsVisible() bool { return l.Visible == nil || *l.Visible }

// Polygon names a boundary file whose polygons are triangulated into the scene.
type Polygon struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
	Fill *int   `hcl:"fill,optional"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		LogLevel:   "info",
		LogFormat:  "text",
		WidthScale: 1.0,
		Background: "#0B0F14",
	}
}

// Load reads path on top of Defaults. An empty path returns Defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations, the width scale and every color.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q: must be 'text' or 'json'", c.LogFormat))
	}
	switch c.Format {
	case "", "gl", "sg", "poly":
	default:
		errs = append(errs, fmt.Errorf("format %q: must be 'gl', 'sg' or 'poly'", c.Format))
	}
	if !(c.WidthScale > 0) {
		errs = append(errs, fmt.Errorf("width_scale %v: must be greater than 0", c.WidthScale))
	}
	if _, err := colorful.Hex(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("background %q: %w", c.Background, err))
	}
	for _, p := range c.Palette {
		if _, err := colorful.Hex(p.Hex); err != nil {
			errs = append(errs, fmt.Errorf("palette color_id %d: hex %q: %w", p.ColorID, p.Hex, err))
		}
	}
	for _, l := range c.Layers {
		if l.Path == "" {
			errs = append(errs, fmt.Errorf("layer %q: path is empty", l.Name))
		}
	}
	for _, p := range c.Polygons {
		if p.Path == "" {
			errs = append(errs, fmt.Errorf("polygon %q: path is empty", p.Name))
		}
	}
	return errors.Join(errs...)
}

// PaletteOverrides returns the configured colors keyed by color id.
func (c *Config) PaletteOverrides() map[int32]colorful.Color {
	out := make(map[int32]colorful.Color, len(c.Palette))
	for _, p := range c.Palette {
		if col, err := colorful.Hex(p.Hex); err == nil {
			out[p.ColorID] = col
		}
	}
	return out
}
