// Package viewmodel derives what list views render from domain records and
// the viewer's memberships: category colours, labels and per-item flags.
package viewmodel

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed palette.yml
var paletteYAML []byte

type Colors struct {
	Background string `yaml:"background" json:"background"`
	Border     string `yaml:"border" json:"border"`
	Text       string `yaml:"text" json:"text"`
}

type Palette struct {
	Default               Colors            `yaml:"default"`
	Categories            map[string]Colors `yaml:"categories"`
	RegisteredBorder      string            `yaml:"registered_border"`
	RegisteredBorderWidth int               `yaml:"registered_border_width"`
	BorderWidth           int               `yaml:"border_width"`
	RegisteredPrefix      string            `yaml:"registered_prefix"`
	FallbackCategory      string            `yaml:"fallback_category"`
}

// ParsePalette reads a palette table; colours missing from the default
// triple are an error.
func ParsePalette(data []byte) (*Palette, error) {
	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}
	if p.Default.Background == "" || p.Default.Border == "" || p.Default.Text == "" {
		return nil, fmt.Errorf("palette: incomplete default colours %+v", p.Default)
	}
	if p.BorderWidth == 0 {
		p.BorderWidth = 1
	}
	if p.RegisteredBorderWidth == 0 {
		p.RegisteredBorderWidth = p.BorderWidth
	}

	return &p, nil
}

var defaultPalette = mustParsePalette(paletteYAML)

func mustParsePalette(data []byte) *Palette {
	p, err := ParsePalette(data)
	if err != nil {
		panic(err)
	}

	return p
}

// DefaultPalette is the palette built into the binary.
func DefaultPalette() *Palette {
	return defaultPalette
}

// For returns the colour triple of a category name, or the default triple.
func (p *Palette) For(category string) Colors {
	if c, ok := p.Categories[category]; ok {
		return c
	}

	return p.Default
}
