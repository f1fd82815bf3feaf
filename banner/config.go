package banner

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a partial banner configuration. nil pointer fields mean unset.
// Numeric fields come in two units: the percent fields are fractions of the
// actual video dimensions, while y/fontSize are legacy absolute pixels
// interpreted against a reference template height. Precedence between the
// two lives in Resolve.
type Config struct {
	YPercent        *float64 `json:"yPercent,omitempty" yaml:"yPercent"`
	Y               *float64 `json:"y,omitempty" yaml:"y"`
	FontSizePercent *float64 `json:"fontSizePercent,omitempty" yaml:"fontSizePercent"`
	FontSize        *float64 `json:"fontSize,omitempty" yaml:"fontSize"`
	TemplateHeight  *float64 `json:"templateHeight,omitempty" yaml:"templateHeight"`
	ShowBackground  *bool    `json:"showBackground,omitempty" yaml:"showBackground"`
	TextColor       string   `json:"textColor,omitempty" yaml:"textColor"`
	FillColor       string   `json:"fillColor,omitempty" yaml:"fillColor"`
	BgColor         string   `json:"bgColor,omitempty" yaml:"bgColor"`
}

// Merge layers override on top of base and returns a new Config; neither
// input is mutated. nil inputs count as empty.
func Merge(base, override *Config) *Config {
	out := &Config{}
	if base != nil {
		*out = *base
	}
	if override == nil {
		return out
	}
	if override.YPercent != nil {
		out.YPercent = override.YPercent
	}
	if override.Y != nil {
		out.Y = override.Y
	}
	if override.FontSizePercent != nil {
		out.FontSizePercent = override.FontSizePercent
	}
	if override.FontSize != nil {
		out.FontSize = override.FontSize
	}
	if override.TemplateHeight != nil {
		out.TemplateHeight = override.TemplateHeight
	}
	if override.ShowBackground != nil {
		out.ShowBackground = override.ShowBackground
	}
	if override.TextColor != "" {
		out.TextColor = override.TextColor
	}
	if override.FillColor != "" {
		out.FillColor = override.FillColor
	}
	if override.BgColor != "" {
		out.BgColor = override.BgColor
	}
	return out
}

// Presets maps an upper-cased platform tag to the partial config layered
// underneath the per-request config for jobs targeting that platform.
type Presets map[string]*Config

// LoadPresets reads a YAML file mapping platform tags to partial banner
// configs. Tags match case-insensitively. An empty path yields empty presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read banner presets: %w", err)
	}

	var raw map[string]*Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse banner presets: %w", err)
	}

	presets := make(Presets, len(raw))
	for tag, cfg := range raw {
		presets[strings.ToUpper(tag)] = cfg
	}
	return presets, nil
}

// For returns the preset for tag, or nil when none is defined.
func (p Presets) For(tag string) *Config {
	if p == nil {
		return nil
	}
	return p[strings.ToUpper(tag)]
}
