// Package config loads generator settings from a TOML manifest.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config controls reconstruction and emission. Zero values fall back to
// Default().
type Config struct {
	ShortName      string `toml:"short_name"`
	EmitEmpty      bool   `toml:"emit_empty"`
	MinGap         int    `toml:"min_gap"`
	BoolType       string `toml:"bool_type"`
	UseStrings     bool   `toml:"use_strings"`
	XorStrings     bool   `toml:"xor_strings"`
	RecursionLimit int    `toml:"recursion_limit"`

	// Align overrides struct alignment per full name.
	Align map[string]int `toml:"align"`

	// Classes carries per-class manual overrides. When a class lists
	// members, reconstruction is bypassed entirely for it.
	Classes []ClassOverride `toml:"class"`
}

// ClassOverride is one manually specified class.
type ClassOverride struct {
	FullName      string             `toml:"full_name"`
	StaticMembers []PredefinedMember `toml:"static_member"`
	Members       []PredefinedMember `toml:"member"`
	Methods       []PredefinedMethod `toml:"method"`
	Virtual       []VirtualRule      `toml:"virtual"`
}

// PredefinedMember is an externally supplied member declaration.
type PredefinedMember struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// PredefinedMethod is an externally supplied method. Inline methods are
// emitted in the class body, others as signature + separate body.
type PredefinedMethod struct {
	Signature string `toml:"signature"`
	Body      string `toml:"body"`
	Inline    bool   `toml:"inline"`
}

// VirtualRule binds a byte pattern to a virtual-slot accessor template.
// Accessor is a format string receiving the matched slot index.
type VirtualRule struct {
	Name     string `toml:"name"`
	Pattern  string `toml:"pattern"`
	Window   int    `toml:"window"`
	Accessor string `toml:"accessor"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ShortName:      "SDK",
		MinGap:         4,
		BoolType:       "bool",
		RecursionLimit: 256,
	}
}

// Load reads a TOML manifest on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %s", path, undec[0].String())
	}
	if cfg.ShortName == "" {
		cfg.ShortName = "SDK"
	}
	if cfg.BoolType == "" {
		cfg.BoolType = "bool"
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 256
	}
	return cfg, nil
}

// Class returns the override block for fullName, or nil.
func (c *Config) Class(fullName string) *ClassOverride {
	for i := range c.Classes {
		if c.Classes[i].FullName == fullName {
			return &c.Classes[i]
		}
	}
	return nil
}

// Alignment returns the alignment override for fullName, or 0.
func (c *Config) Alignment(fullName string) int {
	return c.Align[fullName]
}
