package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent matches the indentation of the init templates.
const yamlIndent = 2

// FromYAML decodes a config file. Unknown keys are an error so typos do
// not silently fall back to defaults. Empty input gives an empty Config.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	return &cfg, nil
}

// ToYAML encodes the file-backed part of c. CLI-only fields are left out.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Ignore = slices.Clone(c.Ignore)
	out.Extensions = slices.Clone(c.Extensions)
	out.EnableRules = slices.Clone(c.EnableRules)
	out.DisableRules = slices.Clone(c.DisableRules)
	out.FixRules = slices.Clone(c.FixRules)

	if c.Rules != nil {
		out.Rules = make(map[string]RuleConfig, len(c.Rules))
		for key, rc := range c.Rules {
			out.Rules[key] = RuleConfig{
				Enabled:  clonePtr(rc.Enabled),
				Severity: clonePtr(rc.Severity),
				AutoFix:  clonePtr(rc.AutoFix),
			}
		}
	}

	if c.Model.Entities != nil {
		out.Model.Entities = make(map[string]EntityConfig, len(c.Model.Entities))
		for name, e := range c.Model.Entities {
			e.Bases = slices.Clone(e.Bases)
			e.Properties = maps.Clone(e.Properties)
			out.Model.Entities[name] = e
		}
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
