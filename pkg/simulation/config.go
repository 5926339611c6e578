package simulation

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Parameter types understood by the prompts and env overrides.
const (
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeString   = "string"
	TypeBoolean  = "boolean"
	TypeDuration = "duration"
)

// SimulationConfig is the simulation.yaml descriptor that sits next to a
// simulation plugin.
type SimulationConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter defines a configurable parameter for a simulation
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"`
}

// Validate checks the descriptor's parameters for unknown types and
// defaults that violate their own bounds.
func (c *SimulationConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("simulation name is required")
	}
	seen := make(map[string]bool, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter without a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %s", p.Name)
		}
		seen[p.Name] = true
		if p.Default == nil {
			if !slices.Contains([]string{TypeInteger, TypeFloat, TypeString, TypeBoolean, TypeDuration}, p.Type) {
				return fmt.Errorf("parameter %s: unsupported type %q", p.Name, p.Type)
			}
			continue
		}
		v, err := p.Parse(fmt.Sprint(p.Default))
		if err != nil {
			return fmt.Errorf("parameter %s: invalid default: %w", p.Name, err)
		}
		if err := p.Check(v); err != nil {
			return fmt.Errorf("parameter %s: invalid default: %w", p.Name, err)
		}
	}
	return nil
}

// Defaults returns every parameter's default converted to its Go type.
// Parameters without a default are left out.
func (c *SimulationConfig) Defaults() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Default == nil {
			continue
		}
		v, err := p.Parse(fmt.Sprint(p.Default))
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out[p.Name] = v
	}
	return out, nil
}

// Parse converts a raw string into the parameter's type: int, float64,
// string, bool or time.Duration.
func (p Parameter) Parse(value string) (interface{}, error) {
	switch p.Type {
	case TypeInteger:
		return strconv.Atoi(value)
	case TypeFloat:
		return strconv.ParseFloat(value, 64)
	case TypeString:
		return value, nil
	case TypeBoolean:
		return strconv.ParseBool(value)
	case TypeDuration:
		return time.ParseDuration(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", p.Type)
	}
}

// Check validates a parsed value against Min, Max and Options.
func (p Parameter) Check(v interface{}) error {
	switch val := v.(type) {
	case int:
		if p.Min != nil && val < toInt(p.Min) {
			return fmt.Errorf("value must be at least %d", toInt(p.Min))
		}
		if p.Max != nil && val > toInt(p.Max) {
			return fmt.Errorf("value must be at most %d", toInt(p.Max))
		}
	case float64:
		if p.Min != nil && val < toFloat64(p.Min) {
			return fmt.Errorf("value must be at least %g", toFloat64(p.Min))
		}
		if p.Max != nil && val > toFloat64(p.Max) {
			return fmt.Errorf("value must be at most %g", toFloat64(p.Max))
		}
	case string:
		if len(p.Options) > 0 && !slices.Contains(p.Options, val) {
			return fmt.Errorf("value must be one of %v", p.Options)
		}
	}
	return nil
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
