package utils

import (
	"fmt"
	"os"

	"github.com/picogrid/engagement-sim/pkg/simulation"
	"gopkg.in/yaml.v3"
)

// LoadParameterFile reads a YAML map of parameter values and returns the
// defaults of params with the file's values applied. Keys that are not
// declared parameters are rejected.
func LoadParameterFile(path string, params []simulation.Parameter) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}

	byName := make(map[string]simulation.Parameter, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}

	desc := simulation.SimulationConfig{Name: "parameters", Parameters: params}
	result, err := desc.Defaults()
	if err != nil {
		return nil, err
	}

	for key, value := range raw {
		p, ok := byName[key]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %s", key)
		}
		if value == nil {
			delete(result, key)
			continue
		}
		v, err := p.Parse(fmt.Sprint(value))
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}
		if err := p.Check(v); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}
		result[key] = v
	}

	for _, p := range params {
		if _, ok := result[p.Name]; p.Required && !ok {
			return nil, fmt.Errorf("required parameter %s not provided", p.Name)
		}
	}
	return result, nil
}
