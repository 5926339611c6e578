package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/picogrid/engagement-sim/pkg/game"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/playback"
	"github.com/picogrid/engagement-sim/pkg/simulation"
	"github.com/picogrid/engagement-sim/pkg/utils"
	"gopkg.in/yaml.v3"
)

// overrideTypes lists the keys accepted by MergeWithCLIOverrides and the
// parameter type each is parsed as when read from the environment. The keys
// match the parameter names in simulation.yaml.
var overrideTypes = map[string]string{
	"scenario_file":    simulation.TypeString,
	"max_ticks":        simulation.TypeInteger,
	"seed":             simulation.TypeInteger,
	"time_compression": simulation.TypeInteger,
	"realtime":         simulation.TypeBoolean,
	"record":           simulation.TypeBoolean,
	"record_every":     simulation.TypeInteger,
	"recording_path":   simulation.TypeString,
	"compress":         simulation.TypeBoolean,
	"order_script":     simulation.TypeString,
	"log_level":        simulation.TypeString,
	"echo_events":      simulation.TypeBoolean,
	"report":           simulation.TypeBoolean,
	"report_format":    simulation.TypeString,
	"report_path":      simulation.TypeString,
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadConfigOrDefault loads config from path or a default location, falling
// back to GetDefaultConfig. Environment overrides are applied last.
func LoadConfigOrDefault(path string) (*SimulationConfig, error) {
	var config *SimulationConfig

	if path != "" {
		c, err := LoadConfig(path)
		if err != nil {
			logger.Warnf("Could not load config from %s: %v", path, err)
		} else {
			config = c
		}
	}

	if config == nil {
		defaultPaths := []string{
			"engagement.yaml",
			filepath.Join("cmd", "engagement", "config.yaml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if c, err := LoadConfig(p); err == nil {
				logger.Debugf("Loaded config from %s", p)
				config = c
				break
			}
		}
	}

	if config == nil {
		logger.Debug("Using default configuration")
		config = GetDefaultConfig()
	}

	MergeWithEnvironment(config)
	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *SimulationConfig, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// MergeWithCLIOverrides applies parameter overrides. Values of the wrong
// type or out of range are ignored.
func MergeWithCLIOverrides(config *SimulationConfig, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "scenario_file":
			if path, ok := value.(string); ok && path != "" {
				config.Simulation.ScenarioFile = path
			}
		case "max_ticks":
			if n, ok := value.(int); ok && n >= 0 {
				config.Simulation.MaxTicks = int64(n)
			}
		case "seed":
			if n, ok := value.(int); ok && n >= 0 {
				config.Simulation.Seed = uint64(n)
			}
		case "time_compression":
			if n, ok := value.(int); ok && slices.Contains(game.TimeCompressions, n) {
				config.Simulation.TimeCompression = n
			}
		case "realtime":
			if b, ok := value.(bool); ok {
				config.Simulation.Realtime = b
			}
		case "record":
			if b, ok := value.(bool); ok {
				config.Recording.Enabled = b
			}
		case "record_every":
			if n, ok := value.(int); ok && slices.Contains(playback.RecordingIntervals, int64(n)) {
				config.Recording.RecordEvery = int64(n)
			}
		case "recording_path":
			if path, ok := value.(string); ok && path != "" {
				config.Recording.OutputPath = path
			}
		case "compress":
			if b, ok := value.(bool); ok {
				config.Recording.Compress = b
			}
		case "order_script":
			if path, ok := value.(string); ok {
				config.Orders.ScriptPath = path
			}
		case "log_level":
			if level, ok := value.(string); ok && slices.Contains(logLevels, level) {
				config.Logging.ConsoleLevel = level
			}
		case "echo_events":
			if b, ok := value.(bool); ok {
				config.Logging.EchoEvents = b
			}
		case "report":
			if b, ok := value.(bool); ok {
				config.Report.Enabled = b
			}
		case "report_format":
			if format, ok := value.(string); ok && slices.Contains(ReportFormats, format) {
				config.Report.Format = format
			}
		case "report_path":
			if path, ok := value.(string); ok {
				config.Report.OutputPath = path
			}
		}
	}
}

// LoadConfigWithOverrides loads config and applies both environment and CLI overrides
func LoadConfigWithOverrides(path string, cliOverrides map[string]interface{}) (*SimulationConfig, error) {
	config, err := LoadConfigOrDefault(path)
	if err != nil {
		return nil, err
	}

	if cliOverrides != nil {
		MergeWithCLIOverrides(config, cliOverrides)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}
	return config, nil
}

// MergeWithEnvironment applies ENGAGEMENT_<KEY> variables for every
// override key, e.g. ENGAGEMENT_MAX_TICKS=600.
func MergeWithEnvironment(config *SimulationConfig) {
	overrides := make(map[string]interface{})
	for key, typ := range overrideTypes {
		raw := os.Getenv(utils.EnvKey(key))
		if raw == "" {
			continue
		}
		v, err := simulation.Parameter{Name: key, Type: typ}.Parse(raw)
		if err != nil {
			logger.Warnf("Ignoring %s: %v", utils.EnvKey(key), err)
			continue
		}
		overrides[key] = v
	}
	MergeWithCLIOverrides(config, overrides)
}
