package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/picogrid/engagement-sim/pkg/game"
	"github.com/picogrid/engagement-sim/pkg/playback"
)

// Report formats understood by the reporting package.
var ReportFormats = []string{"console", "json", "markdown"}

var logLevels = []string{"debug", "info", "warn", "error"}

// SimulationConfig is the run configuration of the engagement simulation.
type SimulationConfig struct {
	Simulation SimulationSettings `yaml:"simulation"`
	Recording  RecordingConfig    `yaml:"recording"`
	Orders     OrdersConfig       `yaml:"orders"`
	Logging    LoggingConfig      `yaml:"logging"`
	Report     ReportConfig       `yaml:"report"`
}

// SimulationSettings controls which scenario runs and how fast.
type SimulationSettings struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	ScenarioFile string `yaml:"scenario_file"`
	// MaxTicks caps the run below the scenario duration. Zero runs
	// until the scenario ends or the run is stopped.
	MaxTicks        int64  `yaml:"max_ticks"`
	Seed            uint64 `yaml:"seed"`
	TimeCompression int    `yaml:"time_compression"`
	// Realtime paces ticks by the wall clock delay of the time
	// compression. Off, ticks run back to back.
	Realtime bool `yaml:"realtime"`
}

// RecordingConfig controls the playback recorder.
type RecordingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	RecordEvery int64  `yaml:"record_every"`
	OutputPath  string `yaml:"output_path"`
	Compress    bool   `yaml:"compress"`
}

// OrdersConfig points at an optional order script.
type OrdersConfig struct {
	ScriptPath string `yaml:"script_path"`
}

// LoggingConfig controls console output.
type LoggingConfig struct {
	ConsoleLevel string `yaml:"console_level"`
	EchoEvents   bool   `yaml:"echo_events"`
	// EchoSides limits echoed events to these sides. Empty echoes all.
	EchoSides []string `yaml:"echo_sides,omitempty"`
}

// ReportConfig controls the after-action summary.
type ReportConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"output_path"`
}

// Validate checks if the configuration is valid
func (c *SimulationConfig) Validate() error {
	if c.Simulation.Name == "" {
		return fmt.Errorf("simulation name is required")
	}
	if c.Simulation.ScenarioFile == "" {
		return fmt.Errorf("scenario file is required")
	}
	if c.Simulation.MaxTicks < 0 {
		return fmt.Errorf("max ticks must not be negative")
	}
	if !slices.Contains(game.TimeCompressions, c.Simulation.TimeCompression) {
		return fmt.Errorf("time compression must be one of %v", game.TimeCompressions)
	}

	if c.Recording.Enabled {
		if !slices.Contains(playback.RecordingIntervals, c.Recording.RecordEvery) {
			return fmt.Errorf("record_every must be one of %v", playback.RecordingIntervals)
		}
		if c.Recording.OutputPath == "" {
			return fmt.Errorf("recording output path is required when recording is enabled")
		}
	}

	if c.Logging.ConsoleLevel != "" && !slices.Contains(logLevels, c.Logging.ConsoleLevel) {
		return fmt.Errorf("console level must be one of %v", logLevels)
	}

	if c.Report.Enabled && !slices.Contains(ReportFormats, c.Report.Format) {
		return fmt.Errorf("report format must be one of %v", ReportFormats)
	}
	return nil
}

// String returns a human-readable representation of the configuration
func (c *SimulationConfig) String() string {
	orders := c.Orders.ScriptPath
	if orders == "" {
		orders = "none"
	}
	return fmt.Sprintf(`Simulation Configuration:
  Name: %s
  Scenario: %s
  Max Ticks: %d
  Seed: %d
  Time Compression: %dx (realtime: %t, tick delay: %v)

Recording:
  Enabled: %t
  Every: %ds
  Output: %s (zstd: %t)

Orders:
  Script: %s

Logging:
  Console Level: %s
  Echo Events: %t

Report:
  Enabled: %t
  Format: %s`,
		c.Simulation.Name,
		c.Simulation.ScenarioFile,
		c.Simulation.MaxTicks,
		c.Simulation.Seed,
		c.Simulation.TimeCompression,
		c.Simulation.Realtime,
		c.TickDelay(),
		c.Recording.Enabled,
		c.Recording.RecordEvery,
		c.Recording.OutputPath,
		c.Recording.Compress,
		orders,
		c.Logging.ConsoleLevel,
		c.Logging.EchoEvents,
		c.Report.Enabled,
		c.Report.Format,
	)
}

// TickDelay is the wall clock pause between ticks. Zero when not paced.
func (c *SimulationConfig) TickDelay() time.Duration {
	if !c.Simulation.Realtime {
		return 0
	}
	return game.TickDelay(c.Simulation.TimeCompression)
}

// GetDefaultConfig returns the configuration used when no file is found.
func GetDefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Simulation: SimulationSettings{
			Name:            "engagement",
			Description:     "Air and maritime engagement simulation",
			ScenarioFile:    "cmd/engagement/scenarios/strait.json",
			MaxTicks:        3600,
			Seed:            1,
			TimeCompression: 100,
			Realtime:        false,
		},
		Recording: RecordingConfig{
			Enabled:     false,
			RecordEvery: playback.DefaultRecordEvery,
			OutputPath:  "recordings/engagement",
			Compress:    true,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "info",
			EchoEvents:   true,
		},
		Report: ReportConfig{
			Enabled: true,
			Format:  "console",
		},
	}
}
