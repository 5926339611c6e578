package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/simulation"
	"gopkg.in/yaml.v3"
)

// DescriptorFile is the name of the descriptor placed next to a simulation.
const DescriptorFile = "simulation.yaml"

// SimulationInfo is a discovered simulation descriptor and the directory
// holding it.
type SimulationInfo struct {
	Path   string
	Config simulation.SimulationConfig
}

// DiscoverSimulations finds all simulation descriptors under the project's
// cmd directory.
func DiscoverSimulations() ([]SimulationInfo, error) {
	rootDir, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	return DiscoverSimulationsIn(filepath.Join(rootDir, "cmd"))
}

// DiscoverSimulationsIn walks dir for descriptors, sorted by name.
// Descriptors that fail to load or validate are skipped with a warning.
func DiscoverSimulationsIn(dir string) ([]SimulationInfo, error) {
	var simulations []SimulationInfo

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != DescriptorFile {
			return nil
		}
		info, err := LoadSimulationConfig(path)
		if err != nil {
			logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		simulations = append(simulations, *info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for simulations: %w", err)
	}

	slices.SortFunc(simulations, func(a, b SimulationInfo) int {
		return strings.Compare(a.Config.Name, b.Config.Name)
	})
	return simulations, nil
}

// FindSimulation returns the descriptor whose name matches, ignoring case.
func FindSimulation(sims []SimulationInfo, name string) (*SimulationInfo, error) {
	for i := range sims {
		if strings.EqualFold(sims[i].Config.Name, name) {
			return &sims[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", simulation.ErrNotFound, name)
}

// LoadSimulationConfig reads and validates one descriptor.
func LoadSimulationConfig(path string) (*SimulationInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	var config simulation.SimulationConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	return &SimulationInfo{
		Path:   filepath.Dir(path),
		Config: config,
	}, nil
}

// findProjectRoot walks up from the working directory to the nearest go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}
