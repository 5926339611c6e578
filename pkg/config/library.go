// Package config persists the operator's scenario library: named scenario
// files the CLI can run without typing a path.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrScenarioNotFound is returned when a library lookup misses.
var ErrScenarioNotFound = errors.New("scenario not found in library")

const (
	dirName     = ".engagement-sim"
	libraryFile = "scenarios.yaml"
)

// ScenarioEntry names a scenario file on disk.
type ScenarioEntry struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

// Library is the set of saved scenarios and the one selected by default.
type Library struct {
	Scenarios []ScenarioEntry `yaml:"scenarios"`
	Selected  string          `yaml:"selected,omitempty"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// LibraryPath returns the default library file location.
func LibraryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, libraryFile), nil
}

// LoadLibrary loads the library from the default location.
func LoadLibrary() (*Library, error) {
	path, err := LibraryPath()
	if err != nil {
		return nil, err
	}
	return LoadLibraryFromFile(path)
}

// LoadLibraryFromFile loads a library. A missing file is an empty library.
func LoadLibraryFromFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario library: %w", err)
	}

	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse scenario library: %w", err)
	}
	return &lib, nil
}

// Save writes the library to the default location.
func (l *Library) Save() error {
	path, err := LibraryPath()
	if err != nil {
		return err
	}
	return l.SaveToFile(path)
}

// SaveToFile writes the library to path, creating its directory.
func (l *Library) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario library: %w", err)
	}
	return nil
}

// Find looks an entry up by name, ignoring case.
func (l *Library) Find(name string) (*ScenarioEntry, error) {
	for i := range l.Scenarios {
		if strings.EqualFold(l.Scenarios[i].Name, name) {
			return &l.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, name)
}

// Add stores e with an absolute path. Names must be unique.
func (l *Library) Add(e ScenarioEntry) error {
	if e.Name == "" || e.Path == "" {
		return fmt.Errorf("scenario name and path are required")
	}
	if _, err := l.Find(e.Name); err == nil {
		return fmt.Errorf("scenario %s already exists", e.Name)
	}
	abs, err := filepath.Abs(e.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", e.Path, err)
	}
	e.Path = abs
	l.Scenarios = append(l.Scenarios, e)
	return nil
}

// Remove deletes the named entry and clears the selection if it pointed
// there.
func (l *Library) Remove(name string) error {
	i := slices.IndexFunc(l.Scenarios, func(e ScenarioEntry) bool { return strings.EqualFold(e.Name, name) })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, name)
	}
	if strings.EqualFold(l.Selected, l.Scenarios[i].Name) {
		l.Selected = ""
	}
	l.Scenarios = slices.Delete(l.Scenarios, i, i+1)
	return nil
}

// Select marks the named entry as the default.
func (l *Library) Select(name string) error {
	e, err := l.Find(name)
	if err != nil {
		return err
	}
	l.Selected = e.Name
	return nil
}

// Names returns the entry names in library order.
func (l *Library) Names() []string {
	names := make([]string, len(l.Scenarios))
	for i, e := range l.Scenarios {
		names[i] = e.Name
	}
	return names
}

// Resolve turns a library name or a file path into a scenario file path.
// An empty ref resolves to the selected entry.
func (l *Library) Resolve(ref string) (string, error) {
	if ref == "" {
		if l.Selected == "" {
			return "", fmt.Errorf("%w: no scenario selected", ErrScenarioNotFound)
		}
		ref = l.Selected
	}
	if e, err := l.Find(ref); err == nil {
		return e.Path, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %s", ErrScenarioNotFound, ref)
}
