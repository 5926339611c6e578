package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/picogrid/engagement-sim/pkg/simulation"
)

func writeDescriptor(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DescriptorFile), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSimulationsIn(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "strait"), "name: Strait Patrol\nparameters:\n  - name: max_ticks\n    type: integer\n    default: 600\n")
	writeDescriptor(t, filepath.Join(root, "nested", "air"), "name: Air Defense\n")
	writeDescriptor(t, filepath.Join(root, "broken"), "name: [")
	writeDescriptor(t, filepath.Join(root, "invalid"), "name: Bad\nparameters:\n  - name: x\n    type: matrix\n")

	sims, err := DiscoverSimulationsIn(root)
	if err != nil {
		t.Fatalf("Discovery failed: %v", err)
	}
	if len(sims) != 2 {
		t.Fatalf("Expected 2 valid descriptors, got %d", len(sims))
	}
	if sims[0].Config.Name != "Air Defense" || sims[1].Config.Name != "Strait Patrol" {
		t.Errorf("Expected sorted names, got %s, %s", sims[0].Config.Name, sims[1].Config.Name)
	}
	if sims[1].Path != filepath.Join(root, "strait") {
		t.Errorf("Expected descriptor directory, got %s", sims[1].Path)
	}

	found, err := FindSimulation(sims, "strait patrol")
	if err != nil || found.Config.Name != "Strait Patrol" {
		t.Errorf("Expected case-insensitive match, got %v, %v", found, err)
	}
	if _, err := FindSimulation(sims, "nope"); !errors.Is(err, simulation.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPromptForParametersSkipPrompts(t *testing.T) {
	t.Setenv(SkipPromptsEnv, "true")
	t.Setenv(EnvKey("max_ticks"), "1200")

	params := []simulation.Parameter{
		{Name: "max_ticks", Type: simulation.TypeInteger, Default: 600, Min: 1},
		{Name: "compress", Type: simulation.TypeBoolean, Default: false},
		{Name: "tick_interval", Type: simulation.TypeDuration, Default: "1s"},
		{Name: "order_script", Type: simulation.TypeString},
	}
	got, err := PromptForParameters(params)
	if err != nil {
		t.Fatalf("PromptForParameters failed: %v", err)
	}
	if got["max_ticks"] != 1200 {
		t.Errorf("Expected env override 1200, got %v", got["max_ticks"])
	}
	if got["compress"] != false {
		t.Errorf("Expected default false, got %v", got["compress"])
	}
	if got["tick_interval"] != time.Second {
		t.Errorf("Expected 1s, got %v", got["tick_interval"])
	}
	if _, ok := got["order_script"]; ok {
		t.Error("Expected optional parameter without default to be omitted")
	}
}

func TestPromptForParametersSkipPromptsErrors(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		param simulation.Parameter
	}{
		{"unparsable env", "many", simulation.Parameter{Name: "max_ticks", Type: simulation.TypeInteger}},
		{"env out of range", "0", simulation.Parameter{Name: "max_ticks", Type: simulation.TypeInteger, Min: 1}},
		{"required without default", "", simulation.Parameter{Name: "scenario", Type: simulation.TypeString, Required: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(SkipPromptsEnv, "true")
			t.Setenv(EnvKey(tt.param.Name), tt.env)
			if _, err := PromptForParameters([]simulation.Parameter{tt.param}); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("record_every"); got != "ENGAGEMENT_RECORD_EVERY" {
		t.Errorf("Unexpected env key %s", got)
	}
}

func TestLoadParameterFile(t *testing.T) {
	params := []simulation.Parameter{
		{Name: "max_ticks", Type: simulation.TypeInteger, Default: 600, Min: 0},
		{Name: "report_format", Type: simulation.TypeString, Default: "console", Options: []string{"console", "json"}},
		{Name: "realtime", Type: simulation.TypeBoolean, Default: false},
	}

	write := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "params.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	got, err := LoadParameterFile(write(t, "max_ticks: 90\nrealtime: true\n"), params)
	if err != nil {
		t.Fatalf("LoadParameterFile failed: %v", err)
	}
	if got["max_ticks"] != 90 || got["realtime"] != true || got["report_format"] != "console" {
		t.Errorf("Unexpected parameters %v", got)
	}

	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "warp: 9\n"},
		{"wrong type", "max_ticks: soon\n"},
		{"bad option", "report_format: pdf\n"},
		{"below minimum", "max_ticks: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadParameterFile(write(t, tt.body), params); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
