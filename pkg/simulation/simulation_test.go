package simulation

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type stubSimulation struct{ name string }

func (s *stubSimulation) Name() string                                  { return s.name }
func (s *stubSimulation) Description() string                           { return "stub" }
func (s *stubSimulation) Configure(params map[string]interface{}) error { return nil }
func (s *stubSimulation) Run(ctx context.Context) error                 { return nil }
func (s *stubSimulation) Stop() error                                   { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Strait Patrol", "Air Defense"} {
		if err := r.Register(name, func() Simulation { return &stubSimulation{name: name} }); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	if err := r.Register("Air Defense", func() Simulation { return nil }); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("Expected ErrAlreadyRegistered, got %v", err)
	}

	if got := r.List(); !slices.Equal(got, []string{"Air Defense", "Strait Patrol"}) {
		t.Errorf("Expected sorted names, got %v", got)
	}

	sim, err := r.Get("Strait Patrol")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sim.Name() != "Strait Patrol" {
		t.Errorf("Expected Strait Patrol, got %s", sim.Name())
	}
	other, _ := r.Get("Strait Patrol")
	if sim == other {
		t.Error("Expected a fresh instance per Get")
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestParameterParse(t *testing.T) {
	tests := []struct {
		typ     string
		in      string
		want    interface{}
		wantErr bool
	}{
		{TypeInteger, "42", 42, false},
		{TypeInteger, "4.2", nil, true},
		{TypeFloat, "0.25", 0.25, false},
		{TypeString, "blue", "blue", false},
		{TypeBoolean, "true", true, false},
		{TypeDuration, "1m30s", 90 * time.Second, false},
		{TypeDuration, "soon", nil, true},
		{"matrix", "1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.in, func(t *testing.T) {
			got, err := Parameter{Name: "p", Type: tt.typ}.Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParameterCheck(t *testing.T) {
	ticks := Parameter{Name: "max_ticks", Type: TypeInteger, Min: 1, Max: 86400}
	if err := ticks.Check(0); err == nil {
		t.Error("Expected value below min to fail")
	}
	if err := ticks.Check(3600); err != nil {
		t.Errorf("Expected 3600 to pass, got %v", err)
	}

	format := Parameter{Name: "report_format", Type: TypeString, Options: []string{"console", "json"}}
	if err := format.Check("pdf"); err == nil {
		t.Error("Expected value outside options to fail")
	}

	lethality := Parameter{Name: "scale", Type: TypeFloat, Min: 0.0, Max: 1}
	if err := lethality.Check(1.5); err == nil {
		t.Error("Expected value above max to fail")
	}
}

func TestConfigValidateAndDefaults(t *testing.T) {
	cfg := SimulationConfig{
		Name: "Engagement",
		Parameters: []Parameter{
			{Name: "max_ticks", Type: TypeInteger, Default: 600, Min: 1},
			{Name: "seed", Type: TypeInteger},
			{Name: "record", Type: TypeBoolean, Default: true},
			{Name: "tick_interval", Type: TypeDuration, Default: "250ms"},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected valid descriptor, got %v", err)
	}

	defaults, err := cfg.Defaults()
	if err != nil {
		t.Fatalf("Defaults failed: %v", err)
	}
	if len(defaults) != 3 {
		t.Errorf("Expected 3 defaults, got %v", defaults)
	}
	if defaults["max_ticks"] != 600 || defaults["record"] != true || defaults["tick_interval"] != 250*time.Millisecond {
		t.Errorf("Unexpected defaults %v", defaults)
	}

	bad := []SimulationConfig{
		{},
		{Name: "x", Parameters: []Parameter{{Name: "a", Type: "matrix"}}},
		{Name: "x", Parameters: []Parameter{{Name: "a", Type: TypeInteger}, {Name: "a", Type: TypeInteger}}},
		{Name: "x", Parameters: []Parameter{{Name: "a", Type: TypeInteger, Default: 0, Min: 1}}},
		{Name: "x", Parameters: []Parameter{{Name: "a", Type: TypeString, Default: "c", Options: []string{"a", "b"}}}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
