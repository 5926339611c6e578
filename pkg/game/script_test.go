package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

const sampleScript = `
version: 1
orders:
  - at: 5
    type: move_unit
    unit: ac-1
    waypoints: [[12.0, 12.5], [13.0, 13.5]]
  - at: 0
    type: launch_aircraft_from_airbase
    base: ab-1
  - at: 5
    type: aircraft_attack
    unit: ac-1
    target: fac-1
    weapon: w-1
    quantity: 2
  - at: 30
    type: update_doctrine
    side: blue
    doctrine:
      sam_attack_hostile: false
`

func TestParseOrderScript(t *testing.T) {
	sched, err := ParseOrderScript([]byte(sampleScript))
	if err != nil {
		t.Fatalf("Failed to parse script: %v", err)
	}
	if sched.Len() != 4 {
		t.Fatalf("Expected 4 orders, got %d", sched.Len())
	}

	due := sched.Due(0)
	if len(due) != 1 {
		t.Fatalf("Expected one order due at tick 0, got %d", len(due))
	}
	if launch, ok := due[0].(LaunchAircraftFromAirbase); !ok || launch.AirbaseID != "ab-1" {
		t.Errorf("Expected airbase launch first, got %#v", due[0])
	}

	if got := sched.Due(4); len(got) != 0 {
		t.Errorf("Expected nothing due at tick 4, got %d", len(got))
	}

	due = sched.Due(10)
	if len(due) != 2 {
		t.Fatalf("Expected two orders due by tick 10, got %d", len(due))
	}
	move, ok := due[0].(MoveUnit)
	if !ok {
		t.Fatalf("Expected move to keep its script position, got %#v", due[0])
	}
	want := []geo.Coordinates{{12.0, 12.5}, {13.0, 13.5}}
	if len(move.Waypoints) != 2 || move.Waypoints[0] != want[0] || move.Waypoints[1] != want[1] {
		t.Errorf("Expected waypoints %v, got %v", want, move.Waypoints)
	}
	attack, ok := due[1].(AircraftAttack)
	if !ok || attack.Quantity != 2 || attack.WeaponID != "w-1" {
		t.Errorf("Unexpected attack order %#v", due[1])
	}

	if sched.Remaining() != 1 {
		t.Errorf("Expected one order remaining, got %d", sched.Remaining())
	}
	due = sched.Due(100)
	doctrine, ok := due[0].(UpdateDoctrine)
	if !ok {
		t.Fatalf("Expected doctrine order, got %#v", due[0])
	}
	if doctrine.Doctrine.SAMAttackHostile {
		t.Error("Expected SAMs on hold")
	}
	if !doctrine.Doctrine.AircraftAttackHostile || !doctrine.Doctrine.ShipAttackHostile {
		t.Error("Expected omitted switches to stay enabled")
	}
	if sched.Remaining() != 0 {
		t.Errorf("Expected script exhausted, got %d remaining", sched.Remaining())
	}
}

func TestParseOrderScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		unknown bool
	}{
		{"unknown type", "orders:\n  - at: 1\n    type: self_destruct\n", true},
		{"unsupported version", "version: 2\norders: []\n", false},
		{"negative tick", "orders:\n  - at: -1\n    type: switch_current_side\n", false},
		{"malformed yaml", "orders: [", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrderScript([]byte(tt.script))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got := errors.Is(err, ErrUnknownCommand); got != tt.unknown {
				t.Errorf("Expected errors.Is(ErrUnknownCommand)=%v, got %v (%v)", tt.unknown, got, err)
			}
		})
	}
}

func TestLoadOrderScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.yaml")
	if err := os.WriteFile(path, []byte(sampleScript), 0o600); err != nil {
		t.Fatal(err)
	}
	sched, err := LoadOrderScript(path)
	if err != nil {
		t.Fatalf("Failed to load script: %v", err)
	}
	if sched.Len() != 4 {
		t.Errorf("Expected 4 orders, got %d", sched.Len())
	}

	if _, err := LoadOrderScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestScriptDrivesGame(t *testing.T) {
	s := newTestScenario()
	s.Aircraft = []*scenario.Aircraft{testAircraft("ac-1", "blue", 0, 0, false)}
	g := New(s, "blue")

	sched, err := ParseOrderScript([]byte("orders:\n  - at: 2\n    type: return_to_base\n    unit: ac-1\n"))
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		elapsed := s.CurrentTime - s.StartTime
		g.Step(sched.Due(elapsed)...)
	}
	if !s.GetAircraft("ac-1").RTB {
		t.Error("Expected scripted RTB to have been applied")
	}
}
