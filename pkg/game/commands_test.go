package game

import (
	"math"
	"testing"
	"time"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

func TestMoveUnit(t *testing.T) {
	s := newTestScenario()
	s.Aircraft = []*scenario.Aircraft{testAircraft("ac", "blue", 0, 0, false)}
	g := New(s, "blue")

	if !g.Apply(MoveUnit{UnitID: "ac", Waypoints: []geo.Coordinates{{1, 0}, {2, 0}}}) {
		t.Fatal("Expected move to apply")
	}
	a := s.GetAircraft("ac")
	if len(a.Route) != 2 {
		t.Errorf("Expected two waypoints, got %v", a.Route)
	}
	if a.Heading != 0 {
		t.Errorf("Expected heading north, got %v", a.Heading)
	}
	if g.Apply(MoveUnit{UnitID: "missing"}) {
		t.Error("Expected move of unknown unit to be ignored")
	}
}

func TestLaunchAircraftFromAirbase(t *testing.T) {
	s := newTestScenario()
	s.Airbases = []*scenario.Airbase{{
		Unit: scenario.Unit{ID: "ab", SideID: "blue"},
		Hangar: scenario.Hangar{Aircraft: []*scenario.Aircraft{
			testAircraft("first", "blue", -0.5, -0.5, true),
			testAircraft("second", "blue", -0.5, -0.5, true),
		}},
	}}
	g := New(s, "blue")

	if !g.Apply(LaunchAircraftFromAirbase{AirbaseID: "ab"}) {
		t.Fatal("Expected launch to apply")
	}
	if len(s.Aircraft) != 1 || s.Aircraft[0].ID != "first" {
		t.Fatalf("Expected first docked aircraft airborne, got %v", s.Aircraft)
	}
	if hangar := s.GetAirbase("ab").Aircraft; len(hangar) != 1 || hangar[0].ID != "second" {
		t.Errorf("Expected second aircraft still docked, got %v", hangar)
	}

	g.Apply(LaunchAircraftFromAirbase{AirbaseID: "ab"})
	if g.Apply(LaunchAircraftFromAirbase{AirbaseID: "ab"}) {
		t.Error("Expected launch from an empty hangar to be ignored")
	}
	if g.Apply(LaunchAircraftFromAirbase{AirbaseID: "nope"}) {
		t.Error("Expected launch from an unknown airbase to be ignored")
	}
}

func TestLaunchAircraftFromShip(t *testing.T) {
	s := newTestScenario()
	s.Ships = []*scenario.Ship{{
		Unit:   scenario.Unit{ID: "cv", SideID: "blue"},
		Hangar: scenario.Hangar{Aircraft: []*scenario.Aircraft{testAircraft("embarked", "blue", 0, 0, false)}},
	}}
	g := New(s, "blue")

	if !g.Apply(LaunchAircraftFromShip{ShipID: "cv"}) {
		t.Fatal("Expected launch to apply")
	}
	if s.GetAircraft("embarked") == nil {
		t.Error("Expected embarked aircraft airborne")
	}
}

func TestManualAttack(t *testing.T) {
	tests := []struct {
		name     string
		cmd      AircraftAttack
		want     bool
		inFlight int
	}{
		{"fires requested rounds", AircraftAttack{"ac", "fac", "ac-w", 2}, true, 2},
		{"same side target", AircraftAttack{"ac", "friend", "ac-w", 1}, false, 0},
		{"self target", AircraftAttack{"ac", "ac", "ac-w", 1}, false, 0},
		{"unknown target", AircraftAttack{"ac", "ghost", "ac-w", 1}, false, 0},
		{"unknown weapon", AircraftAttack{"ac", "fac", "other", 1}, false, 0},
		{"zero quantity", AircraftAttack{"ac", "fac", "ac-w", 0}, false, 0},
		{"more than carried", AircraftAttack{"ac", "fac", "ac-w", 11}, false, 0},
		{"unknown attacker", AircraftAttack{"ghost", "fac", "ac-w", 1}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScenario()
			s.Aircraft = []*scenario.Aircraft{testAircraft("ac", "blue", 0, 0, true)}
			s.Facilities = []*scenario.Facility{
				testFacility("fac", "red", 0, 1, 0),
				testFacility("friend", "blue", 0, -1, 0),
			}
			g := New(s, "blue")

			if got := g.Apply(tt.cmd); got != tt.want {
				t.Fatalf("Expected apply=%v, got %v", tt.want, got)
			}
			if len(s.Weapons) != tt.inFlight {
				t.Errorf("Expected %d weapons in flight, got %d", tt.inFlight, len(s.Weapons))
			}
			for _, w := range s.Weapons {
				if w.TargetID != "fac" || w.SideID != "blue" {
					t.Errorf("Expected blue weapon on fac, got side=%q target=%q", w.SideID, w.TargetID)
				}
			}
		})
	}
}

func TestShipAttack(t *testing.T) {
	s := newTestScenario()
	s.Ships = []*scenario.Ship{{
		Unit:     scenario.Unit{ID: "ddg", SideID: "blue"},
		Movement: scenario.Movement{Range: 250},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{weaponTemplate("ddg-w", "blue", 3, 0.15)}},
	}}
	s.Aircraft = []*scenario.Aircraft{testAircraft("bandit", "red", 0, 1, false)}
	g := New(s, "blue")

	if !g.Apply(ShipAttack{AttackerID: "ddg", TargetID: "bandit", WeaponID: "ddg-w", Quantity: 3}) {
		t.Fatal("Expected ship attack to apply")
	}
	if len(s.Weapons) != 3 {
		t.Errorf("Expected three weapons in flight, got %d", len(s.Weapons))
	}
	if len(s.GetShip("ddg").Weapons) != 0 {
		t.Error("Expected the emptied weapon to leave the inventory")
	}
}

func TestReturnToBaseToggles(t *testing.T) {
	s := newTestScenario()
	ac := testAircraft("ac", "blue", 0, 1, false)
	ac.Route = []geo.Coordinates{{0, 2}}
	s.Aircraft = []*scenario.Aircraft{ac}
	s.Airbases = []*scenario.Airbase{{Unit: scenario.Unit{ID: "ab", SideID: "blue"}}}
	g := New(s, "blue")

	g.Apply(ReturnToBase{AircraftID: "ac"})
	if !ac.RTB || ac.HomeBaseID != "ab" {
		t.Fatalf("Expected RTB to ab, got rtb=%v home=%q", ac.RTB, ac.HomeBaseID)
	}
	if len(ac.Route) != 1 || ac.Route[0] != (geo.Coordinates{0, 0}) {
		t.Errorf("Expected route to base, got %v", ac.Route)
	}
	if math.Abs(ac.Heading-270) > 1e-9 {
		t.Errorf("Expected heading west, got %v", ac.Heading)
	}

	g.Apply(ReturnToBase{AircraftID: "ac"})
	if ac.RTB || len(ac.Route) != 0 {
		t.Errorf("Expected RTB cancelled with an empty route, got rtb=%v route=%v", ac.RTB, ac.Route)
	}
}

func TestReturnToBaseWithoutBase(t *testing.T) {
	s := newTestScenario()
	ac := testAircraft("ac", "blue", 0, 1, false)
	s.Aircraft = []*scenario.Aircraft{ac}
	g := New(s, "blue")

	g.Apply(ReturnToBase{AircraftID: "ac"})
	if !ac.RTB {
		t.Error("Expected aircraft flagged RTB even without a base")
	}
	if len(ac.Route) != 0 {
		t.Errorf("Expected route untouched, got %v", ac.Route)
	}
}

func withReferencePoints(s *scenario.Scenario) {
	for i, c := range []geo.Coordinates{{0, 0}, {0, 1}, {1, 1}, {1, 0}} {
		s.ReferencePoints = append(s.ReferencePoints, &scenario.ReferencePoint{
			ID: string(rune('0' + i)), SideID: "blue", Latitude: c.Latitude(), Longitude: c.Longitude(),
		})
	}
}

func TestPatrolMissionCommands(t *testing.T) {
	s := newTestScenario()
	withReferencePoints(s)
	g := New(s, "blue")

	if g.Apply(CreatePatrolMission{Name: "CAP", ReferencePointIDs: []string{"0", "1", "missing"}}) {
		t.Fatal("Expected a patrol with fewer than three known points to be rejected")
	}
	if !g.Apply(CreatePatrolMission{Name: "CAP", UnitIDs: []string{"ac"}, ReferencePointIDs: []string{"0", "1", "2"}}) {
		t.Fatal("Expected patrol creation to apply")
	}
	missions := s.GetAllPatrolMissions()
	if len(missions) != 1 {
		t.Fatalf("Expected one patrol mission, got %d", len(missions))
	}
	m := missions[0]
	if m.SideID != "blue" || !m.Active {
		t.Errorf("Expected active blue mission, got side=%q active=%v", m.SideID, m.Active)
	}

	if !g.Apply(UpdatePatrolMission{MissionID: m.ID, Name: "CAP-2", ReferencePointIDs: []string{"0", "1", "2", "3"}}) {
		t.Fatal("Expected patrol update to apply")
	}
	if m.Name != "CAP-2" || len(m.AssignedArea) != 4 {
		t.Errorf("Expected renamed four-point patrol, got %q with %d points", m.Name, len(m.AssignedArea))
	}
	if len(m.AssignedUnitIDs) != 1 {
		t.Errorf("Expected units kept when none given, got %v", m.AssignedUnitIDs)
	}

	if !g.Apply(DeleteMission{MissionID: m.ID}) {
		t.Fatal("Expected delete to apply")
	}
	if g.Apply(DeleteMission{MissionID: m.ID}) {
		t.Error("Expected second delete to be a no-op")
	}
}

func TestStrikeMissionCommands(t *testing.T) {
	s := newTestScenario()
	g := New(s, "blue")

	g.Apply(CreateStrikeMission{Name: "Alpha", AttackerIDs: []string{"a1"}, TargetIDs: []string{"t1"}})
	missions := s.GetAllStrikeMissions()
	if len(missions) != 1 {
		t.Fatalf("Expected one strike mission, got %d", len(missions))
	}
	m := missions[0]
	if m.PrimaryTargetID() != "t1" || m.SideID != "blue" {
		t.Errorf("Unexpected mission %+v", m)
	}

	g.Apply(UpdateStrikeMission{MissionID: m.ID, TargetIDs: []string{"t2", "t3"}})
	if m.PrimaryTargetID() != "t2" || m.Name != "Alpha" {
		t.Errorf("Expected target t2 and name kept, got %q / %q", m.PrimaryTargetID(), m.Name)
	}
	if g.Apply(UpdateStrikeMission{MissionID: "missing"}) {
		t.Error("Expected update of unknown mission to be ignored")
	}
}

func TestReferencePointCommands(t *testing.T) {
	s := newTestScenario()
	g := New(s, "")
	if g.Apply(AddReferencePoint{Name: "RP", Latitude: 1, Longitude: 2}) {
		t.Fatal("Expected reference point to need a current side")
	}

	g = New(s, "red")
	g.Apply(AddReferencePoint{Name: "RP", Latitude: 1, Longitude: 2})
	if len(s.ReferencePoints) != 1 {
		t.Fatalf("Expected one reference point, got %d", len(s.ReferencePoints))
	}
	rp := s.ReferencePoints[0]
	if rp.SideID != "red" || rp.SideColor != "red" {
		t.Errorf("Expected red reference point, got %+v", rp)
	}
	if !g.Apply(RemoveReferencePoint{ReferencePointID: rp.ID}) || len(s.ReferencePoints) != 0 {
		t.Error("Expected reference point removed")
	}
}

func TestAddUnitsUseDefaults(t *testing.T) {
	s := newTestScenario()
	g := New(s, "blue")

	g.Apply(AddAircraft{Name: "Viper", Latitude: 1, Longitude: 2})
	g.Apply(AddFacility{Name: "SAM", Latitude: 3, Longitude: 4})
	g.Apply(AddShip{Name: "DDG", Latitude: 5, Longitude: 6})
	g.Apply(AddAirbase{Name: "Base", Latitude: 7, Longitude: 8})

	a := s.Aircraft[0]
	if a.Speed != DefaultAircraftSpeed || a.CurrentFuel != DefaultAircraftFuel || a.Range != DefaultAircraftRange {
		t.Errorf("Expected aircraft defaults, got %+v", a.Movement)
	}
	if len(a.Weapons) != 1 || a.Weapons[0].CurrentQuantity != 10 || a.Weapons[0].Lethality != 0.25 {
		t.Errorf("Expected stock aircraft loadout, got %+v", a.Weapons)
	}
	if a.Weapons[0].Latitude != 1 || a.Weapons[0].Longitude != 2 {
		t.Error("Expected loadout synced to the aircraft position")
	}
	if a.SideColor != "blue" {
		t.Errorf("Expected side color blue, got %q", a.SideColor)
	}

	f := s.Facilities[0]
	if f.Range != DefaultFacilityRange || f.TotalWeaponQuantity() != 30 {
		t.Errorf("Expected facility defaults, got range=%v qty=%d", f.Range, f.TotalWeaponQuantity())
	}
	sh := s.Ships[0]
	if sh.Speed != DefaultShipSpeed || sh.TotalWeaponQuantity() != 300 {
		t.Errorf("Expected ship defaults, got speed=%v qty=%d", sh.Speed, sh.TotalWeaponQuantity())
	}
	if len(s.Airbases) != 1 || s.Airbases[0].SideID != "blue" {
		t.Error("Expected a blue airbase")
	}

	g.Apply(AddAircraft{Name: "Custom", Speed: 500, MaxFuel: 100, FuelRate: 10, Range: 40})
	c := s.Aircraft[1]
	if c.Speed != 500 || c.MaxFuel != 100 || c.FuelRate != 10 || c.Range != 40 {
		t.Errorf("Expected explicit characteristics kept, got %+v", c.Movement)
	}
}

func TestAddAircraftToBases(t *testing.T) {
	s := newTestScenario()
	s.Airbases = []*scenario.Airbase{{Unit: scenario.Unit{ID: "ab", SideID: "blue", Latitude: 10, Longitude: 20}}}
	s.Ships = []*scenario.Ship{{Unit: scenario.Unit{ID: "cv", SideID: "blue"}}}
	g := New(s, "blue")

	if !g.Apply(AddAircraftToAirbase{Name: "Docked", AirbaseID: "ab"}) {
		t.Fatal("Expected aircraft docked")
	}
	docked := s.GetAirbase("ab").Aircraft[0]
	if docked.HomeBaseID != "ab" || docked.Latitude != 9.5 || docked.Longitude != 19.5 {
		t.Errorf("Expected docked beside ab, got home=%q at (%v, %v)", docked.HomeBaseID, docked.Latitude, docked.Longitude)
	}
	if !g.Apply(AddAircraftToShip{Name: "Embarked", ShipID: "cv"}) {
		t.Fatal("Expected aircraft embarked")
	}
	if len(s.GetShip("cv").Aircraft) != 1 {
		t.Error("Expected one embarked aircraft")
	}
	if g.Apply(AddAircraftToShip{ShipID: "missing"}) {
		t.Error("Expected unknown ship to be ignored")
	}
}

func TestDuplicateUnit(t *testing.T) {
	s := newTestScenario()
	orig := testAircraft("ac", "blue", 10, 10, true)
	orig.CurrentFuel = 100
	orig.RTB = true
	orig.Route = []geo.Coordinates{{11, 11}}
	s.Aircraft = []*scenario.Aircraft{orig}
	g := New(s, "blue")

	if !g.Apply(DuplicateUnit{UnitID: "ac"}) {
		t.Fatal("Expected duplicate to apply")
	}
	if len(s.Aircraft) != 2 {
		t.Fatalf("Expected two aircraft, got %d", len(s.Aircraft))
	}
	dup := s.Aircraft[1]
	if dup.ID == orig.ID {
		t.Error("Expected a fresh id")
	}
	if dup.Latitude != 9.5 || dup.Longitude != 9.5 {
		t.Errorf("Expected duplicate offset to (9.5, 9.5), got (%v, %v)", dup.Latitude, dup.Longitude)
	}
	if dup.CurrentFuel != dup.MaxFuel || dup.RTB || len(dup.Route) != 0 {
		t.Errorf("Expected fresh fuel and no orders, got fuel=%v rtb=%v route=%v", dup.CurrentFuel, dup.RTB, dup.Route)
	}
	if dup.Weapons[0] == orig.Weapons[0] || dup.Weapons[0].ID == orig.Weapons[0].ID {
		t.Error("Expected duplicate to carry its own loadout")
	}

	dup.Weapons[0].CurrentQuantity = 0
	if orig.Weapons[0].CurrentQuantity != 10 {
		t.Error("Expected original loadout untouched")
	}
	if orig.CurrentFuel != 100 || !orig.RTB {
		t.Error("Expected original aircraft untouched")
	}
}

func TestTeleportUnit(t *testing.T) {
	s := newTestScenario()
	s.Airbases = []*scenario.Airbase{{
		Unit:   scenario.Unit{ID: "ab", SideID: "blue"},
		Hangar: scenario.Hangar{Aircraft: []*scenario.Aircraft{testAircraft("docked", "blue", -0.5, -0.5, true)}},
	}}
	s.Facilities = []*scenario.Facility{testFacility("fac", "red", 0, 0, 5)}
	g := New(s, "blue")

	g.Apply(TeleportUnit{UnitID: "ab", Latitude: 20, Longitude: 30})
	docked := s.GetAirbase("ab").Aircraft[0]
	if docked.Latitude != 19.5 || docked.Longitude != 29.5 {
		t.Errorf("Expected docked aircraft to follow the base, got (%v, %v)", docked.Latitude, docked.Longitude)
	}
	if docked.Weapons[0].Latitude != 19.5 {
		t.Error("Expected docked loadout to follow the base")
	}

	g.Apply(TeleportUnit{UnitID: "fac", Latitude: 5, Longitude: 6})
	f := s.GetFacility("fac")
	if f.Latitude != 5 || f.Weapons[0].Longitude != 6 {
		t.Errorf("Expected facility and loadout moved, got %+v", f.Unit)
	}

	if g.Apply(TeleportUnit{UnitID: "nothing"}) {
		t.Error("Expected unknown id to be ignored")
	}
}

func TestTeleportReferencePointRebuildsPatrol(t *testing.T) {
	s := newTestScenario()
	withReferencePoints(s)
	g := New(s, "blue")
	g.Apply(CreatePatrolMission{Name: "CAP", ReferencePointIDs: []string{"0", "1", "2", "3"}})
	m := s.GetAllPatrolMissions()[0]

	outside := geo.Coordinates{1.5, 0.5}
	if m.Contains(outside) {
		t.Fatal("Expected point outside the original area")
	}
	g.Apply(TeleportUnit{UnitID: "2", Latitude: 2, Longitude: 1})
	g.Apply(TeleportUnit{UnitID: "3", Latitude: 2, Longitude: 0})
	if m.AssignedArea[2].Latitude != 2 {
		t.Errorf("Expected patrol area updated, got %+v", m.AssignedArea[2])
	}
	if !m.Contains(outside) {
		t.Error("Expected stretched area to contain the point")
	}
}

func TestSwitchCurrentSide(t *testing.T) {
	s := newTestScenario()
	g := New(s, "blue")

	want := []string{"red", "blue", "red"}
	for _, id := range want {
		g.Apply(SwitchCurrentSide{})
		if got := g.CurrentSideID(); got != id {
			t.Fatalf("Expected %q, got %q", id, got)
		}
	}
}

func TestSwitchTimeCompression(t *testing.T) {
	s := newTestScenario()
	g := New(s, "blue")

	for _, want := range []int{2, 4, 8, 100, 1} {
		g.Apply(SwitchTimeCompression{})
		if s.TimeCompression != want {
			t.Fatalf("Expected compression %d, got %d", want, s.TimeCompression)
		}
	}

	s.TimeCompression = 3
	g.Apply(SwitchTimeCompression{})
	if s.TimeCompression != 1 {
		t.Errorf("Expected unknown compression to reset to 1, got %d", s.TimeCompression)
	}
}

func TestSideCommandsRequireKnownSide(t *testing.T) {
	s := newTestScenario()
	g := New(s, "blue")

	if g.Apply(UpdateDoctrine{SideID: "green"}) {
		t.Error("Expected doctrine for unknown side to be rejected")
	}
	if g.Apply(UpdateRelationship{SideID: "green", Hostiles: []string{"blue"}}) {
		t.Error("Expected relationship for unknown side to be rejected")
	}
	if !g.Apply(UpdateRelationship{SideID: "blue", Allies: []string{"red"}}) {
		t.Fatal("Expected relationship update to apply")
	}
	if s.IsHostile("blue", "red") {
		t.Error("Expected blue to drop hostility toward red")
	}
	if !s.IsHostile("red", "blue") {
		t.Error("Expected red to stay hostile toward blue")
	}
}

func TestTickDelay(t *testing.T) {
	tests := []struct {
		compression int
		want        time.Duration
	}{
		{1, time.Second},
		{2, 500 * time.Millisecond},
		{4, 250 * time.Millisecond},
		{8, 125 * time.Millisecond},
		{100, 0},
		{7, time.Second},
	}
	for _, tt := range tests {
		if got := TickDelay(tt.compression); got != tt.want {
			t.Errorf("TickDelay(%d) = %v, want %v", tt.compression, got, tt.want)
		}
	}
}
