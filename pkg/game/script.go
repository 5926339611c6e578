package game

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// OrderScript is a timed list of orders fed to a running game.
//
// YAML schema (v1):
//
//	version: 1
//	orders:
//	  - at: 0
//	    type: launch_aircraft_from_airbase
//	    base: ab-1
//	  - at: 5
//	    type: move_unit
//	    unit: ac-1
//	    waypoints: [[12.0, 12.0]]
//	  - at: 60
//	    type: aircraft_attack
//	    unit: ac-1
//	    target: fac-1
//	    weapon: w-1
//	    quantity: 2
//
// at is the number of ticks since the scenario start.
type OrderScript struct {
	Version int     `yaml:"version"`
	Orders  []Order `yaml:"orders"`
}

// Order is one scripted command. Only the fields its type uses are read.
type Order struct {
	At        int64            `yaml:"at"`
	Type      string           `yaml:"type"`
	Unit      string           `yaml:"unit"`
	Target    string           `yaml:"target"`
	Weapon    string           `yaml:"weapon"`
	Quantity  int              `yaml:"quantity"`
	Base      string           `yaml:"base"`
	Mission   string           `yaml:"mission"`
	Side      string           `yaml:"side"`
	Name      string           `yaml:"name"`
	ClassName string           `yaml:"class_name"`
	Units     []string         `yaml:"units"`
	Targets   []string         `yaml:"targets"`
	Area      []string         `yaml:"area"`
	Hostiles  []string         `yaml:"hostiles"`
	Allies    []string         `yaml:"allies"`
	Waypoints [][2]float64     `yaml:"waypoints"`
	Latitude  float64          `yaml:"lat"`
	Longitude float64          `yaml:"lon"`
	Range     float64          `yaml:"range"`
	Doctrine  *DoctrineOverlay `yaml:"doctrine"`
}

// DoctrineOverlay lists doctrine switches for a script. Omitted switches
// stay enabled.
type DoctrineOverlay struct {
	AttackHostile         *bool `yaml:"attack_hostile"`
	ChaseHostile          *bool `yaml:"chase_hostile"`
	RTBWhenOutOfRange     *bool `yaml:"rtb_when_out_of_range"`
	RTBWhenStrikeComplete *bool `yaml:"rtb_when_strike_complete"`
	SAMAttackHostile      *bool `yaml:"sam_attack_hostile"`
	ShipAttackHostile     *bool `yaml:"ship_attack_hostile"`
}

func (o *DoctrineOverlay) doctrine() scenario.SideDoctrine {
	d := scenario.DefaultSideDoctrine()
	if o == nil {
		return d
	}
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.AircraftAttackHostile, o.AttackHostile)
	set(&d.AircraftChaseHostile, o.ChaseHostile)
	set(&d.AircraftRTBWhenOutOfRange, o.RTBWhenOutOfRange)
	set(&d.AircraftRTBWhenStrikeMissionComplete, o.RTBWhenStrikeComplete)
	set(&d.SAMAttackHostile, o.SAMAttackHostile)
	set(&d.ShipAttackHostile, o.ShipAttackHostile)
	return d
}

// Command converts the order into its typed command.
func (o Order) Command() (Command, error) {
	switch o.Type {
	case "move_unit":
		wps := make([]geo.Coordinates, len(o.Waypoints))
		for i, wp := range o.Waypoints {
			wps[i] = geo.Coordinates(wp)
		}
		return MoveUnit{UnitID: o.Unit, Waypoints: wps}, nil
	case "launch_aircraft_from_airbase":
		return LaunchAircraftFromAirbase{AirbaseID: o.Base}, nil
	case "launch_aircraft_from_ship":
		return LaunchAircraftFromShip{ShipID: o.Base}, nil
	case "aircraft_attack":
		return AircraftAttack{AttackerID: o.Unit, TargetID: o.Target, WeaponID: o.Weapon, Quantity: o.Quantity}, nil
	case "ship_attack":
		return ShipAttack{AttackerID: o.Unit, TargetID: o.Target, WeaponID: o.Weapon, Quantity: o.Quantity}, nil
	case "return_to_base":
		return ReturnToBase{AircraftID: o.Unit}, nil
	case "create_patrol_mission":
		return CreatePatrolMission{Name: o.Name, UnitIDs: o.Units, ReferencePointIDs: o.Area}, nil
	case "update_patrol_mission":
		return UpdatePatrolMission{MissionID: o.Mission, Name: o.Name, UnitIDs: o.Units, ReferencePointIDs: o.Area}, nil
	case "create_strike_mission":
		return CreateStrikeMission{Name: o.Name, AttackerIDs: o.Units, TargetIDs: o.Targets}, nil
	case "update_strike_mission":
		return UpdateStrikeMission{MissionID: o.Mission, Name: o.Name, AttackerIDs: o.Units, TargetIDs: o.Targets}, nil
	case "delete_mission":
		return DeleteMission{MissionID: o.Mission}, nil
	case "add_reference_point":
		return AddReferencePoint{Name: o.Name, Latitude: o.Latitude, Longitude: o.Longitude}, nil
	case "remove_reference_point":
		return RemoveReferencePoint{ReferencePointID: o.Unit}, nil
	case "add_aircraft":
		return AddAircraft{Name: o.Name, ClassName: o.ClassName, Latitude: o.Latitude, Longitude: o.Longitude, Range: o.Range}, nil
	case "add_aircraft_to_airbase":
		return AddAircraftToAirbase{Name: o.Name, ClassName: o.ClassName, AirbaseID: o.Base}, nil
	case "add_aircraft_to_ship":
		return AddAircraftToShip{Name: o.Name, ClassName: o.ClassName, ShipID: o.Base}, nil
	case "add_airbase":
		return AddAirbase{Name: o.Name, ClassName: o.ClassName, Latitude: o.Latitude, Longitude: o.Longitude}, nil
	case "add_facility":
		return AddFacility{Name: o.Name, ClassName: o.ClassName, Latitude: o.Latitude, Longitude: o.Longitude, Range: o.Range}, nil
	case "add_ship":
		return AddShip{Name: o.Name, ClassName: o.ClassName, Latitude: o.Latitude, Longitude: o.Longitude, Range: o.Range}, nil
	case "remove_aircraft":
		return RemoveAircraft{AircraftID: o.Unit}, nil
	case "remove_facility":
		return RemoveFacility{FacilityID: o.Unit}, nil
	case "remove_airbase":
		return RemoveAirbase{AirbaseID: o.Unit}, nil
	case "remove_ship":
		return RemoveShip{ShipID: o.Unit}, nil
	case "duplicate_unit":
		return DuplicateUnit{UnitID: o.Unit}, nil
	case "teleport_unit":
		return TeleportUnit{UnitID: o.Unit, Latitude: o.Latitude, Longitude: o.Longitude}, nil
	case "update_doctrine":
		return UpdateDoctrine{SideID: o.Side, Doctrine: o.Doctrine.doctrine()}, nil
	case "update_relationship":
		return UpdateRelationship{SideID: o.Side, Hostiles: o.Hostiles, Allies: o.Allies}, nil
	case "switch_current_side":
		return SwitchCurrentSide{}, nil
	case "switch_time_compression":
		return SwitchTimeCompression{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, o.Type)
	}
}

type scheduledCommand struct {
	at  int64
	cmd Command
}

// Schedule hands out scripted commands as their tick comes due.
type Schedule struct {
	entries []scheduledCommand
	next    int
}

// LoadOrderScript reads and compiles an order script from path.
func LoadOrderScript(path string) (*Schedule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order script: %w", err)
	}
	return ParseOrderScript(b)
}

// ParseOrderScript compiles a YAML order script. Every order is converted
// up front so a bad script fails before the game starts.
func ParseOrderScript(b []byte) (*Schedule, error) {
	var script OrderScript
	if err := yaml.Unmarshal(b, &script); err != nil {
		return nil, fmt.Errorf("failed to parse order script: %w", err)
	}
	if script.Version == 0 {
		script.Version = 1
	}
	if script.Version != 1 {
		return nil, fmt.Errorf("unsupported order script version %d", script.Version)
	}

	entries := make([]scheduledCommand, 0, len(script.Orders))
	for i, o := range script.Orders {
		if o.At < 0 {
			return nil, fmt.Errorf("order %d: negative tick %d", i, o.At)
		}
		cmd, err := o.Command()
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		entries = append(entries, scheduledCommand{at: o.At, cmd: cmd})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at < entries[j].at })
	return &Schedule{entries: entries}, nil
}

// Due returns the commands scheduled at or before elapsed ticks that have
// not been handed out yet.
func (s *Schedule) Due(elapsed int64) []Command {
	var due []Command
	for s.next < len(s.entries) && s.entries[s.next].at <= elapsed {
		due = append(due, s.entries[s.next].cmd)
		s.next++
	}
	return due
}

// Len returns the number of orders in the script.
func (s *Schedule) Len() int { return len(s.entries) }

// Remaining returns how many orders have not been handed out.
func (s *Schedule) Remaining() int { return len(s.entries) - s.next }
