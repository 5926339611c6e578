package game

import (
	"errors"

	"github.com/google/uuid"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// ErrUnknownCommand is returned when an order names a command that does not
// exist.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a mutation of the scenario requested from outside the tick.
// The set of commands is closed; apply reports whether anything changed and
// is a no-op when preconditions fail or ids are stale.
type Command interface {
	apply(g *Game) bool
}

// MoveUnit replaces the route of an aircraft or ship.
type MoveUnit struct {
	UnitID    string
	Waypoints []geo.Coordinates
}

func (c MoveUnit) apply(g *Game) bool {
	s := g.scenario
	var u *scenario.Unit
	var m *scenario.Movement
	if a := s.GetAircraft(c.UnitID); a != nil {
		u, m = &a.Unit, &a.Movement
	} else if sh := s.GetShip(c.UnitID); sh != nil {
		u, m = &sh.Unit, &sh.Movement
	} else {
		return false
	}

	m.Route = append([]geo.Coordinates(nil), c.Waypoints...)
	if len(m.Route) > 0 {
		first := m.Route[0]
		m.Heading = geo.Bearing(u.Latitude, u.Longitude, first.Latitude(), first.Longitude())
	}
	return true
}

// LaunchAircraftFromAirbase moves the first docked aircraft into the air.
type LaunchAircraftFromAirbase struct {
	AirbaseID string
}

func (c LaunchAircraftFromAirbase) apply(g *Game) bool {
	ab := g.scenario.GetAirbase(c.AirbaseID)
	if ab == nil {
		return false
	}
	return g.launchFromHangar(&ab.Hangar)
}

// LaunchAircraftFromShip moves the first embarked aircraft into the air.
type LaunchAircraftFromShip struct {
	ShipID string
}

func (c LaunchAircraftFromShip) apply(g *Game) bool {
	sh := g.scenario.GetShip(c.ShipID)
	if sh == nil {
		return false
	}
	return g.launchFromHangar(&sh.Hangar)
}

func (g *Game) launchFromHangar(h *scenario.Hangar) bool {
	a := h.PopFront()
	if a == nil {
		return false
	}
	a.SyncPositions(a.Latitude, a.Longitude)
	g.scenario.Aircraft = append(g.scenario.Aircraft, a)
	return true
}

// AircraftAttack fires Quantity rounds of an aircraft's weapon at a target.
type AircraftAttack struct {
	AttackerID string
	TargetID   string
	WeaponID   string
	Quantity   int
}

func (c AircraftAttack) apply(g *Game) bool {
	a := g.scenario.GetAircraft(c.AttackerID)
	if a == nil {
		return false
	}
	return g.manualAttack(a, c.TargetID, c.WeaponID, c.Quantity)
}

// ShipAttack fires Quantity rounds of a ship's weapon at a target.
type ShipAttack struct {
	AttackerID string
	TargetID   string
	WeaponID   string
	Quantity   int
}

func (c ShipAttack) apply(g *Game) bool {
	sh := g.scenario.GetShip(c.AttackerID)
	if sh == nil {
		return false
	}
	return g.manualAttack(sh, c.TargetID, c.WeaponID, c.Quantity)
}

func (g *Game) manualAttack(origin scenario.Launcher, targetID, weaponID string, quantity int) bool {
	s := g.scenario
	target := s.GetTarget(targetID)
	if target == nil || target.EntityID() == origin.EntityID() || target.Side() == origin.Side() {
		return false
	}
	weapon := origin.Inventory().GetWeapon(weaponID)
	if weapon == nil || quantity <= 0 {
		return false
	}
	return len(g.engine.LaunchWeapon(s, origin, target, weapon, quantity)) > 0
}

// ReturnToBase toggles an aircraft's RTB state. Switching it off clears the
// route.
type ReturnToBase struct {
	AircraftID string
}

func (c ReturnToBase) apply(g *Game) bool {
	a := g.scenario.GetAircraft(c.AircraftID)
	if a == nil {
		return false
	}
	if a.RTB {
		a.RTB = false
		a.Route = nil
		return true
	}
	g.returnToBase(a)
	return true
}

// CreatePatrolMission creates a patrol over at least three reference points
// for the current side.
type CreatePatrolMission struct {
	Name              string
	UnitIDs           []string
	ReferencePointIDs []string
}

func (c CreatePatrolMission) apply(g *Game) bool {
	area := g.referencePoints(c.ReferencePointIDs)
	if len(area) < 3 {
		return false
	}
	m := scenario.NewPatrolMission(uuid.New().String(), c.Name, g.currentSideID, c.UnitIDs, area)
	g.scenario.Missions = append(g.scenario.Missions, m)
	return true
}

// UpdatePatrolMission changes the non-empty fields of a patrol mission. A
// new area needs at least three points.
type UpdatePatrolMission struct {
	MissionID         string
	Name              string
	UnitIDs           []string
	ReferencePointIDs []string
}

func (c UpdatePatrolMission) apply(g *Game) bool {
	m := g.scenario.GetPatrolMission(c.MissionID)
	if m == nil {
		return false
	}
	if c.Name != "" {
		m.Name = c.Name
	}
	if len(c.UnitIDs) > 0 {
		m.AssignedUnitIDs = c.UnitIDs
	}
	if area := g.referencePoints(c.ReferencePointIDs); len(area) > 2 {
		m.AssignedArea = area
		m.UpdatePatrolAreaGeometry()
	}
	return true
}

func (g *Game) referencePoints(ids []string) []scenario.ReferencePoint {
	var area []scenario.ReferencePoint
	for _, id := range ids {
		if rp := g.scenario.GetReferencePoint(id); rp != nil {
			area = append(area, *rp)
		}
	}
	return area
}

// CreateStrikeMission assigns attackers to targets for the current side.
type CreateStrikeMission struct {
	Name        string
	AttackerIDs []string
	TargetIDs   []string
}

func (c CreateStrikeMission) apply(g *Game) bool {
	g.scenario.Missions = append(g.scenario.Missions, &scenario.StrikeMission{
		ID:                uuid.New().String(),
		Name:              c.Name,
		SideID:            g.currentSideID,
		AssignedUnitIDs:   c.AttackerIDs,
		AssignedTargetIDs: c.TargetIDs,
		Active:            true,
	})
	return true
}

// UpdateStrikeMission changes the non-empty fields of a strike mission.
type UpdateStrikeMission struct {
	MissionID   string
	Name        string
	AttackerIDs []string
	TargetIDs   []string
}

func (c UpdateStrikeMission) apply(g *Game) bool {
	m := g.scenario.GetStrikeMission(c.MissionID)
	if m == nil {
		return false
	}
	if c.Name != "" {
		m.Name = c.Name
	}
	if len(c.AttackerIDs) > 0 {
		m.AssignedUnitIDs = c.AttackerIDs
	}
	if len(c.TargetIDs) > 0 {
		m.AssignedTargetIDs = c.TargetIDs
	}
	return true
}

// DeleteMission removes a mission of either kind.
type DeleteMission struct {
	MissionID string
}

func (c DeleteMission) apply(g *Game) bool {
	return g.scenario.RemoveMission(c.MissionID)
}

// AddReferencePoint places a reference point for the current side.
type AddReferencePoint struct {
	Name      string
	Latitude  float64
	Longitude float64
}

func (c AddReferencePoint) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	s := g.scenario
	s.ReferencePoints = append(s.ReferencePoints, &scenario.ReferencePoint{
		ID:        uuid.New().String(),
		Name:      c.Name,
		SideID:    g.currentSideID,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		SideColor: s.GetSideColor(g.currentSideID),
	})
	return true
}

// RemoveReferencePoint deletes a reference point. Patrol areas keep their
// own copy of the point.
type RemoveReferencePoint struct {
	ReferencePointID string
}

func (c RemoveReferencePoint) apply(g *Game) bool {
	return g.scenario.RemoveReferencePoint(c.ReferencePointID)
}

// UpdateDoctrine replaces a side's doctrine.
type UpdateDoctrine struct {
	SideID   string
	Doctrine scenario.SideDoctrine
}

func (c UpdateDoctrine) apply(g *Game) bool {
	if g.scenario.GetSide(c.SideID) == nil {
		return false
	}
	g.scenario.UpdateDoctrine(c.SideID, c.Doctrine)
	return true
}

// UpdateRelationship replaces a side's hostile and allied lists.
type UpdateRelationship struct {
	SideID   string
	Hostiles []string
	Allies   []string
}

func (c UpdateRelationship) apply(g *Game) bool {
	if g.scenario.GetSide(c.SideID) == nil {
		return false
	}
	g.scenario.Relationships.UpdateRelationship(c.SideID, c.Hostiles, c.Allies)
	return true
}

// SwitchCurrentSide makes the next side in the list current.
type SwitchCurrentSide struct{}

func (SwitchCurrentSide) apply(g *Game) bool {
	sides := g.scenario.Sides
	for i, side := range sides {
		if side.ID == g.currentSideID {
			g.currentSideID = sides[(i+1)%len(sides)].ID
			return true
		}
	}
	if len(sides) > 0 {
		g.currentSideID = sides[0].ID
		return true
	}
	return false
}

// SwitchTimeCompression cycles to the next entry of TimeCompressions.
type SwitchTimeCompression struct{}

func (SwitchTimeCompression) apply(g *Game) bool {
	s := g.scenario
	for i, tc := range TimeCompressions {
		if tc == s.TimeCompression {
			s.TimeCompression = TimeCompressions[(i+1)%len(TimeCompressions)]
			return true
		}
	}
	s.TimeCompression = TimeCompressions[0]
	return true
}

var (
	_ scenario.Launcher = (*scenario.Aircraft)(nil)
	_ scenario.Launcher = (*scenario.Ship)(nil)
	_ scenario.Launcher = (*scenario.Facility)(nil)
)
