// Package scenario holds the entity model of an engagement: sides, units,
// weapons, missions and the relationships between sides. A Scenario is the
// single mutable root that the engine and tick controller operate on.
package scenario

import (
	"math"
	"slices"

	"github.com/brunoga/deep"

	"github.com/picogrid/engagement-sim/pkg/geo"
)

// Scenario is the full simulation state.
type Scenario struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	StartTime       int64             `json:"startTime"`
	CurrentTime     int64             `json:"currentTime"`
	Duration        int64             `json:"duration"`
	TimeCompression int               `json:"timeCompression"`
	Sides           []*Side           `json:"sides"`
	Aircraft        []*Aircraft       `json:"aircraft"`
	Ships           []*Ship           `json:"ships"`
	Facilities      []*Facility       `json:"facilities"`
	Airbases        []*Airbase        `json:"airbases"`
	Weapons         []*Weapon         `json:"weapons"`
	ReferencePoints []*ReferencePoint `json:"referencePoints"`
	Missions        MissionList       `json:"missions"`
	Relationships   Relationships     `json:"relationships"`
	Doctrine        Doctrine          `json:"doctrine,omitempty"`
}

// New returns an empty scenario starting at startTime.
func New(id, name string, startTime, duration int64) *Scenario {
	return &Scenario{
		ID:              id,
		Name:            name,
		StartTime:       startTime,
		CurrentTime:     startTime,
		Duration:        duration,
		TimeCompression: 1,
		Relationships:   NewRelationships(),
		Doctrine:        make(Doctrine),
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *Scenario) Clone() *Scenario {
	return deep.MustCopy(s)
}

// GetSide returns the side with the given id.
func (s *Scenario) GetSide(id string) *Side {
	for _, side := range s.Sides {
		if side.ID == id {
			return side
		}
	}
	return nil
}

// GetSideName returns the side name or "N/A".
func (s *Scenario) GetSideName(id string) string {
	if side := s.GetSide(id); side != nil {
		return side.Name
	}
	return "N/A"
}

// GetSideColor returns the side color or "black".
func (s *Scenario) GetSideColor(id string) string {
	if side := s.GetSide(id); side != nil && side.SideColor != "" {
		return side.SideColor
	}
	return "black"
}

// IsHostile reports whether side regards other as hostile.
func (s *Scenario) IsHostile(side, other string) bool {
	return s.Relationships.IsHostile(side, other)
}

// DoctrineFor returns the doctrine of a side, defaulting to everything
// enabled.
func (s *Scenario) DoctrineFor(sideID string) SideDoctrine {
	if d, ok := s.Doctrine[sideID]; ok {
		return d
	}
	return DefaultSideDoctrine()
}

// UpdateDoctrine replaces the doctrine of a side.
func (s *Scenario) UpdateDoctrine(sideID string, d SideDoctrine) {
	if s.Doctrine == nil {
		s.Doctrine = make(Doctrine)
	}
	s.Doctrine[sideID] = d
}

func (s *Scenario) GetAircraft(id string) *Aircraft {
	for _, a := range s.Aircraft {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Scenario) GetShip(id string) *Ship {
	for _, sh := range s.Ships {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

func (s *Scenario) GetFacility(id string) *Facility {
	for _, f := range s.Facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s *Scenario) GetAirbase(id string) *Airbase {
	for _, a := range s.Airbases {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Scenario) GetWeapon(id string) *Weapon {
	for _, w := range s.Weapons {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *Scenario) GetReferencePoint(id string) *ReferencePoint {
	for _, r := range s.ReferencePoints {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// GetTarget scans aircraft, ships, facilities, airbases and weapons in that
// order and returns the first id match.
func (s *Scenario) GetTarget(id string) Target {
	if id == "" {
		return nil
	}
	if a := s.GetAircraft(id); a != nil {
		return a
	}
	if sh := s.GetShip(id); sh != nil {
		return sh
	}
	if f := s.GetFacility(id); f != nil {
		return f
	}
	if ab := s.GetAirbase(id); ab != nil {
		return ab
	}
	if w := s.GetWeapon(id); w != nil {
		return w
	}
	return nil
}

// GetPatrolMission returns the patrol mission with the given id.
func (s *Scenario) GetPatrolMission(id string) *PatrolMission {
	for _, m := range s.Missions {
		if p, ok := m.(*PatrolMission); ok && p.ID == id {
			return p
		}
	}
	return nil
}

// GetStrikeMission returns the strike mission with the given id.
func (s *Scenario) GetStrikeMission(id string) *StrikeMission {
	for _, m := range s.Missions {
		if sm, ok := m.(*StrikeMission); ok && sm.ID == id {
			return sm
		}
	}
	return nil
}

// GetAllPatrolMissions returns every patrol mission in list order.
func (s *Scenario) GetAllPatrolMissions() []*PatrolMission {
	var out []*PatrolMission
	for _, m := range s.Missions {
		if p, ok := m.(*PatrolMission); ok {
			out = append(out, p)
		}
	}
	return out
}

// GetAllStrikeMissions returns every strike mission in list order.
func (s *Scenario) GetAllStrikeMissions() []*StrikeMission {
	var out []*StrikeMission
	for _, m := range s.Missions {
		if sm, ok := m.(*StrikeMission); ok {
			out = append(out, sm)
		}
	}
	return out
}

// RemoveMission deletes a mission by id.
func (s *Scenario) RemoveMission(id string) bool {
	before := len(s.Missions)
	s.Missions = slices.DeleteFunc(s.Missions, func(m Mission) bool {
		return m.MissionID() == id
	})
	return len(s.Missions) != before
}

// GetAircraftHomeBase resolves the aircraft home base against airbases
// first, then ships.
func (s *Scenario) GetAircraftHomeBase(aircraftID string) HomeBase {
	a := s.GetAircraft(aircraftID)
	if a == nil || a.HomeBaseID == "" {
		return nil
	}
	if ab := s.GetAirbase(a.HomeBaseID); ab != nil {
		return ab
	}
	if sh := s.GetShip(a.HomeBaseID); sh != nil {
		return sh
	}
	return nil
}

// GetClosestBaseToAircraft returns the nearest airbase or ship of the
// aircraft's own side.
func (s *Scenario) GetClosestBaseToAircraft(aircraftID string) HomeBase {
	a := s.GetAircraft(aircraftID)
	if a == nil {
		return nil
	}

	var closest HomeBase
	closestDistance := math.Inf(1)
	consider := func(base HomeBase) {
		if base.Side() != a.SideID {
			return
		}
		pos := base.Coordinates()
		d := geo.Distance(a.Latitude, a.Longitude, pos.Latitude(), pos.Longitude())
		if d < closestDistance {
			closest = base
			closestDistance = d
		}
	}
	for _, ab := range s.Airbases {
		consider(ab)
	}
	for _, sh := range s.Ships {
		consider(sh)
	}
	return closest
}

// GetAllTargetsFromEnemySides returns every aircraft, facility, ship and
// airbase whose side regards sideID as hostile.
func (s *Scenario) GetAllTargetsFromEnemySides(sideID string) []Target {
	var targets []Target
	for _, a := range s.Aircraft {
		if s.IsHostile(a.SideID, sideID) {
			targets = append(targets, a)
		}
	}
	for _, f := range s.Facilities {
		if s.IsHostile(f.SideID, sideID) {
			targets = append(targets, f)
		}
	}
	for _, sh := range s.Ships {
		if s.IsHostile(sh.SideID, sideID) {
			targets = append(targets, sh)
		}
	}
	for _, ab := range s.Airbases {
		if s.IsHostile(ab.SideID, sideID) {
			targets = append(targets, ab)
		}
	}
	return targets
}
