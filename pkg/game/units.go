package game

import (
	"github.com/brunoga/deep"
	"github.com/google/uuid"

	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// Defaults for units created without explicit characteristics.
const (
	DefaultAircraftSpeed    = 300.0
	DefaultAircraftFuel     = 10000.0
	DefaultAircraftFuelRate = 5000.0
	DefaultAircraftRange    = 100.0
	DefaultAltitude         = 10000.0
	DefaultFacilityRange    = 250.0
	DefaultShipSpeed        = 30.0
	DefaultShipFuel         = 32000000.0
	DefaultShipFuelRate     = 7000.0
	DefaultShipRange        = 250.0
)

// SampleWeapon builds the stock weapon template units are armed with.
func SampleWeapon(s *scenario.Scenario, sideID string, quantity int, lethality float64) *scenario.Weapon {
	return &scenario.Weapon{
		Unit: scenario.Unit{
			ID:        uuid.New().String(),
			Name:      "Sample Weapon",
			SideID:    sideID,
			ClassName: "Sample Weapon",
			Altitude:  DefaultAltitude,
			SideColor: s.GetSideColor(sideID),
		},
		Movement: scenario.Movement{
			Heading:     90,
			Speed:       1000,
			CurrentFuel: 5000,
			MaxFuel:     5000,
			FuelRate:    5000,
			Range:       100,
		},
		Lethality:       lethality,
		MaxQuantity:     quantity,
		CurrentQuantity: quantity,
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func newAircraft(s *scenario.Scenario, name, className, sideID string, lat, lon, speed, maxFuel, fuelRate, rng float64) *scenario.Aircraft {
	fuel := orDefault(maxFuel, DefaultAircraftFuel)
	return &scenario.Aircraft{
		Unit: scenario.Unit{
			ID:        uuid.New().String(),
			Name:      name,
			SideID:    sideID,
			ClassName: className,
			Latitude:  lat,
			Longitude: lon,
			Altitude:  DefaultAltitude,
			SideColor: s.GetSideColor(sideID),
		},
		Movement: scenario.Movement{
			Heading:     90,
			Speed:       orDefault(speed, DefaultAircraftSpeed),
			CurrentFuel: fuel,
			MaxFuel:     fuel,
			FuelRate:    orDefault(fuelRate, DefaultAircraftFuelRate),
			Range:       orDefault(rng, DefaultAircraftRange),
		},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{SampleWeapon(s, sideID, 10, 0.25)}},
	}
}

// AddAircraft places an airborne aircraft for the current side. Zero
// characteristics take the defaults.
type AddAircraft struct {
	Name      string
	ClassName string
	Latitude  float64
	Longitude float64
	Speed     float64
	MaxFuel   float64
	FuelRate  float64
	Range     float64
}

func (c AddAircraft) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	s := g.scenario
	a := newAircraft(s, c.Name, c.ClassName, g.currentSideID, c.Latitude, c.Longitude, c.Speed, c.MaxFuel, c.FuelRate, c.Range)
	a.SyncPositions(a.Latitude, a.Longitude)
	s.Aircraft = append(s.Aircraft, a)
	return true
}

// AddAircraftToAirbase docks a new aircraft at an airbase.
type AddAircraftToAirbase struct {
	Name      string
	ClassName string
	AirbaseID string
}

func (c AddAircraftToAirbase) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	ab := g.scenario.GetAirbase(c.AirbaseID)
	if ab == nil {
		return false
	}
	g.dockNew(ab, &ab.Hangar, c.Name, c.ClassName)
	return true
}

// AddAircraftToShip embarks a new aircraft on a ship.
type AddAircraftToShip struct {
	Name      string
	ClassName string
	ShipID    string
}

func (c AddAircraftToShip) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	sh := g.scenario.GetShip(c.ShipID)
	if sh == nil {
		return false
	}
	g.dockNew(sh, &sh.Hangar, c.Name, c.ClassName)
	return true
}

func (g *Game) dockNew(base scenario.HomeBase, h *scenario.Hangar, name, className string) {
	pos := base.Coordinates()
	a := newAircraft(g.scenario, name, className, base.Side(),
		pos.Latitude()-hangarOffsetDeg, pos.Longitude()-hangarOffsetDeg, 0, 0, 0, 0)
	a.HomeBaseID = base.EntityID()
	a.SyncPositions(a.Latitude, a.Longitude)
	h.Dock(a)
}

// AddAirbase places an airbase for the current side.
type AddAirbase struct {
	Name      string
	ClassName string
	Latitude  float64
	Longitude float64
}

func (c AddAirbase) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	s := g.scenario
	s.Airbases = append(s.Airbases, &scenario.Airbase{
		Unit: scenario.Unit{
			ID:        uuid.New().String(),
			Name:      c.Name,
			SideID:    g.currentSideID,
			ClassName: c.ClassName,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			SideColor: s.GetSideColor(g.currentSideID),
		},
	})
	return true
}

// AddFacility places an air defense site for the current side.
type AddFacility struct {
	Name      string
	ClassName string
	Latitude  float64
	Longitude float64
	Range     float64
}

func (c AddFacility) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	s := g.scenario
	f := &scenario.Facility{
		Unit: scenario.Unit{
			ID:        uuid.New().String(),
			Name:      c.Name,
			SideID:    g.currentSideID,
			ClassName: c.ClassName,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			SideColor: s.GetSideColor(g.currentSideID),
		},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{SampleWeapon(s, g.currentSideID, 30, 0.1)}},
		Range:    orDefault(c.Range, DefaultFacilityRange),
	}
	f.SyncPositions(f.Latitude, f.Longitude)
	s.Facilities = append(s.Facilities, f)
	return true
}

// AddShip places a ship for the current side.
type AddShip struct {
	Name      string
	ClassName string
	Latitude  float64
	Longitude float64
	Speed     float64
	MaxFuel   float64
	FuelRate  float64
	Range     float64
}

func (c AddShip) apply(g *Game) bool {
	if g.currentSideID == "" {
		return false
	}
	s := g.scenario
	fuel := orDefault(c.MaxFuel, DefaultShipFuel)
	sh := &scenario.Ship{
		Unit: scenario.Unit{
			ID:        uuid.New().String(),
			Name:      c.Name,
			SideID:    g.currentSideID,
			ClassName: c.ClassName,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			SideColor: s.GetSideColor(g.currentSideID),
		},
		Movement: scenario.Movement{
			Speed:       orDefault(c.Speed, DefaultShipSpeed),
			CurrentFuel: fuel,
			MaxFuel:     fuel,
			FuelRate:    orDefault(c.FuelRate, DefaultShipFuelRate),
			Range:       orDefault(c.Range, DefaultShipRange),
		},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{SampleWeapon(s, g.currentSideID, 300, 0.15)}},
	}
	sh.SyncPositions(sh.Latitude, sh.Longitude)
	s.Ships = append(s.Ships, sh)
	return true
}

// RemoveAircraft deletes an airborne aircraft.
type RemoveAircraft struct{ AircraftID string }

func (c RemoveAircraft) apply(g *Game) bool { return g.scenario.RemoveAircraft(c.AircraftID) }

// RemoveFacility deletes a facility.
type RemoveFacility struct{ FacilityID string }

func (c RemoveFacility) apply(g *Game) bool { return g.scenario.RemoveFacility(c.FacilityID) }

// RemoveAirbase deletes an airbase and orphans the aircraft based there.
type RemoveAirbase struct{ AirbaseID string }

func (c RemoveAirbase) apply(g *Game) bool { return g.scenario.RemoveAirbase(c.AirbaseID) }

// RemoveShip deletes a ship and orphans the aircraft based there.
type RemoveShip struct{ ShipID string }

func (c RemoveShip) apply(g *Game) bool { return g.scenario.RemoveShip(c.ShipID) }

// DuplicateUnit copies an airborne aircraft beside the original with a new
// id, full fuel, no route and its own copy of the loadout.
type DuplicateUnit struct {
	UnitID string
}

func (c DuplicateUnit) apply(g *Game) bool {
	s := g.scenario
	a := s.GetAircraft(c.UnitID)
	if a == nil {
		return false
	}

	dup := deep.MustCopy(*a)
	dup.ID = uuid.New().String()
	dup.SetPosition(a.Latitude-hangarOffsetDeg, a.Longitude-hangarOffsetDeg)
	dup.CurrentFuel = dup.MaxFuel
	dup.Route = nil
	dup.RTB = false
	for _, w := range dup.Weapons {
		w.ID = uuid.New().String()
	}
	dup.SyncPositions(dup.Latitude, dup.Longitude)
	s.Aircraft = append(s.Aircraft, &dup)
	return true
}

// TeleportUnit moves a unit or reference point without simulating travel.
// Docked aircraft follow their base, and patrol areas built on a moved
// reference point are rebuilt.
type TeleportUnit struct {
	UnitID    string
	Latitude  float64
	Longitude float64
}

func (c TeleportUnit) apply(g *Game) bool {
	s := g.scenario
	lat, lon := c.Latitude, c.Longitude

	if a := s.GetAircraft(c.UnitID); a != nil {
		a.SetPosition(lat, lon)
		a.SyncPositions(lat, lon)
		return true
	}
	if ab := s.GetAirbase(c.UnitID); ab != nil {
		ab.SetPosition(lat, lon)
		followBase(&ab.Hangar, lat, lon)
		return true
	}
	if f := s.GetFacility(c.UnitID); f != nil {
		f.SetPosition(lat, lon)
		f.SyncPositions(lat, lon)
		return true
	}
	if sh := s.GetShip(c.UnitID); sh != nil {
		sh.SetPosition(lat, lon)
		sh.SyncPositions(lat, lon)
		followBase(&sh.Hangar, lat, lon)
		return true
	}
	if rp := s.GetReferencePoint(c.UnitID); rp != nil {
		rp.Latitude, rp.Longitude = lat, lon
		for _, m := range s.GetAllPatrolMissions() {
			moved := false
			for i := range m.AssignedArea {
				if m.AssignedArea[i].ID == rp.ID {
					m.AssignedArea[i] = *rp
					moved = true
				}
			}
			if moved {
				m.UpdatePatrolAreaGeometry()
			}
		}
		return true
	}
	return false
}

func followBase(h *scenario.Hangar, lat, lon float64) {
	for _, a := range h.Aircraft {
		a.SetPosition(lat-hangarOffsetDeg, lon-hangarOffsetDeg)
		a.SyncPositions(a.Latitude, a.Longitude)
	}
}
