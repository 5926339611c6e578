package game

import (
	"fmt"
	"slices"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

const (
	// arrivalThresholdKm is how close a unit must be to a waypoint, or an
	// aircraft to its base, to count as arrived.
	arrivalThresholdKm = 0.5
	// fuelReserveFactor triggers RTB when fuel drops below this multiple of
	// the fuel needed to get home.
	fuelReserveFactor = 1.1
	// hangarOffsetDeg places docked aircraft south-west of their base.
	hangarOffsetDeg = 0.5
)

func (g *Game) updateWeapons() {
	s := g.scenario
	for _, w := range slices.Clone(s.Weapons) {
		if s.GetWeapon(w.ID) == nil {
			continue
		}
		g.engine.WeaponEngagement(s, w)
	}
}

func (g *Game) updateAllAircraftPosition() {
	s := g.scenario
	for _, a := range slices.Clone(s.Aircraft) {
		if s.GetAircraft(a.ID) == nil {
			continue
		}

		if a.RTB {
			if base := g.resolveBase(a); base != nil && distanceTo(a.Coordinates(), base.Coordinates()) < arrivalThresholdKm {
				g.landAircraft(a, base)
				continue
			}
		}

		if len(a.Route) == 0 {
			continue
		}
		advance(&a.Unit, &a.Movement)

		if a.BurnFuel() <= 0 {
			s.RemoveAircraft(a.ID)
			g.logs.Add(a.SideID, fmt.Sprintf("%s ran out of fuel and crashed", a.DisplayName()),
				s.CurrentTime, simlog.AircraftCrashed)
			continue
		}

		if !a.RTB && s.DoctrineFor(a.SideID).AircraftRTBWhenOutOfRange {
			base := g.resolveBase(a)
			if base == nil {
				continue
			}
			needed := a.FuelNeededToReach(distanceTo(a.Coordinates(), base.Coordinates()))
			if a.CurrentFuel < needed*fuelReserveFactor {
				g.returnToBase(a)
			}
		}
	}
}

func (g *Game) updateAllShipPosition() {
	s := g.scenario
	for _, sh := range slices.Clone(s.Ships) {
		if s.GetShip(sh.ID) == nil || len(sh.Route) == 0 {
			continue
		}
		advance(&sh.Unit, &sh.Movement)

		if sh.BurnFuel() <= 0 {
			s.RemoveShip(sh.ID)
			g.logs.Add(sh.SideID, fmt.Sprintf("%s ran out of fuel and was lost", sh.DisplayName()),
				s.CurrentTime, simlog.Other)
		}
	}
}

// advance moves a unit one tick toward its route head, popping the waypoint
// once it is reached.
func advance(u *scenario.Unit, m *scenario.Movement) {
	next := m.Route[0]
	if distanceTo(u.Coordinates(), next) < arrivalThresholdKm {
		u.SetPosition(next.Latitude(), next.Longitude())
		m.Route = m.Route[1:]
		return
	}

	lat, lon := geo.NextPosition(u.Latitude, u.Longitude, next.Latitude(), next.Longitude(), m.Speed)
	u.SetPosition(lat, lon)
	m.Heading = geo.Bearing(lat, lon, next.Latitude(), next.Longitude())
}

func (g *Game) updateOnboardWeaponPositions() {
	s := g.scenario
	for _, a := range s.Aircraft {
		a.SyncPositions(a.Latitude, a.Longitude)
	}
	for _, f := range s.Facilities {
		f.SyncPositions(f.Latitude, f.Longitude)
	}
	for _, sh := range s.Ships {
		sh.SyncPositions(sh.Latitude, sh.Longitude)
	}
}

// resolveBase returns the aircraft's home base, or the closest friendly base
// when it has none.
func (g *Game) resolveBase(a *scenario.Aircraft) scenario.HomeBase {
	if a.HomeBaseID != "" {
		return g.scenario.GetAircraftHomeBase(a.ID)
	}
	return g.scenario.GetClosestBaseToAircraft(a.ID)
}

// returnToBase sets the aircraft heading home. The aircraft is marked RTB
// even when no base resolves; a resolved base becomes its home and its only
// waypoint.
func (g *Game) returnToBase(a *scenario.Aircraft) bool {
	a.RTB = true
	base := g.resolveBase(a)
	if base == nil {
		return false
	}

	pos := base.Coordinates()
	a.HomeBaseID = base.EntityID()
	a.Route = []geo.Coordinates{pos}
	a.Heading = geo.Bearing(a.Latitude, a.Longitude, pos.Latitude(), pos.Longitude())
	g.logs.Add(a.SideID, fmt.Sprintf("%s returning to %s", a.DisplayName(), base.DisplayName()),
		g.scenario.CurrentTime, simlog.ReturnToBase)
	return true
}

// landAircraft docks a returning aircraft. The hangared copy keeps the id,
// loadout and target, is refuelled and is placed beside the base.
func (g *Game) landAircraft(a *scenario.Aircraft, base scenario.HomeBase) {
	s := g.scenario
	pos := base.Coordinates()

	docked := &scenario.Aircraft{
		Unit: a.Unit,
		Movement: scenario.Movement{
			Heading:     90,
			Speed:       a.Speed,
			CurrentFuel: a.MaxFuel,
			MaxFuel:     a.MaxFuel,
			FuelRate:    a.FuelRate,
			Range:       a.Range,
		},
		Armament:   a.Armament,
		HomeBaseID: base.EntityID(),
		TargetID:   a.TargetID,
	}
	docked.SetPosition(pos.Latitude()-hangarOffsetDeg, pos.Longitude()-hangarOffsetDeg)

	base.Docked().Dock(docked)
	s.RemoveAircraft(a.ID)
	g.logs.Add(a.SideID, fmt.Sprintf("%s landed at %s", a.DisplayName(), base.DisplayName()),
		s.CurrentTime, simlog.Other)
}

func distanceTo(from, to geo.Coordinates) float64 {
	return geo.Distance(from.Latitude(), from.Longitude(), to.Latitude(), to.Longitude())
}
