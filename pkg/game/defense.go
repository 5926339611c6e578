package game

import (
	"slices"

	"github.com/picogrid/engagement-sim/pkg/engine"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// Saturation caps checked at launch time.
const (
	aircraftTrackingCap      = 10
	inboundWeaponTrackingCap = 5
	airToAirTrackingCap      = 1
)

func (g *Game) facilityAutoDefense() {
	s := g.scenario
	for _, f := range slices.Clone(s.Facilities) {
		if s.GetFacility(f.ID) == nil || !s.DoctrineFor(f.SideID).SAMAttackHostile {
			continue
		}
		g.pointDefense(f)
	}
}

func (g *Game) shipAutoDefense() {
	s := g.scenario
	for _, sh := range slices.Clone(s.Ships) {
		if s.GetShip(sh.ID) == nil || !s.DoctrineFor(sh.SideID).ShipAttackHostile {
			continue
		}
		g.pointDefense(sh)
	}
}

// pointDefense fires one round at every hostile aircraft in range and at
// every hostile weapon inbound on the launcher.
func (g *Game) pointDefense(launcher scenario.Launcher) {
	s := g.scenario

	for _, a := range slices.Clone(s.Aircraft) {
		if !s.IsHostile(launcher.Side(), a.SideID) {
			continue
		}
		if engine.IsThreatWithinRange(a, launcher) && engine.TargetTrackedByCount(s, a.ID) < aircraftTrackingCap {
			best := launcher.Inventory().WeaponWithHighestEngagementRange()
			g.engine.LaunchWeapon(s, launcher, a, best, 1)
		}
	}

	for _, w := range slices.Clone(s.Weapons) {
		if w.TargetID != launcher.EntityID() || !s.IsHostile(launcher.Side(), w.SideID) {
			continue
		}
		if engine.IsThreatWithinRange(w, launcher) && engine.TargetTrackedByCount(s, w.ID) < inboundWeaponTrackingCap {
			best := launcher.Inventory().WeaponWithHighestEngagementRange()
			g.engine.LaunchWeapon(s, launcher, w, best, 1)
		}
	}
}

// aircraftAirToAirEngagement lets armed aircraft engage hostile aircraft and
// inbound weapons, then steer after their locked target. Detection and reach
// both come from the aircraft's longest-reaching weapon.
func (g *Game) aircraftAirToAirEngagement() {
	s := g.scenario
	for _, a := range slices.Clone(s.Aircraft) {
		if s.GetAircraft(a.ID) == nil || len(a.Weapons) == 0 {
			continue
		}
		best := a.WeaponWithHighestEngagementRange()
		if best == nil {
			continue
		}
		doctrine := s.DoctrineFor(a.SideID)

		if doctrine.AircraftAttackHostile {
			for _, enemy := range slices.Clone(s.Aircraft) {
				if enemy.ID == a.ID || !s.IsHostile(a.SideID, enemy.SideID) {
					continue
				}
				if a.TargetID != "" && a.TargetID != enemy.ID {
					continue
				}
				if weaponInReach(enemy, best) && engine.TargetTrackedByCount(s, enemy.ID) < airToAirTrackingCap {
					g.engine.LaunchWeapon(s, a, enemy, best, 1)
					a.TargetID = enemy.ID
				}
			}

			for _, w := range slices.Clone(s.Weapons) {
				if w.TargetID != a.ID || !s.IsHostile(a.SideID, w.SideID) {
					continue
				}
				if weaponInReach(w, best) && engine.TargetTrackedByCount(s, w.ID) < airToAirTrackingCap {
					g.engine.LaunchWeapon(s, a, w, best, 1)
				}
			}
		}

		if a.TargetID != "" && doctrine.AircraftChaseHostile && !a.RTB {
			engine.AircraftPursuit(s, a)
		}
	}
}

func weaponInReach(threat scenario.Target, w *scenario.Weapon) bool {
	return engine.IsThreatDetected(threat, w) && engine.WeaponCanEngageTarget(threat, w)
}
