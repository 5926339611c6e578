package game

import (
	"fmt"
	"math"

	"github.com/picogrid/engagement-sim/pkg/engine"
	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

// strikeStandoffFactor widens the strike radius before an attacker is
// considered close enough to fire.
const strikeStandoffFactor = 1.1

func (g *Game) updateUnitsOnPatrolMission() {
	s := g.scenario
	for _, m := range s.GetAllPatrolMissions() {
		if !m.Active || len(m.AssignedArea) < 3 {
			continue
		}
		for _, id := range m.AssignedUnitIDs {
			mv := g.patrolUnit(id)
			if mv == nil {
				continue
			}
			if len(mv.Route) == 0 || !m.Contains(mv.Route[0]) {
				mv.Route = []geo.Coordinates{m.RandomPoint(g.rng.Float64(), g.rng.Float64())}
			}
		}
	}
}

// patrolUnit resolves a patrolling aircraft or ship. Aircraft heading home
// are left alone.
func (g *Game) patrolUnit(id string) *scenario.Movement {
	s := g.scenario
	if a := s.GetAircraft(id); a != nil {
		if a.RTB {
			return nil
		}
		return &a.Movement
	}
	if sh := s.GetShip(id); sh != nil {
		return &sh.Movement
	}
	return nil
}

// clearCompletedStrikeMissions removes strike missions that can no longer
// progress and sends their surviving attackers home.
func (g *Game) clearCompletedStrikeMissions() {
	s := g.scenario
	for _, m := range s.GetAllStrikeMissions() {
		targetID := m.PrimaryTargetID()

		var attackers []*scenario.Aircraft
		armed := false
		for _, id := range m.AssignedUnitIDs {
			if a := s.GetAircraft(id); a != nil {
				attackers = append(attackers, a)
				if a.TotalWeaponQuantity() > 0 {
					armed = true
				}
			}
		}

		var outcome simlog.Type
		var message string
		switch {
		case targetID == "":
			outcome, message = simlog.StrikeMissionAborted, fmt.Sprintf("Strike mission %s has no target", m.Name)
		case s.GetTarget(targetID) == nil:
			outcome, message = simlog.StrikeMissionSuccess, fmt.Sprintf("Strike mission %s destroyed its target", m.Name)
		case len(attackers) == 0:
			outcome, message = simlog.StrikeMissionAborted, fmt.Sprintf("Strike mission %s lost all attackers", m.Name)
		case !armed:
			outcome, message = simlog.StrikeMissionAborted, fmt.Sprintf("Strike mission %s expended all weapons", m.Name)
		default:
			continue
		}

		if s.DoctrineFor(m.SideID).AircraftRTBWhenStrikeMissionComplete {
			for _, a := range attackers {
				a.TargetID = ""
				if !a.RTB {
					g.returnToBase(a)
				}
			}
		}
		s.RemoveMission(m.ID)
		g.logs.Add(m.SideID, message, s.CurrentTime, outcome)
	}
}

// updateUnitsOnStrikeMission routes attackers to a standoff point short of
// the primary target and fires once they are inside it. The standoff radius
// is the smaller of the aircraft sensor range and its weapon reach.
func (g *Game) updateUnitsOnStrikeMission() {
	s := g.scenario
	for _, m := range s.GetAllStrikeMissions() {
		if !m.Active {
			continue
		}
		targetID := m.PrimaryTargetID()
		target := s.GetTarget(targetID)
		if target == nil {
			continue
		}
		pos := target.Coordinates()

		for _, id := range m.AssignedUnitIDs {
			a := s.GetAircraft(id)
			if a == nil || a.RTB {
				continue
			}
			best := a.WeaponWithHighestEngagementRange()
			if best == nil {
				continue
			}

			radius := math.Min(a.Range, best.EngagementRange())
			threshold := radius * strikeStandoffFactor
			distance := geo.DistanceNm(a.Latitude, a.Longitude, pos.Latitude(), pos.Longitude())
			if distance > threshold {
				if n := len(a.Route); n > 0 {
					last := a.Route[n-1]
					if geo.DistanceNm(last.Latitude(), last.Longitude(), pos.Latitude(), pos.Longitude()) <= threshold {
						continue
					}
				}
				engine.RouteAircraftToStrikePosition(s, a, targetID, radius)
				continue
			}

			g.engine.LaunchWeapon(s, a, target, best, 1)
			a.TargetID = targetID
		}
	}
}
