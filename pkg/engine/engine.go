// Package engine implements the per-entity combat rules: detection, weapon
// reach, launches, weapon flight and endgame, pursuit and strike ingress.
// Functions operate on a *scenario.Scenario in place; the tick controller
// in pkg/game decides when each rule runs.
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Outcome reports what happened to a weapon during one engagement step.
type Outcome int

const (
	// Advanced means the weapon moved toward its target.
	Advanced Outcome = iota
	// Hit means the weapon reached its target and destroyed it.
	Hit
	// Missed means the weapon reached its target and failed the lethality roll.
	Missed
	// Crashed means the weapon ran out of fuel.
	Crashed
	// TargetLost means the target no longer exists.
	TargetLost
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Hit:
		return "hit"
	case Missed:
		return "missed"
	case Crashed:
		return "crashed"
	case TargetLost:
		return "target lost"
	default:
		return "unknown"
	}
}

const (
	// EndgameDistanceKm is the distance at which a weapon resolves its
	// lethality roll.
	EndgameDistanceKm = 1.0
	// PursuitTrailNm is how far behind a target a pursuing aircraft steers.
	PursuitTrailNm = 5.0
	// launchNameSuffixMax bounds the random suffix appended to launched
	// weapon names.
	launchNameSuffixMax = 1000
)

// Engine applies combat rules against a scenario. It is not safe for
// concurrent use; the game serializes access.
type Engine struct {
	rng  Rand
	logs *simlog.Logs
}

// New creates an engine. A nil rng seeds a PCG source from seed 1 and a nil
// logs discards events into a private log.
func New(rng Rand, logs *simlog.Logs) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}
	if logs == nil {
		logs = simlog.New()
	}
	return &Engine{rng: rng, logs: logs}
}

// Logs returns the event log the engine writes to.
func (e *Engine) Logs() *simlog.Logs { return e.logs }

// IsThreatDetected reports whether threat sits inside the detector's
// circle. The radius is the detection range converted at one degree per
// sixty nautical miles and compared flat in degree space.
func IsThreatDetected(threat scenario.Target, detector scenario.Detector) bool {
	center := detector.Coordinates()
	pos := threat.Coordinates()
	return geo.WithinRadiusDegrees(
		center.Latitude(), center.Longitude(),
		detector.DetectionRange()*geo.DegreesPerNauticalMile,
		pos.Latitude(), pos.Longitude(),
	)
}

// WeaponCanEngageTarget reports whether target is closer to the weapon than
// its remaining powered reach.
func WeaponCanEngageTarget(target scenario.Target, weapon *scenario.Weapon) bool {
	pos := target.Coordinates()
	d := geo.DistanceNm(weapon.Latitude, weapon.Longitude, pos.Latitude(), pos.Longitude())
	return d < weapon.EngagementRange()
}

// IsThreatWithinRange reports whether the launcher both detects the threat
// and has a weapon able to reach it. Only the weapon with the highest
// engagement range is considered.
func IsThreatWithinRange(threat scenario.Target, launcher scenario.Launcher) bool {
	best := launcher.Inventory().WeaponWithHighestEngagementRange()
	if best == nil {
		return false
	}
	return IsThreatDetected(threat, launcher) && WeaponCanEngageTarget(threat, best)
}

// TargetTrackedByCount returns how many in-flight weapons are aimed at
// targetID.
func TargetTrackedByCount(s *scenario.Scenario, targetID string) int {
	n := 0
	for _, w := range s.Weapons {
		if w.TargetID == targetID {
			n++
		}
	}
	return n
}

// LaunchWeapon fires quantity rounds of the inventory template at target.
// Each round starts one tick along the path toward the target. The template
// is decremented and dropped from inventory once exhausted. It is a no-op
// when the launcher has no weapons or the template holds fewer rounds than
// requested.
func (e *Engine) LaunchWeapon(s *scenario.Scenario, origin scenario.Launcher, target scenario.Target, template *scenario.Weapon, quantity int) []*scenario.Weapon {
	inv := origin.Inventory()
	if len(inv.Weapons) == 0 || template == nil || quantity <= 0 || template.CurrentQuantity < quantity {
		return nil
	}

	from := origin.Coordinates()
	to := target.Coordinates()
	launched := make([]*scenario.Weapon, 0, quantity)
	for range quantity {
		lat, lon := geo.NextPosition(from.Latitude(), from.Longitude(), to.Latitude(), to.Longitude(), template.Speed)
		w := &scenario.Weapon{
			Unit: scenario.Unit{
				ID:        uuid.New().String(),
				Name:      fmt.Sprintf("%s #%d", template.Name, e.rng.IntN(launchNameSuffixMax+1)),
				SideID:    origin.Side(),
				ClassName: template.ClassName,
				Latitude:  lat,
				Longitude: lon,
				Altitude:  template.Altitude,
				SideColor: template.SideColor,
			},
			Movement: scenario.Movement{
				Heading:     geo.Bearing(lat, lon, to.Latitude(), to.Longitude()),
				Speed:       template.Speed,
				CurrentFuel: template.CurrentFuel,
				MaxFuel:     template.MaxFuel,
				FuelRate:    template.FuelRate,
				Range:       template.Range,
				Route:       []geo.Coordinates{to},
			},
			TargetID:        target.EntityID(),
			Lethality:       template.Lethality,
			MaxQuantity:     1,
			CurrentQuantity: 1,
		}
		s.Weapons = append(s.Weapons, w)
		launched = append(launched, w)

		template.CurrentQuantity--
		e.logs.Add(origin.Side(),
			fmt.Sprintf("%s launched %s at %s", origin.DisplayName(), w.Name, target.DisplayName()),
			s.CurrentTime, simlog.WeaponLaunched)
	}
	if template.CurrentQuantity < 1 {
		inv.RemoveWeapon(template.ID)
	}
	return launched
}

// WeaponEngagement advances one in-flight weapon by a tick. A weapon whose
// target is gone is removed. A weapon with an empty route holds position.
// Within EndgameDistanceKm the weapon resolves its endgame; otherwise it
// homes on the target's current position, burns fuel and is removed when
// the tank runs dry.
func (e *Engine) WeaponEngagement(s *scenario.Scenario, w *scenario.Weapon) Outcome {
	target := s.GetTarget(w.TargetID)
	if target == nil {
		s.RemoveWeapon(w.ID)
		e.logs.Add(w.SideID, fmt.Sprintf("%s lost its target and was expended", w.DisplayName()),
			s.CurrentTime, simlog.WeaponExpended)
		return TargetLost
	}
	if len(w.Route) == 0 {
		return Advanced
	}

	pos := target.Coordinates()
	if geo.Distance(w.Latitude, w.Longitude, pos.Latitude(), pos.Longitude()) < EndgameDistanceKm {
		return e.WeaponEndgame(s, w, target)
	}

	lat, lon := geo.NextPosition(w.Latitude, w.Longitude, pos.Latitude(), pos.Longitude(), w.Speed)
	w.Heading = geo.Bearing(lat, lon, pos.Latitude(), pos.Longitude())
	w.SetPosition(lat, lon)

	if w.BurnFuel() <= 0 {
		s.RemoveWeapon(w.ID)
		e.logs.Add(w.SideID, fmt.Sprintf("%s ran out of fuel and crashed", w.DisplayName()),
			s.CurrentTime, simlog.WeaponCrashed)
		return Crashed
	}
	return Advanced
}

// WeaponEndgame consumes the weapon and rolls against its lethality. A roll
// at or below the lethality destroys the target; a lethality of zero never
// does.
func (e *Engine) WeaponEndgame(s *scenario.Scenario, w *scenario.Weapon, target scenario.Target) Outcome {
	s.RemoveWeapon(w.ID)
	if w.Lethality > 0 && e.rng.Float64() <= w.Lethality {
		s.RemoveTarget(target)
		e.logs.Add(w.SideID, fmt.Sprintf("%s hit and destroyed %s", w.DisplayName(), target.DisplayName()),
			s.CurrentTime, simlog.WeaponHit)
		return Hit
	}
	e.logs.Add(w.SideID, fmt.Sprintf("%s missed %s", w.DisplayName(), target.DisplayName()),
		s.CurrentTime, simlog.WeaponMissed)
	return Missed
}

// AircraftPursuit steers an aircraft to a point trailing its target
// aircraft. A vanished target clears TargetID; an unarmed aircraft keeps
// its route.
func AircraftPursuit(s *scenario.Scenario, a *scenario.Aircraft) {
	target := s.GetAircraft(a.TargetID)
	if target == nil {
		a.TargetID = ""
		return
	}
	if len(a.Weapons) == 0 {
		return
	}

	reverse := math.Mod(target.Heading+180, 360)
	lat, lon := geo.TerminalPoint(target.Latitude, target.Longitude,
		PursuitTrailNm*geo.NauticalMilesToMeters/1000, reverse)
	a.Route = []geo.Coordinates{{lat, lon}}
	a.Heading = geo.Bearing(a.Latitude, a.Longitude, lat, lon)
}

// RouteAircraftToStrikePosition appends an ingress point radiusNm from the
// target, on the target's side facing the aircraft, and points the aircraft
// at the target. Nothing changes when the target is gone or the aircraft is
// unarmed.
func RouteAircraftToStrikePosition(s *scenario.Scenario, a *scenario.Aircraft, targetID string, radiusNm float64) {
	target := s.GetTarget(targetID)
	if target == nil || len(a.Weapons) == 0 {
		return
	}

	pos := target.Coordinates()
	back := geo.Bearing(pos.Latitude(), pos.Longitude(), a.Latitude, a.Longitude)
	lat, lon := geo.TerminalPoint(pos.Latitude(), pos.Longitude(),
		radiusNm*geo.NauticalMilesToMeters/1000, back)
	a.Route = append(a.Route, geo.Coordinates{lat, lon})
	a.Heading = geo.Bearing(a.Latitude, a.Longitude, pos.Latitude(), pos.Longitude())
}
