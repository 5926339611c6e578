// Package game runs an engagement scenario one tick at a time. A tick applies
// the queued commands, then runs the autonomous sweeps in a fixed order:
// point defense, air-to-air, missions, weapon flight and finally movement.
package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/picogrid/engagement-sim/pkg/engine"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

// TimeCompressions lists the selectable compressions in cycle order.
var TimeCompressions = []int{1, 2, 4, 8, 100}

var tickDelays = map[int]time.Duration{
	1:   time.Second,
	2:   500 * time.Millisecond,
	4:   250 * time.Millisecond,
	8:   125 * time.Millisecond,
	100: 0,
}

// TickDelay returns the wall clock pause between ticks at a compression.
// Unknown compressions run at real time.
func TickDelay(compression int) time.Duration {
	if d, ok := tickDelays[compression]; ok {
		return d
	}
	return time.Second
}

// Info carries per-step counters alongside the observation.
type Info struct {
	Tick            int64 `json:"tick"`
	Aircraft        int   `json:"aircraft"`
	WeaponsInFlight int   `json:"weaponsInFlight"`
	NewLogs         int   `json:"newLogs"`
}

// StepResult is what Step hands back to the caller.
type StepResult struct {
	Observation *scenario.Scenario
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Game owns the live scenario and the engine acting on it.
type Game struct {
	mu sync.Mutex

	scenario      *scenario.Scenario
	initial       *scenario.Scenario
	initialSideID string
	currentSideID string

	rng    engine.Rand
	logs   *simlog.Logs
	engine *engine.Engine
}

// Option configures a Game.
type Option func(*Game)

// WithRand injects the random source used for lethality rolls, launch names
// and patrol waypoints.
func WithRand(r engine.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed seeds a PCG source.
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogs shares an existing event log.
func WithLogs(l *simlog.Logs) Option {
	return func(g *Game) { g.logs = l }
}

// New wraps s. A deep copy of s is kept so Reset can restore it.
func New(s *scenario.Scenario, currentSideID string, opts ...Option) *Game {
	g := &Game{
		scenario:      s,
		initial:       s.Clone(),
		initialSideID: currentSideID,
		currentSideID: currentSideID,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(1, 1))
	}
	if g.logs == nil {
		g.logs = simlog.New()
	}
	g.engine = engine.New(g.rng, g.logs)
	g.updateOnboardWeaponPositions()
	return g
}

// FromDocument builds a game from a loaded scenario document.
func FromDocument(doc *scenario.Document, opts ...Option) *Game {
	return New(doc.CurrentScenario, doc.CurrentSideID, opts...)
}

// Scenario returns the live scenario. Callers must not mutate it between
// steps; use commands instead.
func (g *Game) Scenario() *scenario.Scenario {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scenario
}

// Logs returns the event log.
func (g *Game) Logs() *simlog.Logs { return g.logs }

// CurrentSideID returns the side new units are created for.
func (g *Game) CurrentSideID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentSideID
}

// Document snapshots the live state as a scenario document.
func (g *Game) Document() *scenario.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &scenario.Document{
		CurrentScenario: g.scenario.Clone(),
		CurrentSideID:   g.currentSideID,
	}
}

// Reset restores the scenario the game was created with and clears the log.
func (g *Game) Reset() *scenario.Scenario {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.scenario = g.initial.Clone()
	g.currentSideID = g.initialSideID
	g.logs.Clear()
	g.updateOnboardWeaponPositions()
	return g.scenario
}

// Apply runs a single command outside of a tick and reports whether it
// changed anything.
func (g *Game) Apply(cmd Command) bool {
	if cmd == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return cmd.apply(g)
}

// Step applies cmds in order, then advances the world by one tick.
// Commands that fail their preconditions are skipped.
func (g *Game) Step(cmds ...Command) StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	logsBefore := g.logs.Len()
	for _, cmd := range cmds {
		if cmd != nil {
			cmd.apply(g)
		}
	}
	g.tick()

	s := g.scenario
	return StepResult{
		Observation: s,
		Truncated:   g.ended(),
		Info: Info{
			Tick:            s.CurrentTime - s.StartTime,
			Aircraft:        len(s.Aircraft),
			WeaponsInFlight: len(s.Weapons),
			NewLogs:         g.logs.Len() - logsBefore,
		},
	}
}

// ended reports whether the scenario has run its full duration. A zero
// duration never ends.
func (g *Game) ended() bool {
	s := g.scenario
	return s.Duration > 0 && s.CurrentTime-s.StartTime >= s.Duration
}

// tick runs one simulated second.
func (g *Game) tick() {
	g.scenario.CurrentTime++

	g.facilityAutoDefense()
	g.shipAutoDefense()
	g.aircraftAirToAirEngagement()

	g.updateUnitsOnPatrolMission()
	g.clearCompletedStrikeMissions()
	g.updateUnitsOnStrikeMission()

	g.updateWeapons()

	g.updateAllAircraftPosition()
	g.updateAllShipPosition()
	g.updateOnboardWeaponPositions()
}
