package simulation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/picogrid/engagement-sim/cmd/engagement/config"
	"github.com/picogrid/engagement-sim/cmd/engagement/reporting"
	"github.com/picogrid/engagement-sim/pkg/game"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/playback"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
	"github.com/picogrid/engagement-sim/pkg/simulation"
)

// Name is the registry name of the engagement simulation.
const Name = "Engagement"

// EngagementSimulation runs a scenario document headless: scripted orders
// are fed in as their tick comes due, frames are recorded for playback and
// an after-action report is produced at the end.
type EngagementSimulation struct {
	config *config.SimulationConfig

	mu       sync.Mutex
	stopChan chan struct{}

	game          *game.Game
	report        *reporting.AAR
	recordingPath string
	reportPath    string
}

// NewEngagementSimulation creates a new, unconfigured run.
func NewEngagementSimulation() simulation.Simulation {
	return &EngagementSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *EngagementSimulation) Name() string {
	return Name
}

// Description returns the simulation description
func (s *EngagementSimulation) Description() string {
	return "Air and maritime engagement between sides of a scenario, with scripted orders, playback recording and an after-action report"
}

// Configure loads the run configuration and applies params on top. The
// optional "config_file" parameter names the YAML file to start from.
func (s *EngagementSimulation) Configure(params map[string]interface{}) error {
	logger.Info("Configuring engagement simulation...")

	path, _ := params["config_file"].(string)
	cfg, err := config.LoadConfigWithOverrides(path, params)
	if err != nil {
		return err
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.ConsoleLevel))
	logger.Debugf("%s", cfg)

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// Run executes the simulation
func (s *EngagementSimulation) Run(ctx context.Context) error {
	if s.config == nil {
		if err := s.Configure(nil); err != nil {
			return err
		}
	}
	cfg := s.config
	logger.Infof("Starting %s simulation", s.Name())

	logger.Progressf("Loading scenario %s", cfg.Simulation.ScenarioFile)
	doc, err := scenario.LoadFile(cfg.Simulation.ScenarioFile)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	var orders *game.Schedule
	if cfg.Orders.ScriptPath != "" {
		orders, err = game.LoadOrderScript(cfg.Orders.ScriptPath)
		if err != nil {
			return err
		}
		logger.Infof("Loaded %d scripted orders from %s", orders.Len(), cfg.Orders.ScriptPath)
	}

	logs := simlog.New()
	if cfg.Logging.EchoEvents {
		logs.SetEcho(logger.Writer())
		logs.SetEchoSides(cfg.Logging.EchoSides...)
	}

	g := game.FromDocument(doc, game.WithSeed(cfg.Simulation.Seed), game.WithLogs(logs))
	initial := g.Scenario().Clone()

	s.mu.Lock()
	s.game = g
	s.mu.Unlock()

	var recorder *playback.Recorder
	if cfg.Recording.Enabled {
		recorder = playback.NewRecorder(cfg.Recording.RecordEvery)
		recorder.Start(playback.Info{Name: cfg.Simulation.Name}, g.Scenario())
	}

	logger.WithFields(map[string]interface{}{
		"scenario":    initial.Name,
		"seed":        cfg.Simulation.Seed,
		"compression": cfg.Simulation.TimeCompression,
	}).Info("Scenario loaded")

	loopErr := s.runSimulationLoop(ctx, g, orders, recorder)

	if err := s.finish(initial, g, recorder); err != nil {
		if loopErr != nil {
			logger.Errorf("Failed to finish run: %v", err)
			return loopErr
		}
		return err
	}
	return loopErr
}

// tickLimit is the number of ticks the run may take. Zero means no limit.
func (s *EngagementSimulation) tickLimit(sc *scenario.Scenario) int64 {
	var limit int64
	if sc.Duration > 0 {
		limit = sc.Duration - (sc.CurrentTime - sc.StartTime)
		if limit <= 0 {
			return 0
		}
	}
	if m := s.config.Simulation.MaxTicks; m > 0 && (limit == 0 || m < limit) {
		limit = m
	}
	return limit
}

// runSimulationLoop steps the game until the scenario ends, the tick limit
// is hit, Stop is called or ctx is cancelled.
func (s *EngagementSimulation) runSimulationLoop(ctx context.Context, g *game.Game, orders *game.Schedule, recorder *playback.Recorder) error {
	logger.Info("Starting main simulation loop...")

	sc := g.Scenario()
	limit := s.tickLimit(sc)
	if limit == 0 && sc.Duration > 0 {
		logger.Info("Scenario has already run its full duration")
		return nil
	}

	var tick <-chan time.Time
	if delay := s.config.TickDelay(); delay > 0 {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	var bar *logger.ProgressBar
	if limit > 0 && !s.config.Logging.EchoEvents {
		bar = logger.NewProgressBar(int(limit), "Ticks")
	}

	started := time.Now()
	for ticks := int64(0); limit == 0 || ticks < limit; ticks++ {
		ok, err := s.await(ctx, tick)
		if !ok {
			if bar != nil {
				fmt.Fprintln(logger.Writer())
			}
			if err != nil {
				logger.Info("Simulation cancelled by context")
				return err
			}
			logger.Info("Simulation stopped by user")
			return nil
		}

		var cmds []game.Command
		if orders != nil {
			obs := g.Scenario()
			cmds = orders.Due(obs.CurrentTime - obs.StartTime)
		}
		result := g.Step(cmds...)

		if recorder != nil && recorder.ShouldRecord(result.Observation.CurrentTime) {
			recorder.RecordFrame(result.Observation)
		}

		if bar != nil {
			bar.SetStatus(fmt.Sprintf("%d aircraft, %d weapons", result.Info.Aircraft, result.Info.WeaponsInFlight))
			bar.Update(int(ticks + 1))
		}

		if result.Terminated || result.Truncated {
			if bar != nil {
				bar.Finish()
			}
			logger.Info("Scenario duration reached")
			return nil
		}
	}

	if bar != nil {
		bar.Finish()
	}
	logger.Infof("Tick limit of %d reached in %s", limit, time.Since(started).Round(time.Millisecond))
	return nil
}

// await blocks until the next tick is due. Unpaced runs only check for a
// stop request.
func (s *EngagementSimulation) await(ctx context.Context, tick <-chan time.Time) (bool, error) {
	if tick == nil {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-s.stopChan:
			return false, nil
		default:
			return true, nil
		}
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-s.stopChan:
		return false, nil
	case <-tick:
		return true, nil
	}
}

// finish exports the recording and produces the after-action report.
func (s *EngagementSimulation) finish(initial *scenario.Scenario, g *game.Game, recorder *playback.Recorder) error {
	cfg := s.config
	final := g.Scenario()

	if recorder != nil {
		recorder.RecordFrame(final)
		path := playback.FileName(cfg.Recording.OutputPath, cfg.Recording.Compress)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create recording directory: %w", err)
			}
		}
		if err := recorder.Export(path, cfg.Recording.Compress); err != nil {
			return err
		}
		s.mu.Lock()
		s.recordingPath = path
		s.mu.Unlock()
		logger.Successf("Recording saved to %s (%d frames)", path, len(recorder.Frames()))
	}

	if !cfg.Report.Enabled {
		return nil
	}

	logger.Info("Generating After Action Report...")
	aar := reporting.Generate(initial, final, g.Logs().Logs(simlog.Filter{}), cfg.Simulation.Seed)

	s.mu.Lock()
	s.report = aar
	s.mu.Unlock()

	if cfg.Report.OutputPath == "" {
		return reporting.Render(logger.Writer(), aar, cfg.Report.Format, !logger.ColorsEnabled())
	}

	path, err := reporting.Save(aar, cfg.Report.Format, cfg.Report.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to save AAR: %w", err)
	}
	s.mu.Lock()
	s.reportPath = path
	s.mu.Unlock()
	logger.Successf("After Action Report saved to %s", path)
	return nil
}

// Stop gracefully shuts down the simulation
func (s *EngagementSimulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	return nil
}

// Game returns the game of the current or last run.
func (s *EngagementSimulation) Game() *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Report returns the last after-action report, or nil.
func (s *EngagementSimulation) Report() *reporting.AAR {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// RecordingPath returns where the last recording was written.
func (s *EngagementSimulation) RecordingPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordingPath
}

// ReportPath returns where the last report was saved.
func (s *EngagementSimulation) ReportPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportPath
}

// init registers the simulation
func init() {
	if err := simulation.DefaultRegistry.Register(Name, NewEngagementSimulation); err != nil {
		logger.Errorf("Failed to register engagement simulation: %v", err)
	}
}
