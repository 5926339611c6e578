// Package reporting builds the after-action report of an engagement run
// from the initial scenario, the final scenario and the event log.
package reporting

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

// AAR is an after-action report.
type AAR struct {
	Metadata    AARMetadata         `json:"metadata"`
	Summary     ExecutiveSummary    `json:"summary"`
	Sides       []SideAnalysis      `json:"sides"`
	EventCounts map[simlog.Type]int `json:"event_counts"`
	Timeline    []TimelineEntry     `json:"timeline"`
}

// AARMetadata identifies the run a report covers.
type AARMetadata struct {
	ReportID     string    `json:"report_id"`
	ScenarioID   string    `json:"scenario_id"`
	ScenarioName string    `json:"scenario_name"`
	GeneratedAt  time.Time `json:"generated_at"`
	StartTime    int64     `json:"start_time"`
	EndTime      int64     `json:"end_time"`
	Ticks        int64     `json:"ticks"`
	Duration     string    `json:"duration"`
	Seed         uint64    `json:"seed"`
}

// ExecutiveSummary provides high-level overview
type ExecutiveSummary struct {
	Outcome         string   `json:"outcome"`
	LeadingSide     string   `json:"leading_side,omitempty"`
	WeaponsLaunched int      `json:"weapons_launched"`
	Hits            int      `json:"hits"`
	HitRate         float64  `json:"hit_rate"`
	TotalLosses     int      `json:"total_losses"`
	KeyEvents       []string `json:"key_events"`
}

// Inventory counts the units of one side. Aircraft includes hangared
// aircraft.
type Inventory struct {
	Aircraft   int `json:"aircraft"`
	Ships      int `json:"ships"`
	Facilities int `json:"facilities"`
	Airbases   int `json:"airbases"`
	Rounds     int `json:"rounds"`
}

// Units returns the number of units, rounds excluded.
func (i Inventory) Units() int {
	return i.Aircraft + i.Ships + i.Facilities + i.Airbases
}

// SideAnalysis is the per-side breakdown.
type SideAnalysis struct {
	SideID          string    `json:"side_id"`
	Name            string    `json:"name"`
	Initial         Inventory `json:"initial"`
	Final           Inventory `json:"final"`
	Losses          int       `json:"losses"`
	Kills           int       `json:"kills"`
	WeaponsLaunched int       `json:"weapons_launched"`
	Hits            int       `json:"hits"`
	Misses          int       `json:"misses"`
	HitRate         float64   `json:"hit_rate"`
	AircraftCrashed int       `json:"aircraft_crashed"`
	StrikeSuccesses int       `json:"strike_successes"`
	StrikeAborts    int       `json:"strike_aborts"`
}

// TimelineEntry is one significant event.
type TimelineEntry struct {
	Timestamp int64       `json:"timestamp"`
	Elapsed   string      `json:"elapsed"`
	Type      simlog.Type `json:"type"`
	SideID    string      `json:"side_id"`
	Message   string      `json:"message"`
}

var significant = []simlog.Type{
	simlog.WeaponHit,
	simlog.AircraftCrashed,
	simlog.StrikeMissionSuccess,
	simlog.StrikeMissionAborted,
}

// maxKeyEvents bounds the summary's key event list.
const maxKeyEvents = 5

// Generate builds a report. initial is the scenario as loaded, final the
// scenario after the last tick.
func Generate(initial, final *scenario.Scenario, entries []simlog.Entry, seed uint64) *AAR {
	ticks := final.CurrentTime - final.StartTime
	aar := &AAR{
		Metadata: AARMetadata{
			ReportID:     uuid.New().String(),
			ScenarioID:   final.ID,
			ScenarioName: final.Name,
			GeneratedAt:  time.Now(),
			StartTime:    final.StartTime,
			EndTime:      final.CurrentTime,
			Ticks:        ticks,
			Duration:     formatDuration(time.Duration(ticks) * time.Second),
			Seed:         seed,
		},
		EventCounts: make(map[simlog.Type]int),
	}

	for _, e := range entries {
		aar.EventCounts[e.Type]++
		if slices.Contains(significant, e.Type) {
			aar.Timeline = append(aar.Timeline, TimelineEntry{
				Timestamp: e.Timestamp,
				Elapsed:   formatDuration(time.Duration(e.Timestamp-final.StartTime) * time.Second),
				Type:      e.Type,
				SideID:    e.SideID,
				Message:   e.Message,
			})
		}
	}

	aar.Sides = analyzeSides(initial, final, entries)
	aar.Summary = summarize(aar)
	return aar
}

func analyzeSides(initial, final *scenario.Scenario, entries []simlog.Entry) []SideAnalysis {
	sides := make([]SideAnalysis, 0, len(final.Sides))
	for _, side := range final.Sides {
		a := SideAnalysis{
			SideID:  side.ID,
			Name:    side.Name,
			Initial: CountInventory(initial, side.ID),
			Final:   CountInventory(final, side.ID),
		}
		a.Losses = max(0, a.Initial.Units()-a.Final.Units())

		for _, e := range entries {
			if e.SideID != side.ID {
				continue
			}
			switch e.Type {
			case simlog.WeaponLaunched:
				a.WeaponsLaunched++
			case simlog.WeaponHit:
				a.Hits++
			case simlog.WeaponMissed:
				a.Misses++
			case simlog.AircraftCrashed:
				a.AircraftCrashed++
			case simlog.StrikeMissionSuccess:
				a.StrikeSuccesses++
			case simlog.StrikeMissionAborted:
				a.StrikeAborts++
			}
		}
		a.Kills = a.Hits
		if resolved := a.Hits + a.Misses; resolved > 0 {
			a.HitRate = float64(a.Hits) / float64(resolved)
		}
		sides = append(sides, a)
	}
	return sides
}

// CountInventory counts the units and remaining rounds sideID owns in s.
func CountInventory(s *scenario.Scenario, sideID string) Inventory {
	var inv Inventory
	rounds := func(weapons []*scenario.Weapon) {
		for _, w := range weapons {
			inv.Rounds += w.CurrentQuantity
		}
	}
	aircraft := func(list []*scenario.Aircraft) {
		for _, a := range list {
			if a.SideID == sideID {
				inv.Aircraft++
				rounds(a.Weapons)
			}
		}
	}

	aircraft(s.Aircraft)
	for _, sh := range s.Ships {
		if sh.SideID == sideID {
			inv.Ships++
			rounds(sh.Weapons)
		}
		aircraft(sh.Hangar.Aircraft)
	}
	for _, ab := range s.Airbases {
		if ab.SideID == sideID {
			inv.Airbases++
		}
		aircraft(ab.Hangar.Aircraft)
	}
	for _, f := range s.Facilities {
		if f.SideID == sideID {
			inv.Facilities++
			rounds(f.Weapons)
		}
	}
	return inv
}

func summarize(aar *AAR) ExecutiveSummary {
	sum := ExecutiveSummary{}
	for _, side := range aar.Sides {
		sum.WeaponsLaunched += side.WeaponsLaunched
		sum.Hits += side.Hits
		sum.TotalLosses += side.Losses
	}
	resolved := aar.EventCounts[simlog.WeaponHit] + aar.EventCounts[simlog.WeaponMissed]
	if resolved > 0 {
		sum.HitRate = float64(sum.Hits) / float64(resolved)
	}

	// The leading side kept the largest share of its starting force.
	best, tied := -1.0, false
	for _, side := range aar.Sides {
		if side.Initial.Units() == 0 {
			continue
		}
		share := float64(side.Final.Units()) / float64(side.Initial.Units())
		switch {
		case share > best:
			best, tied = share, false
			sum.LeadingSide = side.Name
		case share == best:
			tied = true
		}
	}

	switch {
	case sum.TotalLosses == 0 && sum.WeaponsLaunched == 0:
		sum.Outcome = "No contact"
		sum.LeadingSide = ""
	case tied || sum.LeadingSide == "":
		sum.Outcome = "Inconclusive"
		sum.LeadingSide = ""
	default:
		sum.Outcome = fmt.Sprintf("%s advantage", sum.LeadingSide)
	}

	for _, e := range aar.Timeline {
		if len(sum.KeyEvents) == maxKeyEvents {
			break
		}
		sum.KeyEvents = append(sum.KeyEvents, fmt.Sprintf("[%s] %s", e.Elapsed, e.Message))
	}
	return sum
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%02dm%02ds", m, s)
}

func title(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}
