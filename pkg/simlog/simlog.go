// Package simlog records the domain events of a running engagement:
// launches, hits, misses, crashes, returns to base and mission outcomes.
package simlog

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Type classifies a log entry.
type Type string

const (
	AircraftCrashed      Type = "AIRCRAFT_CRASHED"
	Other                Type = "OTHER"
	ReturnToBase         Type = "RETURN_TO_BASE"
	StrikeMissionAborted Type = "STRIKE_MISSION_ABORTED"
	StrikeMissionSuccess Type = "STRIKE_MISSION_SUCCESS"
	WeaponCrashed        Type = "WEAPON_CRASHED"
	WeaponExpended       Type = "WEAPON_EXPENDED"
	WeaponHit            Type = "WEAPON_HIT"
	WeaponLaunched       Type = "WEAPON_LAUNCHED"
	WeaponMissed         Type = "WEAPON_MISSED"
)

// Types lists every log type in declaration order.
var Types = []Type{
	AircraftCrashed, Other, ReturnToBase, StrikeMissionAborted, StrikeMissionSuccess,
	WeaponCrashed, WeaponExpended, WeaponHit, WeaponLaunched, WeaponMissed,
}

// Entry is one simulation event. Timestamp is scenario time in seconds.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Type      Type   `json:"type"`
	SideID    string `json:"sideId"`
	Message   string `json:"message"`
}

// Filter narrows Logs. Empty slices match everything and a zero Limit
// returns all matches.
type Filter struct {
	SideIDs []string
	Types   []Type
	Limit   int
}

var typeColors = map[Type]*color.Color{
	AircraftCrashed:      color.New(color.FgRed, color.Bold),
	Other:                color.New(color.FgHiBlack),
	ReturnToBase:         color.New(color.FgCyan),
	StrikeMissionAborted: color.New(color.FgYellow),
	StrikeMissionSuccess: color.New(color.FgGreen, color.Bold),
	WeaponCrashed:        color.New(color.FgYellow),
	WeaponExpended:       color.New(color.FgHiBlack),
	WeaponHit:            color.New(color.FgRed),
	WeaponLaunched:       color.New(color.FgBlue),
	WeaponMissed:         color.New(color.FgMagenta),
}

// Logs is an append-only event log, safe for concurrent readers.
type Logs struct {
	mu      sync.RWMutex
	entries []Entry
	hasNew  bool
	echo    io.Writer

	// echoSides limits echoing to these sides. Empty echoes every side.
	echoSides []string
}

// New returns an empty log.
func New() *Logs {
	return &Logs{}
}

// SetEcho prints every new entry to w. Pass nil to stop echoing.
func (l *Logs) SetEcho(w io.Writer) {
	l.mu.Lock()
	l.echo = w
	l.mu.Unlock()
}

// SetEchoSides limits echoed entries to the given sides.
func (l *Logs) SetEchoSides(sideIDs ...string) {
	l.mu.Lock()
	l.echoSides = slices.Clone(sideIDs)
	l.mu.Unlock()
}

// Add appends an entry and returns it.
func (l *Logs) Add(sideID, message string, timestamp int64, typ Type) Entry {
	if typ == "" {
		typ = Other
	}
	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Type:      typ,
		SideID:    sideID,
		Message:   message,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.hasNew = true
	echo := l.echo
	if len(l.echoSides) > 0 && !slices.Contains(l.echoSides, sideID) {
		echo = nil
	}
	l.mu.Unlock()

	if echo != nil {
		c, ok := typeColors[typ]
		if !ok {
			c = typeColors[Other]
		}
		_, _ = fmt.Fprintf(echo, "[t=%d] %s %s\n", timestamp, c.Sprintf("%-22s", typ), message)
	}
	return entry
}

// Logs returns the entries matching the filter in insertion order.
func (l *Logs) Logs(f Filter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if len(f.SideIDs) > 0 && !slices.Contains(f.SideIDs, e.SideID) {
			continue
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, e.Type) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Len returns the number of entries.
func (l *Logs) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// CountByType tallies entries per type, optionally for one side.
func (l *Logs) CountByType(sideID string) map[Type]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[Type]int)
	for _, e := range l.entries {
		if sideID != "" && e.SideID != sideID {
			continue
		}
		counts[e.Type]++
	}
	return counts
}

// HasNewLogs reports whether entries were added since the flag was last
// cleared.
func (l *Logs) HasNewLogs() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasNew
}

// SetHasNewLogs sets the new-entries flag.
func (l *Logs) SetHasNewLogs(v bool) {
	l.mu.Lock()
	l.hasNew = v
	l.mu.Unlock()
}

// Clear drops every entry.
func (l *Logs) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.hasNew = true
	l.mu.Unlock()
}
