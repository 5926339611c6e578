// Package playback records a running scenario as a stream of per-tick
// changes that a viewer can replay. A recording is NDJSON: an info line
// followed by one Change per recorded frame.
package playback

import (
	"sync"

	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// RecordingIntervals lists the selectable record-every-N-seconds intervals
// in cycle order.
var RecordingIntervals = []int64{1, 10, 30, 60}

// DefaultRecordEvery is used when a recorder is created with a zero
// interval.
const DefaultRecordEvery int64 = 10

// Info describes a recording. It is written as the first line.
type Info struct {
	Name         string `json:"name"`
	ScenarioID   string `json:"scenarioId"`
	ScenarioName string `json:"scenarioName"`
	StartTime    int64  `json:"startTime"`
}

// Recorder accumulates frames for one recording.
type Recorder struct {
	mu sync.Mutex

	info         *Info
	recordEvery  int64
	lastRecorded int64
	frames       []Change
	previous     *scenario.Scenario
}

// NewRecorder returns a recorder that records every recordEvery seconds of
// scenario time.
func NewRecorder(recordEvery int64) *Recorder {
	if recordEvery <= 0 {
		recordEvery = DefaultRecordEvery
	}
	return &Recorder{recordEvery: recordEvery}
}

// RecordEvery returns the current recording interval in seconds.
func (r *Recorder) RecordEvery() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordEvery
}

// SwitchInterval cycles to the next entry of RecordingIntervals. An interval
// not in the list is left alone.
func (r *Recorder) SwitchInterval() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range RecordingIntervals {
		if v == r.recordEvery {
			r.recordEvery = RecordingIntervals[(i+1)%len(RecordingIntervals)]
			return
		}
	}
}

// Recording reports whether Start has been called since the last Reset.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info != nil
}

// Reset drops the current recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

func (r *Recorder) reset() {
	r.info = nil
	r.frames = nil
	r.previous = nil
	r.lastRecorded = 0
}

// Start begins a new recording. The first frame lists every entity of s as
// new.
func (r *Recorder) Start(info Info, s *scenario.Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	if info.ScenarioID == "" {
		info.ScenarioID = s.ID
	}
	if info.ScenarioName == "" {
		info.ScenarioName = s.Name
	}
	if info.StartTime == 0 {
		info.StartTime = s.CurrentTime
	}
	r.info = &info
	r.lastRecorded = s.CurrentTime

	snap := s.Clone()
	r.frames = append(r.frames, Change{
		CurrentTime:        snap.CurrentTime,
		NewAircraft:        snap.Aircraft,
		NewShips:           snap.Ships,
		NewWeapons:         snap.Weapons,
		NewAirbases:        snap.Airbases,
		NewFacilities:      snap.Facilities,
		NewReferencePoints: snap.ReferencePoints,
	})
	r.previous = snap
}

// ShouldRecord reports whether at least one interval has passed since the
// last recorded frame, and if so marks currentTime as recorded.
func (r *Recorder) ShouldRecord(currentTime int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil || currentTime-r.lastRecorded < r.recordEvery {
		return false
	}
	r.lastRecorded = currentTime
	return true
}

// RecordFrame diffs s against the previously recorded state and appends
// the change. Frames with nothing changed are skipped; the return value
// reports whether a frame was appended.
func (r *Recorder) RecordFrame(s *scenario.Scenario) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return false
	}

	next := s.Clone()
	change := diff(r.previous, next)
	r.previous = next
	if change.Empty() {
		return false
	}
	r.frames = append(r.frames, change)
	return true
}

// Info returns the recording info, or nil when not recording.
func (r *Recorder) Info() *Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return nil
	}
	info := *r.info
	return &info
}

// Frames returns the recorded frames.
func (r *Recorder) Frames() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.frames...)
}
