package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrInvalidScenario is returned when a loaded scenario breaks a structural
// invariant.
var ErrInvalidScenario = errors.New("invalid scenario")

// MapView is the camera state saved alongside a scenario.
type MapView struct {
	Center            []float64 `json:"center"`
	CurrentCameraZoom float64   `json:"currentCameraZoom"`
}

// Document is the on-disk scenario file.
type Document struct {
	CurrentScenario *Scenario `json:"currentScenario"`
	CurrentSideID   string    `json:"currentSideId"`
	SelectedUnitID  string    `json:"selectedUnitId,omitempty"`
	MapView         MapView   `json:"mapView"`
}

// Load decodes and validates a scenario document.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if doc.CurrentScenario == nil {
		return nil, fmt.Errorf("%w: missing currentScenario", ErrInvalidScenario)
	}

	s := doc.CurrentScenario
	s.Relationships.ensure()
	if s.Doctrine == nil {
		s.Doctrine = make(Doctrine)
	}
	if s.TimeCompression == 0 {
		s.TimeCompression = 1
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads a scenario document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Export writes the document as JSON.
func (d *Document) Export(w io.Writer) error {
	if d.CurrentScenario != nil {
		d.CurrentScenario.normalize()
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	return nil
}

// SaveFile writes the document to path, creating parent directories.
func (d *Document) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scenario file: %w", err)
	}
	if err := d.Export(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Validate checks id uniqueness and fuel bounds across every collection.
func (s *Scenario) Validate() error {
	seen := make(map[string]string)
	claim := func(id, kind string) error {
		if id == "" {
			return fmt.Errorf("%w: %s with empty id", ErrInvalidScenario, kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate id %s (%s and %s)", ErrInvalidScenario, id, prev, kind)
		}
		seen[id] = kind
		return nil
	}
	fuel := func(id string, m Movement) error {
		if m.CurrentFuel < 0 || m.CurrentFuel > m.MaxFuel {
			return fmt.Errorf("%w: %s fuel %.2f outside [0, %.2f]", ErrInvalidScenario, id, m.CurrentFuel, m.MaxFuel)
		}
		return nil
	}
	aircraft := func(a *Aircraft) error {
		if err := claim(a.ID, "aircraft"); err != nil {
			return err
		}
		return fuel(a.ID, a.Movement)
	}

	for _, a := range s.Aircraft {
		if err := aircraft(a); err != nil {
			return err
		}
	}
	for _, sh := range s.Ships {
		if err := claim(sh.ID, "ship"); err != nil {
			return err
		}
		if err := fuel(sh.ID, sh.Movement); err != nil {
			return err
		}
		for _, a := range sh.Hangar.Aircraft {
			if err := aircraft(a); err != nil {
				return err
			}
		}
	}
	for _, f := range s.Facilities {
		if err := claim(f.ID, "facility"); err != nil {
			return err
		}
	}
	for _, ab := range s.Airbases {
		if err := claim(ab.ID, "airbase"); err != nil {
			return err
		}
		for _, a := range ab.Hangar.Aircraft {
			if err := aircraft(a); err != nil {
				return err
			}
		}
	}
	for _, w := range s.Weapons {
		if err := claim(w.ID, "weapon"); err != nil {
			return err
		}
		if w.TargetID == "" {
			return fmt.Errorf("%w: weapon %s in flight without a target", ErrInvalidScenario, w.ID)
		}
	}
	for _, r := range s.ReferencePoints {
		if err := claim(r.ID, "reference point"); err != nil {
			return err
		}
	}
	return nil
}

// normalize replaces nil collections with empty ones so exports carry
// arrays rather than nulls.
func (s *Scenario) normalize() {
	if s.Sides == nil {
		s.Sides = []*Side{}
	}
	if s.Aircraft == nil {
		s.Aircraft = []*Aircraft{}
	}
	if s.Ships == nil {
		s.Ships = []*Ship{}
	}
	if s.Facilities == nil {
		s.Facilities = []*Facility{}
	}
	if s.Airbases == nil {
		s.Airbases = []*Airbase{}
	}
	if s.Weapons == nil {
		s.Weapons = []*Weapon{}
	}
	if s.ReferencePoints == nil {
		s.ReferencePoints = []*ReferencePoint{}
	}
	if s.Missions == nil {
		s.Missions = MissionList{}
	}
	s.Relationships.ensure()
}
