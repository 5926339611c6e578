package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/picogrid/engagement-sim/pkg/geo"
)

// Mission is implemented by *PatrolMission and *StrikeMission.
type Mission interface {
	MissionID() string
	IsActive() bool
}

// PatrolMission keeps assigned units moving inside a polygon of reference
// points.
type PatrolMission struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	SideID          string           `json:"sideId"`
	AssignedUnitIDs []string         `json:"assignedUnitIds"`
	AssignedArea    []ReferencePoint `json:"assignedArea"`
	Active          bool             `json:"active"`

	geometry geo.Polygon
}

// NewPatrolMission builds a patrol mission and its area geometry.
func NewPatrolMission(id, name, sideID string, unitIDs []string, area []ReferencePoint) *PatrolMission {
	m := &PatrolMission{
		ID:              id,
		Name:            name,
		SideID:          sideID,
		AssignedUnitIDs: unitIDs,
		AssignedArea:    area,
		Active:          true,
	}
	m.UpdatePatrolAreaGeometry()
	return m
}

func (m *PatrolMission) MissionID() string { return m.ID }
func (m *PatrolMission) IsActive() bool    { return m.Active }

// UpdatePatrolAreaGeometry rebuilds the polygon from the assigned area.
func (m *PatrolMission) UpdatePatrolAreaGeometry() {
	poly := make(geo.Polygon, 0, len(m.AssignedArea))
	for _, p := range m.AssignedArea {
		poly = append(poly, p.Coordinates())
	}
	m.geometry = poly
}

// Geometry returns the patrol polygon.
func (m *PatrolMission) Geometry() geo.Polygon {
	if m.geometry == nil {
		m.UpdatePatrolAreaGeometry()
	}
	return m.geometry
}

// Contains reports whether the point is inside the patrol area.
func (m *PatrolMission) Contains(point geo.Coordinates) bool {
	return m.Geometry().Contains(point)
}

// RandomPoint returns a patrol waypoint from two unit draws.
func (m *PatrolMission) RandomPoint(r1, r2 float64) geo.Coordinates {
	return m.Geometry().SamplePoint(r1, r2)
}

// StrikeMission sends attackers against the first assigned target.
type StrikeMission struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	SideID            string   `json:"sideId"`
	AssignedUnitIDs   []string `json:"assignedUnitIds"`
	AssignedTargetIDs []string `json:"assignedTargetIds"`
	Active            bool     `json:"active"`
}

func (m *StrikeMission) MissionID() string { return m.ID }
func (m *StrikeMission) IsActive() bool    { return m.Active }

// PrimaryTargetID returns the target currently engaged, or "".
func (m *StrikeMission) PrimaryTargetID() string {
	if len(m.AssignedTargetIDs) == 0 {
		return ""
	}
	return m.AssignedTargetIDs[0]
}

// MissionList decodes the mixed mission array of the wire format. Patrol
// missions are the entries carrying an assignedArea.
type MissionList []Mission

// UnmarshalJSON implements json.Unmarshaler.
func (l *MissionList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	missions := make(MissionList, 0, len(raw))
	for i, item := range raw {
		var probe struct {
			AssignedArea json.RawMessage `json:"assignedArea"`
		}
		if err := json.Unmarshal(item, &probe); err != nil {
			return fmt.Errorf("mission %d: %w", i, err)
		}

		if probe.AssignedArea != nil {
			var m PatrolMission
			if err := json.Unmarshal(item, &m); err != nil {
				return fmt.Errorf("patrol mission %d: %w", i, err)
			}
			m.UpdatePatrolAreaGeometry()
			missions = append(missions, &m)
			continue
		}

		var m StrikeMission
		if err := json.Unmarshal(item, &m); err != nil {
			return fmt.Errorf("strike mission %d: %w", i, err)
		}
		missions = append(missions, &m)
	}

	*l = missions
	return nil
}
