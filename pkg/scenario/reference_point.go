package scenario

import "github.com/picogrid/engagement-sim/pkg/geo"

// ReferencePoint is a named map point used to build patrol areas.
type ReferencePoint struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SideID    string  `json:"sideId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	SideColor string  `json:"sideColor,omitempty"`
}

// Coordinates returns the point position.
func (r ReferencePoint) Coordinates() geo.Coordinates {
	return geo.Coordinates{r.Latitude, r.Longitude}
}

// EntityID returns the point id.
func (r *ReferencePoint) EntityID() string { return r.ID }
