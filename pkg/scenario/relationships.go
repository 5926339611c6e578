package scenario

import "slices"

// Relationships stores directed hostile and allied lookups between sides.
// Marking (A, B) hostile clears an (A, B) alliance but never touches
// (B, A); callers set both directions when they want symmetry.
type Relationships struct {
	Hostiles map[string][]string `json:"hostiles"`
	Allies   map[string][]string `json:"allies"`
}

// NewRelationships returns an empty registry.
func NewRelationships() Relationships {
	return Relationships{
		Hostiles: make(map[string][]string),
		Allies:   make(map[string][]string),
	}
}

func (r *Relationships) ensure() {
	if r.Hostiles == nil {
		r.Hostiles = make(map[string][]string)
	}
	if r.Allies == nil {
		r.Allies = make(map[string][]string)
	}
}

// AddHostile marks other as hostile to side.
func (r *Relationships) AddHostile(side, other string) {
	r.ensure()
	if !slices.Contains(r.Hostiles[side], other) {
		r.Hostiles[side] = append(r.Hostiles[side], other)
	}
	r.RemoveAlly(side, other)
}

// RemoveHostile clears the hostile entry for (side, other).
func (r *Relationships) RemoveHostile(side, other string) {
	if list, ok := r.Hostiles[side]; ok {
		r.Hostiles[side] = without(list, other)
	}
}

// AddAlly marks other as allied to side.
func (r *Relationships) AddAlly(side, other string) {
	r.ensure()
	if !slices.Contains(r.Allies[side], other) {
		r.Allies[side] = append(r.Allies[side], other)
	}
	r.RemoveHostile(side, other)
}

// RemoveAlly clears the ally entry for (side, other).
func (r *Relationships) RemoveAlly(side, other string) {
	if list, ok := r.Allies[side]; ok {
		r.Allies[side] = without(list, other)
	}
}

// IsHostile reports whether side regards other as hostile.
func (r *Relationships) IsHostile(side, other string) bool {
	return slices.Contains(r.Hostiles[side], other)
}

// IsAlly reports whether side regards other as an ally.
func (r *Relationships) IsAlly(side, other string) bool {
	return slices.Contains(r.Allies[side], other)
}

// GetHostiles returns the sides that side regards as hostile.
func (r *Relationships) GetHostiles(side string) []string {
	return r.Hostiles[side]
}

// GetAllies returns the sides that side regards as allies.
func (r *Relationships) GetAllies(side string) []string {
	return r.Allies[side]
}

// UpdateRelationship replaces both lists for side.
func (r *Relationships) UpdateRelationship(side string, hostiles, allies []string) {
	r.ensure()
	r.Hostiles[side] = slices.Clone(hostiles)
	r.Allies[side] = slices.Clone(allies)
}

// DeleteSide purges side from every list and drops its own entries.
func (r *Relationships) DeleteSide(side string) {
	for key, list := range r.Hostiles {
		r.Hostiles[key] = without(list, side)
	}
	for key, list := range r.Allies {
		r.Allies[key] = without(list, side)
	}
	delete(r.Hostiles, side)
	delete(r.Allies, side)
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
