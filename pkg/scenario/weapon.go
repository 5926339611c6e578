package scenario

import "math"

// Weapon is either an inventory template carried by a launcher or a
// munition in flight. In-flight weapons always have a TargetID and a
// quantity of one.
type Weapon struct {
	Unit
	Movement
	TargetID        string  `json:"targetId,omitempty"`
	Lethality       float64 `json:"lethality"`
	MaxQuantity     int     `json:"maxQuantity"`
	CurrentQuantity int     `json:"currentQuantity"`
}

// Kind returns KindWeapon.
func (w *Weapon) Kind() Kind { return KindWeapon }

// EngagementRange is the remaining powered reach in nautical miles, derived
// from fuel rather than the nameplate range.
func (w *Weapon) EngagementRange() float64 {
	if w.CurrentFuel <= 0 {
		return 0
	}
	if w.FuelRate <= 0 {
		return math.Inf(1)
	}
	return w.Speed * (w.CurrentFuel / w.FuelRate)
}

// DetectionRange for a weapon is its engagement range.
func (w *Weapon) DetectionRange() float64 { return w.EngagementRange() }
