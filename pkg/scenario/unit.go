package scenario

import "github.com/picogrid/engagement-sim/pkg/geo"

// Kind identifies which scenario collection an entity belongs to.
type Kind int

const (
	KindAircraft Kind = iota
	KindShip
	KindFacility
	KindAirbase
	KindWeapon
)

// String returns the collection name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAircraft:
		return "aircraft"
	case KindShip:
		return "ship"
	case KindFacility:
		return "facility"
	case KindAirbase:
		return "airbase"
	case KindWeapon:
		return "weapon"
	default:
		return "unknown"
	}
}

// Target is anything a weapon can be launched at.
type Target interface {
	EntityID() string
	DisplayName() string
	Side() string
	Coordinates() geo.Coordinates
	Kind() Kind
}

// Detector is anything with a detection radius, in nautical miles.
type Detector interface {
	Coordinates() geo.Coordinates
	DetectionRange() float64
}

// Launcher is a unit that carries a weapon inventory and can fire it.
type Launcher interface {
	Target
	Detector
	Inventory() *Armament
}

// Unit holds the identity and placement fields shared by every entity.
type Unit struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SideID    string  `json:"sideId"`
	ClassName string  `json:"className"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	SideColor string  `json:"sideColor,omitempty"`
}

// EntityID returns the unit id.
func (u *Unit) EntityID() string { return u.ID }

// DisplayName returns the unit name, falling back to its id.
func (u *Unit) DisplayName() string {
	if u.Name == "" {
		return u.ID
	}
	return u.Name
}

// Side returns the owning side id.
func (u *Unit) Side() string { return u.SideID }

// Coordinates returns the unit position.
func (u *Unit) Coordinates() geo.Coordinates {
	return geo.Coordinates{u.Latitude, u.Longitude}
}

// SetPosition moves the unit.
func (u *Unit) SetPosition(lat, lon float64) {
	u.Latitude = lat
	u.Longitude = lon
}

// Movement holds the kinematic and fuel state of a moving entity. Speed is
// in knots, fuel rate is per hour and Range is in nautical miles.
type Movement struct {
	Heading     float64           `json:"heading"`
	Speed       float64           `json:"speed"`
	CurrentFuel float64           `json:"currentFuel"`
	MaxFuel     float64           `json:"maxFuel"`
	FuelRate    float64           `json:"fuelRate"`
	Range       float64           `json:"range"`
	Route       []geo.Coordinates `json:"route"`
}

// BurnFuel consumes one tick worth of fuel and returns what is left.
func (m *Movement) BurnFuel() float64 {
	m.CurrentFuel -= m.FuelRate / 3600
	return m.CurrentFuel
}

// FuelNeededToReach returns the fuel consumed flying distanceKm at the
// current speed and fuel rate.
func (m *Movement) FuelNeededToReach(distanceKm float64) float64 {
	if m.Speed == 0 {
		return 0
	}
	hours := distanceKm * geo.KilometersToNauticalMiles / m.Speed
	if hours < 0 {
		hours = -hours
	}
	return hours * m.FuelRate
}

// Armament is a weapon inventory.
type Armament struct {
	Weapons []*Weapon `json:"weapons"`
}

// Inventory returns the armament itself so embedding types satisfy
// Launcher.
func (a *Armament) Inventory() *Armament { return a }

// GetWeapon returns the inventory weapon with the given id.
func (a *Armament) GetWeapon(id string) *Weapon {
	for _, w := range a.Weapons {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// RemoveWeapon drops a weapon template from the inventory.
func (a *Armament) RemoveWeapon(id string) {
	for i, w := range a.Weapons {
		if w.ID == id {
			a.Weapons = append(a.Weapons[:i], a.Weapons[i+1:]...)
			return
		}
	}
}

// TotalWeaponQuantity sums the current quantity of every weapon carried.
func (a *Armament) TotalWeaponQuantity() int {
	total := 0
	for _, w := range a.Weapons {
		total += w.CurrentQuantity
	}
	return total
}

// WeaponWithHighestEngagementRange returns the weapon with the greatest
// fuel-derived reach. Ties keep the first weapon in inventory order.
func (a *Armament) WeaponWithHighestEngagementRange() *Weapon {
	var best *Weapon
	for _, w := range a.Weapons {
		if best == nil || w.EngagementRange() > best.EngagementRange() {
			best = w
		}
	}
	return best
}

// SyncPositions snaps every carried weapon to the carrier position.
func (a *Armament) SyncPositions(lat, lon float64) {
	for _, w := range a.Weapons {
		w.Latitude = lat
		w.Longitude = lon
	}
}

// Hangar is the list of aircraft docked at a base.
type Hangar struct {
	Aircraft []*Aircraft `json:"aircraft"`
}

// PopFront removes and returns the first docked aircraft, or nil.
func (h *Hangar) PopFront() *Aircraft {
	if len(h.Aircraft) == 0 {
		return nil
	}
	a := h.Aircraft[0]
	h.Aircraft = h.Aircraft[1:]
	return a
}

// Dock appends an aircraft to the hangar.
func (h *Hangar) Dock(a *Aircraft) {
	h.Aircraft = append(h.Aircraft, a)
}

// HomeBase is a unit aircraft can launch from and land on.
type HomeBase interface {
	EntityID() string
	DisplayName() string
	Side() string
	Coordinates() geo.Coordinates
	Docked() *Hangar
}
