package playback

import (
	"math"
	"slices"

	"github.com/picogrid/engagement-sim/pkg/geo"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

// FloatPrecision is the number of decimals kept for floats in updates.
const FloatPrecision = 3

// Change is one recorded frame. Only the kinds that changed are present.
type Change struct {
	CurrentTime int64 `json:"currentTime"`

	NewAircraft        []*scenario.Aircraft `json:"newAircraft,omitempty"`
	DeletedAircraftIDs []string             `json:"deletedAircraftIds,omitempty"`
	AircraftUpdates    []Update             `json:"aircraftUpdates,omitempty"`

	NewShips       []*scenario.Ship `json:"newShips,omitempty"`
	DeletedShipIDs []string         `json:"deletedShipIds,omitempty"`
	ShipUpdates    []Update         `json:"shipUpdates,omitempty"`

	NewWeapons       []*scenario.Weapon `json:"newWeapons,omitempty"`
	DeletedWeaponIDs []string           `json:"deletedWeaponIds,omitempty"`
	WeaponUpdates    []Update           `json:"weaponUpdates,omitempty"`

	NewAirbases       []*scenario.Airbase `json:"newAirbases,omitempty"`
	DeletedAirbaseIDs []string            `json:"deletedAirbaseIds,omitempty"`
	AirbaseUpdates    []Update            `json:"airbaseUpdates,omitempty"`

	NewFacilities      []*scenario.Facility `json:"newFacilities,omitempty"`
	DeletedFacilityIDs []string             `json:"deletedFacilityIds,omitempty"`
	FacilityUpdates    []Update             `json:"facilityUpdates,omitempty"`

	NewReferencePoints       []*scenario.ReferencePoint `json:"newReferencePoints,omitempty"`
	DeletedReferencePointIDs []string                   `json:"deletedReferencePointIds,omitempty"`
	ReferencePointUpdates    []Update                   `json:"referencePointUpdates,omitempty"`
}

// Empty reports whether the change carries nothing besides its time.
func (c *Change) Empty() bool {
	return len(c.NewAircraft) == 0 && len(c.DeletedAircraftIDs) == 0 && len(c.AircraftUpdates) == 0 &&
		len(c.NewShips) == 0 && len(c.DeletedShipIDs) == 0 && len(c.ShipUpdates) == 0 &&
		len(c.NewWeapons) == 0 && len(c.DeletedWeaponIDs) == 0 && len(c.WeaponUpdates) == 0 &&
		len(c.NewAirbases) == 0 && len(c.DeletedAirbaseIDs) == 0 && len(c.AirbaseUpdates) == 0 &&
		len(c.NewFacilities) == 0 && len(c.DeletedFacilityIDs) == 0 && len(c.FacilityUpdates) == 0 &&
		len(c.NewReferencePoints) == 0 && len(c.DeletedReferencePointIDs) == 0 && len(c.ReferencePointUpdates) == 0
}

// Update lists the fields of one entity that changed since the previous
// frame. Nil fields are unchanged.
type Update struct {
	ID          string                `json:"id"`
	Name        *string               `json:"name,omitempty"`
	ClassName   *string               `json:"className,omitempty"`
	Latitude    *float64              `json:"latitude,omitempty"`
	Longitude   *float64              `json:"longitude,omitempty"`
	Altitude    *float64              `json:"altitude,omitempty"`
	Heading     *float64              `json:"heading,omitempty"`
	Speed       *float64              `json:"speed,omitempty"`
	CurrentFuel *float64              `json:"currentFuel,omitempty"`
	MaxFuel     *float64              `json:"maxFuel,omitempty"`
	FuelRate    *float64              `json:"fuelRate,omitempty"`
	Range       *float64              `json:"range,omitempty"`
	Route       *[]geo.Coordinates    `json:"route,omitempty"`
	Weapons     *[]*scenario.Weapon   `json:"weapons,omitempty"`
	Aircraft    *[]*scenario.Aircraft `json:"aircraft,omitempty"`
	RTB         *bool                 `json:"rtb,omitempty"`
	TargetID    *string               `json:"targetId,omitempty"`
}

func (u *Update) changed() bool {
	return *u != Update{ID: u.ID}
}

func round(v float64) float64 {
	p := math.Pow(10, FloatPrecision)
	return math.Round(v*p) / p
}

func ptr[T any](v T) *T { return &v }

func (u *Update) unit(prev, next *scenario.Unit) {
	if prev.Name != next.Name {
		u.Name = ptr(next.Name)
	}
	if prev.ClassName != next.ClassName {
		u.ClassName = ptr(next.ClassName)
	}
	if prev.Latitude != next.Latitude {
		u.Latitude = ptr(round(next.Latitude))
	}
	if prev.Longitude != next.Longitude {
		u.Longitude = ptr(round(next.Longitude))
	}
	if prev.Altitude != next.Altitude {
		u.Altitude = ptr(round(next.Altitude))
	}
}

func (u *Update) movement(prev, next *scenario.Movement) {
	if prev.Heading != next.Heading {
		u.Heading = ptr(round(next.Heading))
	}
	if prev.Speed != next.Speed {
		u.Speed = ptr(next.Speed)
	}
	if round(prev.CurrentFuel) != round(next.CurrentFuel) {
		u.CurrentFuel = ptr(round(next.CurrentFuel))
	}
	if prev.MaxFuel != next.MaxFuel {
		u.MaxFuel = ptr(round(next.MaxFuel))
	}
	if prev.FuelRate != next.FuelRate {
		u.FuelRate = ptr(round(next.FuelRate))
	}
	if prev.Range != next.Range {
		u.Range = ptr(round(next.Range))
	}
	if !slices.Equal(prev.Route, next.Route) {
		route := make([]geo.Coordinates, len(next.Route))
		for i, wp := range next.Route {
			route[i] = geo.Coordinates{round(wp.Latitude()), round(wp.Longitude())}
		}
		u.Route = &route
	}
}

// weapons compares loadouts by id and remaining quantity. Onboard weapon
// positions track the carrier and are not part of the loadout.
func (u *Update) weapons(prev, next []*scenario.Weapon) {
	same := slices.EqualFunc(prev, next, func(a, b *scenario.Weapon) bool {
		return a.ID == b.ID && a.CurrentQuantity == b.CurrentQuantity
	})
	if !same {
		u.Weapons = &next
	}
}

func (u *Update) hangar(prev, next []*scenario.Aircraft) {
	same := slices.EqualFunc(prev, next, func(a, b *scenario.Aircraft) bool { return a.ID == b.ID })
	if !same {
		u.Aircraft = &next
	}
}

type entity interface {
	EntityID() string
}

// diffKind splits next into new entities, deleted ids and updates of
// entities present in both frames.
func diffKind[T entity](prev, next []T, update func(p, n T) Update) (added []T, deleted []string, updates []Update) {
	prevByID := make(map[string]T, len(prev))
	for _, p := range prev {
		prevByID[p.EntityID()] = p
	}
	nextIDs := make(map[string]bool, len(next))
	for _, n := range next {
		nextIDs[n.EntityID()] = true
		p, ok := prevByID[n.EntityID()]
		if !ok {
			added = append(added, n)
			continue
		}
		if u := update(p, n); u.changed() {
			updates = append(updates, u)
		}
	}
	for _, p := range prev {
		if !nextIDs[p.EntityID()] {
			deleted = append(deleted, p.EntityID())
		}
	}
	return added, deleted, updates
}

func diff(prev, next *scenario.Scenario) Change {
	if prev == nil {
		prev = &scenario.Scenario{}
	}
	c := Change{CurrentTime: next.CurrentTime}

	c.NewAircraft, c.DeletedAircraftIDs, c.AircraftUpdates = diffKind(prev.Aircraft, next.Aircraft,
		func(p, n *scenario.Aircraft) Update {
			u := Update{ID: n.ID}
			u.unit(&p.Unit, &n.Unit)
			u.movement(&p.Movement, &n.Movement)
			u.weapons(p.Weapons, n.Weapons)
			if p.RTB != n.RTB {
				u.RTB = ptr(n.RTB)
			}
			if p.TargetID != n.TargetID {
				u.TargetID = ptr(n.TargetID)
			}
			return u
		})

	c.NewShips, c.DeletedShipIDs, c.ShipUpdates = diffKind(prev.Ships, next.Ships,
		func(p, n *scenario.Ship) Update {
			u := Update{ID: n.ID}
			u.unit(&p.Unit, &n.Unit)
			u.movement(&p.Movement, &n.Movement)
			u.weapons(p.Weapons, n.Weapons)
			u.hangar(p.Aircraft, n.Aircraft)
			return u
		})

	c.NewWeapons, c.DeletedWeaponIDs, c.WeaponUpdates = diffKind(prev.Weapons, next.Weapons,
		func(p, n *scenario.Weapon) Update {
			u := Update{ID: n.ID}
			u.unit(&p.Unit, &n.Unit)
			u.movement(&p.Movement, &n.Movement)
			if p.TargetID != n.TargetID && n.TargetID != "" {
				u.TargetID = ptr(n.TargetID)
			}
			return u
		})

	c.NewAirbases, c.DeletedAirbaseIDs, c.AirbaseUpdates = diffKind(prev.Airbases, next.Airbases,
		func(p, n *scenario.Airbase) Update {
			u := Update{ID: n.ID}
			u.unit(&p.Unit, &n.Unit)
			u.hangar(p.Aircraft, n.Aircraft)
			return u
		})

	c.NewFacilities, c.DeletedFacilityIDs, c.FacilityUpdates = diffKind(prev.Facilities, next.Facilities,
		func(p, n *scenario.Facility) Update {
			u := Update{ID: n.ID}
			u.unit(&p.Unit, &n.Unit)
			if p.Range != n.Range {
				u.Range = ptr(round(n.Range))
			}
			u.weapons(p.Weapons, n.Weapons)
			return u
		})

	c.NewReferencePoints, c.DeletedReferencePointIDs, c.ReferencePointUpdates = diffKind(prev.ReferencePoints, next.ReferencePoints,
		func(p, n *scenario.ReferencePoint) Update {
			u := Update{ID: n.ID}
			if p.Name != n.Name {
				u.Name = ptr(n.Name)
			}
			if p.Latitude != n.Latitude {
				u.Latitude = ptr(round(n.Latitude))
			}
			if p.Longitude != n.Longitude {
				u.Longitude = ptr(round(n.Longitude))
			}
			if p.Altitude != n.Altitude {
				u.Altitude = ptr(round(n.Altitude))
			}
			return u
		})

	return c
}
