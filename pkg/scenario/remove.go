package scenario

import "slices"

var removers = map[Kind]func(*Scenario, string) bool{
	KindAircraft: (*Scenario).RemoveAircraft,
	KindShip:     (*Scenario).RemoveShip,
	KindFacility: (*Scenario).RemoveFacility,
	KindAirbase:  (*Scenario).RemoveAirbase,
	KindWeapon:   (*Scenario).RemoveWeapon,
}

// RemoveTarget removes a target from the collection its kind belongs to.
func (s *Scenario) RemoveTarget(t Target) bool {
	remove, ok := removers[t.Kind()]
	if !ok {
		return false
	}
	return remove(s, t.EntityID())
}

// RemoveAircraft removes a free-flying aircraft.
func (s *Scenario) RemoveAircraft(id string) bool {
	before := len(s.Aircraft)
	s.Aircraft = slices.DeleteFunc(s.Aircraft, func(a *Aircraft) bool { return a.ID == id })
	return len(s.Aircraft) != before
}

// RemoveShip removes a ship and detaches aircraft based on it.
func (s *Scenario) RemoveShip(id string) bool {
	before := len(s.Ships)
	s.Ships = slices.DeleteFunc(s.Ships, func(sh *Ship) bool { return sh.ID == id })
	if len(s.Ships) == before {
		return false
	}
	s.detachHomeBase(id)
	return true
}

// RemoveFacility removes a facility.
func (s *Scenario) RemoveFacility(id string) bool {
	before := len(s.Facilities)
	s.Facilities = slices.DeleteFunc(s.Facilities, func(f *Facility) bool { return f.ID == id })
	return len(s.Facilities) != before
}

// RemoveAirbase removes an airbase and detaches aircraft based on it.
func (s *Scenario) RemoveAirbase(id string) bool {
	before := len(s.Airbases)
	s.Airbases = slices.DeleteFunc(s.Airbases, func(a *Airbase) bool { return a.ID == id })
	if len(s.Airbases) == before {
		return false
	}
	s.detachHomeBase(id)
	return true
}

// RemoveWeapon removes an in-flight weapon.
func (s *Scenario) RemoveWeapon(id string) bool {
	before := len(s.Weapons)
	s.Weapons = slices.DeleteFunc(s.Weapons, func(w *Weapon) bool { return w.ID == id })
	return len(s.Weapons) != before
}

// RemoveReferencePoint removes a reference point.
func (s *Scenario) RemoveReferencePoint(id string) bool {
	before := len(s.ReferencePoints)
	s.ReferencePoints = slices.DeleteFunc(s.ReferencePoints, func(r *ReferencePoint) bool { return r.ID == id })
	return len(s.ReferencePoints) != before
}

func (s *Scenario) detachHomeBase(baseID string) {
	for _, a := range s.Aircraft {
		if a.HomeBaseID != baseID {
			continue
		}
		a.HomeBaseID = ""
		if a.RTB {
			a.RTB = false
			a.Route = nil
		}
	}
}
