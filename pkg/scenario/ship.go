package scenario

// Ship is a surface unit that can carry aircraft and weapons.
type Ship struct {
	Unit
	Movement
	Armament
	Hangar
}

// Kind returns KindShip.
func (s *Ship) Kind() Kind { return KindShip }

// DetectionRange is the ship sensor range in nautical miles.
func (s *Ship) DetectionRange() float64 { return s.Range }

// Docked returns the ship hangar.
func (s *Ship) Docked() *Hangar { return &s.Hangar }
