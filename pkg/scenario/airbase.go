package scenario

// Airbase is a fixed base holding docked aircraft.
type Airbase struct {
	Unit
	Hangar
}

// Kind returns KindAirbase.
func (a *Airbase) Kind() Kind { return KindAirbase }

// Docked returns the airbase hangar.
func (a *Airbase) Docked() *Hangar { return &a.Hangar }
