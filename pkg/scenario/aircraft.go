package scenario

// Aircraft is a free-flying or hangared aircraft.
type Aircraft struct {
	Unit
	Movement
	Armament
	HomeBaseID string `json:"homeBaseId"`
	RTB        bool   `json:"rtb"`
	TargetID   string `json:"targetId"`
}

// Kind returns KindAircraft.
func (a *Aircraft) Kind() Kind { return KindAircraft }

// DetectionRange is the aircraft sensor range in nautical miles.
func (a *Aircraft) DetectionRange() float64 { return a.Range }
