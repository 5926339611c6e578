package scenario

// Facility is a fixed site such as a SAM battery.
type Facility struct {
	Unit
	Armament
	Range float64 `json:"range"`
}

// Kind returns KindFacility.
func (f *Facility) Kind() Kind { return KindFacility }

// DetectionRange is the facility sensor range in nautical miles.
func (f *Facility) DetectionRange() float64 { return f.Range }
