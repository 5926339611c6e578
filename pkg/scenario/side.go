package scenario

// Side is a participant in the scenario.
type Side struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TotalScore float64 `json:"totalScore"`
	SideColor  string  `json:"sideColor"`
}
