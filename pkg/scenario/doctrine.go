package scenario

// SideDoctrine toggles the autonomous behaviors of one side.
type SideDoctrine struct {
	AircraftAttackHostile                bool `json:"AIRCRAFT_ATTACK_HOSTILE"`
	AircraftChaseHostile                 bool `json:"AIRCRAFT_CHASE_HOSTILE"`
	AircraftRTBWhenOutOfRange            bool `json:"AIRCRAFT_RTB_WHEN_OUT_OF_RANGE"`
	AircraftRTBWhenStrikeMissionComplete bool `json:"AIRCRAFT_RTB_WHEN_STRIKE_MISSION_COMPLETE"`
	SAMAttackHostile                     bool `json:"SAM_ATTACK_HOSTILE"`
	ShipAttackHostile                    bool `json:"SHIP_ATTACK_HOSTILE"`
}

// DefaultSideDoctrine enables every behavior.
func DefaultSideDoctrine() SideDoctrine {
	return SideDoctrine{
		AircraftAttackHostile:                true,
		AircraftChaseHostile:                 true,
		AircraftRTBWhenOutOfRange:            true,
		AircraftRTBWhenStrikeMissionComplete: true,
		SAMAttackHostile:                     true,
		ShipAttackHostile:                    true,
	}
}

// Doctrine maps side ids to their doctrine.
type Doctrine map[string]SideDoctrine
