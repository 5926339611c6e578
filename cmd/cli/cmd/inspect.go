package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/picogrid/engagement-sim/cmd/engagement/reporting"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/playback"
	"github.com/picogrid/engagement-sim/pkg/scenario"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Validate and summarize a scenario or recording",
	Long: `Inspect loads a scenario document (.json) and prints its sides and
forces, or reads a playback recording (.jsonl, .jsonl.zst) and prints its
frame summary.`,
	Args: cobra.ExactArgs(1),
	RunE: inspectFile,
}

func inspectFile(cmd *cobra.Command, args []string) error {
	path := args[0]
	if strings.HasSuffix(path, ".jsonl") || strings.HasSuffix(path, ".jsonl.zst") {
		return inspectRecording(path)
	}
	return inspectScenario(path)
}

func inspectScenario(path string) error {
	doc, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	s := doc.CurrentScenario

	logger.LogSection(s.Name)
	logger.LogKeyValue("ID", s.ID)
	logger.LogKeyValue("Start", time.Unix(s.StartTime, 0).UTC().Format(time.RFC3339))
	logger.LogKeyValue("Duration", time.Duration(s.Duration)*time.Second)
	logger.LogKeyValue("Current side", s.GetSideName(doc.CurrentSideID))
	logger.LogKeyValue("Reference points", len(s.ReferencePoints))

	var missions []string
	for _, m := range s.GetAllPatrolMissions() {
		missions = append(missions, fmt.Sprintf("%s (patrol, %d units)", m.Name, len(m.AssignedUnitIDs)))
	}
	for _, m := range s.GetAllStrikeMissions() {
		missions = append(missions, fmt.Sprintf("%s (strike, %d attackers)", m.Name, len(m.AssignedUnitIDs)))
	}
	if len(missions) > 0 {
		logger.LogList("Missions", missions)
	}

	t := logger.NewTable("SIDE", "AIRCRAFT", "SHIPS", "FACILITIES", "AIRBASES", "ROUNDS", "HOSTILE TO")
	for _, side := range s.Sides {
		inv := reporting.CountInventory(s, side.ID)
		hostiles := make([]string, 0)
		for _, id := range s.Relationships.GetHostiles(side.ID) {
			hostiles = append(hostiles, s.GetSideName(id))
		}
		t.AddRow(
			side.Name,
			strconv.Itoa(inv.Aircraft),
			strconv.Itoa(inv.Ships),
			strconv.Itoa(inv.Facilities),
			strconv.Itoa(inv.Airbases),
			strconv.Itoa(inv.Rounds),
			strings.Join(hostiles, ", "),
		)
	}
	logger.LogSubSection("Forces")
	t.Print()

	logger.Successf("%s is a valid scenario", path)
	return nil
}

func inspectRecording(path string) error {
	var rec *playback.Recording
	err := logger.WithSpinner("Reading recording", func() error {
		var err error
		rec, err = playback.ReadRecording(path)
		return err
	})
	if err != nil {
		return err
	}

	var updates, added, deleted int
	for _, f := range rec.Frames {
		updates += len(f.AircraftUpdates) + len(f.ShipUpdates) + len(f.WeaponUpdates) +
			len(f.AirbaseUpdates) + len(f.FacilityUpdates) + len(f.ReferencePointUpdates)
		added += len(f.NewAircraft) + len(f.NewShips) + len(f.NewWeapons) +
			len(f.NewAirbases) + len(f.NewFacilities) + len(f.NewReferencePoints)
		deleted += len(f.DeletedAircraftIDs) + len(f.DeletedShipIDs) + len(f.DeletedWeaponIDs) +
			len(f.DeletedAirbaseIDs) + len(f.DeletedFacilityIDs) + len(f.DeletedReferencePointIDs)
	}

	logger.LogSection(rec.Info.Name)
	logger.LogKeyValue("Scenario", fmt.Sprintf("%s (%s)", rec.Info.ScenarioName, rec.Info.ScenarioID))
	logger.LogKeyValue("Frames", len(rec.Frames))
	if n := len(rec.Frames); n > 0 {
		span := rec.Frames[n-1].CurrentTime - rec.Info.StartTime
		logger.LogKeyValue("Covers", time.Duration(span)*time.Second)
	}
	logger.LogKeyValue("Entities added", added)
	logger.LogKeyValue("Entities deleted", deleted)
	logger.LogKeyValue("Entity updates", updates)

	logger.Successf("%s is a valid recording", path)
	return nil
}
