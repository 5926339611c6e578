package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/picogrid/engagement-sim/pkg/scenario"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

func reportScenarios() (initial, final *scenario.Scenario) {
	initial = scenario.New("strait-01", "Strait Patrol", 1000, 3600)
	initial.Sides = []*scenario.Side{{ID: "blue", Name: "BLUE"}, {ID: "red", Name: "RED"}}
	initial.Aircraft = []*scenario.Aircraft{{
		Unit: scenario.Unit{ID: "viper-1", SideID: "blue"},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{
			{Unit: scenario.Unit{ID: "viper-1-aim120"}, CurrentQuantity: 4},
		}},
	}}
	initial.Airbases = []*scenario.Airbase{{
		Unit:   scenario.Unit{ID: "ab-1", SideID: "blue"},
		Hangar: scenario.Hangar{Aircraft: []*scenario.Aircraft{{Unit: scenario.Unit{ID: "viper-2", SideID: "blue"}}}},
	}}
	initial.Facilities = []*scenario.Facility{{
		Unit: scenario.Unit{ID: "sam-1", SideID: "red"},
		Armament: scenario.Armament{Weapons: []*scenario.Weapon{
			{Unit: scenario.Unit{ID: "sam-1-hq9"}, CurrentQuantity: 8},
		}},
	}}

	final = initial.Clone()
	final.CurrentTime = 1750
	final.Aircraft[0].Weapons[0].CurrentQuantity = 2
	final.Facilities = nil
	return initial, final
}

func reportEntries() []simlog.Entry {
	return []simlog.Entry{
		{Timestamp: 1100, Type: simlog.WeaponLaunched, SideID: "blue", Message: "Viper 1 launched AIM-120 #3 at Coastal SAM"},
		{Timestamp: 1100, Type: simlog.WeaponLaunched, SideID: "blue", Message: "Viper 1 launched AIM-120 #7 at Coastal SAM"},
		{Timestamp: 1120, Type: simlog.WeaponMissed, SideID: "blue", Message: "AIM-120 #3 missed Coastal SAM"},
		{Timestamp: 1125, Type: simlog.WeaponHit, SideID: "blue", Message: "AIM-120 #7 hit and destroyed Coastal SAM"},
		{Timestamp: 1130, Type: simlog.StrikeMissionSuccess, SideID: "blue", Message: "Strike mission SEAD destroyed its target"},
		{Timestamp: 1140, Type: simlog.ReturnToBase, SideID: "blue", Message: "Viper 1 returning to Hualien"},
	}
}

func TestGenerate(t *testing.T) {
	initial, final := reportScenarios()
	aar := Generate(initial, final, reportEntries(), 7)

	if aar.Metadata.Ticks != 750 || aar.Metadata.Duration != "12m30s" || aar.Metadata.Seed != 7 {
		t.Errorf("Unexpected metadata %+v", aar.Metadata)
	}
	if aar.Metadata.ReportID == "" {
		t.Error("Expected a report id")
	}
	if len(aar.Sides) != 2 {
		t.Fatalf("Expected 2 sides, got %d", len(aar.Sides))
	}

	blue, red := aar.Sides[0], aar.Sides[1]
	if blue.Initial.Aircraft != 2 || blue.Initial.Airbases != 1 || blue.Initial.Rounds != 4 {
		t.Errorf("Unexpected blue initial inventory %+v", blue.Initial)
	}
	if blue.Final.Rounds != 2 || blue.Losses != 0 {
		t.Errorf("Unexpected blue final state %+v losses %d", blue.Final, blue.Losses)
	}
	if blue.WeaponsLaunched != 2 || blue.Hits != 1 || blue.Misses != 1 || blue.HitRate != 0.5 || blue.StrikeSuccesses != 1 {
		t.Errorf("Unexpected blue tallies %+v", blue)
	}
	if red.Initial.Facilities != 1 || red.Final.Facilities != 0 || red.Losses != 1 {
		t.Errorf("Unexpected red analysis %+v", red)
	}

	if aar.Summary.Outcome != "BLUE advantage" || aar.Summary.LeadingSide != "BLUE" {
		t.Errorf("Unexpected outcome %q leading %q", aar.Summary.Outcome, aar.Summary.LeadingSide)
	}
	if aar.Summary.TotalLosses != 1 || aar.Summary.WeaponsLaunched != 2 || aar.Summary.HitRate != 0.5 {
		t.Errorf("Unexpected summary %+v", aar.Summary)
	}

	if len(aar.Timeline) != 2 {
		t.Fatalf("Expected hit and strike success on the timeline, got %d", len(aar.Timeline))
	}
	if aar.Timeline[0].Elapsed != "02m05s" || aar.Timeline[0].Type != simlog.WeaponHit {
		t.Errorf("Unexpected first timeline entry %+v", aar.Timeline[0])
	}
	if aar.EventCounts[simlog.WeaponLaunched] != 2 || aar.EventCounts[simlog.ReturnToBase] != 1 {
		t.Errorf("Unexpected event counts %v", aar.EventCounts)
	}
}

func TestGenerateNoContact(t *testing.T) {
	initial, _ := reportScenarios()
	aar := Generate(initial, initial.Clone(), nil, 1)
	if aar.Summary.Outcome != "No contact" || aar.Summary.LeadingSide != "" {
		t.Errorf("Expected no contact, got %+v", aar.Summary)
	}
}

func TestRenderFormats(t *testing.T) {
	initial, final := reportScenarios()
	aar := Generate(initial, final, reportEntries(), 7)

	var console bytes.Buffer
	if err := Render(&console, aar, "console", true); err != nil {
		t.Fatalf("console render failed: %v", err)
	}
	for _, want := range []string{"AFTER ACTION REPORT: Strait Patrol", "Outcome:  BLUE advantage", "BLUE", "3/3", "AIM-120 #7 hit"} {
		if !strings.Contains(console.String(), want) {
			t.Errorf("Expected console report to contain %q:\n%s", want, console.String())
		}
	}

	var js bytes.Buffer
	if err := Render(&js, aar, "json", true); err != nil {
		t.Fatalf("json render failed: %v", err)
	}
	var decoded AAR
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Summary.Outcome != aar.Summary.Outcome || decoded.EventCounts[simlog.WeaponHit] != 1 {
		t.Errorf("Unexpected decoded report %+v", decoded.Summary)
	}

	var md bytes.Buffer
	if err := Render(&md, aar, "markdown", true); err != nil {
		t.Fatalf("markdown render failed: %v", err)
	}
	for _, want := range []string{"# After Action Report", "### RED", "- **Losses:** 1", "| weapon launched | 2 |", "- **Strike Missions:** 1 succeeded, 0 aborted"} {
		if !strings.Contains(md.String(), want) {
			t.Errorf("Expected markdown to contain %q:\n%s", want, md.String())
		}
	}

	if err := Render(&md, aar, "pdf", true); err == nil {
		t.Error("Expected unsupported format error")
	}
}

func TestSave(t *testing.T) {
	initial, final := reportScenarios()
	aar := Generate(initial, final, reportEntries(), 7)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := Save(aar, "markdown", dir)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "AAR_strait-01_") || filepath.Ext(path) != ".md" {
		t.Errorf("Unexpected report path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Strait Patrol") {
		t.Error("Expected report contents on disk")
	}

	if _, err := Save(aar, "pdf", dir); err == nil {
		t.Error("Expected unsupported format error")
	}
}
