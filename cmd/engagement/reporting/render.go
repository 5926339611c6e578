package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/picogrid/engagement-sim/pkg/logger"
	"github.com/picogrid/engagement-sim/pkg/simlog"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	outcomeColor = color.New(color.FgGreen, color.Bold)
	eventColor   = color.New(color.FgHiBlack)
)

var extensions = map[string]string{
	"console":  ".txt",
	"json":     ".json",
	"markdown": ".md",
}

// Render writes the report in one of the formats "console", "json" or
// "markdown".
func Render(w io.Writer, aar *AAR, format string, noColor bool) error {
	switch format {
	case "console":
		return writeConsole(w, aar, noColor)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(aar); err != nil {
			return fmt.Errorf("failed to marshal AAR: %w", err)
		}
		return nil
	case "markdown":
		_, err := io.WriteString(w, markdown(aar))
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes the report into dir and returns the file path.
func Save(aar *AAR, format, dir string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("AAR_%s_%s%s", fileSafe(aar.Metadata.ScenarioID), aar.Metadata.GeneratedAt.Format("20060102_150405"), ext)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := Render(f, aar, format, true); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func fileSafe(s string) string {
	if s == "" {
		return "scenario"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func writeConsole(w io.Writer, aar *AAR, noColor bool) error {
	paint := func(c *color.Color, s string) string {
		if noColor {
			return s
		}
		return c.Sprint(s)
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, paint(headingColor, rule))
	fmt.Fprintln(w, paint(headingColor, "AFTER ACTION REPORT: "+aar.Metadata.ScenarioName))
	fmt.Fprintln(w, paint(headingColor, rule))
	fmt.Fprintf(w, "Duration: %s (%d ticks, seed %d)\n", aar.Metadata.Duration, aar.Metadata.Ticks, aar.Metadata.Seed)
	fmt.Fprintf(w, "Outcome:  %s\n", paint(outcomeColor, aar.Summary.Outcome))
	fmt.Fprintf(w, "Weapons:  %d launched, %d hits (%.1f%% hit rate)\n",
		aar.Summary.WeaponsLaunched, aar.Summary.Hits, aar.Summary.HitRate*100)
	fmt.Fprintln(w)

	t := logger.NewTable("SIDE", "UNITS", "AIRCRAFT", "SHIPS", "FACILITIES", "ROUNDS", "LAUNCHED", "HITS", "LOSSES")
	for _, s := range aar.Sides {
		t.AddRow(
			s.Name,
			fmt.Sprintf("%d/%d", s.Final.Units(), s.Initial.Units()),
			fmt.Sprintf("%d/%d", s.Final.Aircraft, s.Initial.Aircraft),
			fmt.Sprintf("%d/%d", s.Final.Ships, s.Initial.Ships),
			fmt.Sprintf("%d/%d", s.Final.Facilities, s.Initial.Facilities),
			fmt.Sprintf("%d/%d", s.Final.Rounds, s.Initial.Rounds),
			strconv.Itoa(s.WeaponsLaunched),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Losses),
		)
	}
	t.Fprint(w)

	if len(aar.Summary.KeyEvents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paint(headingColor, "Key events"))
		for _, e := range aar.Summary.KeyEvents {
			fmt.Fprintf(w, "  %s %s\n", logger.IconDot, paint(eventColor, e))
		}
	}
	return nil
}

func markdown(aar *AAR) string {
	var sb strings.Builder

	sb.WriteString("# After Action Report\n\n")
	sb.WriteString(fmt.Sprintf("**Scenario:** %s (%s)\n", aar.Metadata.ScenarioName, aar.Metadata.ScenarioID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", aar.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Duration:** %s (%d ticks)\n\n", aar.Metadata.Duration, aar.Metadata.Ticks))

	sb.WriteString("## Executive Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", aar.Summary.Outcome))
	sb.WriteString(fmt.Sprintf("**Weapons Launched:** %d\n\n", aar.Summary.WeaponsLaunched))
	sb.WriteString(fmt.Sprintf("**Hits:** %d (%.1f%% hit rate)\n\n", aar.Summary.Hits, aar.Summary.HitRate*100))
	sb.WriteString(fmt.Sprintf("**Total Losses:** %d\n\n", aar.Summary.TotalLosses))

	if len(aar.Summary.KeyEvents) > 0 {
		sb.WriteString("### Key Events\n")
		for _, event := range aar.Summary.KeyEvents {
			sb.WriteString(fmt.Sprintf("- %s\n", event))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Side Analysis\n\n")
	for _, s := range aar.Sides {
		sb.WriteString(fmt.Sprintf("### %s\n\n", s.Name))
		sb.WriteString(fmt.Sprintf("- **Units:** %d/%d\n", s.Final.Units(), s.Initial.Units()))
		sb.WriteString(fmt.Sprintf("- **Aircraft:** %d/%d\n", s.Final.Aircraft, s.Initial.Aircraft))
		sb.WriteString(fmt.Sprintf("- **Rounds Remaining:** %d/%d\n", s.Final.Rounds, s.Initial.Rounds))
		sb.WriteString(fmt.Sprintf("- **Weapons Launched:** %d\n", s.WeaponsLaunched))
		sb.WriteString(fmt.Sprintf("- **Hits / Misses:** %d / %d\n", s.Hits, s.Misses))
		sb.WriteString(fmt.Sprintf("- **Losses:** %d\n", s.Losses))
		if s.StrikeSuccesses+s.StrikeAborts > 0 {
			sb.WriteString(fmt.Sprintf("- **Strike Missions:** %d succeeded, %d aborted\n", s.StrikeSuccesses, s.StrikeAborts))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Event Counts\n\n")
	sb.WriteString("| Event | Count |\n|---|---|\n")
	for _, typ := range simlog.Types {
		if n := aar.EventCounts[typ]; n > 0 {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", title(string(typ)), n))
		}
	}

	if len(aar.Timeline) > 0 {
		sb.WriteString("\n## Timeline\n\n")
		for _, e := range aar.Timeline {
			sb.WriteString(fmt.Sprintf("- `%s` %s\n", e.Elapsed, e.Message))
		}
	}
	return sb.String()
}
