package logger

import (
	"bytes"
	"strings"
	"testing"
)

func newBufferLogger(level Level) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Writer: &buf, NoColor: true}), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(WarnLevel)
	l.Info("hidden")
	l.Debugf("hidden %d", 1)
	l.Warn("shown")
	l.Errorf("also %s", "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected messages below warn to be dropped, got %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "WARN  shown" {
		t.Errorf("Unexpected warn line %q", lines[0])
	}
	if lines[1] != "ERROR also shown" {
		t.Errorf("Unexpected error line %q", lines[1])
	}
}

func TestFieldsAndPrefix(t *testing.T) {
	l, buf := newBufferLogger(DebugLevel)
	child := l.WithPrefix("runner").WithFields(map[string]interface{}{"tick": 4, "side": "blue"}).WithField("aircraft", 2)
	child.Info("step")

	want := "INFO  [runner] aircraft=2 side=blue tick=4 step\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	buf.Reset()
	l.Info("parent")
	if strings.Contains(buf.String(), "tick=") || strings.Contains(buf.String(), "[runner]") {
		t.Errorf("Expected parent logger to be unaffected, got %q", buf.String())
	}
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(NewWithConfig(Config{Level: InfoLevel, Writer: &buf, NoColor: true}))
	defer SetDefault(prev)

	child := WithPrefix("sim")
	SetLevel(ErrorLevel)
	child.Warn("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected SetLevel to reach derived loggers, got %q", buf.String())
	}
}

func TestFatalExits(t *testing.T) {
	code := -1
	prevExit := exit
	exit = func(c int) { code = c }
	defer func() { exit = prevExit }()

	l, buf := newBufferLogger(InfoLevel)
	l.Fatalf("boom %d", 7)
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "FATAL boom 7") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"warn", WarnLevel},
		{"Error", ErrorLevel},
		{"fatal", FatalLevel},
		{"verbose", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable("SIDE", "AIRCRAFT")
	tbl.AddRow("Blue", "4")
	tbl.AddRow("Red Force", "12", "extra")

	var buf bytes.Buffer
	tbl.Fprint(&buf)
	want := "SIDE       AIRCRAFT\n" +
		"---------  --------\n" +
		"Blue       4\n" +
		"Red Force  12\n"
	if buf.String() != want {
		t.Errorf("Unexpected table:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestProgressBar(t *testing.T) {
	prev := Default()
	SetDefault(NewWithConfig(Config{Writer: &bytes.Buffer{}, NoColor: true}))
	defer SetDefault(prev)

	var buf bytes.Buffer
	p := NewProgressBar(4, "Ticks")
	p.SetWriter(&buf)
	p.width = 4
	p.SetStatus("2 weapons")
	p.Update(2)

	if got := buf.String(); got != "\rTicks: [██░░]  50% 2 weapons" {
		t.Errorf("Unexpected bar %q", got)
	}

	buf.Reset()
	p.Update(9)
	if !strings.Contains(buf.String(), "[████] 100%") {
		t.Errorf("Expected bar clamped to 100%%, got %q", buf.String())
	}
}
