package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	IconSuccess = "✅"
	IconRocket  = "🚀"
	IconRefresh = "🔄"
	IconFile    = "📄"
	IconDot     = "•"
	IconArrow   = "→"
)

var (
	sectionColor    = color.New(color.FgCyan, color.Bold)
	subSectionColor = color.New(color.FgHiBlack)
	keyColor        = color.New(color.FgCyan)
)

// Success logs a message with a checkmark.
func Success(args ...interface{}) {
	defaultLogger.Info(IconSuccess + " " + fmt.Sprint(args...))
}

func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a message with a refresh icon.
func Progress(args ...interface{}) {
	defaultLogger.Info(IconRefresh + " " + fmt.Sprint(args...))
}

func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

func banner(w io.Writer, c *color.Color, title, rule string) {
	noColor := !ColorsEnabled()
	fmt.Fprintln(w, paint(c, noColor, rule))
	fmt.Fprintln(w, paint(c, noColor, title))
	fmt.Fprintln(w, paint(c, noColor, rule))
}

// LogSection prints a title between two rules.
func LogSection(title string) {
	banner(Writer(), sectionColor, title, strings.Repeat("=", 50))
}

// LogSubSection prints a lighter separator than LogSection.
func LogSubSection(title string) {
	banner(Writer(), subSectionColor, title, strings.Repeat("-", 40))
}

// LogList logs title followed by one bulleted line per item.
func LogList(title string, items []string) {
	Info(title)
	w := Writer()
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", IconDot, item)
	}
}

// LogKeyValue prints "key: value".
func LogKeyValue(key string, value interface{}) {
	fmt.Fprintf(Writer(), "%s %v\n", paint(keyColor, !ColorsEnabled(), key+":"), value)
}

// Table is a fixed-column text table.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow adds a row. Cells past the header count are dropped when printed.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Print writes the table to the default logger's writer.
func (t *Table) Print() {
	t.Fprint(Writer())
}

// Fprint writes the table to w.
func (t *Table) Fprint(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	line(t.headers)
	rules := make([]string, len(widths))
	for i, n := range widths {
		rules[i] = strings.Repeat("-", n)
	}
	line(rules)
	for _, row := range t.rows {
		line(row)
	}
}
