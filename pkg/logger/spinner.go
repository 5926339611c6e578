package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Spinner animates a message while a long operation runs.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	active   bool
	message  string
	frames   []string
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

var SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerColor = color.New(color.FgCyan)

// NewSpinner creates a spinner writing to the default logger's writer.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		w:        Writer(),
		message:  message,
		frames:   SpinnerDots,
		interval: 100 * time.Millisecond,
	}
}

// Start starts the animation. Starting an active spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stopChan, s.done)
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	noColor := !ColorsEnabled()
	for i := 0; ; i++ {
		s.mu.Lock()
		msg := s.message
		s.mu.Unlock()
		fmt.Fprintf(s.w, "\r%s %s", paint(spinnerColor, noColor, s.frames[i%len(s.frames)]), msg)

		select {
		case <-stop:
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(msg)+4))
			return
		case <-ticker.C:
		}
	}
}

// Stop stops the animation and clears its line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

// UpdateMessage changes the text shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// WithSpinner runs fn with a spinner and logs the outcome.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	sp.Stop()
	if err != nil {
		Errorf("%s failed: %v", message, err)
	} else {
		Successf("%s completed", message)
	}
	return err
}

// ProgressBar draws a single-line progress bar that redraws in place.
type ProgressBar struct {
	w       io.Writer
	total   int
	current int
	width   int
	message string
	status  string
}

var barColor = color.New(color.FgGreen)

// NewProgressBar creates a bar on the default logger's writer. On a
// terminal the bar is sized to leave room for the message.
func NewProgressBar(total int, message string) *ProgressBar {
	width := 40
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = min(width, max(10, w-len(message)-30))
	}
	return &ProgressBar{w: Writer(), total: total, width: width, message: message}
}

// SetWriter redirects the bar.
func (p *ProgressBar) SetWriter(w io.Writer) { p.w = w }

// SetStatus sets a short trailing text, e.g. counters.
func (p *ProgressBar) SetStatus(status string) { p.status = status }

func (p *ProgressBar) Update(current int) {
	p.current = current
	p.draw()
}

func (p *ProgressBar) Increment() {
	p.current++
	p.draw()
}

// Finish fills the bar and ends the line.
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) draw() {
	percent := 1.0
	if p.total > 0 {
		percent = min(1, max(0, float64(p.current)/float64(p.total)))
	}
	filled := int(percent * float64(p.width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	status := ""
	if p.status != "" {
		status = " " + p.status
	}
	fmt.Fprintf(p.w, "\r%s: [%s] %3.0f%%%s", p.message, paint(barColor, !ColorsEnabled(), bar), percent*100, status)
}
