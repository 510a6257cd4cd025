package display

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner shows progress during the network call. On non-interactive
// terminals it is a no-op so piped output stays clean.
type Spinner struct {
	sp      *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with the given message
func NewSpinner(message string) *Spinner {
	enabled := isatty.IsTerminal(os.Stderr.Fd())

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + message

	return &Spinner{sp: sp, enabled: enabled}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	if s.enabled {
		s.sp.Start()
	}
}

// Stop halts the spinner and clears its line
func (s *Spinner) Stop() {
	if s.enabled {
		s.sp.Stop()
	}
}

// UpdateMessage changes the spinner message while running
func (s *Spinner) UpdateMessage(message string) {
	s.sp.Suffix = " " + message
}
