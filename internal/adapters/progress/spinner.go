package progress

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// SpinnerSink renders progress events as a terminal spinner. Events without
// Spinner set stop it and print their message as a status line.
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	stage   string
}

// NewSpinnerSink creates a new spinner-based progress sink writing to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{spinner: s, out: out}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.stage = event.Stage

	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
	if event.Message == "" {
		return
	}

	switch event.Stage {
	case usecase.StageFailed:
		color.New(color.FgRed).Fprintln(r.out, "✗ "+event.Message)
	default:
		color.New(color.FgGreen).Fprintln(r.out, "✓ "+event.Message)
	}
}

// Info prints an info message without losing the spinner
func (r *SpinnerSink) Info(message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	color.New(color.FgCyan).Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Stage returns the last stage seen
func (r *SpinnerSink) Stage() string {
	return r.stage
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
