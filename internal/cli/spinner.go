package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// spinner redraws a braille frame and a message on one terminal line until
// stop is called or its context ends. The line is blanked on exit.
type spinner struct {
	w      io.Writer
	msg    string
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// startSpinner draws on stderr.
func startSpinner(ctx context.Context, msg string) *spinner {
	return startSpinnerTo(ctx, os.Stderr, msg)
}

func startSpinnerTo(ctx context.Context, w io.Writer, msg string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, msg: msg, parent: ctx, cancel: cancel, done: make(chan struct{})}
	go s.loop(inner)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	width := utf8.RuneCountInString(s.msg) + 2
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			fmt.Fprint(s.w, "\r"+strings.Repeat(" ", width)+"\r")
			return
		case <-tick.C:
			glyph := string(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprint(s.w, "\r"+styleIconSpinner.Render(glyph)+" "+StyleDim.Render(s.msg))
		}
	}
}

// stop blanks the line and waits for the drawing goroutine. It may be
// called more than once.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}

// interrupted reports whether the caller's context ended, as opposed to a
// plain stop.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
