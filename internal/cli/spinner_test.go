package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer lets the spinner goroutine and the test share a buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndBlanks(t *testing.T) {
	var out lockedBuffer
	s := startSpinnerTo(context.Background(), &out, "Rendering svg")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	got := out.String()
	if !strings.Contains(got, "Rendering svg") {
		t.Errorf("spinner never drew its message: %q", got)
	}
	if want := "\r" + strings.Repeat(" ", len("Rendering svg")+2) + "\r"; !strings.HasSuffix(got, want) {
		t.Errorf("spinner did not blank its line: %q", got)
	}
	if s.interrupted() {
		t.Error("interrupted() = true after a plain stop")
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := startSpinnerTo(ctx, &lockedBuffer{}, "Waiting")
			select {
			case <-s.done:
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
			s.stop()
			if !s.interrupted() {
				t.Error("interrupted() = false after the context ended")
			}
		})
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var out lockedBuffer
	s := startSpinnerTo(context.Background(), &out, "Twice")
	s.stop()
	s.stop()
	if strings.Contains(out.String(), "Twice") && !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("line left dirty: %q", out.String())
	}
}
