package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner animates a status line on w while an external renderer runs.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc

	wg      sync.WaitGroup
	mu      sync.Mutex // guards writes to w
	stopped atomic.Bool
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	s := &Spinner{w: w, message: message, parent: ctx}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Start draws frames until Stop is called or the context ends.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()
		for n := 0; ; n++ {
			select {
			case <-s.ctx.Done():
				return
			case <-tick.C:
				s.draw(spinnerFrames[n%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and blanks the line. Extra calls are no-ops.
func (s *Spinner) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.draw(0)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return !s.stopped.Load() && s.parent.Err() != nil
}

// draw writes one frame, or a blank line when frame is zero.
func (s *Spinner) draw(frame rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame == 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		return
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(string(frame)), StyleDim.Render(s.message))
}
