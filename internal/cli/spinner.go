package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// frameInterval is the spinner animation rate.
const frameInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a progress line on stderr while a layout or render
// runs. It stops on demand or when its context is cancelled, so an
// interrupted command never leaves a spinning line behind.
type Spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	quit    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
}

// newSpinner creates a spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that stops with ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinCtx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than
// once.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
