package helpers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Spinner displays an animated spinner during long operations
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
	}
}

// Start begins the spinner animation
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stopChan = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for idx := 0; ; idx++ {
			fmt.Fprintf(s.writer, "\r%s %s", s.frames[idx%len(s.frames)], label)
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
}

// SpinningGenerator shows a spinner while the wrapped generator works.
type SpinningGenerator struct {
	Generator ports.CommandGenerator
	Spinner   *Spinner
}

// Generate implements ports.CommandGenerator.
func (g SpinningGenerator) Generate(ctx context.Context, req domain.PromptRequest) (string, error) {
	g.Spinner.Start("Generating command...")
	defer g.Spinner.Stop()
	return g.Generator.Generate(ctx, req)
}

// Explain implements ports.CommandGenerator.
func (g SpinningGenerator) Explain(ctx context.Context, command string) (string, error) {
	g.Spinner.Start("Explaining command...")
	defer g.Spinner.Stop()
	return g.Generator.Explain(ctx, command)
}

var _ ports.CommandGenerator = SpinningGenerator{}
