// Package sched is the cooperative scheduling boundary between render
// work and its host.
//
// The progressive renderer does all of its drawing on one goroutine and
// stays responsive by yielding between chunks instead of preempting.
// A Yielder marks that boundary: batch hosts use Immediate, interactive
// hosts use a Gate so work pauses while the surface is not visible.
package sched

import (
	"context"
	"runtime"
	"sync"
)

// Yielder hands control back to the host between chunks of render
// work. Yield returns a context error when the render should stop
// instead of continuing.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YieldFunc adapts a function to the Yielder interface.
type YieldFunc func(ctx context.Context) error

func (f YieldFunc) Yield(ctx context.Context) error { return f(ctx) }

// Immediate returns a Yielder that reschedules the goroutine and only
// checks for cancellation. Suitable for CLI and batch hosts with no
// event loop to starve.
func Immediate() Yielder {
	return YieldFunc(func(ctx context.Context) error {
		runtime.Gosched()
		return ctx.Err()
	})
}

// Gate is a Yielder with a visibility switch. While hidden, Yield
// blocks until the host shows the surface again or the context ends,
// so background tabs and minimized windows stop burning render time
// mid-document.
type Gate struct {
	mu     sync.Mutex
	hidden bool
	shown  chan struct{}
}

// NewGate creates a visible gate.
func NewGate() *Gate {
	return &Gate{}
}

// Hide pauses future Yield calls until Show.
func (g *Gate) Hide() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hidden {
		g.hidden = true
		g.shown = make(chan struct{})
	}
}

// Show releases any renders blocked in Yield.
func (g *Gate) Show() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hidden {
		g.hidden = false
		close(g.shown)
	}
}

// Visible reports whether Yield currently passes through.
func (g *Gate) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.hidden
}

// Yield reschedules the goroutine, then blocks while the gate is
// hidden. A context cancellation always wins over waiting.
func (g *Gate) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()

	for {
		g.mu.Lock()
		if !g.hidden {
			g.mu.Unlock()
			return nil
		}
		shown := g.shown
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-shown:
		}
	}
}
