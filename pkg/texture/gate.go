package texture

import (
	"context"
	"sync"
)

// loadGate bounds concurrent asset loads and admits contenders in
// priority order: when a slot frees, the highest-priority waiter takes
// it, ties going to the earliest arrival. A plain semaphore admits
// strictly first-come-first-served, which would let queued background
// preloads hold up the render the user is watching on a constrained
// device with a single load slot.
type loadGate struct {
	mu      sync.Mutex
	free    int64
	seq     uint64
	waiters []*loadWaiter
}

// loadWaiter is one blocked acquire. granted flips under the gate lock
// when release hands the waiter a slot, so a cancelled waiter can tell
// whether it must pass that slot on.
type loadWaiter struct {
	priority float64
	seq      uint64
	ready    chan struct{}
	granted  bool
}

func newLoadGate(capacity int64) *loadGate {
	if capacity < 1 {
		capacity = 1
	}
	return &loadGate{free: capacity}
}

// acquire blocks until a slot is granted or ctx is done. Free slots are
// taken immediately; release never leaves a slot free while waiters
// queue, so a free slot means nobody is ahead.
func (g *loadGate) acquire(ctx context.Context, priority float64) error {
	g.mu.Lock()
	if g.free > 0 {
		g.free--
		g.mu.Unlock()
		return nil
	}
	w := &loadWaiter{priority: priority, seq: g.seq, ready: make(chan struct{})}
	g.seq++
	g.waiters = append(g.waiters, w)
	g.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		if w.granted {
			g.mu.Unlock()
			// The slot arrived before the lock did; hand it on.
			g.release()
			return ctx.Err()
		}
		g.drop(w)
		g.mu.Unlock()
		return ctx.Err()
	}
}

// release frees a slot, granting it to the best waiter when one exists.
func (g *loadGate) release() {
	g.mu.Lock()
	best := -1
	for i, w := range g.waiters {
		if best < 0 || w.priority > g.waiters[best].priority ||
			(w.priority == g.waiters[best].priority && w.seq < g.waiters[best].seq) {
			best = i
		}
	}
	if best < 0 {
		g.free++
		g.mu.Unlock()
		return
	}
	w := g.waiters[best]
	g.waiters = append(g.waiters[:best], g.waiters[best+1:]...)
	w.granted = true
	g.mu.Unlock()
	close(w.ready)
}

// drop removes a cancelled waiter. Caller must hold g.mu.
func (g *loadGate) drop(w *loadWaiter) {
	for i, x := range g.waiters {
		if x == w {
			g.waiters = append(g.waiters[:i], g.waiters[i+1:]...)
			return
		}
	}
}
