package memval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/observability"
)

// fakeConsumer reports a fixed footprint and frees what it is asked to,
// down to its floor.
type fakeConsumer struct {
	mu    sync.Mutex
	bytes int64
	floor int64
}

func (f *fakeConsumer) EstimatedBytes() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bytes
}

func (f *fakeConsumer) Reclaim(target int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	freeable := f.bytes - f.floor
	if freeable <= 0 {
		return 0
	}
	if target < freeable {
		freeable = target
	}
	f.bytes -= freeable
	return freeable
}

func TestBudgetFor(t *testing.T) {
	tests := []struct {
		name     string
		memoryMB int
		want     int64
	}{
		{"low tier", 1024, 128 << 20},
		{"medium tier", 4096, 256 << 20},
		{"high tier", 16384, 512 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := device.Profile{Class: device.ClassDesktop, MemoryMB: tt.memoryMB}
			if got := BudgetFor(p); got != tt.want {
				t.Errorf("BudgetFor(%dMB) = %d, want %d", tt.memoryMB, got, tt.want)
			}
		})
	}
}

func TestManagerPressureLevels(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  Level
	}{
		{"under high mark", 500, LevelNormal},
		{"at high mark", 800, LevelElevated},
		{"over budget", 1000, LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(1000, nil)
			m.Register("cache", &fakeConsumer{bytes: tt.bytes})
			if got := m.Pressure(); got != tt.want {
				t.Errorf("Pressure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManagerPressure_ZeroBudget(t *testing.T) {
	m := New(0, nil)
	m.Register("cache", &fakeConsumer{bytes: 1 << 30})
	if got := m.Pressure(); got != LevelNormal {
		t.Errorf("Pressure() with zero budget = %q, want normal", got)
	}
}

func TestManagerEstimatedBytes_Sums(t *testing.T) {
	m := New(1000, nil)
	m.Register("cache", &fakeConsumer{bytes: 300})
	m.Register("pool", &fakeConsumer{bytes: 200})
	if got := m.EstimatedBytes(); got != 500 {
		t.Errorf("EstimatedBytes() = %d, want 500", got)
	}
}

func TestManagerCleanup_ReachesLowWater(t *testing.T) {
	m := New(1000, nil)
	cache := &fakeConsumer{bytes: 700}
	pool := &fakeConsumer{bytes: 300}
	m.Register("cache", cache)
	m.Register("pool", pool)

	freed := m.Cleanup(context.Background())
	if freed < 400 {
		t.Errorf("Cleanup() freed %d, want at least 400 to reach the low mark", freed)
	}
	if got := m.EstimatedBytes(); got > 600 {
		t.Errorf("EstimatedBytes() = %d after cleanup, want <= low mark 600", got)
	}
	// Registration order means the cache was squeezed first.
	if cache.EstimatedBytes() >= 700 {
		t.Error("cache consumer was not reclaimed first")
	}
}

func TestManagerCleanup_NoopUnderLowWater(t *testing.T) {
	m := New(1000, nil)
	m.Register("cache", &fakeConsumer{bytes: 100})
	if freed := m.Cleanup(context.Background()); freed != 0 {
		t.Errorf("Cleanup() freed %d under the low mark, want 0", freed)
	}
}

func TestManagerCleanup_RespectsFloors(t *testing.T) {
	// Consumers holding only in-use resources cannot free anything.
	m := New(1000, nil)
	m.Register("pool", &fakeConsumer{bytes: 900, floor: 900})

	if freed := m.Cleanup(context.Background()); freed != 0 {
		t.Errorf("Cleanup() freed %d from pinned-only consumer, want 0", freed)
	}
	if got := m.Pressure(); got != LevelElevated {
		t.Errorf("Pressure() = %q, want elevated to persist", got)
	}
}

// pressureRecorder captures memory hook invocations.
type pressureRecorder struct {
	observability.NoopMemoryHooks
	mu        sync.Mutex
	levels    []string
	cleanups  int
	lastFreed int64
}

func (r *pressureRecorder) OnPressure(_ context.Context, level string, _, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, level)
}

func (r *pressureRecorder) OnCleanup(_ context.Context, freed int64, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups++
	r.lastFreed = freed
}

func TestManagerCheck_HooksOnLevelChange(t *testing.T) {
	rec := &pressureRecorder{}
	observability.SetMemoryHooks(rec)
	defer observability.Reset()

	m := New(1000, nil)
	c := &fakeConsumer{bytes: 900}
	m.Register("cache", c)

	if level := m.Check(context.Background()); level != LevelElevated {
		t.Errorf("Check() = %q, want elevated", level)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.levels) != 1 || rec.levels[0] != "elevated" {
		t.Errorf("OnPressure calls = %v, want one elevated transition", rec.levels)
	}
	if rec.cleanups != 1 {
		t.Errorf("OnCleanup calls = %d, want 1", rec.cleanups)
	}
	if rec.lastFreed < 300 {
		t.Errorf("OnCleanup freed = %d, want at least 300", rec.lastFreed)
	}
}

func TestManagerCheck_NoHookWhenLevelStable(t *testing.T) {
	rec := &pressureRecorder{}
	observability.SetMemoryHooks(rec)
	defer observability.Reset()

	m := New(1000, nil)
	m.Register("cache", &fakeConsumer{bytes: 100})

	m.Check(context.Background())
	m.Check(context.Background())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.levels) != 0 {
		t.Errorf("OnPressure calls = %v, want none while normal", rec.levels)
	}
}

func TestManagerStatus(t *testing.T) {
	m := New(1000, nil)
	m.Register("cache", &fakeConsumer{bytes: 300})
	m.Register("pool", &fakeConsumer{bytes: 100})

	st := m.Status()
	if st.EstimatedBytes != 400 {
		t.Errorf("Status().EstimatedBytes = %d, want 400", st.EstimatedBytes)
	}
	if st.BudgetBytes != 1000 {
		t.Errorf("Status().BudgetBytes = %d, want 1000", st.BudgetBytes)
	}
	if st.Level != LevelNormal {
		t.Errorf("Status().Level = %q, want normal", st.Level)
	}
	if len(st.Consumers) != 2 || st.Consumers[0].Name != "cache" || st.Consumers[1].Bytes != 100 {
		t.Errorf("Status().Consumers = %+v", st.Consumers)
	}
}

func TestWithWaterMarks(t *testing.T) {
	m := New(1000, nil, WithWaterMarks(0.5, 0.2))
	m.Register("cache", &fakeConsumer{bytes: 600})
	if got := m.Pressure(); got != LevelElevated {
		t.Errorf("Pressure() = %q, want elevated with 0.5 high mark", got)
	}

	// Invalid marks keep defaults.
	m2 := New(1000, nil, WithWaterMarks(0.2, 0.5))
	m2.Register("cache", &fakeConsumer{bytes: 600})
	if got := m2.Pressure(); got != LevelNormal {
		t.Errorf("Pressure() = %q, want normal under default marks", got)
	}
}

func TestManagerStart_StopsOnContextDone(t *testing.T) {
	m := New(1000, nil)
	m.Register("cache", &fakeConsumer{bytes: 900})

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()

	// The periodic loop should have pushed usage under the low mark.
	if got := m.EstimatedBytes(); got > 600 {
		t.Errorf("EstimatedBytes() = %d after periodic checks, want <= 600", got)
	}
}
