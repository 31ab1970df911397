// Package memval watches the aggregate memory footprint of the render
// pipeline's caches and pools and squeezes them when a budget is crossed.
//
// Estimation is approximate by design: consumers report pixel count times
// bytes-per-pixel, not allocator truth. The manager compares the sum
// against a budget with two water marks. Crossing the high mark starts a
// cleanup pass that asks each registered consumer to reclaim until usage
// falls under the low mark. Consumers protect in-use entries themselves
// (pinned cache entries, acquired surfaces), so a cleanup pass can run
// between any two render chunks without corrupting an in-flight render.
package memval

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/observability"
)

// Reclaimer is one memory consumer the manager can squeeze. The texture
// cache and the canvas pool both implement it.
type Reclaimer interface {
	// EstimatedBytes reports the consumer's current approximate footprint.
	EstimatedBytes() int64

	// Reclaim frees up to target bytes of idle resources and returns
	// the bytes actually freed.
	Reclaim(target int64) int64
}

// Level grades current memory pressure.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelElevated Level = "elevated"
	LevelCritical Level = "critical"
)

// Default water marks as fractions of the budget. Cleanup starts above
// the high mark and stops once usage is under the low mark.
const (
	DefaultHighWater = 0.8
	DefaultLowWater  = 0.6
)

// BudgetFor returns a pipeline memory budget suited to the device's
// memory tier.
func BudgetFor(p device.Profile) int64 {
	switch p.MemoryTier() {
	case device.TierLow:
		return 128 << 20
	case device.TierHigh:
		return 512 << 20
	default:
		return 256 << 20
	}
}

// ConsumerStatus is one consumer's share in a Status report.
type ConsumerStatus struct {
	Name  string
	Bytes int64
}

// Status is a point-in-time view of memory accounting.
type Status struct {
	EstimatedBytes int64
	BudgetBytes    int64
	Level          Level
	Consumers      []ConsumerStatus
}

// Option configures a Manager.
type Option func(*Manager)

// WithWaterMarks overrides the high and low water fractions. Values are
// clamped to a sane ordering; out-of-range input keeps the defaults.
func WithWaterMarks(high, low float64) Option {
	return func(m *Manager) {
		if 0 < low && low < high && high <= 1 {
			m.high = high
			m.low = low
		}
	}
}

type consumer struct {
	name string
	r    Reclaimer
}

// Manager aggregates consumer footprints against a byte budget.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	consumers []consumer
	budget    int64
	high      float64
	low       float64
	lastLevel Level
	logger    *log.Logger
}

// New creates a manager with the given budget in bytes.
func New(budget int64, logger *log.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{
		budget:    budget,
		high:      DefaultHighWater,
		low:       DefaultLowWater,
		lastLevel: LevelNormal,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a consumer under a diagnostic name. Registration order is
// cleanup order, so register the cache before the pool to prefer evicting
// textures over trimming surfaces.
func (m *Manager) Register(name string, r Reclaimer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consumers = append(m.consumers, consumer{name: name, r: r})
}

// EstimatedBytes returns the summed footprint of all consumers.
func (m *Manager) EstimatedBytes() int64 {
	m.mu.Lock()
	consumers := m.snapshotLocked()
	m.mu.Unlock()

	var total int64
	for _, c := range consumers {
		total += c.r.EstimatedBytes()
	}
	return total
}

// Pressure grades the current footprint against the budget.
func (m *Manager) Pressure() Level {
	return m.levelFor(m.EstimatedBytes())
}

// Check evaluates pressure, emits a hook on level changes, and runs a
// cleanup pass when usage is above the high water mark. It returns the
// level observed before any cleanup.
func (m *Manager) Check(ctx context.Context) Level {
	estimated := m.EstimatedBytes()
	level := m.levelFor(estimated)

	m.mu.Lock()
	changed := level != m.lastLevel
	m.lastLevel = level
	budget := m.budget
	m.mu.Unlock()

	if changed {
		observability.Memory().OnPressure(ctx, string(level), estimated, budget)
		if level != LevelNormal {
			m.logger.Warn("memory pressure",
				"level", level,
				"estimated_mb", estimated>>20,
				"budget_mb", budget>>20)
		}
	}

	if level != LevelNormal {
		m.Cleanup(ctx)
	}
	return level
}

// Cleanup asks consumers, in registration order, to reclaim until usage
// is under the low water mark. It returns the bytes freed. Safe to call
// at any time; a no-op when already under the mark.
func (m *Manager) Cleanup(ctx context.Context) int64 {
	m.mu.Lock()
	consumers := m.snapshotLocked()
	lowMark := int64(float64(m.budget) * m.low)
	m.mu.Unlock()

	start := time.Now()
	var freed int64
	for _, c := range consumers {
		estimated := m.EstimatedBytes()
		if estimated <= lowMark {
			break
		}
		if n := c.r.Reclaim(estimated - lowMark); n > 0 {
			freed += n
			m.logger.Debug("reclaimed memory", "consumer", c.name, "freed_mb", n>>20)
		}
	}

	if freed > 0 {
		observability.Memory().OnCleanup(ctx, freed, time.Since(start))
		m.logger.Info("memory cleanup",
			"freed_mb", freed>>20,
			"duration", time.Since(start))
	}
	return freed
}

// Start launches a periodic Check loop that stops when ctx is done.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

// Status reports the budget, level, and per-consumer footprints.
func (m *Manager) Status() Status {
	m.mu.Lock()
	consumers := m.snapshotLocked()
	budget := m.budget
	m.mu.Unlock()

	st := Status{BudgetBytes: budget}
	for _, c := range consumers {
		bytes := c.r.EstimatedBytes()
		st.EstimatedBytes += bytes
		st.Consumers = append(st.Consumers, ConsumerStatus{Name: c.name, Bytes: bytes})
	}
	st.Level = m.levelFor(st.EstimatedBytes)
	return st
}

func (m *Manager) levelFor(estimated int64) Level {
	m.mu.Lock()
	budget := m.budget
	high := m.high
	m.mu.Unlock()

	if budget <= 0 {
		return LevelNormal
	}
	switch {
	case estimated >= budget:
		return LevelCritical
	case float64(estimated) >= float64(budget)*high:
		return LevelElevated
	default:
		return LevelNormal
	}
}

func (m *Manager) snapshotLocked() []consumer {
	out := make([]consumer, len(m.consumers))
	copy(out, m.consumers)
	return out
}
