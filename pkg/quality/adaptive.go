package quality

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/memval"
)

// MaxDegradation is the deepest automatic step-down level.
const MaxDegradation = 3

// degradationFactor multiplies RenderingQuality and MaxTextureSize per
// level. Each step cuts deeper than the last.
var degradationFactor = [MaxDegradation + 1]float64{1.0, 0.85, 0.7, 0.5}

// Performance signal thresholds: a render chunk is slow when it blows
// well past the 5ms chunk budget, and sustained slowness means this many
// slow observations in a row.
const (
	slowRenderThreshold = 24 * time.Millisecond
	slowStreakLimit     = 3
)

// historyCap bounds the adjustment history; oldest entries drop first.
const historyCap = 32

// Reason tags why a quality adjustment happened.
type Reason string

const (
	ReasonUser        Reason = "user"
	ReasonPerformance Reason = "performance"
	ReasonMemory      Reason = "memory"
	ReasonAuto        Reason = "auto"
)

// Adjustment is one entry in the controller's diagnostic history.
type Adjustment struct {
	Time   time.Time
	Preset Preset
	Level  int
	Reason Reason
	Note   string
}

// Controller owns the single current Settings value and adapts it to
// observed render times and memory pressure.
//
// Degradation is monotonic: the level only rises while a session runs.
// SetPreset (an explicit user action) and ResetSession start a fresh
// monitoring session at level zero.
type Controller struct {
	mu         sync.Mutex
	preset     Preset
	profile    device.Profile
	base       Settings
	level      int
	slowStreak int
	history    []Adjustment
	logger     *log.Logger
}

// NewController creates a controller at the given preset.
func NewController(preset Preset, profile device.Profile, logger *log.Logger) (*Controller, error) {
	if _, err := ParsePreset(string(preset)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		preset:  preset,
		profile: profile,
		base:    For(preset, profile),
		logger:  logger,
	}
	c.record(ReasonAuto, "initial preset")
	return c, nil
}

// Current returns the settings in effect: the preset's base settings
// stepped down by the current degradation level.
func (c *Controller) Current() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degradedLocked()
}

// Preset returns the selected preset (possibly auto).
func (c *Controller) Preset() Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preset
}

// Level returns the current degradation level in [0, MaxDegradation].
func (c *Controller) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// SetPreset switches presets. As an explicit user action it also clears
// any accumulated degradation and starts a fresh monitoring session.
func (c *Controller) SetPreset(preset Preset) error {
	if _, err := ParsePreset(string(preset)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.preset = preset
	c.base = For(preset, c.profile)
	c.level = 0
	c.slowStreak = 0
	c.record(ReasonUser, "preset changed")
	c.logger.Info("quality preset changed", "preset", preset)
	return nil
}

// ObserveRenderTime feeds one chunk duration into the performance
// monitor. Sustained slow chunks degrade quality one step.
func (c *Controller) ObserveRenderTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < slowRenderThreshold {
		c.slowStreak = 0
		return
	}
	c.slowStreak++
	if c.slowStreak >= slowStreakLimit {
		c.slowStreak = 0
		c.degradeLocked(ReasonPerformance, "sustained slow renders")
	}
}

// ObservePressure feeds a memory pressure level into the monitor.
// Critical pressure degrades immediately; elevated degrades only from
// level zero so memory alone never drives quality to the floor.
func (c *Controller) ObservePressure(level memval.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch level {
	case memval.LevelCritical:
		c.degradeLocked(ReasonMemory, "critical memory pressure")
	case memval.LevelElevated:
		if c.level == 0 {
			c.degradeLocked(ReasonMemory, "elevated memory pressure")
		}
	}
}

// Degrade forces one degradation step. Reports whether the level moved.
func (c *Controller) Degrade(reason Reason) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degradeLocked(reason, "requested")
}

// ResetSession starts a fresh monitoring session: degradation returns to
// zero while the preset stays as selected.
func (c *Controller) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = 0
	c.slowStreak = 0
	c.record(ReasonUser, "session reset")
	c.logger.Info("quality session reset", "preset", c.preset)
}

// History returns the adjustment history, oldest first.
func (c *Controller) History() []Adjustment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Adjustment, len(c.history))
	copy(out, c.history)
	return out
}

// Resolved returns the concrete preset in effect after auto resolution.
func (c *Controller) Resolved() Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preset == PresetAuto {
		return Recommend(c.profile)
	}
	return c.preset
}

func (c *Controller) degradeLocked(reason Reason, note string) bool {
	if c.level >= MaxDegradation {
		return false
	}
	c.level++
	c.record(reason, note)
	c.logger.Warn("quality degraded",
		"level", c.level,
		"reason", reason,
		"rendering_quality", c.degradedLocked().RenderingQuality)
	return true
}

func (c *Controller) degradedLocked() Settings {
	s := c.base
	f := degradationFactor[c.level]
	s.RenderingQuality *= f
	s.MaxTextureSize = int(float64(s.MaxTextureSize) * f)
	if c.level >= 2 {
		s.Antialiasing = false
	}
	return s
}

func (c *Controller) record(reason Reason, note string) {
	c.history = append(c.history, Adjustment{
		Time:   time.Now(),
		Preset: c.preset,
		Level:  c.level,
		Reason: reason,
		Note:   note,
	})
	if len(c.history) > historyCap {
		c.history = c.history[len(c.history)-historyCap:]
	}
}
