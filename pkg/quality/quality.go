// Package quality maps quality presets to concrete rendering settings
// and adapts them to observed performance.
//
// A preset is what the user picks; Settings are what the pipeline reads:
// resampling quality, texture budget, antialiasing, pooling, compression.
// The adaptive controller sits between the two, stepping settings down
// when renders run slow or memory pressure rises. Degradation is
// one-directional within a session so quality never flaps; it recovers
// only through an explicit user action or a session reset.
package quality

import (
	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/errors"
)

// Preset names a quality target.
type Preset string

const (
	PresetLow    Preset = "low"
	PresetMedium Preset = "medium"
	PresetHigh   Preset = "high"
	PresetUltra  Preset = "ultra"

	// PresetAuto resolves to a concrete preset via Recommend.
	PresetAuto Preset = "auto"
)

// Presets lists all selectable presets in ascending order of cost.
func Presets() []Preset {
	return []Preset{PresetLow, PresetMedium, PresetHigh, PresetUltra, PresetAuto}
}

// ParsePreset validates a user-supplied preset name.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case PresetLow, PresetMedium, PresetHigh, PresetUltra, PresetAuto:
		return Preset(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidQuality, "unknown quality preset %q (valid: low, medium, high, ultra, auto)", s)
	}
}

// Settings are the concrete knobs the rendering pipeline reads. Exactly
// one Settings value is current at a time; the controller swaps it
// atomically and callers always receive a copy.
type Settings struct {
	// RenderingQuality in (0, 1] drives stroke detail and the
	// resampling kernel for texture scaling.
	RenderingQuality float64

	// TextureQuality in (0, 1] selects the texture tier processing level.
	TextureQuality float64

	// Antialiasing toggles edge smoothing on stroke rendering.
	Antialiasing bool

	// MaxTextureSize clamps the longest side of any paper texture.
	MaxTextureSize int

	// CanvasPooling toggles surface reuse through the canvas pool.
	CanvasPooling bool

	// CompressionLevel in [0, 9] steers PNG encoding effort.
	CompressionLevel int

	// ProgressiveLoading toggles tiered texture loading.
	ProgressiveLoading bool
}

// Validate checks settings ranges.
func (s Settings) Validate() error {
	if err := errors.ValidateQuality(s.RenderingQuality); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidQuality, err, "rendering quality")
	}
	if err := errors.ValidateQuality(s.TextureQuality); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidQuality, err, "texture quality")
	}
	if s.MaxTextureSize <= 0 {
		return errors.New(errors.ErrCodeInvalidQuality, "max texture size must be positive, got %d", s.MaxTextureSize)
	}
	if s.CompressionLevel < 0 || s.CompressionLevel > 9 {
		return errors.New(errors.ErrCodeInvalidQuality, "compression level must be in [0, 9], got %d", s.CompressionLevel)
	}
	return nil
}

// presetSettings is the base table resolved presets draw from.
var presetSettings = map[Preset]Settings{
	PresetLow: {
		RenderingQuality:   0.4,
		TextureQuality:     0.5,
		Antialiasing:       false,
		MaxTextureSize:     1024,
		CanvasPooling:      true,
		CompressionLevel:   7,
		ProgressiveLoading: true,
	},
	PresetMedium: {
		RenderingQuality:   0.7,
		TextureQuality:     0.7,
		Antialiasing:       true,
		MaxTextureSize:     2048,
		CanvasPooling:      true,
		CompressionLevel:   6,
		ProgressiveLoading: true,
	},
	PresetHigh: {
		RenderingQuality:   0.85,
		TextureQuality:     0.9,
		Antialiasing:       true,
		MaxTextureSize:     3072,
		CanvasPooling:      true,
		CompressionLevel:   4,
		ProgressiveLoading: true,
	},
	PresetUltra: {
		RenderingQuality:   1.0,
		TextureQuality:     1.0,
		Antialiasing:       true,
		MaxTextureSize:     4096,
		CanvasPooling:      true,
		CompressionLevel:   2,
		ProgressiveLoading: false,
	},
}

// For resolves a preset to its base settings. PresetAuto resolves
// through Recommend using the given profile.
func For(preset Preset, profile device.Profile) Settings {
	if preset == PresetAuto {
		preset = Recommend(profile)
	}
	s, ok := presetSettings[preset]
	if !ok {
		s = presetSettings[PresetMedium]
	}
	return s
}

// Recommend picks a concrete preset for a device profile. Constrained
// devices always get low; from there memory tier, core count, and
// connection tier buy the way up.
func Recommend(p device.Profile) Preset {
	if p.Constrained() {
		return PresetLow
	}
	switch p.MemoryTier() {
	case device.TierHigh:
		if p.Cores >= 8 && p.Connection == device.TierHigh {
			return PresetUltra
		}
		return PresetHigh
	case device.TierMedium:
		return PresetMedium
	default:
		return PresetLow
	}
}
