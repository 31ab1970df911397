// Package device models the capability profile of the machine the
// renderer runs on.
//
// The profile feeds two decisions: the quality manager's recommended
// preset and the progressive texture loader's tier strategy (constrained
// devices fetch the low-quality tier first and cap concurrent loads).
// Detection is best effort; every field has a safe default and can be
// overridden through the environment, which is also how tests and the
// CLI simulate constrained devices.
package device

import (
	"os"
	"runtime"
	"strconv"
)

// Class describes the broad device category.
type Class string

const (
	ClassMobile  Class = "mobile"
	ClassTablet  Class = "tablet"
	ClassDesktop Class = "desktop"
)

// Tier is a coarse low/medium/high grading used for memory and connection.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Environment variables recognized by Detect. They exist so constrained
// devices can be simulated without hardware: set SCRAWL_DEVICE_CLASS=mobile
// and SCRAWL_CONNECTION=low to exercise the degraded loading paths.
const (
	EnvClass      = "SCRAWL_DEVICE_CLASS"
	EnvMemoryMB   = "SCRAWL_DEVICE_MEMORY_MB"
	EnvConnection = "SCRAWL_CONNECTION"
)

// Profile is a read-only snapshot of device capabilities taken at startup.
type Profile struct {
	Class      Class
	MemoryMB   int
	Cores      int
	Connection Tier
}

// MemoryTier grades available memory. The thresholds mirror common
// client hardware bands: 2 GB and under is the low tier, 8 GB and up
// the high tier.
func (p Profile) MemoryTier() Tier {
	switch {
	case p.MemoryMB > 0 && p.MemoryMB <= 2048:
		return TierLow
	case p.MemoryMB >= 8192:
		return TierHigh
	default:
		return TierMedium
	}
}

// Constrained reports whether the pipeline should prefer degraded
// strategies: low texture tier first, single-flight loads, smaller
// surfaces. Any one weak axis makes the device constrained.
func (p Profile) Constrained() bool {
	if p.Class == ClassMobile {
		return true
	}
	if p.MemoryTier() == TierLow {
		return true
	}
	if p.Connection == TierLow {
		return true
	}
	if p.Cores > 0 && p.Cores <= 2 {
		return true
	}
	return false
}

// MaxConcurrentLoads returns how many texture loads may run at once on
// this device: one when constrained, four otherwise.
func (p Profile) MaxConcurrentLoads() int64 {
	if p.Constrained() {
		return 1
	}
	return 4
}

// Detect builds a Profile from the running machine, applying any
// environment overrides. Fields that cannot be determined fall back to
// a capable-desktop default so detection failures never degrade output.
func Detect() Profile {
	p := Profile{
		Class:      ClassDesktop,
		MemoryMB:   detectMemoryMB(),
		Cores:      runtime.NumCPU(),
		Connection: TierHigh,
	}

	if v := os.Getenv(EnvClass); v != "" {
		switch Class(v) {
		case ClassMobile, ClassTablet, ClassDesktop:
			p.Class = Class(v)
		}
	}
	if v := os.Getenv(EnvMemoryMB); v != "" {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			p.MemoryMB = mb
		}
	}
	if v := os.Getenv(EnvConnection); v != "" {
		switch Tier(v) {
		case TierLow, TierMedium, TierHigh:
			p.Connection = Tier(v)
		}
	}
	return p
}
