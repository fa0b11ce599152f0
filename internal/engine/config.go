package engine

import "time"

// Default timing constants. The dwell and exit-clear values were tuned by
// listening, not derived, so they stay configurable.
const (
	DefaultDwell           = 250 * time.Millisecond
	DefaultExitClearDelay  = 300 * time.Millisecond
	DefaultSamplerInterval = 125 * time.Millisecond
	DefaultEpsilon         = 0.05
)

// Config carries the engine's tunable timing values.
type Config struct {
	// Dwell is how long playback holds at a segment boundary before
	// advancing to the next segment.
	Dwell time.Duration

	// ExitClearDelay is how long a direct-seek exit from sequence mode
	// keeps its pending marker before self-clearing.
	ExitClearDelay time.Duration

	// SamplerInterval is the period of the position-sampling tick while
	// playback is live.
	SamplerInterval time.Duration

	// Epsilon is the tolerance, in seconds, applied to segment boundary
	// comparisons and seek clamping.
	Epsilon float64
}

// DefaultEngineConfig returns the tuned default timing values.
func DefaultEngineConfig() Config {
	return Config{
		Dwell:           DefaultDwell,
		ExitClearDelay:  DefaultExitClearDelay,
		SamplerInterval: DefaultSamplerInterval,
		Epsilon:         DefaultEpsilon,
	}
}

// normalized fills zero fields with defaults so a partially-populated
// config behaves sensibly.
func (c Config) normalized() Config {
	d := DefaultEngineConfig()
	if c.Dwell <= 0 {
		c.Dwell = d.Dwell
	}
	if c.ExitClearDelay <= 0 {
		c.ExitClearDelay = d.ExitClearDelay
	}
	if c.SamplerInterval <= 0 {
		c.SamplerInterval = d.SamplerInterval
	}
	if c.Epsilon <= 0 {
		c.Epsilon = d.Epsilon
	}
	return c
}
