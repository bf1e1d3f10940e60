package morph

import (
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
)

const (
	DefaultLerpFactor   = 0.08
	DefaultShimmer      = 0.002
	DefaultShimmerFreq  = 1.5
	DefaultSwirl        = 0.02
	DefaultVelocity     = 0.075
	DefaultWrapLow      = -6.0
	DefaultWrapLowReset = 10.0
	DefaultWrapHigh     = 12.0
	DefaultWrapHiReset  = -5.0
	DefaultReferenceFPS = 60.0

	// parallelChunk is the smallest slice of particles handed to a worker.
	parallelChunk = 1024
)

type Params struct {
	LerpFactor  float64 `yaml:"lerp_factor"`
	Shimmer     float64 `yaml:"shimmer"`
	ShimmerFreq float64 `yaml:"shimmer_freq"`
	Swirl       float64 `yaml:"swirl"`
	Velocity    float64 `yaml:"velocity"`

	WrapLow       float64 `yaml:"wrap_low"`
	WrapLowReset  float64 `yaml:"wrap_low_reset"`
	WrapHigh      float64 `yaml:"wrap_high"`
	WrapHighReset float64 `yaml:"wrap_high_reset"`

	// FrameRateIndependent rescales the per-call increments by
	// dt*ReferenceFPS. Off by default, which keeps the fixed per-frame pacing.
	FrameRateIndependent bool    `yaml:"frame_rate_independent"`
	ReferenceFPS         float64 `yaml:"reference_fps"`

	Workers int `yaml:"workers"`
}

func DefaultParams() Params {
	return Params{
		LerpFactor:    DefaultLerpFactor,
		Shimmer:       DefaultShimmer,
		ShimmerFreq:   DefaultShimmerFreq,
		Swirl:         DefaultSwirl,
		Velocity:      DefaultVelocity,
		WrapLow:       DefaultWrapLow,
		WrapLowReset:  DefaultWrapLowReset,
		WrapHigh:      DefaultWrapHigh,
		WrapHighReset: DefaultWrapHiReset,
		ReferenceFPS:  DefaultReferenceFPS,
		Workers:       1,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.LerpFactor > 0 && p.LerpFactor <= 1):
		return cloud.InvalidConfig("motion.lerp_factor", p.LerpFactor)
	case p.Velocity < 0 || math.IsNaN(p.Velocity):
		return cloud.InvalidConfig("motion.velocity", p.Velocity)
	case !(p.WrapLow < p.WrapHigh):
		return cloud.InvalidConfig("motion.wrap_low", p.WrapLow)
	case p.WrapLowReset < p.WrapLow || p.WrapLowReset > p.WrapHigh:
		return cloud.InvalidConfig("motion.wrap_low_reset", p.WrapLowReset)
	case p.WrapHighReset < p.WrapLow || p.WrapHighReset > p.WrapHigh:
		return cloud.InvalidConfig("motion.wrap_high_reset", p.WrapHighReset)
	case p.FrameRateIndependent && !(p.ReferenceFPS > 0):
		return cloud.InvalidConfig("motion.reference_fps", p.ReferenceFPS)
	case p.Workers < 0:
		return cloud.InvalidConfig("motion.workers", p.Workers)
	}
	return nil
}

// coefficients returns the homing factor and the advance multiplier for a
// call with the given frame delta.
func (p Params) coefficients(dt float64) (lerp, advance float64) {
	if !p.FrameRateIndependent || !(dt > 0) {
		return p.LerpFactor, 1
	}
	k := dt * p.ReferenceFPS
	lerp = 1 - math.Pow(1-p.LerpFactor, k)
	if lerp > 1 {
		lerp = 1
	}
	return lerp, k
}
