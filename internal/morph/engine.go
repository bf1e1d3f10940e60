package morph

import (
	"fmt"
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
)

// Engine owns the live position buffer of a particle cloud.
type Engine struct {
	live     cloud.Buffer
	target   cloud.Buffer
	velocity cloud.Buffer
	params   Params

	// shimmer bookkeeping: the X offset added on the last settled step is
	// removed before the next homing so it never integrates.
	shimmered   bool
	lastElapsed float64

	steps int
}

// New seeds the live buffer from target so the first frame needs no
// transition. target and velocity are retained, not copied, and must not be
// mutated afterwards.
func New(target, velocity cloud.Buffer, params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(target) == 0 || len(target)%3 != 0 {
		return nil, fmt.Errorf("%w: target holds %d floats", cloud.ErrLengthMismatch, len(target))
	}
	if len(velocity) != len(target) {
		return nil, fmt.Errorf("%w: target %d, velocity %d", cloud.ErrLengthMismatch, target.Len(), velocity.Len())
	}
	return &Engine{
		live:     target.Clone(),
		target:   target,
		velocity: velocity,
		params:   params,
	}, nil
}

func (e *Engine) Len() int               { return e.live.Len() }
func (e *Engine) Steps() int             { return e.steps }
func (e *Engine) Params() Params         { return e.params }
func (e *Engine) Target() cloud.Buffer   { return e.target }
func (e *Engine) Velocity() cloud.Buffer { return e.velocity }

// Live returns the live buffer itself. Callers may read it between steps but
// must not write to it.
func (e *Engine) Live() cloud.Buffer { return e.live }

// Retarget switches the homing target to another buffer of the same length.
// Positions are untouched; the next settled steps home toward the new target.
func (e *Engine) Retarget(target cloud.Buffer) error {
	if len(target) != len(e.live) {
		return fmt.Errorf("%w: live %d, target %d", cloud.ErrLengthMismatch, e.live.Len(), target.Len())
	}
	e.unshimmer(0, e.Len())
	e.shimmered = false
	e.target = target
	return nil
}

// Load overwrites the live positions with src.
func (e *Engine) Load(src cloud.Buffer) error {
	if len(src) != len(e.live) {
		return fmt.Errorf("%w: live %d, source %d", cloud.ErrLengthMismatch, e.live.Len(), src.Len())
	}
	copy(e.live, src)
	e.shimmered = false
	return nil
}

// Reset puts every particle back on its target.
func (e *Engine) Reset() {
	copy(e.live, e.target)
	e.shimmered = false
	e.steps = 0
}

// Step advances every particle by one frame. Any mode other than
// cloud.ModeDispersed homes to the target.
func (e *Engine) Step(mode cloud.Mode, dt, elapsed float64) {
	if len(e.live) != len(e.target) || len(e.live) != len(e.velocity) {
		panic(fmt.Sprintf("morph: buffers lost alignment: live %d, target %d, velocity %d",
			len(e.live), len(e.target), len(e.velocity)))
	}

	lerp, advance := e.params.coefficients(dt)
	n := e.Len()

	if mode.Dispersed() {
		e.shimmered = false
		if e.params.Workers > 1 {
			cloud.ParallelFor(n, parallelChunk, e.params.Workers, func(start, end int) {
				e.disperse(start, end, advance, elapsed)
			})
		} else {
			e.disperse(0, n, advance, elapsed)
		}
	} else {
		if e.params.Workers > 1 {
			cloud.ParallelFor(n, parallelChunk, e.params.Workers, func(start, end int) {
				e.settle(start, end, lerp, elapsed)
			})
		} else {
			e.settle(0, n, lerp, elapsed)
		}
		e.shimmered = true
		e.lastElapsed = elapsed
	}
	e.steps++
}

func (e *Engine) settle(start, end int, lerp, elapsed float64) {
	live, target := e.live, e.target
	l := float32(lerp)
	for i := start; i < end; i++ {
		tx, ty, tz := target[i*3], target[i*3+1], target[i*3+2]
		if e.shimmered {
			live[i*3] -= e.shimmer(e.lastElapsed, ty)
		}

		live[i*3] += (tx - live[i*3]) * l
		live[i*3+1] += (ty - live[i*3+1]) * l
		live[i*3+2] += (tz - live[i*3+2]) * l

		live[i*3] += e.shimmer(elapsed, ty)
	}
}

func (e *Engine) disperse(start, end int, advance, elapsed float64) {
	p := e.params
	live, vel := e.live, e.velocity
	adv := float32(advance)
	lo, hi := float32(p.WrapLow), float32(p.WrapHigh)
	loReset, hiReset := float32(p.WrapLowReset), float32(p.WrapHighReset)
	swirl := p.Swirl * advance

	for i := start; i < end; i++ {
		live[i*3] += vel[i*3] * adv
		live[i*3+1] += vel[i*3+1] * adv
		live[i*3+2] += vel[i*3+2] * adv

		y := live[i*3+1]
		if y < lo {
			y = loReset
		}
		if y > hi {
			y = hiReset
		}
		live[i*3+1] = y

		live[i*3] += float32(math.Sin(elapsed+float64(y)) * swirl)
	}
}

func (e *Engine) shimmer(elapsed float64, ty float32) float32 {
	return float32(math.Sin(elapsed*e.params.ShimmerFreq+float64(ty)) * e.params.Shimmer)
}

// unshimmer strips the offset left by the last settled step.
func (e *Engine) unshimmer(start, end int) {
	if !e.shimmered {
		return
	}
	for i := start; i < end; i++ {
		e.live[i*3] -= e.shimmer(e.lastElapsed, e.target[i*3+1])
	}
}
