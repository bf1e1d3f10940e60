package sim

import (
	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

// Stepper is anything that advances a particle cloud one frame at a time.
type Stepper interface {
	Advance(mode cloud.Mode, dt float64)
	Live() cloud.Buffer
	Target() cloud.Buffer
	Elapsed() float64
}

// Retargeter is implemented by steppers that can switch silhouettes mid-run.
type Retargeter interface {
	SetSilhouette(kind shape.Kind, text string) error
}

// Frame is what observers see after each step. The buffers are live views
// and are only valid until the next step.
type Frame struct {
	Step   int
	Time   float64
	Mode   cloud.Mode
	Live   cloud.Buffer
	Target cloud.Buffer
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Sampler is implemented by metrics with a meaningful per-frame value.
type Sampler interface {
	Last() float64
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt       float64
	Schedule Schedule
}

type Result struct {
	Steps   int
	Times   []float64
	Modes   []cloud.Mode
	Metrics map[string]float64
	// Series holds the per-frame value of every Sampler metric.
	Series map[string][]float64
}
