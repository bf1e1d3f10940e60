package metrics

import (
	"math"

	"github.com/san-kum/snowglobe/internal/sim"
)

// Spread is the mean horizontal radius of the cloud.
type Spread struct {
	name    string
	last    float64
	sum     float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f sim.Frame) {
	n := f.Live.Len()
	if n == 0 {
		return
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += math.Hypot(float64(f.Live[i*3]), float64(f.Live[i*3+2]))
	}
	s.last = total / float64(n)
	s.sum += s.last
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Spread) Last() float64 { return s.last }

func (s *Spread) Reset() {
	s.last = 0
	s.sum = 0
	s.samples = 0
}

// Standard returns the metrics reported by a headless run.
func Standard(wrapLow, wrapHigh, velocity float64) []sim.Metric {
	return []sim.Metric{
		NewMeanDistance(),
		NewBandEscape(wrapLow, wrapHigh, velocity),
		NewSpread(),
	}
}
