package metrics

import (
	"github.com/san-kum/snowglobe/internal/sim"
)

// BandEscape counts particle-frames whose height leaves [low-slack, high+slack].
// With slack set to one velocity step the expected value is zero.
type BandEscape struct {
	name       string
	low, high  float64
	violations int
	samples    int
}

func NewBandEscape(low, high, slack float64) *BandEscape {
	return &BandEscape{
		name: "band_escape",
		low:  low - slack,
		high: high + slack,
	}
}

func (b *BandEscape) Name() string { return b.name }

func (b *BandEscape) Observe(f sim.Frame) {
	for i := 1; i < len(f.Live); i += 3 {
		y := float64(f.Live[i])
		if y < b.low || y > b.high {
			b.violations++
		}
	}
	b.samples += f.Live.Len()
}

// Value is the escaped fraction of particle-frames.
func (b *BandEscape) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.violations) / float64(b.samples)
}

func (b *BandEscape) Reset() {
	b.violations = 0
	b.samples = 0
}
