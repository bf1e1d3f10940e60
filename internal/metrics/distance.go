package metrics

import (
	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/sim"
)

// MeanDistance tracks the mean per-particle distance between the live and
// target buffers. Value averages over frames; Last is the latest frame.
type MeanDistance struct {
	name    string
	last    float64
	sum     float64
	samples int
}

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{name: "mean_distance"}
}

func (m *MeanDistance) Name() string { return m.name }

func (m *MeanDistance) Observe(f sim.Frame) {
	m.last = cloud.MeanDistance(f.Live, f.Target)
	m.sum += m.last
	m.samples++
}

func (m *MeanDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDistance) Last() float64 { return m.last }

func (m *MeanDistance) Reset() {
	m.last = 0
	m.sum = 0
	m.samples = 0
}
