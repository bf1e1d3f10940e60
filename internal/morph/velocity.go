package morph

import (
	"github.com/san-kum/snowglobe/internal/cloud"
)

// NewVelocityField draws count velocities with each axis uniform in
// [-amplitude, amplitude]. The field is built once and reused every time the
// cloud disperses.
func NewVelocityField(rng cloud.Rand, count int, amplitude float64) (cloud.Buffer, error) {
	if count <= 0 {
		return nil, cloud.InvalidConfig("particles", count)
	}
	if amplitude < 0 {
		return nil, cloud.InvalidConfig("motion.velocity", amplitude)
	}
	v := cloud.NewBuffer(count)
	for i := range v {
		v[i] = float32((rng.Float64() - 0.5) * 2 * amplitude)
	}
	return v, nil
}
