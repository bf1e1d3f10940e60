package shape

import (
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
)

// Tree generates count points on a stylized fir tree. Particle i sits at
// normalized height i/count on a golden-angle spiral.
func Tree(rng cloud.Rand, count int, g Geometry) (cloud.Buffer, error) {
	if count <= 0 {
		return nil, cloud.InvalidConfig("particles", count)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	points := cloud.NewBuffer(count)
	for i := 0; i < count; i++ {
		yNorm := float64(i) / float64(count)
		y := g.HeightAt(yNorm)
		theta := float64(i) * GoldenAngle

		r := g.SilhouetteRadius(y, theta) + (rng.Float64()-0.5)*2*RadiusJitter

		points[i*3] = float32(r * math.Cos(theta))
		points[i*3+1] = float32(y)
		points[i*3+2] = float32(r * math.Sin(theta))
	}
	return points, nil
}
