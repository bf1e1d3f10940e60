package shape

import (
	"github.com/san-kum/snowglobe/internal/cloud"
)

const (
	DefaultHeartAttempts = 1000

	heartScale   = 2.5
	heartYOffset = 1.0
)

// insideHeart evaluates the implicit surface
// (x²+2.25y²+z²-1)³ - x²z³ - 0.1125y²z³ < 0.
func insideHeart(x, y, z float64) bool {
	a := x*x + 2.25*y*y + z*z - 1
	z3 := z * z * z
	return a*a*a-x*x*z3-0.1125*y*y*z3 < 0
}

// Heart fills count points by rejection sampling the heart volume in the box
// x,y in [-2, 2], z in [-1, 1]. Each particle gets at most maxAttempts draws;
// a particle that never lands inside reuses the last accepted sample, or the
// heart's center when nothing has been accepted yet. The second return value
// counts such stalled particles.
func Heart(rng cloud.Rand, count, maxAttempts int) (cloud.Buffer, int, error) {
	if count <= 0 {
		return nil, 0, cloud.InvalidConfig("particles", count)
	}
	if maxAttempts <= 0 {
		return nil, 0, cloud.InvalidConfig("heart.max_attempts", maxAttempts)
	}

	points := cloud.NewBuffer(count)
	last := cloud.Vec3{}
	stalls := 0

	for i := 0; i < count; i++ {
		accepted := false
		var x, y, z float64
		for attempt := 0; attempt < maxAttempts; attempt++ {
			x = (rng.Float64() - 0.5) * 4
			y = (rng.Float64() - 0.5) * 4
			z = (rng.Float64() - 0.5) * 2
			if insideHeart(x, y, z) {
				accepted = true
				break
			}
		}
		if accepted {
			last = cloud.Vec3{X: x, Y: y, Z: z}
		} else {
			stalls++
		}
		points.Set(i, cloud.Vec3{
			X: last.X * heartScale,
			Y: last.Y*heartScale + heartYOffset,
			Z: last.Z * heartScale,
		})
	}
	return points, stalls, nil
}
