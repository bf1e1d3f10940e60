package ornament

import (
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

const starLift = 0.2

type Star struct {
	Pos cloud.Vec3
}

// NewStar sits the star just above the apex.
func NewStar(g shape.Geometry) Star {
	return Star{Pos: cloud.Vec3{Y: g.Height/2 + starLift}}
}

// Spin returns the star's yaw and roll at elapsed seconds.
func (s Star) Spin(elapsed float64) (yaw, roll float64) {
	return elapsed * 0.5, math.Sin(elapsed) * 0.1
}
