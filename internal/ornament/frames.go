package ornament

import (
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

const (
	DefaultFrames = 9

	frameBase   = 1.2
	frameMargin = 2.5
	frameOffset = 0.5
	frameSway   = 0.05
)

var frameSpiral = 2 * math.Pi / 1.618 * 5

// Frame anchors a photo frame just outside the cone, facing away from the trunk.
type Frame struct {
	Index  int
	Pos    cloud.Vec3
	Normal cloud.Vec3
}

// Frames spreads count frames up the trunk between the lowest tier and just
// below the star.
func Frames(count int, g shape.Geometry) ([]Frame, error) {
	if count < 0 {
		return nil, cloud.InvalidConfig("frames", count)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	frames := make([]Frame, count)
	for i := range frames {
		t := float64(i) / float64(count)
		h := -g.Height/2 + frameBase + t*(g.Height-frameMargin)
		r := g.ConeRadius(h) + frameOffset
		theta := float64(i) * frameSpiral

		pos := cloud.Vec3{X: r * math.Cos(theta), Y: h, Z: r * math.Sin(theta)}
		frames[i] = Frame{
			Index:  i,
			Pos:    pos,
			Normal: cloud.Vec3{X: pos.X, Z: pos.Z}.Normalize(),
		}
	}
	return frames, nil
}

// Sway is the frame's roll angle at elapsed seconds.
func (f Frame) Sway(elapsed float64) float64 {
	return math.Sin(elapsed+float64(f.Index)) * frameSway
}
