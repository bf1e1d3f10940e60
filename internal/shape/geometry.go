package shape

import (
	"math"

	"github.com/san-kum/snowglobe/internal/cloud"
)

const (
	DefaultHeight = 8.0
	DefaultRadius = 3.5

	// LayerFrequency is the number of radius oscillations emulating branch tiers.
	LayerFrequency = 12.0
	// BranchCount is the number of branch clumps around each tier.
	BranchCount = 7.0
	// RadiusJitter bounds the uniform noise added to each tree particle's radius.
	RadiusJitter = 0.15
)

// GoldenAngle is the spiral increment giving near-uniform angular coverage.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// Geometry holds the static tree dimensions shared by the tree generator and
// the ornament placer.
type Geometry struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

func DefaultGeometry() Geometry {
	return Geometry{Height: DefaultHeight, Radius: DefaultRadius}
}

func (g Geometry) Validate() error {
	if !(g.Height > 0) || math.IsInf(g.Height, 0) {
		return cloud.InvalidConfig("tree.height", g.Height)
	}
	if !(g.Radius > 0) || math.IsInf(g.Radius, 0) {
		return cloud.InvalidConfig("tree.radius", g.Radius)
	}
	return nil
}

// HeightAt maps a normalized height in [0, 1] to world Y, centered on zero.
func (g Geometry) HeightAt(yNorm float64) float64 {
	return yNorm*g.Height - g.Height/2
}

// ConeRadius is the linear taper at world height y: R at the base, 0 at the apex.
func (g Geometry) ConeRadius(y float64) float64 {
	return g.Radius * (1 - (y+g.Height/2)/g.Height)
}

// BranchFactor produces the tier oscillation in [0.4, 1].
func BranchFactor(y float64) float64 {
	s := (math.Sin(y*LayerFrequency) + 1) / 2
	return 0.4 + 0.6*s*s
}

// BranchClump modulates the radius around each tier in [0.8, 1].
func BranchClump(theta, y float64) float64 {
	return 0.8 + 0.2*math.Cos(theta*BranchCount+y*2)
}

// SilhouetteRadius is the tree radius law without jitter.
func (g Geometry) SilhouetteRadius(y, theta float64) float64 {
	return g.ConeRadius(y) * BranchFactor(y) * BranchClump(theta, y)
}
