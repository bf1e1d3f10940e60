package ornament

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/palette"
	"github.com/san-kum/snowglobe/internal/shape"
)

const (
	DefaultCount = 120

	// GoldShare is the probability that an anchor is tagged gold.
	GoldShare = 0.6

	// SpiralMultiplier keeps anchors off the particle spiral.
	SpiralMultiplier = 13.0
	// BandLow and BandSpan remap the normalized height into the inner 80%.
	BandLow  = 0.1
	BandSpan = 0.8
	// Inset places anchors just inside the particle surface.
	Inset = 0.95
)

// Tag is an anchor's color class.
type Tag int

const (
	TagGold Tag = iota
	TagRuby
)

func (t Tag) String() string {
	switch t {
	case TagGold:
		return "gold"
	case TagRuby:
		return "ruby"
	default:
		return "unknown"
	}
}

var tagColors = map[Tag]colorful.Color{
	TagGold: mustHex(palette.Gold),
	TagRuby: mustHex(palette.Ruby),
}

// Color returns the display color for the tag.
func (t Tag) Color() colorful.Color {
	return tagColors[t]
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Anchor is an immutable decoration position.
type Anchor struct {
	Pos cloud.Vec3
	Tag Tag
}

// Place derives count anchors from the tree's radius law. Positions are fully
// determined by count and g; only the tags consume rng.
func Place(rng cloud.Rand, count int, g shape.Geometry) ([]Anchor, error) {
	if count < 0 {
		return nil, cloud.InvalidConfig("ornaments", count)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	anchors := make([]Anchor, count)
	for i := range anchors {
		yNorm := float64(i) / float64(count)
		y := g.HeightAt(yNorm*BandSpan + BandLow)
		r := g.ConeRadius(y) * shape.BranchFactor(y) * Inset
		theta := float64(i) * shape.GoldenAngle * SpiralMultiplier

		tag := TagGold
		if rng.Float64() > GoldShare {
			tag = TagRuby
		}
		anchors[i] = Anchor{
			Pos: cloud.Vec3{X: r * math.Cos(theta), Y: y, Z: r * math.Sin(theta)},
			Tag: tag,
		}
	}
	return anchors, nil
}

// Split partitions anchors by tag, preserving order, so each class can be
// instanced as one batch.
func Split(anchors []Anchor) (gold, ruby []Anchor) {
	for _, a := range anchors {
		if a.Tag == TagGold {
			gold = append(gold, a)
		} else {
			ruby = append(ruby, a)
		}
	}
	return gold, ruby
}

// GoldFraction is the observed share of gold anchors.
func GoldFraction(anchors []Anchor) float64 {
	if len(anchors) == 0 {
		return 0
	}
	n := 0
	for _, a := range anchors {
		if a.Tag == TagGold {
			n++
		}
	}
	return float64(n) / float64(len(anchors))
}
