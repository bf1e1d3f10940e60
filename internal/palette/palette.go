// Package palette assigns each particle a stable color drawn from a small
// tiered palette.
package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/snowglobe/internal/cloud"
)

// Tier is the visual role a particle's color plays in the cloud.
type Tier int

const (
	TierDepth Tier = iota
	TierBody
	TierHighlight
	TierAccent
)

var tierNames = [...]string{"depth", "body", "highlight", "accent"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

// Tier thresholds on a uniform draw r: r > AccentAbove is accent, and so on
// down to depth.
const (
	AccentAbove    = 0.96
	HighlightAbove = 0.75
	BodyAbove      = 0.30
)

// TierFor maps a uniform draw to its tier.
func TierFor(r float64) Tier {
	switch {
	case r > AccentAbove:
		return TierAccent
	case r > HighlightAbove:
		return TierHighlight
	case r > BodyAbove:
		return TierBody
	default:
		return TierDepth
	}
}

// Palette holds one color per tier.
type Palette struct {
	Name   string
	Colors [4]colorful.Color
}

// Hex colors of the default evergreen palette.
const (
	EmeraldDark  = "#004d3b"
	Emerald      = "#008050"
	EmeraldLight = "#3CB371"
	Gold         = "#FFD700"
	Ruby         = "#D6001C"
)

// New parses four hex colors ordered depth, body, highlight, accent.
func New(name string, depth, body, highlight, accent string) (Palette, error) {
	p := Palette{Name: name}
	for i, hex := range []string{depth, body, highlight, accent} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %s color %q: %w", name, Tier(i), hex, err)
		}
		p.Colors[i] = c
	}
	return p, nil
}

// MustNew is New for compile-time constants.
func MustNew(name string, depth, body, highlight, accent string) Palette {
	p, err := New(name, depth, body, highlight, accent)
	if err != nil {
		panic(err)
	}
	return p
}

var Evergreen = MustNew("evergreen", EmeraldDark, Emerald, EmeraldLight, Gold)

// Colors is the per-particle color assignment: flattened RGB triples plus the
// tier each particle drew.
type Colors struct {
	RGB   cloud.Buffer
	Tiers []Tier
}

// Assign draws an independent tier for each of count particles. Each
// particle's RGB is copied out of the palette so the result is self-contained.
func Assign(rng cloud.Rand, count int, p Palette) (Colors, error) {
	if count <= 0 {
		return Colors{}, cloud.InvalidConfig("particles", count)
	}
	out := Colors{
		RGB:   cloud.NewBuffer(count),
		Tiers: make([]Tier, count),
	}
	for i := 0; i < count; i++ {
		t := TierFor(rng.Float64())
		c := p.Colors[t]
		out.Tiers[i] = t
		out.RGB[i*3] = float32(c.R)
		out.RGB[i*3+1] = float32(c.G)
		out.RGB[i*3+2] = float32(c.B)
	}
	return out, nil
}

// Len is the particle count.
func (c Colors) Len() int { return len(c.Tiers) }

// At returns particle i's color.
func (c Colors) At(i int) colorful.Color {
	return colorful.Color{R: float64(c.RGB[i*3]), G: float64(c.RGB[i*3+1]), B: float64(c.RGB[i*3+2])}
}

// Proportions returns the observed fraction of particles in each tier.
func (c Colors) Proportions() [4]float64 {
	var out [4]float64
	if len(c.Tiers) == 0 {
		return out
	}
	for _, t := range c.Tiers {
		out[t]++
	}
	for i := range out {
		out[i] /= float64(len(c.Tiers))
	}
	return out
}
