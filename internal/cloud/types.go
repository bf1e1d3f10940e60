package cloud

import (
	"math"
	"strings"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Buffer is a flattened array of 3-component records, one per particle.
type Buffer []float32

func NewBuffer(n int) Buffer {
	return make(Buffer, n*3)
}

// Len returns the number of particles, not the number of floats.
func (b Buffer) Len() int { return len(b) / 3 }

func (b Buffer) At(i int) Vec3 {
	return Vec3{float64(b[i*3]), float64(b[i*3+1]), float64(b[i*3+2])}
}

func (b Buffer) Set(i int, v Vec3) {
	b[i*3] = float32(v.X)
	b[i*3+1] = float32(v.Y)
	b[i*3+2] = float32(v.Z)
}

func (b Buffer) Clone() Buffer {
	c := make(Buffer, len(b))
	copy(c, b)
	return c
}

// IsValid reports whether every component is finite.
func (b Buffer) IsValid() bool {
	for _, v := range b {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// MeanDistance returns the mean Euclidean distance between matching particles.
func MeanDistance(a, b Buffer) float64 {
	n := a.Len()
	if n == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		dx := float64(a[i*3] - b[i*3])
		dy := float64(a[i*3+1] - b[i*3+1])
		dz := float64(a[i*3+2] - b[i*3+2])
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(n)
}

// Mode selects the kinematics applied by the morph engine each frame.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeSettled
	ModeDispersed
)

func (m Mode) String() string {
	switch m {
	case ModeSettled:
		return "settled"
	case ModeDispersed:
		return "dispersed"
	default:
		return "unknown"
	}
}

// Dispersed reports whether the mode selects free drifting. Anything that is
// not explicitly dispersed homes to the target.
func (m Mode) Dispersed() bool { return m == ModeDispersed }

// ParseMode maps a name to a Mode. Unrecognized names yield ModeUnknown.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "settled", "tree", "fist":
		return ModeSettled
	case "dispersed", "snow", "open", "open_palm":
		return ModeDispersed
	default:
		return ModeUnknown
	}
}

// Rand is the uniform [0, 1) source used by the stochastic generators.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
