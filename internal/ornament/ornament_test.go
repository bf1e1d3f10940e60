package ornament_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/ornament"
	"github.com/san-kum/snowglobe/internal/shape"
)

type constant float64

func (c constant) Float64() float64 { return float64(c) }

var _ = Describe("Place", func() {
	geo := shape.DefaultGeometry()

	It("keeps anchors inside the inner band of the tree", func() {
		anchors, err := ornament.Place(rand.New(rand.NewSource(1)), 120, geo)
		Expect(err).NotTo(HaveOccurred())
		Expect(anchors).To(HaveLen(120))

		lo := geo.HeightAt(0.1)
		hi := geo.HeightAt(0.9)
		for _, a := range anchors {
			Expect(a.Pos.Y).To(BeNumerically(">=", lo-1e-9))
			Expect(a.Pos.Y).To(BeNumerically("<=", hi+1e-9))
		}
	})

	It("sits just inside the tier radius", func() {
		anchors, err := ornament.Place(rand.New(rand.NewSource(2)), 120, geo)
		Expect(err).NotTo(HaveOccurred())
		for _, a := range anchors {
			want := geo.ConeRadius(a.Pos.Y) * shape.BranchFactor(a.Pos.Y) * 0.95
			Expect(math.Hypot(a.Pos.X, a.Pos.Z)).To(BeNumerically("~", want, 1e-9))
		}
	})

	It("uses randomness only for the tags", func() {
		gold, err := ornament.Place(constant(0.1), 50, geo)
		Expect(err).NotTo(HaveOccurred())
		ruby, err := ornament.Place(constant(0.9), 50, geo)
		Expect(err).NotTo(HaveOccurred())
		for i := range gold {
			Expect(gold[i].Pos).To(Equal(ruby[i].Pos))
			Expect(gold[i].Tag).To(Equal(ornament.TagGold))
			Expect(ruby[i].Tag).To(Equal(ornament.TagRuby))
		}
	})

	It("averages a 60/40 gold to ruby split over repeated generations", func() {
		rng := rand.New(rand.NewSource(3))
		const runs = 200
		sum := 0.0
		for r := 0; r < runs; r++ {
			anchors, err := ornament.Place(rng, 120, geo)
			Expect(err).NotTo(HaveOccurred())
			sum += ornament.GoldFraction(anchors)
		}
		Expect(sum / runs).To(BeNumerically("~", 0.6, 0.02))
	})

	It("accepts zero and rejects negative counts", func() {
		anchors, err := ornament.Place(constant(0.5), 0, geo)
		Expect(err).NotTo(HaveOccurred())
		Expect(anchors).To(BeEmpty())

		_, err = ornament.Place(constant(0.5), -1, geo)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))

		_, err = ornament.Place(constant(0.5), 10, shape.Geometry{Height: 0, Radius: 1})
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})

var _ = Describe("Split", func() {
	It("partitions by tag and preserves order", func() {
		anchors, err := ornament.Place(rand.New(rand.NewSource(4)), 120, shape.DefaultGeometry())
		Expect(err).NotTo(HaveOccurred())

		gold, ruby := ornament.Split(anchors)
		Expect(len(gold) + len(ruby)).To(Equal(120))
		for _, a := range gold {
			Expect(a.Tag).To(Equal(ornament.TagGold))
		}
		for i := 1; i < len(ruby); i++ {
			Expect(ruby[i].Pos.Y).To(BeNumerically(">", ruby[i-1].Pos.Y))
		}
	})

	It("maps tags to their colors", func() {
		Expect(ornament.TagGold.Color().Hex()).To(Equal("#ffd700"))
		Expect(ornament.TagRuby.Color().Hex()).To(Equal("#d6001c"))
		Expect(ornament.Tag(7).String()).To(Equal("unknown"))
	})
})

var _ = Describe("Frames", func() {
	geo := shape.DefaultGeometry()

	It("spreads frames up the trunk outside the cone", func() {
		frames, err := ornament.Frames(9, geo)
		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(HaveLen(9))

		Expect(frames[0].Pos.Y).To(BeNumerically("~", -geo.Height/2+1.2, 1e-9))
		for i, f := range frames {
			Expect(f.Index).To(Equal(i))
			Expect(math.Hypot(f.Pos.X, f.Pos.Z)).To(BeNumerically("~", geo.ConeRadius(f.Pos.Y)+0.5, 1e-9))
			if i > 0 {
				Expect(f.Pos.Y).To(BeNumerically(">", frames[i-1].Pos.Y))
			}
			Expect(f.Pos.Y).To(BeNumerically("<", geo.Height/2))
		}
	})

	It("faces each frame away from the trunk", func() {
		frames, err := ornament.Frames(9, geo)
		Expect(err).NotTo(HaveOccurred())
		for _, f := range frames {
			Expect(f.Normal.Length()).To(BeNumerically("~", 1, 1e-9))
			Expect(f.Normal.Y).To(BeZero())
			Expect(f.Normal.X*f.Pos.X + f.Normal.Z*f.Pos.Z).To(BeNumerically(">", 0))
		}
	})

	It("sways gently", func() {
		frames, _ := ornament.Frames(3, geo)
		for _, f := range frames {
			for _, t := range []float64{0, 0.7, 3.1, 12} {
				Expect(math.Abs(f.Sway(t))).To(BeNumerically("<=", 0.05))
			}
		}
	})

	It("rejects a negative count", func() {
		_, err := ornament.Frames(-2, geo)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})

var _ = Describe("Star", func() {
	It("sits above the apex and spins", func() {
		s := ornament.NewStar(shape.DefaultGeometry())
		Expect(s.Pos).To(Equal(cloud.Vec3{Y: 4.2}))

		yaw, roll := s.Spin(2)
		Expect(yaw).To(BeNumerically("~", 1.0, 1e-12))
		Expect(roll).To(BeNumerically("~", math.Sin(2)*0.1, 1e-12))
	})
})

var _ = Describe("Visibility", func() {
	It("starts fully shown", func() {
		v, err := ornament.NewVisibility(ornament.DefaultOrnamentRate)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Scale()).To(Equal(1.0))
		Expect(v.Visible()).To(BeTrue())
		Expect(v.Update(cloud.ModeSettled, 1.0/60)).To(Equal(1.0))
		Expect(v.Settling()).To(BeFalse())
	})

	It("hides within 1/rate seconds of dispersal", func() {
		v, _ := ornament.NewVisibility(4)
		prev := v.Scale()
		for i := 0; i < 16; i++ {
			s := v.Update(cloud.ModeDispersed, 1.0/60)
			Expect(s).To(BeNumerically("<=", prev))
			Expect(s).To(BeNumerically(">=", 0))
			prev = s
		}
		Expect(prev).To(BeNumerically("==", 0))
		Expect(v.Visible()).To(BeFalse())
		Expect(v.Settling()).To(BeFalse())
	})

	It("reverses mid-transition from the current scale", func() {
		v, _ := ornament.NewVisibility(3)
		for i := 0; i < 5; i++ {
			v.Update(cloud.ModeDispersed, 1.0/60)
		}
		mid := v.Scale()
		Expect(mid).To(BeNumerically(">", 0))
		Expect(mid).To(BeNumerically("<", 1))

		next := v.Update(cloud.ModeUnknown, 1.0/60)
		Expect(next).To(BeNumerically(">=", mid))
		for i := 0; i < 30; i++ {
			v.Update(cloud.ModeSettled, 1.0/60)
		}
		Expect(v.Scale()).To(Equal(1.0))
	})

	It("rejects a non-positive rate", func() {
		_, err := ornament.NewVisibility(0)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})
