package morph_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/morph"
	"github.com/san-kum/snowglobe/internal/shape"
)

const frame = 1.0 / 60

func newEngine(n int, seed int64, params morph.Params) *morph.Engine {
	rng := rand.New(rand.NewSource(seed))
	target, err := shape.Tree(rng, n, shape.DefaultGeometry())
	Expect(err).NotTo(HaveOccurred())
	vel, err := morph.NewVelocityField(rng, n, params.Velocity)
	Expect(err).NotTo(HaveOccurred())
	eng, err := morph.New(target, vel, params)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

var _ = Describe("VelocityField", func() {
	It("draws every axis inside the amplitude", func() {
		v, err := morph.NewVelocityField(rand.New(rand.NewSource(1)), 5000, 0.075)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(15000))
		for _, c := range v {
			Expect(math.Abs(float64(c))).To(BeNumerically("<=", 0.075))
		}
	})

	It("rejects invalid sizes", func() {
		_, err := morph.NewVelocityField(rand.New(rand.NewSource(1)), 0, 0.075)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
		_, err = morph.NewVelocityField(rand.New(rand.NewSource(1)), 10, -1)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})

var _ = Describe("Engine construction", func() {
	It("seeds the live buffer from the target", func() {
		eng := newEngine(300, 1, morph.DefaultParams())
		Expect(eng.Live()).To(Equal(eng.Target()))
		Expect(&eng.Live()[0]).NotTo(BeIdenticalTo(&eng.Target()[0]))
	})

	It("rejects misaligned buffers", func() {
		_, err := morph.New(cloud.NewBuffer(10), cloud.NewBuffer(9), morph.DefaultParams())
		Expect(err).To(MatchError(cloud.ErrLengthMismatch))

		_, err = morph.New(cloud.Buffer{}, cloud.Buffer{}, morph.DefaultParams())
		Expect(err).To(MatchError(cloud.ErrLengthMismatch))
	})

	DescribeTable("rejects invalid motion parameters",
		func(mutate func(*morph.Params)) {
			p := morph.DefaultParams()
			mutate(&p)
			_, err := morph.New(cloud.NewBuffer(4), cloud.NewBuffer(4), p)
			Expect(err).To(MatchError(cloud.ErrInvalidConfig))
		},
		Entry("zero lerp", func(p *morph.Params) { p.LerpFactor = 0 }),
		Entry("lerp above one", func(p *morph.Params) { p.LerpFactor = 1.5 }),
		Entry("inverted band", func(p *morph.Params) { p.WrapLow, p.WrapHigh = 12, -6 }),
		Entry("reset outside band", func(p *morph.Params) { p.WrapLowReset = 20 }),
		Entry("no reference fps", func(p *morph.Params) { p.FrameRateIndependent, p.ReferenceFPS = true, 0 }),
	)
})

var _ = Describe("Settled kinematics", func() {
	It("stays within the shimmer amplitude of the target indefinitely", func() {
		eng := newEngine(2000, 2, morph.DefaultParams())
		target := eng.Target()
		for step := 0; step < 600; step++ {
			eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
		}
		live := eng.Live()
		for i := range live {
			Expect(math.Abs(float64(live[i] - target[i]))).To(BeNumerically("<=", morph.DefaultShimmer+1e-4))
		}
	})

	It("converges monotonically from the origin", func() {
		p := morph.DefaultParams()
		p.Shimmer = 0
		eng := newEngine(2000, 3, p)
		Expect(eng.Load(cloud.NewBuffer(2000))).To(Succeed())

		initial := cloud.MeanDistance(eng.Live(), eng.Target())
		prev := initial
		for step := 0; step < 60; step++ {
			eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
			d := cloud.MeanDistance(eng.Live(), eng.Target())
			Expect(d).To(BeNumerically("<", prev))
			prev = d
		}
		for step := 60; step < 150; step++ {
			eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
		}
		Expect(cloud.MeanDistance(eng.Live(), eng.Target())).To(BeNumerically("<", 0.01*initial))
	})

	It("converges within 1% with the shimmer on", func() {
		eng := newEngine(2000, 4, morph.DefaultParams())
		Expect(eng.Load(cloud.NewBuffer(2000))).To(Succeed())
		initial := cloud.MeanDistance(eng.Live(), eng.Target())
		for step := 0; step < 150; step++ {
			eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
		}
		Expect(cloud.MeanDistance(eng.Live(), eng.Target())).To(BeNumerically("<", 0.01*initial+morph.DefaultShimmer))
	})

	It("treats unknown modes as settled", func() {
		a := newEngine(500, 5, morph.DefaultParams())
		b := newEngine(500, 5, morph.DefaultParams())
		zero := cloud.NewBuffer(500)
		Expect(a.Load(zero)).To(Succeed())
		Expect(b.Load(zero)).To(Succeed())
		for step := 0; step < 20; step++ {
			a.Step(cloud.ModeSettled, frame, float64(step)*frame)
			b.Step(cloud.ModeUnknown, frame, float64(step)*frame)
		}
		Expect(a.Live()).To(Equal(b.Live()))
		c := newEngine(500, 5, morph.DefaultParams())
		c.Step(cloud.Mode(99), frame, 0)
		Expect(c.Live().IsValid()).To(BeTrue())
	})

	It("homes toward a new target after retargeting", func() {
		eng := newEngine(800, 6, morph.DefaultParams())
		heart, _, err := shape.Heart(rand.New(rand.NewSource(6)), 800, shape.DefaultHeartAttempts)
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Retarget(heart)).To(Succeed())
		for step := 0; step < 200; step++ {
			eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
		}
		Expect(cloud.MeanDistance(eng.Live(), heart)).To(BeNumerically("<", 0.01))

		Expect(eng.Retarget(cloud.NewBuffer(3))).To(MatchError(cloud.ErrLengthMismatch))
	})
})

var _ = Describe("Dispersed kinematics", func() {
	It("wraps particles leaving the vertical band to the exact reset heights", func() {
		target := cloud.NewBuffer(2)
		vel := cloud.Buffer{0, 0.075, 0, 0, -0.075, 0}
		eng, err := morph.New(target, vel, morph.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Load(cloud.Buffer{0, 11.95, 0, 0, -5.95, 0})).To(Succeed())

		eng.Step(cloud.ModeDispersed, frame, 0)
		Expect(eng.Live()[1]).To(Equal(float32(-5)))
		Expect(eng.Live()[4]).To(Equal(float32(10)))
	})

	It("never lets Y escape the band", func() {
		p := morph.DefaultParams()
		eng := newEngine(3000, 7, p)
		for step := 0; step < 2000; step++ {
			eng.Step(cloud.ModeDispersed, frame, float64(step)*frame)
			live := eng.Live()
			for i := 1; i < len(live); i += 3 {
				y := float64(live[i])
				Expect(y).To(BeNumerically(">=", p.WrapLow))
				Expect(y).To(BeNumerically("<=", p.WrapHigh))
			}
		}
	})

	It("adds the stored velocity and a swirl on X", func() {
		target := cloud.NewBuffer(1)
		vel := cloud.Buffer{0.01, 0.02, 0.03}
		eng, err := morph.New(target, vel, morph.DefaultParams())
		Expect(err).NotTo(HaveOccurred())

		elapsed := 1.3
		eng.Step(cloud.ModeDispersed, frame, elapsed)
		p := eng.Live().At(0)
		Expect(p.Y).To(BeNumerically("~", 0.02, 1e-6))
		Expect(p.Z).To(BeNumerically("~", 0.03, 1e-6))
		Expect(p.X).To(BeNumerically("~", 0.01+math.Sin(elapsed+0.02)*morph.DefaultSwirl, 1e-6))
	})

	It("replays the same velocities on every dispersal", func() {
		eng := newEngine(400, 8, morph.DefaultParams())
		before := eng.Velocity().Clone()
		for round := 0; round < 3; round++ {
			for step := 0; step < 30; step++ {
				eng.Step(cloud.ModeDispersed, frame, float64(step)*frame)
			}
			for step := 0; step < 30; step++ {
				eng.Step(cloud.ModeSettled, frame, float64(step)*frame)
			}
		}
		Expect(eng.Velocity()).To(Equal(before))
	})
})

var _ = Describe("Mode switching", func() {
	It("never mutates state without a step", func() {
		eng := newEngine(300, 9, morph.DefaultParams())
		for step := 0; step < 10; step++ {
			eng.Step(cloud.ModeDispersed, frame, float64(step)*frame)
		}
		snapshot := eng.Live().Clone()

		mode := cloud.ModeSettled
		mode = cloud.ModeDispersed
		mode = cloud.ModeSettled
		_ = mode

		Expect(eng.Live()).To(Equal(snapshot))
		Expect(eng.Steps()).To(Equal(10))
	})

	It("continues from the current positions when the mode flips", func() {
		eng := newEngine(300, 10, morph.DefaultParams())
		for step := 0; step < 40; step++ {
			eng.Step(cloud.ModeDispersed, frame, float64(step)*frame)
		}
		scattered := cloud.MeanDistance(eng.Live(), eng.Target())
		eng.Step(cloud.ModeSettled, frame, 0)
		after := cloud.MeanDistance(eng.Live(), eng.Target())
		Expect(after).To(BeNumerically("~", scattered*(1-morph.DefaultLerpFactor), scattered*0.05))
	})
})

var _ = Describe("Frame-rate independence", func() {
	It("gives the same homing for one long frame as for two half frames", func() {
		p := morph.DefaultParams()
		p.Shimmer = 0
		p.FrameRateIndependent = true

		a := newEngine(500, 11, p)
		b := newEngine(500, 11, p)
		zero := cloud.NewBuffer(500)
		Expect(a.Load(zero)).To(Succeed())
		Expect(b.Load(zero)).To(Succeed())

		a.Step(cloud.ModeSettled, 1.0/60, 0)
		b.Step(cloud.ModeSettled, 1.0/120, 0)
		b.Step(cloud.ModeSettled, 1.0/120, 0)

		for i := range a.Live() {
			Expect(a.Live()[i]).To(BeNumerically("~", b.Live()[i], 1e-5))
		}
	})

	It("keeps fixed per-call increments by default", func() {
		a := newEngine(200, 12, morph.DefaultParams())
		b := newEngine(200, 12, morph.DefaultParams())
		a.Step(cloud.ModeDispersed, 1.0/30, 0.5)
		b.Step(cloud.ModeDispersed, 1.0/144, 0.5)
		Expect(a.Live()).To(Equal(b.Live()))
	})
})

var _ = Describe("Parallel stepping", func() {
	It("matches the serial result exactly", func() {
		serial := morph.DefaultParams()
		parallel := morph.DefaultParams()
		parallel.Workers = 4

		a := newEngine(6000, 13, serial)
		b := newEngine(6000, 13, parallel)
		for step := 0; step < 50; step++ {
			mode := cloud.ModeDispersed
			if step%20 >= 10 {
				mode = cloud.ModeSettled
			}
			a.Step(mode, frame, float64(step)*frame)
			b.Step(mode, frame, float64(step)*frame)
		}
		Expect(a.Live()).To(Equal(b.Live()))
	})
})
