package shape_test

import (
	"io"
	"log/slog"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

// scripted replays fixed values, then repeats the last one forever.
type scripted struct {
	vals []float64
	i    int
}

func (s *scripted) Float64() float64 {
	v := s.vals[len(s.vals)-1]
	if s.i < len(s.vals) {
		v = s.vals[s.i]
	}
	s.i++
	return v
}

func horizontal(p cloud.Vec3) float64 {
	return math.Hypot(p.X, p.Z)
}

var _ = Describe("Tree", func() {
	geo := shape.DefaultGeometry()

	It("returns 3N finite numbers", func() {
		for _, n := range []int{1, 7, 100, 8000} {
			buf, err := shape.Tree(rand.New(rand.NewSource(1)), n, geo)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf).To(HaveLen(3 * n))
			Expect(buf.IsValid()).To(BeTrue())
		}
	})

	It("rejects non-positive counts and broken geometry", func() {
		_, err := shape.Tree(rand.New(rand.NewSource(1)), 0, geo)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))

		_, err = shape.Tree(rand.New(rand.NewSource(1)), 10, shape.Geometry{Height: 8, Radius: -1})
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))

		_, err = shape.Tree(rand.New(rand.NewSource(1)), 10, shape.Geometry{Height: math.NaN(), Radius: 1})
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})

	It("spans the configured height with increasing Y", func() {
		n := 1000
		buf, err := shape.Tree(rand.New(rand.NewSource(2)), n, geo)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.At(0).Y).To(BeNumerically("~", -geo.Height/2, 1e-6))
		for i := 1; i < n; i++ {
			Expect(buf.At(i).Y).To(BeNumerically(">", buf.At(i-1).Y))
		}
		Expect(buf.At(n - 1).Y).To(BeNumerically("<", geo.Height/2))
	})

	It("keeps the radius inside the cone plus jitter", func() {
		n := 4000
		buf, err := shape.Tree(rand.New(rand.NewSource(3)), n, geo)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < n; i++ {
			p := buf.At(i)
			bound := geo.ConeRadius(p.Y) + shape.RadiusJitter + 1e-5
			Expect(horizontal(p)).To(BeNumerically("<=", bound))
		}
	})

	It("tapers the silhouette law from R at the base to zero at the apex", func() {
		base := geo.HeightAt(0)
		for _, theta := range []float64{0, 1, 2, 3} {
			r := geo.SilhouetteRadius(base, theta)
			Expect(r).To(BeNumerically(">=", 0))
			Expect(r).To(BeNumerically("<=", geo.Radius))
		}
		apex := geo.HeightAt(1)
		Expect(geo.SilhouetteRadius(apex, 0.5)).To(BeNumerically("~", 0, 1e-12))
		Expect(geo.SilhouetteRadius(geo.HeightAt(0.999), 0.5)).To(BeNumerically("<", 0.01))
	})

	It("keeps macro structure across calls and varies only the jitter", func() {
		a, _ := shape.Tree(rand.New(rand.NewSource(4)), 500, geo)
		b, _ := shape.Tree(rand.New(rand.NewSource(5)), 500, geo)
		for i := 0; i < 500; i++ {
			pa, pb := a.At(i), b.At(i)
			Expect(pa.Y).To(Equal(pb.Y))
			Expect(math.Abs(horizontal(pa) - horizontal(pb))).To(BeNumerically("<=", 2*shape.RadiusJitter+1e-5))
		}
	})
})

var _ = Describe("Heart", func() {
	It("fills every slot inside the scaled sampling box", func() {
		buf, stalls, err := shape.Heart(rand.New(rand.NewSource(6)), 2000, shape.DefaultHeartAttempts)
		Expect(err).NotTo(HaveOccurred())
		Expect(stalls).To(BeZero())
		Expect(buf).To(HaveLen(6000))
		for i := 0; i < buf.Len(); i++ {
			p := buf.At(i)
			Expect(math.Abs(p.X)).To(BeNumerically("<=", 5))
			Expect(p.Y).To(BeNumerically(">=", -4))
			Expect(p.Y).To(BeNumerically("<=", 6))
			Expect(math.Abs(p.Z)).To(BeNumerically("<=", 2.5))
		}
	})

	It("falls back to the heart center when nothing is ever accepted", func() {
		buf, stalls, err := shape.Heart(&scripted{vals: []float64{0}}, 3, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(stalls).To(Equal(3))
		for i := 0; i < 3; i++ {
			Expect(buf.At(i)).To(Equal(cloud.Vec3{X: 0, Y: 1, Z: 0}))
		}
	})

	It("falls back to the last accepted sample after a stall", func() {
		// first particle lands on the origin, every later draw is a box corner
		buf, stalls, err := shape.Heart(&scripted{vals: []float64{0.5, 0.5, 0.5, 0}}, 2, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(stalls).To(Equal(1))
		Expect(buf.At(1)).To(Equal(buf.At(0)))
	})

	It("rejects a non-positive attempt cap", func() {
		_, _, err := shape.Heart(rand.New(rand.NewSource(1)), 10, 0)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})

var _ = Describe("Text", func() {
	opts := shape.DefaultTextOptions()

	It("rasterizes lit pixels into the world rectangle", func() {
		candidates, err := shape.TextCandidates(rand.New(rand.NewSource(7)), "NOEL", opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).NotTo(BeEmpty())
		for _, c := range candidates {
			Expect(math.Abs(c.X)).To(BeNumerically("<=", opts.WorldWidth/2))
			Expect(math.Abs(c.Y)).To(BeNumerically("<=", opts.WorldHeight/2))
			Expect(math.Abs(c.Z)).To(BeNumerically("<=", opts.Depth/2))
		}
	})

	It("reuses candidates cyclically to fill every slot", func() {
		candidates, err := shape.TextCandidates(rand.New(rand.NewSource(8)), "HI", opts)
		Expect(err).NotTo(HaveOccurred())
		n := len(candidates)*2 + 5

		buf, err := shape.Text(rand.New(rand.NewSource(8)), n, "HI", opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Len()).To(Equal(n))
		for i := 0; i < n; i++ {
			want := cloud.NewBuffer(1)
			want.Set(0, candidates[i%len(candidates)])
			Expect(buf.At(i)).To(Equal(want.At(0)))
		}
	})

	It("reports degenerate input instead of an empty buffer", func() {
		_, err := shape.Text(rand.New(rand.NewSource(1)), 10, "   ", opts)
		Expect(err).To(MatchError(cloud.ErrEmptyText))

		dark := opts
		dark.Threshold = 255
		_, err = shape.Text(rand.New(rand.NewSource(1)), 10, "X", dark)
		Expect(err).To(MatchError(cloud.ErrNoCandidates))
	})
})

var _ = Describe("Library", func() {
	var lib *shape.Library

	BeforeEach(func() {
		var err error
		lib, err = shape.NewLibrary(rand.New(rand.NewSource(9)), shape.LibraryConfig{
			Count:    600,
			Geometry: shape.DefaultGeometry(),
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("builds each silhouette once", func() {
		t1, t2 := lib.Tree(), lib.Tree()
		Expect(&t1[0]).To(BeIdenticalTo(&t2[0]))

		h1, h2 := lib.Heart(), lib.Get(shape.KindHeart, "")
		Expect(&h1[0]).To(BeIdenticalTo(&h2[0]))
		Expect(lib.Builds()).To(Equal(2))
	})

	It("falls back to the tree for degenerate text", func() {
		tree := lib.Tree()
		txt := lib.Text("")
		Expect(&txt[0]).To(BeIdenticalTo(&tree[0]))
		Expect(lib.Keys()).To(ContainElement("text:"))
	})

	It("keeps every silhouette index-aligned with the particle count", func() {
		for _, buf := range []cloud.Buffer{lib.Tree(), lib.Heart(), lib.Text("JOY")} {
			Expect(buf.Len()).To(Equal(lib.Count()))
		}
	})

	It("fails fast on invalid configuration", func() {
		_, err := shape.NewLibrary(rand.New(rand.NewSource(1)), shape.LibraryConfig{Count: -1, Geometry: shape.DefaultGeometry()})
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})

	It("parses silhouette names", func() {
		k, err := shape.ParseKind("Heart")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(shape.KindHeart))
		k, err = shape.ParseKind("")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(shape.KindTree))
		_, err = shape.ParseKind("star")
		Expect(err).To(HaveOccurred())
	})
})
