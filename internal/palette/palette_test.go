package palette_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/palette"
)

var _ = Describe("TierFor", func() {
	DescribeTable("maps draws to tiers by threshold",
		func(r float64, want palette.Tier) {
			Expect(palette.TierFor(r)).To(Equal(want))
		},
		Entry("bottom", 0.0, palette.TierDepth),
		Entry("depth edge", 0.30, palette.TierDepth),
		Entry("body", 0.31, palette.TierBody),
		Entry("body edge", 0.75, palette.TierBody),
		Entry("highlight", 0.9, palette.TierHighlight),
		Entry("highlight edge", 0.96, palette.TierHighlight),
		Entry("accent", 0.97, palette.TierAccent),
	)
})

var _ = Describe("Assign", func() {
	It("matches the tier proportions over a large cloud", func() {
		colors, err := palette.Assign(rand.New(rand.NewSource(11)), 100000, palette.Evergreen)
		Expect(err).NotTo(HaveOccurred())
		Expect(colors.RGB).To(HaveLen(300000))

		got := colors.Proportions()
		want := [4]float64{0.30, 0.45, 0.21, 0.04}
		for i := range want {
			Expect(got[i]).To(BeNumerically("~", want[i], 0.02), palette.Tier(i).String())
		}
	})

	It("stores each particle's own copy of its tier color", func() {
		colors, err := palette.Assign(rand.New(rand.NewSource(12)), 500, palette.Evergreen)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < colors.Len(); i++ {
			want := palette.Evergreen.Colors[colors.Tiers[i]]
			got := colors.At(i)
			Expect(got.R).To(BeNumerically("~", want.R, 1e-6))
			Expect(got.G).To(BeNumerically("~", want.G, 1e-6))
			Expect(got.B).To(BeNumerically("~", want.B, 1e-6))
		}
	})

	It("reshuffles tiers on regeneration", func() {
		a, _ := palette.Assign(rand.New(rand.NewSource(13)), 1000, palette.Evergreen)
		b, _ := palette.Assign(rand.New(rand.NewSource(14)), 1000, palette.Evergreen)
		Expect(a.Tiers).NotTo(Equal(b.Tiers))
	})

	It("rejects non-positive counts", func() {
		_, err := palette.Assign(rand.New(rand.NewSource(1)), 0, palette.Evergreen)
		Expect(err).To(MatchError(cloud.ErrInvalidConfig))
	})
})

var _ = Describe("New", func() {
	It("rejects malformed hex colors", func() {
		_, err := palette.New("bad", "#000000", "not-a-color", "#ffffff", "#ffffff")
		Expect(err).To(HaveOccurred())
	})

	It("parses the evergreen gold accent", func() {
		gold := palette.Evergreen.Colors[palette.TierAccent]
		Expect(gold.Hex()).To(Equal("#ffd700"))
	})
})
