package shape

import (
	"image"
	"strings"
	"sync"

	"github.com/san-kum/snowglobe/internal/cloud"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextOptions controls rasterization and the mapping of lit pixels into world
// coordinates.
type TextOptions struct {
	FontSize    float64 `yaml:"font_size"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Stride      int     `yaml:"stride"`
	Threshold   uint8   `yaml:"threshold"`
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`
	Depth       float64 `yaml:"depth"`
}

func DefaultTextOptions() TextOptions {
	return TextOptions{
		FontSize:    60,
		Width:       500,
		Height:      150,
		Stride:      3,
		Threshold:   128,
		WorldWidth:  15,
		WorldHeight: 4.5,
		Depth:       0.2,
	}
}

func (o TextOptions) Validate() error {
	switch {
	case o.FontSize <= 0:
		return cloud.InvalidConfig("text.font_size", o.FontSize)
	case o.Width <= 0:
		return cloud.InvalidConfig("text.width", o.Width)
	case o.Height <= 0:
		return cloud.InvalidConfig("text.height", o.Height)
	case o.Stride <= 0:
		return cloud.InvalidConfig("text.stride", o.Stride)
	}
	return nil
}

var boldFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

// Rasterize draws text white-on-black, centered, into a fresh grayscale
// surface. The font face is released before returning.
func Rasterize(text string, opts TextOptions) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f, err := boldFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	img := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	d := &font.Drawer{Dst: img, Src: image.White, Face: face}

	m := face.Metrics()
	advance := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(opts.Width) - advance) / 2,
		Y: fixed.I(opts.Height/2) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(text)
	return img, nil
}

// TextCandidates samples the rasterized text at a fixed stride and maps every
// pixel brighter than the threshold into world X/Y with a small Z jitter.
func TextCandidates(rng cloud.Rand, text string, opts TextOptions) ([]cloud.Vec3, error) {
	if strings.TrimSpace(text) == "" {
		return nil, cloud.ErrEmptyText
	}
	img, err := Rasterize(text, opts)
	if err != nil {
		return nil, err
	}

	w, h := float64(opts.Width), float64(opts.Height)
	var candidates []cloud.Vec3
	for py := 0; py < opts.Height; py += opts.Stride {
		for px := 0; px < opts.Width; px += opts.Stride {
			if img.GrayAt(px, py).Y <= opts.Threshold {
				continue
			}
			candidates = append(candidates, cloud.Vec3{
				X: (float64(px)/w - 0.5) * opts.WorldWidth,
				Y: -(float64(py)/h - 0.5) * opts.WorldHeight,
				Z: (rng.Float64() - 0.5) * opts.Depth,
			})
		}
	}
	if len(candidates) == 0 {
		return nil, cloud.ErrNoCandidates
	}
	return candidates, nil
}

// Text fills count slots from the text candidates, reusing them cyclically
// when the text has fewer lit samples than particles.
func Text(rng cloud.Rand, count int, text string, opts TextOptions) (cloud.Buffer, error) {
	if count <= 0 {
		return nil, cloud.InvalidConfig("particles", count)
	}
	candidates, err := TextCandidates(rng, text, opts)
	if err != nil {
		return nil, err
	}

	points := cloud.NewBuffer(count)
	for i := 0; i < count; i++ {
		points.Set(i, candidates[i%len(candidates)])
	}
	return points, nil
}
