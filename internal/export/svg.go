package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/snowglobe/internal/palette"
	"github.com/san-kum/snowglobe/internal/scene"
	"github.com/san-kum/snowglobe/internal/viz"
)

const background = "#001a14"

// braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func header(sb *strings.Builder, width, height float64, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// the color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height, background)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			fill := canvas.Color[row][col].Clamped().Hex()
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type dot struct {
	x, y, depth, r float64
	fill           string
}

// CloudToSVG projects the live particles and, once visible, the ornaments
// of a session through cam. Dots are painted far to near.
func CloudToSVG(s *scene.Session, cam *viz.Camera, width, height int) string {
	if s == nil || cam == nil || width <= 0 || height <= 0 {
		return ""
	}

	live := s.Live()
	colors := s.Colors()
	dots := make([]dot, 0, live.Len()+len(s.Anchors()))

	for i := 0; i < live.Len(); i++ {
		x, y, d, ok := cam.Project(live.At(i), width, height)
		if !ok {
			continue
		}
		dots = append(dots, dot{float64(x), float64(y), d, 0.8, colors.At(i).Clamped().Hex()})
	}

	decor := s.Decor()
	if decor.Baubles > 0.5 {
		for _, a := range s.Anchors() {
			x, y, d, ok := cam.Project(a.Pos, width, height)
			if !ok {
				continue
			}
			dots = append(dots, dot{float64(x), float64(y), d + 0.5, 2.5 * decor.Baubles, a.Tag.Color().Hex()})
		}
	}
	if decor.Star > 0.5 {
		if x, y, d, ok := cam.Project(s.Star().Pos, width, height); ok {
			dots = append(dots, dot{float64(x), float64(y), d + 1, 5 * decor.Star, strings.ToLower(palette.Gold)})
		}
	}

	sort.SliceStable(dots, func(i, j int) bool { return dots[i].depth < dots[j].depth })

	var sb strings.Builder
	header(&sb, float64(width), float64(height), background)
	for _, p := range dots {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, p.x, p.y, p.r, p.fill)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots a per-frame metric such as mean distance as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height), "#0a0a0a")
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, t := range times {
		x := (t - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
