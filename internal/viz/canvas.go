package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid. Each cell also carries the color of the
// nearest dot plotted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Color         [][]colorful.Color
	Depth         [][]float64

	styles map[string]lipgloss.Style
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Color:  make([][]colorful.Color, h),
		Depth:  make([][]float64, h),
		styles: make(map[string]lipgloss.Style),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Color[i] = make([]colorful.Color, w)
		c.Depth[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// cell maps sub-pixel coordinates to a cell and its dot mask. The canvas size
// in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) cell(x, y int) (row, col int, mask rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Set lights a dot without touching the cell color.
func (c *Canvas) Set(x, y int) {
	if row, col, mask, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= mask
	}
}

// Plot lights a dot and takes over the cell color when depth is nearer
// (larger) than anything already plotted there.
func (c *Canvas) Plot(x, y int, depth float64, col colorful.Color) {
	row, cl, mask, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] |= mask
	if depth >= c.Depth[row][cl] {
		c.Depth[row][cl] = depth
		c.Color[row][cl] = col
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Depth[i][j] = math.Inf(-1)
			c.Color[i][j] = colorful.Color{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, depth float64, col colorful.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Plot(x0, y0, depth, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dots reports how many dots are lit.
func (c *Canvas) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for p := r - blank; p != 0; p &= p - 1 {
				n++
			}
		}
	}
	return n
}

// String renders the grid without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render draws the grid with each lit cell in its color.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if r == blank {
				b.WriteRune(r)
				continue
			}
			b.WriteString(c.style(c.Color[i][j]).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) style(col colorful.Color) lipgloss.Style {
	hex := col.Clamped().Hex()
	s, ok := c.styles[hex]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		c.styles[hex] = s
	}
	return s
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
