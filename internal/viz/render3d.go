package viz

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/snowglobe/internal/cloud"
)

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position, Target cloud.Vec3
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	// Extent is the world span that fills the shorter screen side at zoom 1.
	Extent float64
}

func NewCamera() *Camera {
	return &Camera{Position: cloud.Vec3{Z: 50}, Target: cloud.Vec3{Y: 0.5}, Near: 0.1, Zoom: 1.0, Extent: 11}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p cloud.Vec3) cloud.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to sub-pixel screen coordinates.
// Returns x, y, depth (larger is nearer), and visibility.
func (c *Camera) Project(p cloud.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Sub(c.Target)).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / c.Extent
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End cloud.Vec3
	Color      colorful.Color
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e cloud.Vec3, c colorful.Color) {
	w.Edges = append(w.Edges, Edge{s, e, c})
}
func (w *Wireframe) AddPoint(p cloud.Vec3, c colorful.Color) {
	w.Edges = append(w.Edges, Edge{p, p, c})
}
func (w *Wireframe) Clear() { w.Edges = w.Edges[:0] }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Color          colorful.Color
}

// Render3D draws the wireframe to the canvas far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		c.DrawLine(e.X1, e.Y1, e.X2, e.Y2, e.Depth, e.Color)
	}
}

// Octahedron adds a star shaped double pyramid centered on center, spun by
// yaw around Y and roll around Z.
func (w *Wireframe) Octahedron(center cloud.Vec3, size, yaw, roll float64, c colorful.Color) {
	v := []cloud.Vec3{{X: size}, {X: -size}, {Y: size}, {Y: -size}, {Z: size}, {Z: -size}}
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cr, sr := math.Cos(roll), math.Sin(roll)
	for i, p := range v {
		p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
		p.X, p.Y = p.X*cr-p.Y*sr, p.X*sr+p.Y*cr
		v[i] = p.Add(center)
	}
	ei := [][2]int{{0, 2}, {0, 3}, {0, 4}, {0, 5}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {2, 4}, {4, 3}, {3, 5}, {5, 2}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]], c)
	}
}

// Panel adds a rectangle of the given half extents centered on center and
// facing along normal, rolled by roll radians.
func (w *Wireframe) Panel(center, normal cloud.Vec3, halfW, halfH, roll float64, c colorful.Color) {
	side := cloud.Vec3{X: -normal.Z, Z: normal.X}.Normalize()
	up := cloud.Vec3{Y: 1}
	cr, sr := math.Cos(roll), math.Sin(roll)
	u := side.Scale(cr).Add(up.Scale(sr)).Scale(halfW)
	v := up.Scale(cr).Sub(side.Scale(sr)).Scale(halfH)
	corners := []cloud.Vec3{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}
	for i := range corners {
		w.AddEdge(corners[i], corners[(i+1)%4], c)
	}
}
