package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/tube"
)

// Camera orbits a target and projects world points onto the canvas.
type Camera struct {
	Target     mgl64.Vec3
	Distance   float64
	Near       float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 12, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// view rotates p about the target into camera space.
func (c *Camera) view(p mgl64.Vec3) mgl64.Vec3 {
	q := mgl64.QuatRotate(c.RotY, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(c.RotX, mgl64.Vec3{1, 0, 0}))
	return q.Rotate(p.Sub(c.Target)).Mul(c.Zoom)
}

// Project converts world coordinates to canvas sub-pixels of a sw by sh
// canvas. It returns x, y, depth and whether the point lands on the canvas.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.view(p)
	if rot.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z())
	pScale := float64(min(sw, sh)) / 6.0
	sx := int(rot.X()*scale*pScale) + sw/2
	sy := int(-rot.Y()*scale*pScale) + sh/2
	return sx, sy, rot.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// Extend appends other's edges to w.
func (w *Wireframe) Extend(other *Wireframe) *Wireframe {
	w.Edges = append(w.Edges, other.Edges...)
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// RopeWireframe joins consecutive points along intact edges.
func RopeWireframe(points []mgl64.Vec3, mask []bool) *Wireframe {
	w := NewWireframe()
	for i := 0; i+1 < len(points); i++ {
		if i < len(mask) && !mask[i] {
			continue
		}
		w.AddEdge(points[i], points[i+1])
	}
	return w
}

// MeshWireframe draws every triangle edge of the mesh. Shared edges are
// drawn twice, which the canvas absorbs.
func MeshWireframe(m *tube.Mesh) *Wireframe {
	w := NewWireframe()
	if m == nil {
		return w
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		w.AddEdge(a, b)
		w.AddEdge(b, c)
		w.AddEdge(c, a)
	}
	return w
}

// SphereWireframe draws three great circles.
func SphereWireframe(center mgl64.Vec3, radius float64, segments int) *Wireframe {
	w := NewWireframe()
	segments = max(segments, 6)
	axes := [3][2]mgl64.Vec3{
		{{1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {0, 0, 1}},
		{{0, 1, 0}, {0, 0, 1}},
	}
	for _, ax := range axes {
		prev := center.Add(ax[0].Mul(radius))
		for s := 1; s <= segments; s++ {
			a := 2 * math.Pi * float64(s) / float64(segments)
			p := center.Add(ax[0].Mul(radius * math.Cos(a))).Add(ax[1].Mul(radius * math.Sin(a)))
			w.AddEdge(prev, p)
			prev = p
		}
	}
	return w
}

// AxesWireframe draws the x, y and z axes of length l from o.
func AxesWireframe(o mgl64.Vec3, l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(o, o.Add(mgl64.Vec3{l, 0, 0}))
	w.AddEdge(o, o.Add(mgl64.Vec3{0, l, 0}))
	w.AddEdge(o, o.Add(mgl64.Vec3{0, 0, l}))
	return w
}
