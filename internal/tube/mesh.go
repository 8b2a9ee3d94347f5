package tube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Mesh struct {
	Vertices []mgl64.Vec3
	Normals  []mgl64.Vec3
	UVs      []mgl64.Vec2
	// Indices holds one triple per triangle.
	Indices []uint32
	// Rings is the number of cross-section rings, one per centerline point.
	Rings int
}

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

func (m *Mesh) reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.UVs = m.UVs[:0]
	m.Indices = m.Indices[:0]
	m.Rings = 0
}

// AABB is an axis-aligned bounding box. The zero value is empty.
type AABB struct {
	Min, Max mgl64.Vec3
	valid    bool
}

func (b AABB) Empty() bool { return !b.valid }

func (b *AABB) Extend(p mgl64.Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	for k := 0; k < 3; k++ {
		b.Min[k] = math.Min(b.Min[k], p[k])
		b.Max[k] = math.Max(b.Max[k], p[k])
	}
}

// Grow pads the box by r on every side.
func (b AABB) Grow(r float64) AABB {
	if !b.valid {
		return b
	}
	pad := mgl64.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad), valid: true}
}

func (b AABB) Center() mgl64.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

func (b AABB) Size() mgl64.Vec3 { return b.Max.Sub(b.Min) }

// PointsBounds is the box around a set of points.
func PointsBounds(points []mgl64.Vec3) AABB {
	var b AABB
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

func (m *Mesh) Bounds() AABB {
	return PointsBounds(m.Vertices)
}

// MirrorFlip reports whether a transform with the given per-axis scale
// mirrors geometry, which inverts triangle winding.
func MirrorFlip(scale mgl64.Vec3) bool {
	return scale.X()*scale.Y()*scale.Z() < 0
}
