// Package planar hosts 2D level geometry in a Chipmunk space and offers it
// to ropes as extruded obstacles.
//
// Shapes live in the XY plane and extend infinitely along Z. The space is
// only used for its static spatial index and per-shape queries; nothing in
// it is ever stepped.
package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/ropesim/internal/collide"
)

const outlineSegments = 16

type World struct {
	space     *cp.Space
	obstacles []*ShapeObstacle
}

func NewWorld() *World {
	return &World{space: cp.NewSpace()}
}

func (w *World) add(shape *cp.Shape, outline []mgl64.Vec2) *ShapeObstacle {
	o := &ShapeObstacle{Shape: shape, Outline: outline}
	shape.UserData = o
	w.space.AddShape(shape)
	w.obstacles = append(w.obstacles, o)
	return o
}

// AddBox adds a rectangle spanning min..max, with corners rounded by radius.
func (w *World) AddBox(min, max mgl64.Vec2, radius float64) *ShapeObstacle {
	bb := cp.BB{L: min.X(), B: min.Y(), R: max.X(), T: max.Y()}
	outline := []mgl64.Vec2{min, {max.X(), min.Y()}, max, {min.X(), max.Y()}, min}
	return w.add(cp.NewBox2(w.space.StaticBody, bb, radius), outline)
}

func (w *World) AddCircle(center mgl64.Vec2, radius float64) *ShapeObstacle {
	outline := make([]mgl64.Vec2, outlineSegments+1)
	for i := range outline {
		a := 2 * math.Pi * float64(i) / outlineSegments
		outline[i] = center.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(radius))
	}
	return w.add(cp.NewCircle(w.space.StaticBody, radius, vec(center)), outline)
}

// AddSegment adds a thick line from a to b.
func (w *World) AddSegment(a, b mgl64.Vec2, radius float64) *ShapeObstacle {
	return w.add(cp.NewSegment(w.space.StaticBody, vec(a), vec(b), radius), []mgl64.Vec2{a, b})
}

func (w *World) Len() int { return len(w.obstacles) }

// Obstacles lists the shapes in insertion order.
func (w *World) Obstacles() []*ShapeObstacle { return w.obstacles }

// Query offers every shape whose bounding box overlaps the XY footprint of
// the sphere around center.
func (w *World) Query(center mgl64.Vec3, radius float64, out *collide.Candidates) {
	bb := cp.BB{
		L: center.X() - radius,
		B: center.Y() - radius,
		R: center.X() + radius,
		T: center.Y() + radius,
	}
	w.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		if o, ok := shape.UserData.(*ShapeObstacle); ok {
			data.(*collide.Candidates).Add(o)
		}
	}, out)
}

func vec(v mgl64.Vec2) cp.Vector { return cp.Vector{X: v.X(), Y: v.Y()} }
