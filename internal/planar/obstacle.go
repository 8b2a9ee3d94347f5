package planar

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/collide"
)

// ShapeObstacle adapts a Chipmunk shape to collide.Obstacle. Queries use the
// XY components and the contact keeps the query's Z.
type ShapeObstacle struct {
	Shape *cp.Shape
	// Outline is a polyline tracing the shape, for drawing.
	Outline []mgl64.Vec2
}

func (o *ShapeObstacle) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	info := o.Shape.PointQuery(cp.Vector{X: p.X(), Y: p.Y()})
	point := mgl64.Vec3{info.Point.X, info.Point.Y, p.Z()}
	normal := chain.SafeNormalize(mgl64.Vec3{info.Gradient.X, info.Gradient.Y, 0}, mgl64.Vec3{0, 1, 0})
	return point, normal, info.Distance < 0
}

func (o *ShapeObstacle) SphereCast(from, to mgl64.Vec3, radius float64) (collide.Hit, bool) {
	a := cp.Vector{X: from.X(), Y: from.Y()}
	b := cp.Vector{X: to.X(), Y: to.Y()}
	if a.Distance(b) < chain.Epsilon {
		return collide.Hit{}, false
	}
	if o.Shape.PointQuery(a).Distance-radius <= 0 {
		return collide.Hit{}, false
	}

	var info cp.SegmentQueryInfo
	if !o.Shape.SegmentQuery(a, b, radius, &info) {
		return collide.Hit{}, false
	}
	z := from.Z() + (to.Z()-from.Z())*info.Alpha
	return collide.Hit{
		Point:    mgl64.Vec3{info.Point.X, info.Point.Y, z},
		Normal:   chain.SafeNormalize(mgl64.Vec3{info.Normal.X, info.Normal.Y, 0}, mgl64.Vec3{0, 1, 0}),
		Fraction: info.Alpha,
	}, true
}
