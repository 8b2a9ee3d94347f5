// Package collide keeps rope points out of obstacles.
//
// Obstacles are opaque to the resolvers: they only answer closest-point and
// swept-sphere queries. The broadphase that picks which obstacles are worth
// asking lives outside this package and fills a fixed-capacity [Candidates]
// buffer.
package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
)

// Hit describes the first contact of a swept sphere. Point lies on the
// obstacle surface and Normal points away from the obstacle. Fraction is in
// [0, 1] along the sweep.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64
}

type Obstacle interface {
	// ClosestPoint returns the surface point nearest to p, the outward
	// normal there and whether p lies inside the obstacle.
	ClosestPoint(p mgl64.Vec3) (point, normal mgl64.Vec3, inside bool)
	// SphereCast sweeps a sphere of the given radius from one centre to
	// another. Sweeps that start overlapping the obstacle report no hit.
	SphereCast(from, to mgl64.Vec3, radius float64) (Hit, bool)
}

var up = mgl64.Vec3{0, 1, 0}

// signedDistance is negative inside the obstacle.
func signedDistance(o Obstacle, p mgl64.Vec3) (float64, mgl64.Vec3, mgl64.Vec3) {
	q, n, inside := o.ClosestPoint(p)
	d := p.Sub(q).Len()
	if inside {
		d = -d
	}
	return d, q, n
}

const (
	marchSteps     = 64
	marchTolerance = 1e-5
)

// march sphere-traces from→to against a convex obstacle using its closest
// point query as the distance bound.
func march(o Obstacle, from, to mgl64.Vec3, radius float64) (Hit, bool) {
	dir := to.Sub(from)
	length := dir.Len()
	if length < chain.Epsilon {
		return Hit{}, false
	}
	d0, _, _ := signedDistance(o, from)
	if d0-radius <= 0 {
		return Hit{}, false
	}

	t := 0.0
	for i := 0; i < marchSteps; i++ {
		p := from.Add(dir.Mul(t / length))
		d, q, n := signedDistance(o, p)
		gap := d - radius
		if gap < marchTolerance {
			return Hit{Point: q, Normal: n, Fraction: t / length}, true
		}
		t += gap
		if t > length {
			return Hit{}, false
		}
	}
	return Hit{}, false
}

// Sphere is a solid ball.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	d := p.Sub(s.Center)
	n := chain.SafeNormalize(d, up)
	return s.Center.Add(n.Mul(s.Radius)), n, d.Len() < s.Radius
}

func (s Sphere) SphereCast(from, to mgl64.Vec3, radius float64) (Hit, bool) {
	dir := to.Sub(from)
	a := dir.Dot(dir)
	if a < chain.Epsilon*chain.Epsilon {
		return Hit{}, false
	}
	r := s.Radius + radius
	m := from.Sub(s.Center)
	c := m.Dot(m) - r*r
	if c <= 0 {
		return Hit{}, false
	}
	b := m.Dot(dir)
	if b >= 0 {
		return Hit{}, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return Hit{}, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t < 0 || t > 1 {
		return Hit{}, false
	}
	center := from.Add(dir.Mul(t))
	n := chain.SafeNormalize(center.Sub(s.Center), up)
	return Hit{Point: s.Center.Add(n.Mul(s.Radius)), Normal: n, Fraction: t}, true
}

// Plane is the solid half-space behind Normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func NewPlane(point, normal mgl64.Vec3) Plane {
	return Plane{Point: point, Normal: chain.SafeNormalize(normal, up)}
}

func (pl Plane) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	dist := p.Sub(pl.Point).Dot(pl.Normal)
	return p.Sub(pl.Normal.Mul(dist)), pl.Normal, dist < 0
}

func (pl Plane) SphereCast(from, to mgl64.Vec3, radius float64) (Hit, bool) {
	d0 := from.Sub(pl.Point).Dot(pl.Normal) - radius
	d1 := to.Sub(pl.Point).Dot(pl.Normal) - radius
	if d0 < 0 || d1 >= 0 {
		return Hit{}, false
	}
	t := d0 / (d0 - d1)
	center := from.Add(to.Sub(from).Mul(t))
	return Hit{Point: center.Sub(pl.Normal.Mul(radius)), Normal: pl.Normal, Fraction: t}, true
}

// Box is an axis-aligned solid box.
type Box struct {
	Min, Max mgl64.Vec3
}

func NewBox(center, halfExtents mgl64.Vec3) Box {
	return Box{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

func (b Box) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	var q mgl64.Vec3
	outside := false
	for k := 0; k < 3; k++ {
		q[k] = math.Max(b.Min[k], math.Min(p[k], b.Max[k]))
		if q[k] != p[k] {
			outside = true
		}
	}
	if outside {
		return q, chain.SafeNormalize(p.Sub(q), up), false
	}

	// Inside: project onto the nearest face.
	axis, sign, best := 0, 1.0, math.Inf(1)
	for k := 0; k < 3; k++ {
		if d := b.Max[k] - p[k]; d < best {
			axis, sign, best = k, 1, d
		}
		if d := p[k] - b.Min[k]; d < best {
			axis, sign, best = k, -1, d
		}
	}
	q = p
	var n mgl64.Vec3
	n[axis] = sign
	if sign > 0 {
		q[axis] = b.Max[axis]
	} else {
		q[axis] = b.Min[axis]
	}
	return q, n, true
}

func (b Box) SphereCast(from, to mgl64.Vec3, radius float64) (Hit, bool) {
	return march(b, from, to, radius)
}

// Capsule is a segment swept by a radius.
type Capsule struct {
	A, B   mgl64.Vec3
	Radius float64
}

func (c Capsule) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	q := ClosestOnSegment(c.A, c.B, p)
	d := p.Sub(q)
	n := chain.SafeNormalize(d, perpendicular(c.B.Sub(c.A)))
	return q.Add(n.Mul(c.Radius)), n, d.Len() < c.Radius
}

func (c Capsule) SphereCast(from, to mgl64.Vec3, radius float64) (Hit, bool) {
	return march(c, from, to, radius)
}

// ClosestOnSegment returns the point of segment ab nearest to p.
func ClosestOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < chain.Epsilon*chain.Epsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	v = chain.SafeNormalize(v, up)
	ref := up
	if math.Abs(v.Dot(ref)) > 0.99 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	return chain.SafeNormalize(v.Cross(ref), up)
}
