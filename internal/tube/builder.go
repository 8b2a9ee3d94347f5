package tube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
)

const MinRadialSegments = 3

var (
	worldUp    = mgl64.Vec3{0, 1, 0}
	worldRight = mgl64.Vec3{1, 0, 0}
)

type Options struct {
	Radius         float64
	RadialSegments int
	// UVScale is texture V units per unit of arc length.
	UVScale           float64
	CapEnds           bool
	CapBreaks         bool
	ParallelTransport bool
	// Flip reverses triangle winding. It is combined with the mirror
	// state of Scale so that a mirrored transform keeps faces outward.
	Flip  bool
	Scale mgl64.Vec3
}

func DefaultOptions() Options {
	return Options{
		Radius:            0.05,
		RadialSegments:    8,
		UVScale:           1,
		CapEnds:           true,
		CapBreaks:         true,
		ParallelTransport: true,
		Scale:             mgl64.Vec3{1, 1, 1},
	}
}

// EffectiveFlip is the winding flip actually applied.
func (o Options) EffectiveFlip() bool {
	return MirrorFlip(o.Scale) != o.Flip
}

type Builder struct {
	mesh     Mesh
	tangents []mgl64.Vec3
	normals  []mgl64.Vec3
	binorms  []mgl64.Vec3
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build triangulates a tube around points. mask[i] false leaves edge i
// unbridged; a nil mask treats every edge as intact. Fewer than two points
// give an empty mesh.
func (b *Builder) Build(points []mgl64.Vec3, mask []bool, opts Options) *Mesh {
	m := &b.mesh
	m.reset()
	n := len(points)
	if n < chain.MinPoints {
		return m
	}

	segs := opts.RadialSegments
	if segs < MinRadialSegments {
		segs = MinRadialSegments
	}
	radius := opts.Radius
	if radius <= chain.Epsilon || math.IsNaN(radius) {
		radius = chain.Epsilon
	}
	flip := opts.EffectiveFlip()

	b.tangents = Tangents(points, b.tangents[:0])
	b.frames(opts.ParallelTransport)

	v := 0.0
	for i, p := range points {
		if i > 0 {
			v += p.Sub(points[i-1]).Len() * opts.UVScale
		}
		b.ring(p, b.normals[i], b.binorms[i], radius, segs, v)
	}
	m.Rings = n

	stride := uint32(segs + 1)
	for e := 0; e < n-1; e++ {
		if !intact(mask, e) {
			continue
		}
		r0, r1 := uint32(e)*stride, uint32(e+1)*stride
		for j := uint32(0); j < uint32(segs); j++ {
			a, bb := r0+j, r0+j+1
			c, d := r1+j, r1+j+1
			b.tri(a, bb, c, flip)
			b.tri(bb, d, c, flip)
		}
	}

	if opts.CapEnds {
		b.cap(points[0], 0, b.tangents[0].Mul(-1), radius, segs, flip)
		b.cap(points[n-1], n-1, b.tangents[n-1], radius, segs, flip)
	}
	if opts.CapBreaks {
		for e := 0; e < n-1; e++ {
			if intact(mask, e) {
				continue
			}
			b.cap(points[e], e, b.tangents[e], radius, segs, flip)
			b.cap(points[e+1], e+1, b.tangents[e+1].Mul(-1), radius, segs, flip)
		}
	}
	return m
}

func intact(mask []bool, e int) bool {
	return mask == nil || e >= len(mask) || mask[e]
}

// Tangents appends one unit tangent per point to dst. End tangents follow
// their single segment; interior tangents bisect the two adjacent segments
// and fall back to the outgoing one at a fold.
func Tangents(points []mgl64.Vec3, dst []mgl64.Vec3) []mgl64.Vec3 {
	n := len(points)
	prev := worldUp
	for i := 0; i < n; i++ {
		var t mgl64.Vec3
		switch {
		case n < 2:
			t = worldUp
		case i == 0:
			t = chain.SafeNormalize(points[1].Sub(points[0]), prev)
		case i == n-1:
			t = chain.SafeNormalize(points[i].Sub(points[i-1]), prev)
		default:
			in := chain.SafeNormalize(points[i].Sub(points[i-1]), prev)
			out := chain.SafeNormalize(points[i+1].Sub(points[i]), in)
			t = chain.SafeNormalize(in.Add(out), out)
		}
		dst = append(dst, t)
		prev = t
	}
	return dst
}

func (b *Builder) frames(transport bool) {
	n := len(b.tangents)
	b.normals = b.normals[:0]
	b.binorms = b.binorms[:0]

	t := b.tangents[0]
	normal := initialNormal(t)
	b.normals = append(b.normals, normal)
	b.binorms = append(b.binorms, t.Cross(normal))

	for i := 1; i < n; i++ {
		prevT, t := b.tangents[i-1], b.tangents[i]
		if transport {
			axis := prevT.Cross(t)
			if axis.Len() > chain.Epsilon {
				angle := math.Acos(mgl64.Clamp(prevT.Dot(t), -1, 1))
				normal = mgl64.QuatRotate(angle, axis.Normalize()).Rotate(normal)
			}
		}
		normal = chain.SafeNormalize(normal.Sub(t.Mul(normal.Dot(t))), initialNormal(t))
		b.normals = append(b.normals, normal)
		b.binorms = append(b.binorms, t.Cross(normal))
	}
}

func initialNormal(t mgl64.Vec3) mgl64.Vec3 {
	ref := worldUp
	if math.Abs(t.Dot(ref)) > 0.99 {
		ref = worldRight
	}
	return chain.SafeNormalize(ref.Sub(t.Mul(ref.Dot(t))), worldRight)
}

// ring emits segs+1 vertices; the last duplicates the first so U runs to 1.
func (b *Builder) ring(center, normal, binorm mgl64.Vec3, radius float64, segs int, v float64) {
	m := &b.mesh
	for j := 0; j <= segs; j++ {
		u := float64(j) / float64(segs)
		theta := 2 * math.Pi * u
		dir := normal.Mul(math.Cos(theta)).Add(binorm.Mul(math.Sin(theta)))
		m.Vertices = append(m.Vertices, center.Add(dir.Mul(radius)))
		m.Normals = append(m.Normals, dir)
		m.UVs = append(m.UVs, mgl64.Vec2{u, v})
	}
}

// cap closes ring i with a fan facing out. The cap gets its own copy of
// the ring so its normals can point along out.
func (b *Builder) cap(center mgl64.Vec3, ring int, out mgl64.Vec3, radius float64, segs int, flip bool) {
	m := &b.mesh
	normal, binorm := b.normals[ring], b.binorms[ring]
	origin := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, center)
	m.Normals = append(m.Normals, out)
	m.UVs = append(m.UVs, mgl64.Vec2{0.5, 0.5})
	for j := 0; j < segs; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segs)
		c, s := math.Cos(theta), math.Sin(theta)
		dir := normal.Mul(c).Add(binorm.Mul(s))
		m.Vertices = append(m.Vertices, center.Add(dir.Mul(radius)))
		m.Normals = append(m.Normals, out)
		m.UVs = append(m.UVs, mgl64.Vec2{0.5 + 0.5*c, 0.5 + 0.5*s})
	}

	// The ring runs counter-clockwise seen from +tangent.
	facingTangent := out.Dot(b.tangents[ring]) > 0
	for j := 0; j < segs; j++ {
		v0 := origin + 1 + uint32(j)
		v1 := origin + 1 + uint32((j+1)%segs)
		if facingTangent {
			b.tri(origin, v0, v1, flip)
		} else {
			b.tri(origin, v1, v0, flip)
		}
	}
}

func (b *Builder) tri(a, c, d uint32, flip bool) {
	if flip {
		c, d = d, c
	}
	b.mesh.Indices = append(b.mesh.Indices, a, c, d)
}
