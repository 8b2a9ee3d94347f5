package chain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which an edge or vector is treated as degenerate.
const Epsilon = 1e-6

// MinPoints is the smallest chain the simulation accepts.
const MinPoints = 2

// Down is the hang direction used when a chain has no end anchor.
var Down = mgl64.Vec3{0, -1, 0}

// Pinner reports whether a chain index is externally driven this tick.
type Pinner interface {
	Pinned(i int) bool
}

type Chain struct {
	Current  []mgl64.Vec3
	Previous []mgl64.Vec3
	Rest     float64
}

// New allocates a chain of n points (clamped to MinPoints) with the given
// rest length. Non-positive rest lengths are clamped to Epsilon.
func New(n int, rest float64) *Chain {
	if n < MinPoints {
		n = MinPoints
	}
	return &Chain{
		Current:  make([]mgl64.Vec3, n),
		Previous: make([]mgl64.Vec3, n),
		Rest:     clampRest(rest),
	}
}

func clampRest(rest float64) float64 {
	if rest <= Epsilon || math.IsNaN(rest) || math.IsInf(rest, 0) {
		return Epsilon
	}
	return rest
}

func (c *Chain) Len() int   { return len(c.Current) }
func (c *Chain) Edges() int { return len(c.Current) - 1 }

// Layout places the points at rest. With both anchors the points are spread
// evenly on the segment start→end and the rest length is derived from the
// anchor separation. With only a start anchor the chain hangs straight down
// from it, and with neither it hangs down from the origin.
func (c *Chain) Layout(start, end *mgl64.Vec3) {
	n := c.Len()
	origin := mgl64.Vec3{}
	if start != nil {
		origin = *start
	}

	if start != nil && end != nil {
		span := end.Sub(*start)
		if d := span.Len(); d > Epsilon {
			c.Rest = d / float64(n-1)
			for i := 0; i < n; i++ {
				t := float64(i) / float64(n-1)
				c.Current[i] = start.Add(span.Mul(t))
			}
			copy(c.Previous, c.Current)
			return
		}
	}

	for i := 0; i < n; i++ {
		c.Current[i] = origin.Add(Down.Mul(c.Rest * float64(i)))
	}
	copy(c.Previous, c.Current)
}

func (c *Chain) Clone() *Chain {
	out := &Chain{
		Current:  make([]mgl64.Vec3, len(c.Current)),
		Previous: make([]mgl64.Vec3, len(c.Previous)),
		Rest:     c.Rest,
	}
	copy(out.Current, c.Current)
	copy(out.Previous, c.Previous)
	return out
}

// NearestIndex returns the index of the point closest to p, or -1 for an
// empty chain.
func (c *Chain) NearestIndex(p mgl64.Vec3) int {
	best, bestDist := -1, math.Inf(1)
	for i, q := range c.Current {
		if d := q.Sub(p).LenSqr(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ApplyImpulse displaces point i without touching its previous position,
// which Verlet reads as an instantaneous velocity change. Pinned and
// out-of-range indices are ignored.
func (c *Chain) ApplyImpulse(i int, delta mgl64.Vec3, pins Pinner) bool {
	if i < 0 || i >= c.Len() {
		return false
	}
	if pins != nil && pins.Pinned(i) {
		return false
	}
	c.Current[i] = c.Current[i].Add(delta)
	return true
}

// Velocity is the implicit per-point velocity over one step of length dt.
func (c *Chain) Velocity(i int, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return mgl64.Vec3{}
	}
	return c.Current[i].Sub(c.Previous[i]).Mul(1 / dt)
}

func (c *Chain) MaxSpeed(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	maxDisp := 0.0
	for i := range c.Current {
		if d := c.Current[i].Sub(c.Previous[i]).Len(); d > maxDisp {
			maxDisp = d
		}
	}
	return maxDisp / dt
}

// EdgeLength is the current length of edge i.
func (c *Chain) EdgeLength(i int) float64 {
	return c.Current[i+1].Sub(c.Current[i]).Len()
}

// EdgeRatio is the current length of edge i divided by the rest length.
func (c *Chain) EdgeRatio(i int) float64 {
	return c.EdgeLength(i) / c.Rest
}

// AverageStretch is the mean of |length/rest - 1| over intact edges. A nil
// mask treats every edge as intact.
func (c *Chain) AverageStretch(mask []bool) float64 {
	sum, count := 0.0, 0
	for i := 0; i < c.Edges(); i++ {
		if mask != nil && i < len(mask) && !mask[i] {
			continue
		}
		sum += math.Abs(c.EdgeRatio(i) - 1)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// MaxStretch is the largest length/rest ratio over intact edges.
func (c *Chain) MaxStretch(mask []bool) float64 {
	maxRatio := 0.0
	for i := 0; i < c.Edges(); i++ {
		if mask != nil && i < len(mask) && !mask[i] {
			continue
		}
		maxRatio = math.Max(maxRatio, c.EdgeRatio(i))
	}
	return maxRatio
}

// IsValid reports whether every position is finite.
func (c *Chain) IsValid() bool {
	for i := range c.Current {
		if !finite(c.Current[i]) || !finite(c.Previous[i]) {
			return false
		}
	}
	return true
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// SafeNormalize returns v/|v|, or fallback when v is shorter than Epsilon.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}
