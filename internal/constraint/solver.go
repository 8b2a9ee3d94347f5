// Package constraint relaxes the distance constraints between neighbouring
// chain points.
package constraint

import (
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/pin"
)

// Solve runs the given number of relaxation passes over every intact edge.
//
// Each pass first writes the pinned targets, then walks the edges in index
// order. A correction is shared equally between two free endpoints; when
// one endpoint is pinned the free one takes all of it, and an edge between
// two pinned points is left alone. Edges shorter than chain.Epsilon count
// as satisfied. After the last pass pinned points are settled so they carry
// no velocity into the next sub-step.
//
// A nil mask treats every edge as intact.
func Solve(c *chain.Chain, mask []bool, pins *pin.Set, iterations int) {
	for it := 0; it < iterations; it++ {
		pins.Enforce(c)
		relax(c, mask, pins)
	}
	pins.Settle(c)
}

func relax(c *chain.Chain, mask []bool, pins *pin.Set) {
	rest := c.Rest
	for i := 0; i < c.Edges(); i++ {
		if mask != nil && i < len(mask) && !mask[i] {
			continue
		}
		a, b := c.Current[i], c.Current[i+1]
		delta := b.Sub(a)
		dist := delta.Len()
		if dist < chain.Epsilon {
			continue
		}
		diff := (dist - rest) / dist

		pa, pb := pins.Pinned(i), pins.Pinned(i+1)
		switch {
		case pa && pb:
		case pa:
			c.Current[i+1] = b.Sub(delta.Mul(diff))
		case pb:
			c.Current[i] = a.Add(delta.Mul(diff))
		default:
			half := delta.Mul(0.5 * diff)
			c.Current[i] = a.Add(half)
			c.Current[i+1] = b.Sub(half)
		}
	}
}

// MaxError is the largest |length - rest| / rest over intact edges.
func MaxError(c *chain.Chain, mask []bool) float64 {
	worst := 0.0
	for i := 0; i < c.Edges(); i++ {
		if mask != nil && i < len(mask) && !mask[i] {
			continue
		}
		e := c.EdgeRatio(i) - 1
		if e < 0 {
			e = -e
		}
		if e > worst {
			worst = e
		}
	}
	return worst
}
