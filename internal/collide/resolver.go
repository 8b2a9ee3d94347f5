package collide

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/pin"
)

type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeAdvanced Mode = "advanced"
)

type Params struct {
	Radius        float64
	Restitution   float64
	Friction      float64
	ContactOffset float64
	// Passes is how many times Advanced repeats its full sequence per sub-step.
	Passes int
	// EdgeCCD enables swept-capsule checks along intact edges.
	EdgeCCD          bool
	EdgeSubdivisions int
}

func DefaultParams() Params {
	return Params{
		Radius:           0.05,
		Restitution:      0.1,
		Friction:         0.3,
		ContactOffset:    0.001,
		Passes:           2,
		EdgeCCD:          true,
		EdgeSubdivisions: 4,
	}
}

type Resolver interface {
	Resolve(c *chain.Chain, mask []bool, pins *pin.Set, obstacles []Obstacle)
}

func New(mode Mode, p Params) (Resolver, error) {
	switch mode {
	case ModeSimple, "":
		return &Simple{Params: p}, nil
	case ModeAdvanced:
		return &Advanced{Params: p}, nil
	default:
		return nil, fmt.Errorf("unknown collision mode: %s", mode)
	}
}

// Simple pushes penetrating points back to the surface and leaves their
// velocity alone.
type Simple struct {
	Params Params
}

func (s *Simple) Resolve(c *chain.Chain, _ []bool, pins *pin.Set, obstacles []Obstacle) {
	if len(obstacles) == 0 {
		return
	}
	r := s.Params.Radius
	for i := range c.Current {
		if pins.Pinned(i) {
			continue
		}
		for _, o := range obstacles {
			p := c.Current[i]
			q, n, inside := o.ClosestPoint(p)
			if inside || p.Sub(q).Len() < r {
				c.Current[i] = q.Add(n.Mul(r))
			}
		}
	}
}

// Advanced runs, per pass, swept-sphere CCD for every free point, an overlap
// push-out with velocity response, and optionally swept checks along intact
// edges. Pins are re-enforced after each pass.
type Advanced struct {
	Params Params
}

func (a *Advanced) Resolve(c *chain.Chain, mask []bool, pins *pin.Set, obstacles []Obstacle) {
	if len(obstacles) == 0 {
		return
	}
	passes := a.Params.Passes
	if passes < 1 {
		passes = 1
	}
	for p := 0; p < passes; p++ {
		a.sweepPoints(c, pins, obstacles)
		pins.Enforce(c)
		a.depenetrate(c, pins, obstacles)
		pins.Enforce(c)
		if a.Params.EdgeCCD {
			a.sweepEdges(c, mask, pins, obstacles)
			pins.Enforce(c)
		}
	}
}

func firstHit(obstacles []Obstacle, from, to mgl64.Vec3, radius float64) (Hit, bool) {
	best, found := Hit{Fraction: math.Inf(1)}, false
	for _, o := range obstacles {
		if h, ok := o.SphereCast(from, to, radius); ok && h.Fraction < best.Fraction {
			best, found = h, true
		}
	}
	return best, found
}

// respond splits a per-step displacement into normal and tangential parts
// and scales them by -restitution and (1-friction).
func (a *Advanced) respond(vel, n mgl64.Vec3) mgl64.Vec3 {
	vn := n.Mul(vel.Dot(n))
	vt := vel.Sub(vn)
	return vn.Mul(-a.Params.Restitution).Add(vt.Mul(1 - a.Params.Friction))
}

func (a *Advanced) sweepPoints(c *chain.Chain, pins *pin.Set, obstacles []Obstacle) {
	r := a.Params.Radius
	for i := range c.Current {
		if pins.Pinned(i) {
			continue
		}
		from, to := c.Previous[i], c.Current[i]
		if to.Sub(from).Len() < chain.Epsilon {
			continue
		}
		hit, ok := firstHit(obstacles, from, to, r)
		if !ok {
			continue
		}
		pos := hit.Point.Add(hit.Normal.Mul(r + a.Params.ContactOffset))
		vel := a.respond(to.Sub(from), hit.Normal)
		c.Current[i] = pos
		c.Previous[i] = pos.Sub(vel)
	}
}

func (a *Advanced) depenetrate(c *chain.Chain, pins *pin.Set, obstacles []Obstacle) {
	r := a.Params.Radius
	for i := range c.Current {
		if pins.Pinned(i) {
			continue
		}
		p := c.Current[i]
		var push mgl64.Vec3
		for _, o := range obstacles {
			d, q, n := signedDistance(o, p)
			if d < r {
				push = push.Add(q.Add(n.Mul(r)).Sub(p))
			}
		}
		if push.Len() < chain.Epsilon {
			continue
		}
		n := push.Normalize()
		vel := p.Sub(c.Previous[i])
		if vel.Dot(n) < 0 {
			vel = a.respond(vel, n)
		}
		c.Current[i] = p.Add(push)
		c.Previous[i] = c.Current[i].Sub(vel)
	}
}

func (a *Advanced) sweepEdges(c *chain.Chain, mask []bool, pins *pin.Set, obstacles []Obstacle) {
	r := a.Params.Radius
	subs := a.Params.EdgeSubdivisions
	if subs < 2 {
		subs = 2
	}
	for e := 0; e < c.Edges(); e++ {
		if mask != nil && e < len(mask) && !mask[e] {
			continue
		}
		i, j := e, e+1
		for k := 1; k < subs; k++ {
			s := float64(k) / float64(subs)
			from := lerp(c.Previous[i], c.Previous[j], s)
			to := lerp(c.Current[i], c.Current[j], s)
			hit, ok := firstHit(obstacles, from, to, r)
			if !ok {
				continue
			}
			want := hit.Point.Add(hit.Normal.Mul(r + a.Params.ContactOffset))
			depth := want.Sub(to).Dot(hit.Normal)
			if depth <= 0 {
				break
			}
			nudge := hit.Normal.Mul(depth)
			for _, idx := range [2]int{i, j} {
				if pins.Pinned(idx) {
					continue
				}
				vel := c.Current[idx].Sub(c.Previous[idx])
				if vel.Dot(hit.Normal) < 0 {
					vel = a.respond(vel, hit.Normal)
				}
				c.Current[idx] = c.Current[idx].Add(nudge)
				c.Previous[idx] = c.Current[idx].Sub(vel)
			}
			break
		}
	}
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
