package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
)

// Stepper advances a chain by one sub-step.
type Stepper interface {
	Step(c *chain.Chain, pins chain.Pinner, accel mgl64.Vec3, dt float64)
}

// Verlet is position Verlet: next = cur + (cur-prev)*Damping + a*dt².
// Damping of 1 is the undamped scheme.
type Verlet struct {
	Damping float64
}

func NewVerlet() *Verlet {
	return &Verlet{Damping: 1}
}

func NewDampedVerlet(damping float64) *Verlet {
	if damping < 0 {
		damping = 0
	}
	if damping > 1 {
		damping = 1
	}
	return &Verlet{Damping: damping}
}

// Step moves every unpinned point. dt must already be the sub-step delta;
// dt <= 0 leaves the chain untouched. Pinned points are left for the
// solver's pin pass to overwrite.
func (v *Verlet) Step(c *chain.Chain, pins chain.Pinner, accel mgl64.Vec3, dt float64) {
	if dt <= 0 {
		return
	}
	accelStep := accel.Mul(dt * dt)

	for i := range c.Current {
		if pins != nil && pins.Pinned(i) {
			continue
		}
		cur := c.Current[i]
		vel := cur.Sub(c.Previous[i]).Mul(v.Damping)
		c.Previous[i] = cur
		c.Current[i] = cur.Add(vel).Add(accelStep)
	}
}
