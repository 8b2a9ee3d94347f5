package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
)

type pinnedSet map[int]bool

func (p pinnedSet) Pinned(i int) bool { return p[i] }

var gravity = mgl64.Vec3{0, -9.81, 0}

func TestVerletFreeFall(t *testing.T) {
	c := chain.New(2, 1)
	integ := NewVerlet()
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		integ.Step(c, nil, gravity, dt)
	}

	// Position Verlet from rest accumulates a*dt²*n(n+1)/2.
	want := -9.81 * dt * dt * float64(steps*(steps+1)) / 2
	if got := c.Current[1].Y(); math.Abs(got-want) > 1e-9 {
		t.Errorf("y after %d steps = %.6f, want %.6f", steps, got, want)
	}
}

func TestVerletSkipsPinned(t *testing.T) {
	c := chain.New(3, 1)
	c.Layout(nil, nil)
	before := c.Current[0]

	NewVerlet().Step(c, pinnedSet{0: true}, gravity, 0.1)

	if c.Current[0] != before {
		t.Errorf("pinned point moved: %v", c.Current[0])
	}
	if c.Current[1].Y() >= -1 {
		t.Errorf("free point did not fall: %v", c.Current[1])
	}
}

func TestVerletZeroDtIsNoop(t *testing.T) {
	c := chain.New(2, 1)
	c.Current[1] = mgl64.Vec3{1, 0, 0}
	c.Previous[1] = mgl64.Vec3{0, 0, 0}

	NewVerlet().Step(c, nil, gravity, 0)

	if c.Current[1] != (mgl64.Vec3{1, 0, 0}) || c.Previous[1] != (mgl64.Vec3{}) {
		t.Errorf("dt=0 changed state: cur=%v prev=%v", c.Current[1], c.Previous[1])
	}
}

func TestVerletKeepsVelocity(t *testing.T) {
	c := chain.New(2, 1)
	c.Current[0] = mgl64.Vec3{0.1, 0, 0}

	NewVerlet().Step(c, nil, mgl64.Vec3{}, 0.1)

	if !c.Current[0].ApproxEqual(mgl64.Vec3{0.2, 0, 0}) {
		t.Errorf("coasting point = %v, want {0.2 0 0}", c.Current[0])
	}
}

func TestDampedVerletClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0.5, 0.5},
		{3, 1},
	}
	for _, tt := range tests {
		if got := NewDampedVerlet(tt.in).Damping; got != tt.want {
			t.Errorf("NewDampedVerlet(%v).Damping = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkVerlet64(b *testing.B) {
	c := chain.New(64, 0.1)
	c.Layout(nil, nil)
	integ := NewVerlet()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(c, nil, gravity, 1.0/240)
	}
}
