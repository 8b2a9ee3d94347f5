package collide

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/pin"
)

var ground = NewPlane(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})

func testParams() Params {
	p := DefaultParams()
	p.Radius = 0.05
	p.ContactOffset = 0.001
	p.Restitution = 0.1
	p.Friction = 0.3
	return p
}

func TestNewResolver(t *testing.T) {
	tests := []struct {
		mode    Mode
		wantErr bool
	}{
		{ModeSimple, false},
		{ModeAdvanced, false},
		{"", false},
		{"quantum", true},
	}
	for _, tt := range tests {
		_, err := New(tt.mode, testParams())
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) err = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestSimplePushesOut(t *testing.T) {
	c := chain.New(2, 1)
	c.Current[0] = mgl64.Vec3{0, 2, 0}
	c.Current[1] = mgl64.Vec3{0.3, 0.5, 0}
	copy(c.Previous, c.Current)
	c.Previous[1] = mgl64.Vec3{0.3, 0.7, 0}
	s := &Simple{Params: testParams()}
	ball := Sphere{Radius: 1}

	s.Resolve(c, nil, nil, []Obstacle{ball})

	if d := c.Current[1].Len(); math.Abs(d-1.05) > 1e-9 {
		t.Errorf("distance from centre = %v, want 1.05", d)
	}
	if c.Previous[1] != (mgl64.Vec3{0.3, 0.7, 0}) {
		t.Error("simple mode must not touch velocity")
	}
}

func TestSimpleSkipsPinned(t *testing.T) {
	c := chain.New(2, 1)
	c.Current[0] = mgl64.Vec3{0, -1, 0}
	c.Current[1] = mgl64.Vec3{1, -1, 0}
	anchor := c.Current[0]
	pins := pin.NewSet(2)
	pins.Resolve(c, &anchor, nil, nil)

	(&Simple{Params: testParams()}).Resolve(c, nil, pins, []Obstacle{ground})

	if c.Current[0] != anchor {
		t.Errorf("pinned point moved to %v", c.Current[0])
	}
	if math.Abs(c.Current[1].Y()-0.05) > 1e-12 {
		t.Errorf("free point y = %v, want 0.05", c.Current[1].Y())
	}
}

func TestAdvancedStopsTunneling(t *testing.T) {
	c := chain.New(2, 3)
	c.Current[0] = mgl64.Vec3{0, 2, 0}
	c.Previous[0] = c.Current[0]
	c.Previous[1] = mgl64.Vec3{0, 1, 0}
	c.Current[1] = mgl64.Vec3{0, -1, 0}
	anchor := c.Current[0]
	pins := pin.NewSet(2)
	pins.Resolve(c, &anchor, nil, nil)
	p := testParams()

	(&Advanced{Params: p}).Resolve(c, nil, pins, []Obstacle{ground})

	if y := c.Current[1].Y(); math.Abs(y-(p.Radius+p.ContactOffset)) > 1e-9 {
		t.Errorf("y after CCD = %v, want %v", y, p.Radius+p.ContactOffset)
	}
	vel := c.Current[1].Sub(c.Previous[1])
	if math.Abs(vel.Y()-2*p.Restitution) > 1e-9 {
		t.Errorf("reflected normal displacement = %v, want %v", vel.Y(), 2*p.Restitution)
	}
	if c.Current[0] != anchor {
		t.Error("anchor displaced by collision")
	}
}

func TestAdvancedFrictionOnContact(t *testing.T) {
	c := chain.New(2, 1)
	c.Current[0] = mgl64.Vec3{-5, 5, 0}
	c.Previous[0] = c.Current[0]
	c.Previous[1] = mgl64.Vec3{0, 0.02, 0}
	c.Current[1] = mgl64.Vec3{1, 0, 0}
	p := testParams()
	p.Passes = 1
	p.EdgeCCD = false

	(&Advanced{Params: p}).Resolve(c, nil, nil, []Obstacle{ground})

	if math.Abs(c.Current[1].Y()-p.Radius) > 1e-9 {
		t.Errorf("depenetrated y = %v, want %v", c.Current[1].Y(), p.Radius)
	}
	vel := c.Current[1].Sub(c.Previous[1])
	if math.Abs(vel.X()-(1-p.Friction)) > 1e-9 {
		t.Errorf("tangential displacement = %v, want %v", vel.X(), 1-p.Friction)
	}
	if vel.Y() < 0 {
		t.Errorf("normal displacement still into the surface: %v", vel.Y())
	}
}

func TestAdvancedEdgeCCD(t *testing.T) {
	pole := Capsule{A: mgl64.Vec3{0, 0, -1}, B: mgl64.Vec3{0, 0, 1}, Radius: 0.1}
	c := chain.New(2, 2)
	c.Previous[0] = mgl64.Vec3{-1, 1, 0}
	c.Previous[1] = mgl64.Vec3{1, 1, 0}
	c.Current[0] = mgl64.Vec3{-1, -1, 0}
	c.Current[1] = mgl64.Vec3{1, -1, 0}
	p := testParams()
	p.EdgeSubdivisions = 4

	(&Advanced{Params: p}).Resolve(c, nil, nil, []Obstacle{pole})

	if c.Current[0].Y() < 0.1 || c.Current[1].Y() < 0.1 {
		t.Errorf("edge tunnelled through pole: %v %v", c.Current[0], c.Current[1])
	}
}

func TestAdvancedEdgeCCDSkipsTornEdge(t *testing.T) {
	pole := Capsule{A: mgl64.Vec3{0, 0, -1}, B: mgl64.Vec3{0, 0, 1}, Radius: 0.1}
	c := chain.New(2, 2)
	c.Previous[0] = mgl64.Vec3{-1, 1, 0}
	c.Previous[1] = mgl64.Vec3{1, 1, 0}
	c.Current[0] = mgl64.Vec3{-1, -1, 0}
	c.Current[1] = mgl64.Vec3{1, -1, 0}

	(&Advanced{Params: testParams()}).Resolve(c, []bool{false}, nil, []Obstacle{pole})

	if c.Current[0].Y() != -1 || c.Current[1].Y() != -1 {
		t.Errorf("torn edge should not be swept: %v %v", c.Current[0], c.Current[1])
	}
}

func TestResolversIgnoreEmptyObstacleList(t *testing.T) {
	c := chain.New(3, 1)
	c.Layout(nil, nil)
	before := c.Clone()

	for _, r := range []Resolver{&Simple{Params: testParams()}, &Advanced{Params: testParams()}} {
		r.Resolve(c, nil, nil, nil)
	}
	for i := range c.Current {
		if c.Current[i] != before.Current[i] {
			t.Fatalf("point %d moved without obstacles", i)
		}
	}
}
