package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/pin"
	"github.com/san-kum/ropesim/internal/planar"
	"github.com/san-kum/ropesim/internal/rope"
)

const (
	settleTime = 0.5
	pullSpeed  = 0.6
	orbitHz    = 0.25
)

type entry struct {
	description string
	build       func(cfg *config.Config) *Scene
}

type Registry struct {
	scenes map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]entry)}

	r.scenes["hanging"] = entry{"rope hanging from its start anchor", buildHanging}
	r.scenes["bridge"] = entry{"rope strung between two anchors", buildBridge}
	r.scenes["tear"] = entry{"end anchor pulled away until edges tear", buildTear}
	r.scenes["drape"] = entry{"horizontal rope dropped over a sphere onto a floor", buildDrape}
	r.scenes["course"] = entry{"rope dragged through planar obstacles by an orbiting body", buildCourse}

	return r
}

// Build creates the named scene from a copy of cfg.
func (r *Registry) Build(name string, cfg *config.Config) (*Scene, error) {
	e, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := cfg.Clone()
	c.Scenario = name
	scene := e.build(c)
	scene.Name = name
	return scene, nil
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].description
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func startOf(cfg *config.Config) mgl64.Vec3 {
	if cfg.Rope.StartAnchor != nil {
		return cfg.Rope.StartAnchor.Vec()
	}
	return mgl64.Vec3{}
}

// natural is where the end of a straight rope from start along dir sits
// when every edge is at rest length.
func natural(cfg *config.Config, start, dir mgl64.Vec3) mgl64.Vec3 {
	length := cfg.Rope.RestLength * float64(max(cfg.Rope.Segments-1, 1))
	return start.Add(dir.Mul(length))
}

func buildHanging(cfg *config.Config) *Scene {
	cfg.Rope.EndAnchor = nil
	return &Scene{Rope: rope.New(cfg)}
}

// buildBridge lays the rope at its natural length, then eases the end anchor
// to the configured span so a short span leaves the rope slack.
func buildBridge(cfg *config.Config) *Scene {
	start := startOf(cfg)
	target := natural(cfg, start, mgl64.Vec3{1, 0, 0})
	if cfg.Rope.EndAnchor != nil {
		target = cfg.Rope.EndAnchor.Vec()
	}
	dir := chainDir(start, target)
	laid := natural(cfg, start, dir)

	r := rope.New(cfg, rope.WithStartAnchor(start), rope.WithEndAnchor(laid))
	return &Scene{
		Rope: r,
		drive: func(r *rope.Rope, t float64) {
			p := ramp(laid, target, t, settleTime)
			r.SetEndAnchor(&p)
		},
	}
}

func buildTear(cfg *config.Config) *Scene {
	start := startOf(cfg)
	end := natural(cfg, start, mgl64.Vec3{1, 0, 0})
	if cfg.Rope.EndAnchor != nil {
		end = cfg.Rope.EndAnchor.Vec()
	}
	dir := chainDir(start, end)

	r := rope.New(cfg, rope.WithStartAnchor(start), rope.WithEndAnchor(end))
	return &Scene{
		Rope: r,
		drive: func(r *rope.Rope, t float64) {
			p := end.Add(dir.Mul(pullSpeed * t))
			r.SetEndAnchor(&p)
		},
	}
}

func buildDrape(cfg *config.Config) *Scene {
	start := startOf(cfg)
	laid := natural(cfg, start, mgl64.Vec3{1, 0, 0})
	length := laid.Sub(start).Len()

	sphere := collide.Sphere{
		Center: start.Add(mgl64.Vec3{length / 2, -0.8, 0}),
		Radius: math.Max(length/6, 0.2),
	}
	floor := collide.NewPlane(mgl64.Vec3{0, start.Y() - 2, 0}, mgl64.Vec3{0, 1, 0})
	static := collide.List{sphere, floor}

	r := rope.New(cfg, rope.WithStartAnchor(start), rope.WithEndAnchor(laid), rope.WithObstacles(static))
	// Laid out straight, then the far end is let go.
	r.SetEndAnchor(nil)
	return &Scene{Rope: r, Static: static}
}

// buildCourse drags the rope's tip around an orbit through a planar world
// of boxes, pegs and a ramp, above a floor plane. The orbiting body starts
// at the hanging tip and eases onto its orbit.
func buildCourse(cfg *config.Config) *Scene {
	start := startOf(cfg)
	cfg.Rope.EndAnchor = nil
	laid := natural(cfg, start, chain.Down)
	length := laid.Sub(start).Len()

	world := planar.NewWorld()
	world.AddBox(mgl64.Vec2{start.X() + 0.5, start.Y() - 2.5}, mgl64.Vec2{start.X() + 1.5, start.Y() - 2}, 0)
	world.AddCircle(mgl64.Vec2{start.X() + 2.5, start.Y() - 1}, 0.3)
	world.AddCircle(mgl64.Vec2{start.X() + 3.5, start.Y() - 1.8}, 0.25)
	world.AddSegment(mgl64.Vec2{start.X() + 2, start.Y() - 3.2}, mgl64.Vec2{start.X() + 4.5, start.Y() - 2.6}, 0.05)

	floor := collide.NewPlane(mgl64.Vec3{0, start.Y() - math.Max(3.5, length+0.5), 0}, mgl64.Vec3{0, 1, 0})
	static := collide.List{floor}

	centre := start.Add(mgl64.Vec3{2.5, -1.5, 0})
	orbit := func(t float64) mgl64.Vec3 {
		angle := 2 * math.Pi * orbitHz * t
		return centre.Add(mgl64.Vec3{1.2 * math.Cos(angle), 0.9 * math.Sin(angle), 0})
	}
	body := &pin.Fixed{Pos: laid}
	tip := max(cfg.Rope.Segments-1, 1)

	r := rope.New(cfg,
		rope.WithStartAnchor(start),
		rope.WithObstacles(collide.Join{world, static}),
		rope.WithAttachments(pin.Attachment{Body: body, Index: tip}),
	)
	return &Scene{
		Rope:   r,
		Static: static,
		World:  world,
		drive: func(_ *rope.Rope, t float64) {
			body.Pos = ramp(laid, orbit(t), t, 4*settleTime)
		},
	}
}

func chainDir(a, b mgl64.Vec3) mgl64.Vec3 {
	d := b.Sub(a)
	if d.Len() < 1e-9 {
		return mgl64.Vec3{1, 0, 0}
	}
	return d.Normalize()
}
