package rope

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/constraint"
	"github.com/san-kum/ropesim/internal/governor"
	"github.com/san-kum/ropesim/internal/integrators"
	"github.com/san-kum/ropesim/internal/pin"
	"github.com/san-kum/ropesim/internal/tear"
	"github.com/san-kum/ropesim/internal/tube"
)

// Stats describes the most recent tick.
type Stats struct {
	Tick       int
	Substeps   int
	Iterations int
	MaxStretch float64
	AvgStretch float64
	MaxSpeed   float64
	TornEdges  int
	Candidates int
	Dropped    int
	Triangles  int
	Resets     int
}

type Rope struct {
	cfg config.Config

	chain    *chain.Chain
	pins     *pin.Set
	tear     *tear.Tracker
	stepper  *integrators.Verlet
	gov      *governor.Governor
	resolver collide.Resolver
	source   collide.Source
	cands    *collide.Candidates
	builder  *tube.Builder
	mesh     *tube.Mesh

	start, end  *mgl64.Vec3
	attachments []pin.Attachment
	gravity     mgl64.Vec3

	stepDt float64
	stats  Stats
}

// New builds a rope from cfg. The configuration is copied and clamped;
// an unknown collision mode falls back to the simple resolver.
func New(cfg *config.Config, opts ...Option) *Rope {
	c := cfg.Clone()
	c.Clamp()

	r := &Rope{cfg: *c}
	if c.Rope.StartAnchor != nil {
		p := c.Rope.StartAnchor.Vec()
		r.start = &p
	}
	if c.Rope.EndAnchor != nil {
		p := c.Rope.EndAnchor.Vec()
		r.end = &p
	}
	r.gravity = c.Rope.Gravity.Vec()
	r.stepper = integrators.NewDampedVerlet(c.Rope.Damping)
	r.gov = newGovernor(c)
	r.cands = collide.NewCandidates(c.Collision.Capacity)
	r.builder = tube.NewBuilder()

	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		res, err := collide.New(collide.Mode(c.Collision.Mode), collisionParams(c))
		if err != nil {
			res = &collide.Simple{Params: collisionParams(c)}
		}
		r.resolver = res
	}

	r.chain = chain.New(c.Rope.Segments, c.Rope.RestLength)
	r.pins = pin.NewSet(r.chain.Len())
	r.tear = tear.New(r.chain.Edges(), tearParams(c))
	r.layout()
	r.rebuild()
	return r
}

func newGovernor(c *config.Config) *governor.Governor {
	g := c.Governor
	return &governor.Governor{
		Substeps:           c.Rope.Substeps,
		Iterations:         c.Rope.Iterations,
		AdaptiveSubsteps:   g.AdaptiveSubsteps,
		MinSubsteps:        g.MinSubsteps,
		MaxSubsteps:        g.MaxSubsteps,
		SpeedThreshold:     g.SpeedThreshold,
		Hysteresis:         g.Hysteresis,
		AdaptiveIterations: g.AdaptiveIterations,
		MinIterations:      g.MinIterations,
		MaxIterations:      g.MaxIterations,
		StretchTolerance:   g.StretchTolerance,
	}
}

func collisionParams(c *config.Config) collide.Params {
	col := c.Collision
	return collide.Params{
		Radius:           col.Radius,
		Restitution:      col.Restitution,
		Friction:         col.Friction,
		ContactOffset:    col.ContactOffset,
		Passes:           col.Passes,
		EdgeCCD:          col.EdgeCCD,
		EdgeSubdivisions: col.EdgeSubdivisions,
	}
}

func tearParams(c *config.Config) tear.Params {
	return tear.Params{
		Enabled:        c.Tear.Enabled,
		Ratio:          c.Tear.StretchRatio,
		MinOverstretch: c.Tear.MinOverstretch,
		RecoverRate:    c.Tear.RecoverRate,
	}
}

func (r *Rope) tubeOptions() tube.Options {
	t := r.cfg.Tube
	return tube.Options{
		Radius:            t.Radius,
		RadialSegments:    t.RadialSegments,
		UVScale:           t.UVScale,
		CapEnds:           t.CapEnds,
		CapBreaks:         t.CapBreaks,
		ParallelTransport: t.ParallelTransport,
		Flip:              t.Flip,
		Scale:             t.Scale.Vec(),
	}
}

// layout puts the chain at rest between the current anchors and clears all
// tear state.
func (r *Rope) layout() {
	r.chain.Rest = r.cfg.Rope.RestLength
	r.chain.Layout(r.start, r.end)
	r.tear.Reset(r.chain.Edges())
	r.gov.Reset()
	r.pins.Resolve(r.chain, r.start, r.end, r.attachments)
	r.stepDt = 0
}

func (r *Rope) Config() config.Config { return r.cfg }

func (r *Rope) SetStartAnchor(p *mgl64.Vec3) { r.start = copyVec(p) }
func (r *Rope) SetEndAnchor(p *mgl64.Vec3)   { r.end = copyVec(p) }

func copyVec(p *mgl64.Vec3) *mgl64.Vec3 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r *Rope) SetAttachments(a []pin.Attachment) {
	r.attachments = append(r.attachments[:0], a...)
}

func (r *Rope) SetObstacles(src collide.Source) { r.source = src }

// SetGravity changes the acceleration applied from the next tick on.
func (r *Rope) SetGravity(g mgl64.Vec3) { r.gravity = g }

// Reinitialize lays the chain out again between the current anchors.
func (r *Rope) Reinitialize() {
	r.layout()
	r.rebuild()
}

// Resize reallocates the chain with n points and reinitializes it.
func (r *Rope) Resize(n int) {
	if n < chain.MinPoints {
		n = chain.MinPoints
	}
	r.cfg.Rope.Segments = n
	r.chain = chain.New(n, r.cfg.Rope.RestLength)
	r.pins = pin.NewSet(n)
	r.layout()
	r.rebuild()
}

// Tick advances the rope by one host frame. Non-positive or non-finite
// frame times leave the rope untouched.
func (r *Rope) Tick(frameDt float64) {
	if !(frameDt > 0) || math.IsInf(frameDt, 0) {
		return
	}
	r.stats.Tick++

	if r.stepDt <= 0 {
		r.stepDt = frameDt / float64(max(r.cfg.Rope.Substeps, 1))
	}
	choice := r.gov.Choose(r.chain, r.tear.Mask(), r.stepDt)
	h := frameDt / float64(choice.Substeps)

	r.pins.Resolve(r.chain, r.start, r.end, r.attachments)
	obstacles := r.gather(frameDt)
	mask := r.tear.Mask()

	for s := 0; s < choice.Substeps; s++ {
		r.tear.Step(r.chain, h)
		r.stepper.Step(r.chain, r.pins, r.gravity, h)
		constraint.Solve(r.chain, mask, r.pins, choice.Iterations)
		if len(obstacles) > 0 {
			r.resolver.Resolve(r.chain, mask, r.pins, obstacles)
		}
	}
	r.stepDt = h

	if !r.chain.IsValid() {
		r.stats.Resets++
		r.layout()
	}

	r.stats.Substeps = choice.Substeps
	r.stats.Iterations = choice.Iterations
	r.stats.MaxStretch = r.chain.MaxStretch(mask)
	r.stats.AvgStretch = r.chain.AverageStretch(mask)
	r.stats.MaxSpeed = r.chain.MaxSpeed(h)
	r.stats.TornEdges = r.tear.TornCount()

	if r.stats.Tick%r.cfg.Tube.RebuildEvery == 0 {
		r.rebuild()
	}
}

// gather asks the obstacle source for everything near the rope, padded by
// how far the rope can travel this frame.
func (r *Rope) gather(frameDt float64) []collide.Obstacle {
	r.cands.Reset()
	r.stats.Candidates, r.stats.Dropped = 0, 0
	if !r.cfg.Collision.Enabled || r.source == nil {
		return nil
	}
	box := tube.PointsBounds(r.chain.Current)
	reach := r.cfg.Collision.Radius + r.cfg.Tube.Radius
	if r.stepDt > 0 {
		reach += r.chain.MaxSpeed(r.stepDt) * frameDt
	}
	reach += r.gravity.Len() * frameDt * frameDt

	radius := box.Size().Len()/2 + reach
	r.source.Query(box.Center(), radius, r.cands)
	r.stats.Candidates, r.stats.Dropped = r.cands.Len(), r.cands.Dropped()
	return r.cands.Items()
}

func (r *Rope) rebuild() {
	r.mesh = r.builder.Build(r.chain.Current, r.tear.Mask(), r.tubeOptions())
	r.stats.Triangles = r.mesh.TriangleCount()
}

// Points returns a copy of the current chain positions.
func (r *Rope) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, r.chain.Len())
	copy(out, r.chain.Current)
	return out
}

// PointsInto copies the current positions into dst, growing it as needed.
func (r *Rope) PointsInto(dst []mgl64.Vec3) []mgl64.Vec3 {
	return append(dst[:0], r.chain.Current...)
}

func (r *Rope) Len() int { return r.chain.Len() }

func (r *Rope) RestLength() float64 { return r.chain.Rest }

// Mask returns a copy of the connectivity mask.
func (r *Rope) Mask() []bool {
	return append([]bool(nil), r.tear.Mask()...)
}

func (r *Rope) EdgeState(edge int) tear.State { return r.tear.State(edge) }

// PinKind reports how index i was driven on the last tick.
func (r *Rope) PinKind(i int) pin.Kind { return r.pins.Kind(i) }

// DrainTorn returns the edges torn since the last call.
func (r *Rope) DrainTorn() []int { return r.tear.Drain() }

// RebuildMesh builds the tube from the current chain now, regardless of
// the rebuild interval.
func (r *Rope) RebuildMesh() *tube.Mesh {
	r.rebuild()
	return r.mesh
}

// Mesh is the most recently rebuilt tube. It is overwritten by the next
// rebuild.
func (r *Rope) Mesh() *tube.Mesh { return r.mesh }

// Bounds covers the tube, or the chain padded by the tube radius when no
// mesh has been built.
func (r *Rope) Bounds() tube.AABB {
	if r.mesh != nil && !r.mesh.Empty() {
		return r.mesh.Bounds()
	}
	return tube.PointsBounds(r.chain.Current).Grow(r.cfg.Tube.Radius)
}

func (r *Rope) Stats() Stats { return r.stats }

// ApplyImpulse displaces point i by delta, which the next step reads as a
// velocity change. Pinned and out-of-range indices are ignored.
func (r *Rope) ApplyImpulse(i int, delta mgl64.Vec3) bool {
	return r.chain.ApplyImpulse(i, delta, r.pins)
}

func (r *Rope) NearestIndex(p mgl64.Vec3) int { return r.chain.NearestIndex(p) }

func (r *Rope) TearAt(edge int) bool { return r.tear.TearAt(edge) }

func (r *Rope) Repair(edge int) bool { return r.tear.Repair(edge) }
