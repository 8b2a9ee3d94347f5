package config

import "math"

const (
	minRest   = 1e-6
	minRadius = 1e-6
)

// Clamp pulls every field back into its valid range and returns the yaml
// paths of the fields it changed. Invalid values are never rejected.
func (c *Config) Clamp() []string {
	var changed []string
	fix := func(path string, ok bool, apply func()) {
		if !ok {
			apply()
			changed = append(changed, path)
		}
	}

	r := &c.Rope
	fix("rope.segments", r.Segments >= 2, func() { r.Segments = 2 })
	fix("rope.rest_length", positive(r.RestLength, minRest), func() { r.RestLength = minRest })
	fix("rope.damping", unit(r.Damping), func() { r.Damping = clamp01(r.Damping, 1) })
	fix("rope.substeps", r.Substeps >= 1, func() { r.Substeps = 1 })
	fix("rope.iterations", r.Iterations >= 0, func() { r.Iterations = 0 })

	t := &c.Tear
	fix("tear.stretch_ratio", t.StretchRatio > 1 && !math.IsInf(t.StretchRatio, 0), func() { t.StretchRatio = 1 + minRest })
	fix("tear.min_overstretch", t.MinOverstretch >= 0, func() { t.MinOverstretch = 0 })

	col := &c.Collision
	fix("collision.radius", positive(col.Radius, minRadius), func() { col.Radius = minRadius })
	fix("collision.restitution", unit(col.Restitution), func() { col.Restitution = clamp01(col.Restitution, 0) })
	fix("collision.friction", unit(col.Friction), func() { col.Friction = clamp01(col.Friction, 0) })
	fix("collision.contact_offset", col.ContactOffset >= 0, func() { col.ContactOffset = 0 })
	fix("collision.passes", col.Passes >= 1, func() { col.Passes = 1 })
	fix("collision.edge_subdivisions", col.EdgeSubdivisions >= 2, func() { col.EdgeSubdivisions = 2 })
	fix("collision.capacity", col.Capacity >= 1, func() { col.Capacity = DefaultCapacity })

	g := &c.Governor
	fix("governor.min_substeps", g.MinSubsteps >= 1, func() { g.MinSubsteps = 1 })
	fix("governor.max_substeps", g.MaxSubsteps >= g.MinSubsteps, func() { g.MaxSubsteps = g.MinSubsteps })
	fix("governor.min_iterations", g.MinIterations >= 0, func() { g.MinIterations = 0 })
	fix("governor.max_iterations", g.MaxIterations >= g.MinIterations, func() { g.MaxIterations = g.MinIterations })
	fix("governor.hysteresis", g.Hysteresis >= 0, func() { g.Hysteresis = 0 })

	tb := &c.Tube
	fix("tube.radius", positive(tb.Radius, minRadius), func() { tb.Radius = minRadius })
	fix("tube.radial_segments", tb.RadialSegments >= 3, func() { tb.RadialSegments = 3 })
	fix("tube.rebuild_every", tb.RebuildEvery >= 1, func() { tb.RebuildEvery = 1 })

	run := &c.Run
	fix("run.dt", positive(run.Dt, 0), func() { run.Dt = DefaultDt })
	fix("run.duration", run.Duration >= 0, func() { run.Duration = 0 })
	fix("run.sample_every", run.SampleEvery >= 1, func() { run.SampleEvery = 1 })

	return changed
}

func positive(v, min float64) bool {
	return v > 0 && v >= min && !math.IsInf(v, 0)
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

func clamp01(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Max(0, math.Min(1, v))
}
