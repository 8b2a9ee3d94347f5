// Package scenario builds named rope setups: the rope, the obstacles it can
// hit and the driver that animates its anchors.
package scenario

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/planar"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/sim"
)

type Scene struct {
	Name string
	Rope *rope.Rope
	// Static lists the free-standing 3D obstacles, for drawing.
	Static collide.List
	// World holds the planar obstacles, or nil.
	World *planar.World

	drive func(r *rope.Rope, t float64)
}

// Drive implements sim.Driver.
func (s *Scene) Drive(r *rope.Rope, t float64) {
	if s.drive != nil {
		s.drive(r, t)
	}
}

// Simulator wraps the scene with the default metrics attached.
func (s *Scene) Simulator() *sim.Simulator {
	cfg := s.Rope.Config()
	simulator := sim.New(s.Rope, s)
	for _, m := range DefaultMetrics(&cfg) {
		simulator.AddMetric(m)
	}
	return simulator
}

func DefaultMetrics(cfg *config.Config) []sim.Metric {
	threshold := cfg.Tear.StretchRatio
	if !cfg.Tear.Enabled || threshold <= 1 {
		threshold = 1.5
	}
	return []sim.Metric{
		metrics.NewEnergy(cfg.Rope.Gravity.Vec()),
		metrics.NewKineticPeak(),
		metrics.NewStability(threshold),
		metrics.NewPeakStretch(),
		metrics.NewTornEdges(),
		metrics.NewMeanSubsteps(),
	}
}

// ramp moves linearly from a to b over duration seconds and holds b after.
func ramp(a, b mgl64.Vec3, t, duration float64) mgl64.Vec3 {
	if duration <= 0 || t >= duration {
		return b
	}
	return a.Add(b.Sub(a).Mul(t / duration))
}
