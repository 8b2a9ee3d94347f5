// Package governor picks sub-step and solver iteration counts for a frame
// from the rope's current motion and strain.
package governor

import (
	"github.com/san-kum/ropesim/internal/chain"
)

type Choice struct {
	Substeps   int
	Iterations int
}

type Governor struct {
	// Substeps and Iterations are used when the matching adaptive switch
	// is off.
	Substeps   int
	Iterations int

	AdaptiveSubsteps bool
	MinSubsteps      int
	MaxSubsteps      int
	// SpeedThreshold is the peak point speed, in units per second, around
	// which sub-stepping switches between its bounds. Speeds inside
	// SpeedThreshold±Hysteresis keep the previous choice.
	SpeedThreshold float64
	Hysteresis     float64

	AdaptiveIterations bool
	MinIterations      int
	MaxIterations      int
	// StretchTolerance is the average fractional stretch above which the
	// solver runs its maximum iteration count.
	StretchTolerance float64

	held    int
	hasHeld bool
}

func New() *Governor {
	return &Governor{
		Substeps:         4,
		Iterations:       8,
		MinSubsteps:      2,
		MaxSubsteps:      8,
		SpeedThreshold:   5,
		Hysteresis:       1,
		MinIterations:    4,
		MaxIterations:    16,
		StretchTolerance: 0.01,
	}
}

// Reset forgets the held sub-step choice.
func (g *Governor) Reset() {
	g.held, g.hasHeld = 0, false
}

// Choose returns the counts for the next frame. dt is the step length that
// separates the chain's current and previous positions.
func (g *Governor) Choose(c *chain.Chain, mask []bool, dt float64) Choice {
	out := Choice{Substeps: atLeast(g.Substeps, 1), Iterations: atLeast(g.Iterations, 0)}

	if g.AdaptiveSubsteps {
		lo := atLeast(g.MinSubsteps, 1)
		hi := atLeast(g.MaxSubsteps, lo)
		if !g.hasHeld {
			g.held, g.hasHeld = lo, true
		}
		speed := c.MaxSpeed(dt)
		switch {
		case speed > g.SpeedThreshold+g.Hysteresis:
			g.held = hi
		case speed < g.SpeedThreshold-g.Hysteresis:
			g.held = lo
		}
		out.Substeps = clamp(g.held, lo, hi)
	}

	if g.AdaptiveIterations {
		lo := atLeast(g.MinIterations, 0)
		hi := atLeast(g.MaxIterations, lo)
		out.Iterations = lo
		if c.AverageStretch(mask) > g.StretchTolerance {
			out.Iterations = hi
		}
	}
	return out
}

func atLeast(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
