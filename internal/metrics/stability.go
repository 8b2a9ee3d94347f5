package metrics

import (
	"github.com/san-kum/ropesim/internal/sim"
)

// Stability is the fraction of ticks whose peak edge stretch stayed under
// the threshold without the chain being reset.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	resets     int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if f.Stats.MaxStretch > s.threshold || f.Stats.Resets > s.resets {
		s.violations++
	}
	s.resets = f.Stats.Resets
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.resets = 0
}
