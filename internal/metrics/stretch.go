package metrics

import "github.com/san-kum/ropesim/internal/sim"

// PeakStretch is the largest edge length/rest ratio seen over a run.
type PeakStretch struct {
	peak float64
}

func NewPeakStretch() *PeakStretch { return &PeakStretch{} }

func (p *PeakStretch) Name() string { return "peak_stretch" }

func (p *PeakStretch) Observe(f sim.Frame) {
	if f.Stats.MaxStretch > p.peak {
		p.peak = f.Stats.MaxStretch
	}
}

func (p *PeakStretch) Value() float64 { return p.peak }
func (p *PeakStretch) Reset()         { p.peak = 0 }

// TornEdges is the number of torn edges at the last observed tick.
type TornEdges struct {
	last int
}

func NewTornEdges() *TornEdges { return &TornEdges{} }

func (t *TornEdges) Name() string        { return "torn_edges" }
func (t *TornEdges) Observe(f sim.Frame) { t.last = f.Stats.TornEdges }
func (t *TornEdges) Value() float64      { return float64(t.last) }
func (t *TornEdges) Reset()              { t.last = 0 }

// MeanSubsteps averages the governor's sub-step choice.
type MeanSubsteps struct {
	total   int
	samples int
}

func NewMeanSubsteps() *MeanSubsteps { return &MeanSubsteps{} }

func (m *MeanSubsteps) Name() string { return "mean_substeps" }

func (m *MeanSubsteps) Observe(f sim.Frame) {
	m.total += f.Stats.Substeps
	m.samples++
}

func (m *MeanSubsteps) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *MeanSubsteps) Reset() { m.total, m.samples = 0, 0 }
