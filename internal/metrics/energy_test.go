package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/sim"
)

func frame(dt float64, pts ...mgl64.Vec3) sim.Frame {
	return sim.Frame{Dt: dt, Points: pts}
}

func TestEnergyAtRest(t *testing.T) {
	m := NewEnergy(mgl64.Vec3{0, -9.81, 0})

	m.Observe(frame(0.1, mgl64.Vec3{0, 1, 0}))
	if m.Value() != 0 {
		t.Error("first frame only primes the velocity estimate")
	}
	m.Observe(frame(0.1, mgl64.Vec3{0, 1, 0}))

	expected := 9.81
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyKinetic(t *testing.T) {
	m := NewEnergy(mgl64.Vec3{})
	m.Observe(frame(0.5, mgl64.Vec3{0, 0, 0}))
	m.Observe(frame(0.5, mgl64.Vec3{1, 0, 0}))

	// v = 2, ke = 0.5 * 4
	if math.Abs(m.Value()-2) > 1e-9 {
		t.Errorf("expected 2, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(mgl64.Vec3{0, -9.81, 0})
	m.Observe(frame(0.1, mgl64.Vec3{0, 1, 0}))
	m.Observe(frame(0.1, mgl64.Vec3{0, 2, 0}))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestKineticPeak(t *testing.T) {
	k := NewKineticPeak()
	k.Observe(frame(1, mgl64.Vec3{}))
	k.Observe(frame(1, mgl64.Vec3{2, 0, 0}))
	k.Observe(frame(1, mgl64.Vec3{2.5, 0, 0}))
	if k.Value() != 2 {
		t.Errorf("peak = %v, want 2", k.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(1.1)
	if s.Value() != 1 {
		t.Error("no samples should read as stable")
	}
	s.Observe(sim.Frame{Stats: rope.Stats{MaxStretch: 1.0}})
	s.Observe(sim.Frame{Stats: rope.Stats{MaxStretch: 1.2}})
	s.Observe(sim.Frame{Stats: rope.Stats{MaxStretch: 1.0, Resets: 1}})
	s.Observe(sim.Frame{Stats: rope.Stats{MaxStretch: 1.0, Resets: 1}})

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("stability = %v, want 0.5", s.Value())
	}
}

func TestRunMetrics(t *testing.T) {
	tests := []struct {
		metric sim.Metric
		frames []rope.Stats
		want   float64
	}{
		{NewPeakStretch(), []rope.Stats{{MaxStretch: 1.1}, {MaxStretch: 1.4}, {MaxStretch: 1.2}}, 1.4},
		{NewTornEdges(), []rope.Stats{{TornEdges: 1}, {TornEdges: 3}}, 3},
		{NewMeanSubsteps(), []rope.Stats{{Substeps: 2}, {Substeps: 8}, {Substeps: 2}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			for _, st := range tt.frames {
				tt.metric.Observe(sim.Frame{Stats: st})
			}
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			tt.metric.Reset()
			if tt.metric.Value() != 0 {
				t.Errorf("value after reset = %v", tt.metric.Value())
			}
		})
	}
}
