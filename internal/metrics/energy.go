package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/sim"
)

// Energy is the mean mechanical energy of the chain per tick, treating
// every point as a unit mass. Velocity comes from the displacement between
// consecutive frames.
type Energy struct {
	name        string
	gravity     mgl64.Vec3
	prev        []mgl64.Vec3
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity mgl64.Vec3) *Energy {
	return &Energy{name: "energy", gravity: gravity}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	if len(f.Points) == 0 || f.Dt <= 0 {
		return
	}
	if len(e.prev) != len(f.Points) {
		e.prev = append(e.prev[:0], f.Points...)
		return
	}
	e.totalEnergy += chainEnergy(f.Points, e.prev, f.Dt, e.gravity)
	e.samples++
	copy(e.prev, f.Points)
}

func chainEnergy(cur, prev []mgl64.Vec3, dt float64, g mgl64.Vec3) float64 {
	total := 0.0
	for i := range cur {
		v := cur[i].Sub(prev[i]).Mul(1 / dt)
		total += 0.5*v.Dot(v) - g.Dot(cur[i])
	}
	return total
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.prev = e.prev[:0]
	e.totalEnergy = 0
	e.samples = 0
}

// KineticPeak tracks the largest kinetic energy seen in a single tick.
type KineticPeak struct {
	prev []mgl64.Vec3
	peak float64
}

func NewKineticPeak() *KineticPeak { return &KineticPeak{} }

func (k *KineticPeak) Name() string { return "kinetic_peak" }

func (k *KineticPeak) Observe(f sim.Frame) {
	if len(k.prev) != len(f.Points) || f.Dt <= 0 {
		k.prev = append(k.prev[:0], f.Points...)
		return
	}
	if ke := chainEnergy(f.Points, k.prev, f.Dt, mgl64.Vec3{}); ke > k.peak {
		k.peak = ke
	}
	copy(k.prev, f.Points)
}

func (k *KineticPeak) Value() float64 { return k.peak }

func (k *KineticPeak) Reset() {
	k.prev = k.prev[:0]
	k.peak = 0
}
