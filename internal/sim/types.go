package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/rope"
)

// Frame is what metrics and observers see after each tick. Points is only
// valid for the duration of the call.
type Frame struct {
	Time   float64
	Dt     float64
	Points []mgl64.Vec3
	Stats  rope.Stats
	Torn   []int
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// Driver moves anchors, attachments or forces before each tick.
type Driver interface {
	Drive(r *rope.Rope, t float64)
}

type DriverFunc func(r *rope.Rope, t float64)

func (f DriverFunc) Drive(r *rope.Rope, t float64) { f(r, t) }

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery records one Sample per N ticks; values below 1 mean 1.
	SampleEvery int
}

// Sample is the per-tick record kept in a Result.
type Sample struct {
	Time       float64
	Tip        mgl64.Vec3
	MaxStretch float64
	AvgStretch float64
	MaxSpeed   float64
	Torn       int
	Substeps   int
	Iterations int
	Candidates int
}

type TearEvent struct {
	Time float64 `json:"time"`
	Edge int     `json:"edge"`
}

type Result struct {
	Samples []Sample
	Tears   []TearEvent
	Metrics map[string]float64
	Ticks   int
	Resets  int
}

// TipSeries returns one coordinate of the rope tip over time.
func (r *Result) TipSeries(axis int) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Tip[axis]
	}
	return out
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}
