package sim

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/rope"
)

type Simulator struct {
	rope      *rope.Rope
	driver    Driver
	metrics   []Metric
	observers []Observer
	points    []mgl64.Vec3
}

func New(r *rope.Rope, driver Driver) *Simulator {
	return &Simulator{
		rope:      r,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Rope() *rope.Rope { return s.rope }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	every := max(cfg.SampleEvery, 1)

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		if s.driver != nil {
			s.driver.Drive(s.rope, t)
		}
		s.rope.Tick(cfg.Dt)
		t += cfg.Dt
		result.Ticks++

		torn := s.rope.DrainTorn()
		for _, edge := range torn {
			result.Tears = append(result.Tears, TearEvent{Time: t, Edge: edge})
		}

		s.points = s.rope.PointsInto(s.points)
		f := Frame{Time: t, Dt: cfg.Dt, Points: s.points, Stats: s.rope.Stats(), Torn: torn}
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnTick(f)
		}
		if i%every == 0 {
			result.Samples = append(result.Samples, sampleOf(f))
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	result.Resets = s.rope.Stats().Resets
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sampleOf(f Frame) Sample {
	var tip mgl64.Vec3
	if n := len(f.Points); n > 0 {
		tip = f.Points[n-1]
	}
	return Sample{
		Time:       f.Time,
		Tip:        tip,
		MaxStretch: f.Stats.MaxStretch,
		AvgStretch: f.Stats.AvgStretch,
		MaxSpeed:   f.Stats.MaxSpeed,
		Torn:       f.Stats.TornEdges,
		Substeps:   f.Stats.Substeps,
		Iterations: f.Stats.Iterations,
		Candidates: f.Stats.Candidates,
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback ticks until the duration elapses or callback returns
// false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.driver != nil {
			s.driver.Drive(s.rope, t)
		}
		s.rope.Tick(cfg.Dt)
		t += cfg.Dt

		s.points = s.rope.PointsInto(s.points)
		f := Frame{Time: t, Dt: cfg.Dt, Points: s.points, Stats: s.rope.Stats(), Torn: s.rope.DrainTorn()}
		if !callback(f) {
			return nil
		}
	}
	return nil
}
