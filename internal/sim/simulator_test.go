package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/rope"
)

func testRope(t *testing.T) *rope.Rope {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Rope.Segments = 4
	cfg.Rope.RestLength = 0.5
	cfg.Tear.MinOverstretch = 0.05
	return rope.New(cfg, rope.WithStartAnchor(mgl64.Vec3{}), rope.WithEndAnchor(mgl64.Vec3{1.5, 0, 0}))
}

type countMetric struct{ n int }

func (c *countMetric) Name() string   { return "count" }
func (c *countMetric) Observe(Frame)  { c.n++ }
func (c *countMetric) Value() float64 { return float64(c.n) }
func (c *countMetric) Reset()         { c.n = 0 }

type recorder struct{ times []float64 }

func (r *recorder) OnTick(f Frame) { r.times = append(r.times, f.Time) }

func TestSimulatorRun(t *testing.T) {
	s := New(testRope(t), nil)
	m := &countMetric{n: 99}
	obs := &recorder{}
	s.AddMetric(m)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 10 {
		t.Errorf("expected 10 ticks, got %d", result.Ticks)
	}
	if len(result.Samples) != 10 {
		t.Errorf("expected 10 samples, got %d", len(result.Samples))
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("metric should be reset then observe every tick, got %v", result.Metrics["count"])
	}
	if len(obs.times) != 10 || obs.times[9] < 0.99 {
		t.Errorf("observer saw %v", obs.times)
	}
	if tip := result.Samples[0].Tip; tip != (mgl64.Vec3{1.5, 0, 0}) {
		t.Errorf("tip should sit on the end anchor, got %v", tip)
	}
}

func TestSampleEvery(t *testing.T) {
	s := New(testRope(t), nil)
	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, SampleEvery: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Samples) != 4 {
		t.Errorf("expected 4 samples, got %d", len(result.Samples))
	}
	if got := result.TipSeries(0); len(got) != 4 || got[0] != 1.5 {
		t.Errorf("tip series = %v", got)
	}
}

func TestDriverAndTears(t *testing.T) {
	r := testRope(t)
	driver := DriverFunc(func(r *rope.Rope, t float64) {
		end := mgl64.Vec3{1.5 + t, 0, 0}
		r.SetEndAnchor(&end)
	})
	result, err := New(r, driver).Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Tears) == 0 {
		t.Fatal("pulling the end anchor away should tear the rope")
	}
	last := result.Samples[len(result.Samples)-1]
	if last.Torn != len(result.Tears) {
		t.Errorf("torn count %d does not match %d events", last.Torn, len(result.Tears))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(testRope(t), nil)
	for _, cfg := range []Config{{Dt: 0, Duration: 1}, {Dt: 0.1, Duration: -1}} {
		if _, err := s.Run(context.Background(), cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := New(testRope(t), nil).Run(ctx, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil || result.Ticks != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	calls := 0
	err := New(testRope(t), nil).RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1}, func(Frame) bool {
		calls++
		return calls < 3
	})
	if err != nil || calls != 3 {
		t.Errorf("calls=%d err=%v", calls, err)
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(func(idx int) (*Simulator, error) {
		if idx < 0 {
			return nil, errors.New("unreachable")
		}
		return New(testRope(t), nil), nil
	}, 4)
	results, err := e.Run(context.Background(), Config{Dt: 0.05, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Ticks != 10 {
			t.Errorf("run %d: %d ticks", i, r.Ticks)
		}
	}

	failing := NewEnsemble(func(int) (*Simulator, error) { return nil, errors.New("boom") }, 2)
	if _, err := failing.Run(context.Background(), Config{Dt: 0.1, Duration: 1}); err == nil {
		t.Error("expected build error")
	}
}
