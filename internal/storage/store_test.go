package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0.1, Tip: mgl64.Vec3{0, -1, 0}, MaxStretch: 1.01, Substeps: 4, Iterations: 8},
			{Time: 0.2, Tip: mgl64.Vec3{0.5, -0.9, 0.25}, MaxStretch: 1.6, Torn: 1, Substeps: 8, Iterations: 16, Candidates: 2},
		},
		Tears:   []sim.TearEvent{{Time: 0.2, Edge: 3}},
		Metrics: map[string]float64{"peak_stretch": 1.6},
		Ticks:   2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("tear", "fragile")
	runID, err := st.Save("fragile", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "tear" || meta.Preset != "fragile" || meta.Ticks != 2 {
		t.Errorf("metadata = %+v", meta)
	}
	if len(meta.Tears) != 1 || meta.Tears[0].Edge != 3 {
		t.Errorf("tears = %+v", meta.Tears)
	}
	if meta.Metrics["peak_stretch"] != 1.6 {
		t.Errorf("metrics = %v", meta.Metrics)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	got := samples[1]
	if got.Tip != (mgl64.Vec3{0.5, -0.9, 0.25}) || got.Torn != 1 || got.Substeps != 8 || got.Candidates != 2 {
		t.Errorf("sample = %+v", got)
	}

	back, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatal(err)
	}
	if back.Tear.StretchRatio != cfg.Tear.StretchRatio {
		t.Errorf("config stretch ratio = %v", back.Tear.StretchRatio)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: runs=%v err=%v", runs, err)
	}

	first, _ := st.Save("", config.DefaultConfig(), testResult())
	second, _ := st.Save("", config.DefaultConfig(), testResult())
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not newest first: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreMissingList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("runs=%v err=%v", runs, err)
	}
	if _, err := st.Load("missing"); err == nil {
		t.Error("expected error loading a missing run")
	}
}

func TestLoadSamplesSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "run")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "time,tip_x,tip_y,tip_z,max_stretch,avg_stretch,max_speed,torn,substeps,iterations,candidates\n" +
		"0.1,0,0,0,1,0,0,0,4,8,0\n" +
		"oops\n" +
		"0.3,x,0,0,1,0,0,0,4,8,0\n"
	if err := os.WriteFile(filepath.Join(runDir, samplesFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := New(dir).LoadSamples("run")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Substeps != 4 {
		t.Errorf("samples = %+v", samples)
	}
}
