package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/tube"
)

func straight(n int) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = mgl64.Vec3{float64(i), 0, 0}
	}
	return pts
}

func TestWriteOBJ(t *testing.T) {
	opts := tube.DefaultOptions()
	opts.RadialSegments = 4
	opts.CapEnds = false
	mesh := tube.NewBuilder().Build(straight(3), nil, opts)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "rope", mesh); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	count := func(prefix string) int {
		n := 0
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, prefix) {
				n++
			}
		}
		return n
	}
	if got := count("v "); got != len(mesh.Vertices) {
		t.Errorf("v lines = %d, want %d", got, len(mesh.Vertices))
	}
	if got := count("vn "); got != len(mesh.Normals) {
		t.Errorf("vn lines = %d, want %d", got, len(mesh.Normals))
	}
	if got := count("vt "); got != len(mesh.UVs) {
		t.Errorf("vt lines = %d, want %d", got, len(mesh.UVs))
	}
	if got := count("f "); got != mesh.TriangleCount() {
		t.Errorf("f lines = %d, want %d", got, mesh.TriangleCount())
	}
	if !strings.Contains(out, "o rope\n") {
		t.Error("missing object name")
	}
	if strings.Contains(out, "f 0/") {
		t.Error("face indices must be 1-based")
	}
}

func TestWriteOBJEmpty(t *testing.T) {
	if err := WriteOBJ(&bytes.Buffer{}, "x", &tube.Mesh{}); err == nil {
		t.Error("expected error for empty mesh")
	}
	if err := WriteOBJ(&bytes.Buffer{}, "x", nil); err == nil {
		t.Error("expected error for nil mesh")
	}
}

func TestSaveOBJ(t *testing.T) {
	mesh := tube.NewBuilder().Build(straight(4), nil, tube.DefaultOptions())
	path := filepath.Join(t.TempDir(), "rope.obj")
	if err := SaveOBJ(path, "rope", mesh); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("obj not written: %v", err)
	}
}

func TestCentrelineToSVG(t *testing.T) {
	pts := straight(5)
	mask := []bool{true, false, true, true}

	out := CentrelineToSVG(pts, mask, []int{0, 9}, 200, 100, "#00ff00")
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>") {
		t.Fatal("malformed svg document")
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("expected 2 paths around the torn edge, got %d", got)
	}
	if got := strings.Count(out, "<circle"); got != 1 {
		t.Errorf("expected 1 pin marker, got %d", got)
	}

	intact := CentrelineToSVG(pts, nil, nil, 200, 100, "#fff")
	if got := strings.Count(intact, "<path"); got != 1 {
		t.Errorf("expected 1 path for an intact rope, got %d", got)
	}
	if CentrelineToSVG(pts[:1], nil, nil, 10, 10, "#fff") != "" {
		t.Error("single point should render nothing")
	}
}

func TestExportJSON(t *testing.T) {
	result := &sim.Result{
		Samples: []sim.Sample{{Time: 0.5, Tip: mgl64.Vec3{1, 2, 3}, Substeps: 4}},
		Metrics: map[string]float64{"torn_edges": 0},
		Ticks:   30,
	}
	data := NewExportData("hanging", "short", 1.0/60, 0.5, result)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back ExportData
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Scenario != "hanging" || back.Ticks != 30 || len(back.Samples) != 1 {
		t.Errorf("round trip = %+v", back)
	}
	if back.Samples[0].Tip != [3]float64{1, 2, 3} {
		t.Errorf("tip = %v", back.Samples[0].Tip)
	}
	if back.Tears == nil {
		t.Error("tears should encode as an empty list")
	}
}
