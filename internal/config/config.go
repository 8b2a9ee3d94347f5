package config

import (
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultSegments   = 16
	DefaultRestLength = 0.2
	DefaultGravity    = -9.81
	DefaultSubsteps   = 4
	DefaultIterations = 8
	DefaultTubeRadius = 0.05
	DefaultRadialSegs = 8
	DefaultCapacity   = 32
)

type Config struct {
	Scenario  string          `yaml:"scenario"`
	Rope      RopeConfig      `yaml:"rope"`
	Tear      TearConfig      `yaml:"tear"`
	Collision CollisionConfig `yaml:"collision"`
	Governor  GovernorConfig  `yaml:"governor"`
	Tube      TubeConfig      `yaml:"tube"`
	Run       RunConfig       `yaml:"run"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p Point) Vec() mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }

type RopeConfig struct {
	// Segments is the number of chain points.
	Segments   int     `yaml:"segments"`
	RestLength float64 `yaml:"rest_length"`
	Gravity    Point   `yaml:"gravity"`
	// Damping scales the carried velocity each sub-step; 1 is undamped.
	Damping     float64 `yaml:"damping"`
	Substeps    int     `yaml:"substeps"`
	Iterations  int     `yaml:"iterations"`
	StartAnchor *Point  `yaml:"start_anchor,omitempty"`
	EndAnchor   *Point  `yaml:"end_anchor,omitempty"`
}

type TearConfig struct {
	Enabled        bool    `yaml:"enabled"`
	StretchRatio   float64 `yaml:"stretch_ratio"`
	MinOverstretch float64 `yaml:"min_overstretch"`
	RecoverRate    float64 `yaml:"recover_rate"`
}

type CollisionConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Mode             string  `yaml:"mode"`
	Radius           float64 `yaml:"radius"`
	Restitution      float64 `yaml:"restitution"`
	Friction         float64 `yaml:"friction"`
	ContactOffset    float64 `yaml:"contact_offset"`
	Passes           int     `yaml:"passes"`
	EdgeCCD          bool    `yaml:"edge_ccd"`
	EdgeSubdivisions int     `yaml:"edge_subdivisions"`
	Capacity         int     `yaml:"capacity"`
}

type GovernorConfig struct {
	AdaptiveSubsteps   bool    `yaml:"adaptive_substeps"`
	MinSubsteps        int     `yaml:"min_substeps"`
	MaxSubsteps        int     `yaml:"max_substeps"`
	SpeedThreshold     float64 `yaml:"speed_threshold"`
	Hysteresis         float64 `yaml:"hysteresis"`
	AdaptiveIterations bool    `yaml:"adaptive_iterations"`
	MinIterations      int     `yaml:"min_iterations"`
	MaxIterations      int     `yaml:"max_iterations"`
	StretchTolerance   float64 `yaml:"stretch_tolerance"`
}

type TubeConfig struct {
	Radius            float64 `yaml:"radius"`
	RadialSegments    int     `yaml:"radial_segments"`
	UVScale           float64 `yaml:"uv_scale"`
	CapEnds           bool    `yaml:"cap_ends"`
	CapBreaks         bool    `yaml:"cap_breaks"`
	ParallelTransport bool    `yaml:"parallel_transport"`
	Flip              bool    `yaml:"flip"`
	Scale             Point   `yaml:"scale"`
	// RebuildEvery rebuilds the mesh once every N ticks.
	RebuildEvery int `yaml:"rebuild_every"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	// SampleEvery records one sample per N ticks.
	SampleEvery int `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "hanging",
		Rope: RopeConfig{
			Segments:    DefaultSegments,
			RestLength:  DefaultRestLength,
			Gravity:     Point{Y: DefaultGravity},
			Damping:     1,
			Substeps:    DefaultSubsteps,
			Iterations:  DefaultIterations,
			StartAnchor: &Point{},
		},
		Tear: TearConfig{
			Enabled:        true,
			StretchRatio:   1.5,
			MinOverstretch: 0.25,
			RecoverRate:    1,
		},
		Collision: CollisionConfig{
			Enabled:          true,
			Mode:             "advanced",
			Radius:           0.05,
			Restitution:      0.1,
			Friction:         0.3,
			ContactOffset:    0.001,
			Passes:           2,
			EdgeCCD:          true,
			EdgeSubdivisions: 4,
			Capacity:         DefaultCapacity,
		},
		Governor: GovernorConfig{
			MinSubsteps:      2,
			MaxSubsteps:      8,
			SpeedThreshold:   5,
			Hysteresis:       1,
			MinIterations:    4,
			MaxIterations:    16,
			StretchTolerance: 0.01,
		},
		Tube: TubeConfig{
			Radius:            DefaultTubeRadius,
			RadialSegments:    DefaultRadialSegs,
			UVScale:           1,
			CapEnds:           true,
			CapBreaks:         true,
			ParallelTransport: true,
			Scale:             Point{X: 1, Y: 1, Z: 1},
			RebuildEvery:      1,
		},
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file over cfg, keeping every field the file leaves
// out.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	if c.Rope.StartAnchor != nil {
		p := *c.Rope.StartAnchor
		out.Rope.StartAnchor = &p
	}
	if c.Rope.EndAnchor != nil {
		p := *c.Rope.EndAnchor
		out.Rope.EndAnchor = &p
	}
	return &out
}
