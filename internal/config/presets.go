package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"hanging": {
		"short": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 5, 0.2, 0.99
		}),
		"long": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 48, 0.1, 0.995
			c.Governor.AdaptiveIterations = true
		}),
		"whip": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength = 24, 0.15
			c.Rope.Gravity = Point{X: 6, Y: -9.81}
			c.Governor.AdaptiveSubsteps = true
			c.Run.Duration = 5
		}),
	},
	"bridge": {
		"taut": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 16, 0.2, 0.99
			c.Rope.EndAnchor = &Point{X: 3}
		}),
		"slack": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 24, 0.2, 0.99
			c.Rope.EndAnchor = &Point{X: 3}
		}),
	},
	"tear": {
		"fragile": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength = 12, 0.2
			c.Rope.EndAnchor = &Point{X: 2.1}
			c.Tear.StretchRatio, c.Tear.MinOverstretch = 1.05, 0.1
			c.Run.Duration = 5
		}),
		"tough": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength = 12, 0.2
			c.Rope.EndAnchor = &Point{X: 2.1}
			c.Tear.StretchRatio, c.Tear.MinOverstretch = 2.5, 1
		}),
	},
	"drape": {
		"sphere": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 32, 0.1, 0.995
			c.Rope.StartAnchor = &Point{X: -0.5, Y: 2}
			c.Collision.Mode = "advanced"
		}),
		"simple": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength, c.Rope.Damping = 32, 0.1, 0.995
			c.Rope.StartAnchor = &Point{X: -0.5, Y: 2}
			c.Collision.Mode = "simple"
		}),
	},
	"course": {
		"default": preset(func(c *Config) {
			c.Rope.Segments, c.Rope.RestLength = 40, 0.1
			c.Rope.StartAnchor = &Point{X: -2, Y: 3}
			c.Governor.AdaptiveSubsteps = true
			c.Governor.AdaptiveIterations = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	out.Scenario = scenario
	return out
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
