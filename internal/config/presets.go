package config

import "sort"

// Presets are complete configurations keyed by name.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"dense": with(func(c *Config) {
		c.Particles = 20000
		c.Ornaments = 180
		c.Motion.Workers = 4
	}),
	"sparse": with(func(c *Config) {
		c.Particles = 2000
		c.Ornaments = 60
		c.Frames = 5
	}),
	"blizzard": with(func(c *Config) {
		c.Motion.Velocity = 0.15
		c.Motion.Swirl = 0.05
	}),
	"smooth": with(func(c *Config) {
		c.Motion.FrameRateIndependent = true
		c.Live.FPS = 60
	}),
}

func with(mutate func(*Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
