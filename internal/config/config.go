package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/morph"
	"github.com/san-kum/snowglobe/internal/ornament"
	"github.com/san-kum/snowglobe/internal/shape"
)

const (
	DefaultParticles  = 8000
	DefaultSilhouette = "tree"
	DefaultText       = "MERRY XMAS"
	DefaultFPS        = 30
	DefaultTheme      = "evergreen"
)

type Config struct {
	Particles    int            `yaml:"particles"`
	Silhouette   string         `yaml:"silhouette"`
	Tree         shape.Geometry `yaml:"tree"`
	Ornaments    int            `yaml:"ornaments"`
	Frames       int            `yaml:"frames"`
	Seed         int64          `yaml:"seed"`
	Motion       morph.Params   `yaml:"motion"`
	Heart        HeartConfig    `yaml:"heart"`
	Text         TextConfig     `yaml:"text"`
	Live         LiveConfig     `yaml:"live"`
	OrnamentRate float64        `yaml:"ornament_rate"`
	StarRate     float64        `yaml:"star_rate"`
}

type HeartConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type TextConfig struct {
	Value             string `yaml:"value"`
	shape.TextOptions `yaml:",inline"`
}

type LiveConfig struct {
	FPS   int    `yaml:"fps"`
	Theme string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:  DefaultParticles,
		Silhouette: DefaultSilhouette,
		Tree:       shape.DefaultGeometry(),
		Ornaments:  ornament.DefaultCount,
		Frames:     ornament.DefaultFrames,
		Motion:     morph.DefaultParams(),
		Heart:      HeartConfig{MaxAttempts: shape.DefaultHeartAttempts},
		Text: TextConfig{
			Value:       DefaultText,
			TextOptions: shape.DefaultTextOptions(),
		},
		Live: LiveConfig{
			FPS:   DefaultFPS,
			Theme: DefaultTheme,
		},
		OrnamentRate: ornament.DefaultOrnamentRate,
		StarRate:     ornament.DefaultStarRate,
	}
}

// Load overlays the yaml document at path onto the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that cannot produce a cloud. Every error
// wraps cloud.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return cloud.InvalidConfig("particles", c.Particles)
	}
	if _, err := shape.ParseKind(c.Silhouette); err != nil {
		return cloud.InvalidConfig("silhouette", c.Silhouette)
	}
	if err := c.Tree.Validate(); err != nil {
		return err
	}
	if c.Ornaments < 0 {
		return cloud.InvalidConfig("ornaments", c.Ornaments)
	}
	if c.Frames < 0 {
		return cloud.InvalidConfig("frames", c.Frames)
	}
	if err := c.Motion.Validate(); err != nil {
		return err
	}
	if c.Heart.MaxAttempts <= 0 {
		return cloud.InvalidConfig("heart.max_attempts", c.Heart.MaxAttempts)
	}
	if err := c.Text.Validate(); err != nil {
		return err
	}
	if c.Live.FPS <= 0 {
		return cloud.InvalidConfig("live.fps", c.Live.FPS)
	}
	if !(c.OrnamentRate > 0) || math.IsInf(c.OrnamentRate, 0) {
		return cloud.InvalidConfig("ornament_rate", c.OrnamentRate)
	}
	if !(c.StarRate > 0) || math.IsInf(c.StarRate, 0) {
		return cloud.InvalidConfig("star_rate", c.StarRate)
	}
	return nil
}

// ResolveSeed returns the configured seed, or a time based one when unset.
func (c *Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// FrameDuration is the live view's tick interval.
func (c *Config) FrameDuration() time.Duration {
	if c.Live.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Live.FPS)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
