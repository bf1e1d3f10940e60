// Package scene assembles a complete particle session from configuration:
// the silhouette library, colors, velocity field, morph engine and
// decorations, all built once up front.
package scene

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/config"
	"github.com/san-kum/snowglobe/internal/morph"
	"github.com/san-kum/snowglobe/internal/ornament"
	"github.com/san-kum/snowglobe/internal/palette"
	"github.com/san-kum/snowglobe/internal/shape"
)

// Decor is the per-frame state of the decorations.
type Decor struct {
	Baubles  float64
	Photos   float64
	Star     float64
	StarYaw  float64
	StarRoll float64
}

type Session struct {
	cfg     *config.Config
	log     *slog.Logger
	seed    int64
	library *shape.Library
	colors  palette.Colors
	engine  *morph.Engine

	anchors []ornament.Anchor
	frames  []ornament.Frame
	star    ornament.Star

	baubles *ornament.Visibility
	photos  *ornament.Visibility
	starVis *ornament.Visibility
	decor   Decor

	kind    shape.Kind
	text    string
	mode    cloud.Mode
	elapsed float64
}

// New builds every buffer the session will use. The live buffer starts on the
// tree; a non-tree silhouette in cfg becomes the homing target.
func New(cfg *config.Config, log *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	seed := cfg.ResolveSeed()
	rng := rand.New(rand.NewSource(seed))

	lib, err := shape.NewLibrary(rng, shape.LibraryConfig{
		Count:         cfg.Particles,
		Geometry:      cfg.Tree,
		HeartAttempts: cfg.Heart.MaxAttempts,
		Text:          cfg.Text.TextOptions,
		Logger:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("silhouettes: %w", err)
	}

	colors, err := palette.Assign(rng, cfg.Particles, palette.Evergreen)
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}

	vel, err := morph.NewVelocityField(rng, cfg.Particles, cfg.Motion.Velocity)
	if err != nil {
		return nil, fmt.Errorf("velocity: %w", err)
	}

	engine, err := morph.New(lib.Tree(), vel, cfg.Motion)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	anchors, err := ornament.Place(rng, cfg.Ornaments, cfg.Tree)
	if err != nil {
		return nil, fmt.Errorf("ornaments: %w", err)
	}
	frames, err := ornament.Frames(cfg.Frames, cfg.Tree)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}

	baubles, err := ornament.NewVisibility(cfg.OrnamentRate)
	if err != nil {
		return nil, err
	}
	photos, _ := ornament.NewVisibility(cfg.OrnamentRate)
	starVis, err := ornament.NewVisibility(cfg.StarRate)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		log:     log,
		seed:    seed,
		library: lib,
		colors:  colors,
		engine:  engine,
		anchors: anchors,
		frames:  frames,
		star:    ornament.NewStar(cfg.Tree),
		baubles: baubles,
		photos:  photos,
		starVis: starVis,
		decor:   Decor{Baubles: 1, Photos: 1, Star: 1},
		kind:    shape.KindTree,
		mode:    cloud.ModeSettled,
	}

	kind, _ := shape.ParseKind(cfg.Silhouette)
	if err := s.SetSilhouette(kind, cfg.Text.Value); err != nil {
		return nil, err
	}

	log.Debug("session ready",
		"particles", cfg.Particles,
		"ornaments", len(anchors),
		"frames", len(frames),
		"seed", seed,
		"silhouette", kind)
	return s, nil
}

// SetSilhouette retargets the engine to a cached silhouette. Text is only
// consulted for shape.KindText.
func (s *Session) SetSilhouette(kind shape.Kind, text string) error {
	buf := s.library.Get(kind, text)
	if err := s.engine.Retarget(buf); err != nil {
		return err
	}
	if kind != s.kind || text != s.text {
		s.log.Debug("silhouette", "kind", kind, "text", text)
	}
	s.kind = kind
	s.text = text
	return nil
}

// Advance runs one frame: the morph step followed by the decoration tweens.
func (s *Session) Advance(mode cloud.Mode, dt float64) {
	if mode != s.mode {
		s.log.Debug("mode", "from", s.mode, "to", mode, "t", s.elapsed)
		s.mode = mode
	}
	s.elapsed += dt
	s.engine.Step(mode, dt, s.elapsed)

	yaw, roll := s.star.Spin(s.elapsed)
	s.decor = Decor{
		Baubles:  s.baubles.Update(mode, dt),
		Photos:   s.photos.Update(mode, dt),
		Star:     s.starVis.Update(mode, dt),
		StarYaw:  yaw,
		StarRoll: roll,
	}
}

// Reset puts every particle back on the current target and restarts the clock.
func (s *Session) Reset() {
	s.engine.Reset()
	s.elapsed = 0
}

func (s *Session) Config() *config.Config     { return s.cfg }
func (s *Session) Seed() int64                { return s.seed }
func (s *Session) Library() *shape.Library    { return s.library }
func (s *Session) Engine() *morph.Engine      { return s.engine }
func (s *Session) Colors() palette.Colors     { return s.colors }
func (s *Session) Anchors() []ornament.Anchor { return s.anchors }
func (s *Session) Frames() []ornament.Frame   { return s.frames }
func (s *Session) Star() ornament.Star        { return s.star }
func (s *Session) Decor() Decor               { return s.decor }
func (s *Session) Silhouette() shape.Kind     { return s.kind }
func (s *Session) Text() string               { return s.text }
func (s *Session) Mode() cloud.Mode           { return s.mode }
func (s *Session) Elapsed() float64           { return s.elapsed }
func (s *Session) Live() cloud.Buffer         { return s.engine.Live() }
func (s *Session) Target() cloud.Buffer       { return s.engine.Target() }
