package ornament

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/snowglobe/internal/cloud"
)

const (
	DefaultOrnamentRate = 4.0
	DefaultStarRate     = 3.0
)

// Visibility eases a uniform scale between 0 and 1 as the mode flips. The
// scale starts at 1 because the session opens on the settled tree.
type Visibility struct {
	rate   float64
	easing ease.TweenFunc
	scale  float32
	goal   float32
	tween  *gween.Tween
}

// NewVisibility builds a tracker that completes a full transition in
// 1/rate seconds.
func NewVisibility(rate float64) (*Visibility, error) {
	if !(rate > 0) {
		return nil, cloud.InvalidConfig("ornament_rate", rate)
	}
	return &Visibility{rate: rate, easing: ease.OutCubic, scale: 1, goal: 1}, nil
}

// Update advances the tween by dt seconds toward the goal implied by mode and
// returns the current scale.
func (v *Visibility) Update(mode cloud.Mode, dt float64) float64 {
	var goal float32 = 1
	if mode.Dispersed() {
		goal = 0
	}
	if goal != v.goal {
		v.goal = goal
		v.tween = gween.New(v.scale, goal, float32(1/v.rate), v.easing)
	}
	if v.tween != nil && dt > 0 {
		val, done := v.tween.Update(float32(dt))
		v.scale = val
		if done {
			v.scale = v.goal
			v.tween = nil
		}
	}
	return float64(v.scale)
}

func (v *Visibility) Scale() float64 { return float64(v.scale) }

// Visible reports whether a renderer should draw the set at all.
func (v *Visibility) Visible() bool { return v.scale > 0.5 }

// Settling reports whether a transition is in flight.
func (v *Visibility) Settling() bool { return v.tween != nil }
