package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

// Segment holds one mode for a fixed number of seconds. A non-empty
// Silhouette retargets the cloud when the segment begins.
type Segment struct {
	Mode       cloud.Mode
	Seconds    float64
	Silhouette shape.Kind
	Text       string
}

type Schedule []Segment

// ParseSchedule reads a comma separated list of mode:seconds pairs, for
// example "settled:2,dispersed:3".
func ParseSchedule(s string) (Schedule, error) {
	var out Schedule
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, secs, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("schedule segment %q: want mode:seconds", part)
		}
		mode := cloud.ParseMode(name)
		if mode == cloud.ModeUnknown && !strings.EqualFold(strings.TrimSpace(name), "unknown") {
			return nil, fmt.Errorf("schedule segment %q: unknown mode %q", part, name)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(secs), 64)
		if err != nil {
			return nil, fmt.Errorf("schedule segment %q: %w", part, err)
		}
		out = append(out, Segment{Mode: mode, Seconds: d})
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("empty schedule")
	}
	for i, seg := range s {
		if !(seg.Seconds > 0) || math.IsInf(seg.Seconds, 0) {
			return fmt.Errorf("segment %d: seconds must be positive, got %v", i+1, seg.Seconds)
		}
	}
	return nil
}

func (s Schedule) Duration() float64 {
	total := 0.0
	for _, seg := range s {
		total += seg.Seconds
	}
	return total
}

// Frames is the number of steps segment i takes at dt.
func (seg Segment) Frames(dt float64) int {
	return int(math.Round(seg.Seconds / dt))
}

// ModeAt returns the mode in force at t seconds; past the end the last
// segment's mode holds.
func (s Schedule) ModeAt(t float64) cloud.Mode {
	if len(s) == 0 {
		return cloud.ModeSettled
	}
	acc := 0.0
	for _, seg := range s {
		acc += seg.Seconds
		if t < acc {
			return seg.Mode
		}
	}
	return s[len(s)-1].Mode
}

func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, seg := range s {
		parts[i] = fmt.Sprintf("%s:%g", seg.Mode, seg.Seconds)
	}
	return strings.Join(parts, ",")
}
