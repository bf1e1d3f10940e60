package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/snowglobe/internal/scene"
)

type Particle struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Z     float32 `json:"z"`
	TX    float32 `json:"tx"`
	TY    float32 `json:"ty"`
	TZ    float32 `json:"tz"`
	Tier  string  `json:"tier"`
	Color string  `json:"color"`
}

type Ornament struct {
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color string  `json:"color"`
}

// Snapshot is one frame of a session in a serializable form.
type Snapshot struct {
	Seed       int64      `json:"seed"`
	Silhouette string     `json:"silhouette"`
	Text       string     `json:"text,omitempty"`
	Mode       string     `json:"mode"`
	Time       float64    `json:"time"`
	Steps      int        `json:"steps"`
	Particles  []Particle `json:"particles"`
	Ornaments  []Ornament `json:"ornaments"`
	Star       [3]float64 `json:"star"`
}

// Capture copies the live state of s.
func Capture(s *scene.Session) *Snapshot {
	live, target := s.Live(), s.Target()
	colors := s.Colors()
	snap := &Snapshot{
		Seed:       s.Seed(),
		Silhouette: string(s.Silhouette()),
		Text:       s.Text(),
		Mode:       s.Mode().String(),
		Time:       s.Elapsed(),
		Steps:      s.Engine().Steps(),
		Particles:  make([]Particle, live.Len()),
	}
	for i := range snap.Particles {
		snap.Particles[i] = Particle{
			X: live[i*3], Y: live[i*3+1], Z: live[i*3+2],
			TX: target[i*3], TY: target[i*3+1], TZ: target[i*3+2],
			Tier:  colors.Tiers[i].String(),
			Color: colors.At(i).Clamped().Hex(),
		}
	}
	for _, a := range s.Anchors() {
		snap.Ornaments = append(snap.Ornaments, Ornament{a.Tag.String(), a.Pos.X, a.Pos.Y, a.Pos.Z, a.Tag.Color().Hex()})
	}
	for _, f := range s.Frames() {
		snap.Ornaments = append(snap.Ornaments, Ornament{"photo", f.Pos.X, f.Pos.Y, f.Pos.Z, "#f2ebd9"})
	}
	star := s.Star().Pos
	snap.Star = [3]float64{star.X, star.Y, star.Z}
	return snap
}

func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteCSV writes one row per particle followed by one row per ornament;
// the kind column tells them apart.
func WriteCSV(w io.Writer, snap *Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "index", "x", "y", "z", "tx", "ty", "tz", "tier", "color"}); err != nil {
		return err
	}

	f32 := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', 6, 32) }
	f64 := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i, p := range snap.Particles {
		row := []string{"particle", strconv.Itoa(i), f32(p.X), f32(p.Y), f32(p.Z), f32(p.TX), f32(p.TY), f32(p.TZ), p.Tier, p.Color}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for i, o := range snap.Ornaments {
		row := []string{o.Kind, strconv.Itoa(i), f64(o.X), f64(o.Y), f64(o.Z), "", "", "", "", o.Color}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ornament %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
