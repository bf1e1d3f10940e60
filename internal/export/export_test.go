package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/config"
	"github.com/san-kum/snowglobe/internal/scene"
	"github.com/san-kum/snowglobe/internal/viz"
)

func testSession(t *testing.T) *scene.Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles = 300
	cfg.Ornaments = 20
	cfg.Seed = 9
	s, err := scene.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 4) != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(2, 1)
	c.Plot(0, 0, 0, colorful.Color{R: 1})
	c.Plot(3, 3, 0, colorful.Color{B: 1})
	svg := CanvasToSVG(c, 4)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) || !strings.Contains(svg, `fill="#0000ff"`) {
		t.Error("dots should carry their cell colors")
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected document size")
	}
}

func TestCloudToSVG(t *testing.T) {
	s := testSession(t)
	svg := CloudToSVG(s, viz.NewCamera(), 400, 400)
	if n := strings.Count(svg, "<circle"); n < s.Live().Len() {
		t.Errorf("expected at least %d circles, got %d", s.Live().Len(), n)
	}
	if !strings.Contains(svg, `r="2.5"`) {
		t.Error("settled cloud should show the baubles")
	}

	for i := 0; i < 90; i++ {
		s.Advance(cloud.ModeDispersed, 1.0/30)
	}
	svg = CloudToSVG(s, viz.NewCamera(), 400, 400)
	if strings.Contains(svg, `r="2.5"`) {
		t.Error("dispersed cloud should hide the baubles")
	}

	if CloudToSVG(s, nil, 400, 400) != "" {
		t.Error("missing camera should give empty output")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{0}, []float64{1}, 100, 50, "#fff") != "" {
		t.Error("a single point cannot be plotted")
	}
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{3, 1, 0}, 100, 50, "#3cb371")
	if !strings.Contains(svg, `stroke="#3cb371"`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path: %s", svg)
	}
}

func TestCaptureJSON(t *testing.T) {
	s := testSession(t)
	s.Advance(cloud.ModeSettled, 1.0/30)

	snap := Capture(s)
	if len(snap.Particles) != 300 {
		t.Fatalf("expected 300 particles, got %d", len(snap.Particles))
	}
	if len(snap.Ornaments) != 20+len(s.Frames()) {
		t.Errorf("expected baubles and photos, got %d", len(snap.Ornaments))
	}
	if snap.Steps != 1 || snap.Mode != "settled" || snap.Silhouette != "tree" {
		t.Errorf("unexpected header %+v", snap)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, snap); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if back.Seed != 9 || back.Particles[7] != snap.Particles[7] {
		t.Error("json lost data")
	}
}

func TestWriteCSV(t *testing.T) {
	snap := Capture(testSession(t))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, snap); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 1+len(snap.Particles)+len(snap.Ornaments) {
		t.Errorf("unexpected row count %d", len(rows))
	}
	if rows[0][0] != "kind" || rows[1][0] != "particle" {
		t.Errorf("unexpected leading rows %v %v", rows[0], rows[1])
	}
	last := rows[len(rows)-1]
	if last[0] != "photo" {
		t.Errorf("expected photo frames last, got %s", last[0])
	}
}
