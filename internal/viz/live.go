package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/ornament"
	"github.com/san-kum/snowglobe/internal/palette"
	"github.com/san-kum/snowglobe/internal/scene"
	"github.com/san-kum/snowglobe/internal/shape"
)

const (
	width           = 80
	height          = 30
	statsWidth      = 40
	historyCapacity = 300
	orbitStep       = 0.01
	gifFile         = "snowglobe.gif"
)

var (
	goldColor  = ornament.TagGold.Color()
	frameColor = colorful.Color{R: 0.95, G: 0.92, B: 0.85}
)

type TickMsg time.Time

// Model is the live view over one session.
type Model struct {
	session  *scene.Session
	log      *slog.Logger
	mode     cloud.Mode
	dt       float64
	interval time.Duration

	width, height int
	canvas        *Canvas
	camera        *Camera
	wire          *Wireframe

	orbit, paused bool
	showHelp      bool
	tick          int
	distHistory   []float64

	recording bool
	frames    []*image.Paletted
	notice    string
}

// NewModel builds the live view. The session's configured theme becomes the
// current theme.
func NewModel(s *scene.Session, log *slog.Logger) Model {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := s.Config()
	SetTheme(cfg.Live.Theme)
	return Model{
		session:     s,
		log:         log,
		mode:        cloud.ModeSettled,
		dt:          1 / float64(cfg.Live.FPS),
		interval:    cfg.FrameDuration(),
		width:       width,
		height:      height,
		canvas:      NewCanvas(width, height),
		camera:      NewCamera(),
		wire:        NewWireframe(),
		orbit:       true,
		distHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.toggleMode()
		case "h":
			m.home(shape.KindHeart)
		case "t":
			m.home(shape.KindText)
		case "g":
			m.home(shape.KindTree)
		case "r":
			m.session.Reset()
			m.distHistory = m.distHistory[:0]
		case "p":
			m.paused = !m.paused
		case "o":
			m.orbit = !m.orbit
		case "c":
			NextTheme()
		case "w":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if !m.paused {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.nextTick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := w - statsWidth - 6
	ch := h - 2
	if cw < 20 {
		cw = 20
	}
	if ch < 10 {
		ch = 10
	}
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.frames = nil
	m.recording = false
}

func (m *Model) toggleMode() {
	if m.mode.Dispersed() {
		m.mode = cloud.ModeSettled
	} else {
		m.mode = cloud.ModeDispersed
	}
}

// home retargets the session and settles the cloud so the new shape forms.
func (m *Model) home(kind shape.Kind) {
	if err := m.session.SetSilhouette(kind, m.session.Config().Text.Value); err != nil {
		m.log.Error("retarget failed", "kind", kind, "err", err)
		m.notice = err.Error()
		return
	}
	m.mode = cloud.ModeSettled
}

// step advances the session one frame.
func (m *Model) step() {
	m.session.Advance(m.mode, m.dt)
	if m.orbit {
		m.camera.RotateY(orbitStep)
	}
	m.tick++

	m.distHistory = append(m.distHistory, cloud.MeanDistance(m.session.Live(), m.session.Target()))
	if len(m.distHistory) > historyCapacity {
		m.distHistory = m.distHistory[1:]
	}
}

// shade fades c toward bg with distance behind the origin.
func shade(c, bg colorful.Color, depth float64) colorful.Color {
	t := -depth / 12
	if t <= 0 {
		return c
	}
	return c.BlendLab(bg, math.Min(t, 0.6))
}

// draw projects the cloud and the visible decorations onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	theme := CurrentTheme
	bg, err := colorful.Hex(string(theme.Background))
	if err != nil {
		bg = colorful.Color{}
	}

	live := m.session.Live()
	tiers := m.session.Colors().Tiers
	for i := 0; i < live.Len(); i++ {
		x, y, d, ok := m.camera.Project(live.At(i), cw, ch)
		if !ok {
			continue
		}
		m.canvas.Plot(x, y, d, shade(theme.Palette.Colors[tiers[i]], bg, d))
	}

	decor := m.session.Decor()
	if decor.Baubles > 0.5 {
		for _, a := range m.session.Anchors() {
			x, y, d, ok := m.camera.Project(a.Pos, cw, ch)
			if !ok {
				continue
			}
			c := a.Tag.Color()
			for dy := 0; dy <= 1; dy++ {
				for dx := 0; dx <= 1; dx++ {
					m.canvas.Plot(x+dx, y+dy, d+0.5, c)
				}
			}
		}
	}

	m.wire.Clear()
	elapsed := m.session.Elapsed()
	if decor.Photos > 0.5 {
		for _, f := range m.session.Frames() {
			m.wire.Panel(f.Pos, f.Normal, 0.3*decor.Photos, 0.4*decor.Photos, f.Sway(elapsed), frameColor)
		}
	}
	if decor.Star > 0.5 {
		m.wire.Octahedron(m.session.Star().Pos, 0.45*decor.Star, decor.StarYaw, decor.StarRoll, goldColor)
	}
	Render3D(m.canvas, m.wire, m.camera)
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	theme := CurrentTheme
	s := m.session
	decor := s.Decor()

	var b strings.Builder
	b.WriteString(headerStyle().Render(GradientText("SNOWGLOBE", theme.Primary, theme.Secondary)) + "\n\n")

	status := modeStyle(m.mode.Dispersed()).Render(strings.ToUpper(m.mode.String()))
	if m.paused {
		status += "  " + StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + StatusRecording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	if !m.paused && (decor.Baubles > 0 && decor.Baubles < 1) {
		status += " " + AnimatedSpinner(m.tick)
	}
	b.WriteString(status + "\n\n")

	silhouette := string(s.Silhouette())
	if s.Silhouette() == shape.KindText {
		silhouette += fmt.Sprintf(" %q", s.Text())
	}
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Shape", silhouette)
	row("Particles", fmt.Sprintf("%d", s.Live().Len()))
	row("Time", fmt.Sprintf("%.2fs", s.Elapsed()))
	row("Theme", theme.Name)
	dist := 0.0
	if len(m.distHistory) > 0 {
		dist = m.distHistory[len(m.distHistory)-1]
	}
	row("Distance", fmt.Sprintf("%.4f", dist))
	b.WriteString(MetricLabel.Render("Ornaments") + ProgressBar(decor.Baubles, 12) + "\n")
	b.WriteString(MetricLabel.Render("Star") + ProgressBar(decor.Star, 12) + "\n")

	if len(m.distHistory) > 1 {
		chart := asciigraph.Plot(m.distHistory, asciigraph.Height(4), asciigraph.Width(statsWidth-14), asciigraph.Caption("mean distance"))
		b.WriteString(graphStyle.Foreground(theme.Accent).Render(chart) + "\n")
	} else {
		b.WriteString("\n" + SparklineChart(m.distHistory, statsWidth-8) + "\n")
	}

	if m.notice != "" {
		b.WriteString(Subtle.Render(m.notice) + "\n")
	}
	b.WriteString(KeyHint.Render("\nSP:Morph H/T/G:Shape C:Theme\nO:Orbit P:Pause W:Record ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Settle / disperse        ║
║  H        - Heart                    ║
║  T        - Text                     ║
║  G        - Tree                     ║
║  X Y Z    - Rotate (shift reverses)  ║
║  + -      - Zoom                     ║
║  O        - Toggle auto orbit        ║
║  C        - Cycle themes             ║
║  P        - Pause                    ║
║  R        - Reset particles          ║
║  W        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`

func (m *Model) toggleRecording() {
	if m.recording {
		m.saveGIF()
		m.recording = false
		m.frames = nil
		return
	}
	m.recording = true
	m.frames = make([]*image.Paletted, 0)
	m.notice = ""
}

// gifPalette is the background, the particle tiers and the ornament colors.
func gifPalette(t Theme) color.Palette {
	bg, err := colorful.Hex(string(t.Background))
	if err != nil {
		bg = colorful.Color{}
	}
	p := color.Palette{bg.Clamped()}
	for _, c := range t.Palette.Colors {
		p = append(p, c.Clamped())
	}
	for _, hex := range []string{palette.Gold, palette.Ruby} {
		c, _ := colorful.Hex(hex)
		p = append(p, c)
	}
	return append(p, frameColor)
}

// captureFrame rasterizes the canvas dots into a paletted image.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	pal := gifPalette(CurrentTheme)
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), pal)

	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := uint8(pal.Index(m.canvas.Color[row][col].Clamped()))
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	delay := int(m.interval / (10 * time.Millisecond))
	if delay < 2 {
		delay = 2
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	if err := writeGIF(gifFile, &anim); err != nil {
		m.log.Error("save recording", "file", gifFile, "err", err)
		m.notice = "recording failed: " + err.Error()
		return
	}
	m.log.Info("saved recording", "file", gifFile, "frames", len(m.frames))
	m.notice = fmt.Sprintf("saved %s (%d frames)", gifFile, len(m.frames))
}

func writeGIF(path string, anim *gif.GIF) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Run starts the live view on its own.
func Run(s *scene.Session, log *slog.Logger) error {
	_, err := tea.NewProgram(NewModel(s, log), tea.WithAltScreen()).Run()
	return err
}
