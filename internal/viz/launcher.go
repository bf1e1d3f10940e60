package viz

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/snowglobe/internal/config"
	"github.com/san-kum/snowglobe/internal/scene"
	"github.com/san-kum/snowglobe/internal/shape"
)

var presetInfo = map[string]string{
	"default":  "8000 particles, classic pacing",
	"dense":    "20000 particles, parallel step",
	"sparse":   "2000 particles, light decor",
	"blizzard": "fast, swirling snow",
	"smooth":   "frame-rate independent motion",
}

var silhouettes = []shape.Kind{shape.KindTree, shape.KindHeart, shape.KindText}

const (
	stateMenu = iota
	stateShape
	stateLive
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CB371")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D6001C"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CB371")).Bold(true)
)

// Launcher picks a preset and a silhouette, then hands over to the live view.
type Launcher struct {
	state, cursor int
	presets       []string
	preset        string
	apply         func(*config.Config)
	log           *slog.Logger
	live          Model
	width, height int
	err           error
}

// NewLauncher builds the picker. apply, when set, overlays command line
// settings onto the chosen preset.
func NewLauncher(apply func(*config.Config), log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Launcher{
		state:   stateMenu,
		presets: config.ListPresets(),
		apply:   apply,
		log:     log,
	}
}

func (l Launcher) Init() tea.Cmd { return nil }

func (l Launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.state == stateLive {
		next, cmd := l.live.Update(msg)
		l.live = next.(Model)
		return l, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width, l.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l Launcher) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(l.presets)
	if l.state == stateShape {
		n = len(silhouettes)
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return l, tea.Quit
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < n-1 {
			l.cursor++
		}
	case "esc":
		if l.state == stateShape {
			l.state, l.cursor = stateMenu, 0
		}
	case "enter":
		if l.state == stateMenu {
			l.preset = l.presets[l.cursor]
			l.state, l.cursor = stateShape, 0
			return l, nil
		}
		return l.start(silhouettes[l.cursor])
	}
	return l, nil
}

func (l Launcher) start(kind shape.Kind) (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(l.preset)
	if l.apply != nil {
		l.apply(cfg)
	}
	cfg.Silhouette = string(kind)
	s, err := scene.New(cfg, l.log)
	if err != nil {
		l.err = err
		l.log.Error("start session", "preset", l.preset, "err", err)
		return l, nil
	}
	l.live = NewModel(s, l.log)
	if l.width > 0 {
		l.live.resize(l.width, l.height)
	}
	l.state = stateLive
	return l, l.live.Init()
}

func (l Launcher) View() string {
	switch l.state {
	case stateMenu:
		return l.viewList("SNOWGLOBE", "particle cloud engine", l.presets, func(name string) string { return presetInfo[name] })
	case stateShape:
		names := make([]string, len(silhouettes))
		for i, k := range silhouettes {
			names[i] = string(k)
		}
		return l.viewList(strings.ToUpper(l.preset), presetInfo[l.preset], names, func(string) string { return "" })
	case stateLive:
		return l.live.View()
	}
	return ""
}

func (l Launcher) viewList(title, subtitle string, items []string, describe func(string) string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(subtitle) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range items {
		if i == l.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(describe(name))))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(describe(name))))
		}
	}
	if l.err != nil {
		b.WriteString("\n    " + menuDesc.Render(l.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  "))
	if l.state == stateShape {
		b.WriteString(menuKey.Render("esc") + menuIdle.Render(" back  "))
	}
	b.WriteString(menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

// RunLauncher starts the picker in the alternate screen.
func RunLauncher(apply func(*config.Config), log *slog.Logger) error {
	_, err := tea.NewProgram(NewLauncher(apply, log), tea.WithAltScreen()).Run()
	return err
}
