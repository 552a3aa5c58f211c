// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/frame"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/raster"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
	"github.com/litescript/ls-orrery/internal/window"
)

// Chrome rows around the canvas when windowed.
const (
	headerLines = 2
	footerLines = 2
)

// MaxFrameDt caps the real time one frame may advance, so a stalled
// terminal does not make the planets jump.
const MaxFrameDt = 0.25

// FrameMsg triggers one frame of the loop.
type FrameMsg time.Time

// Options configures the root model.
type Options struct {
	FPS       int
	DragScale float64 // canvas pixels of camera drag per terminal cell
	Log       *logging.Logger
}

// DefaultOptions returns 30 fps with a drag scale of 8.
func DefaultOptions() Options {
	return Options{FPS: 30, DragScale: 8}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	runner *frame.Runner
	canvas *raster.Canvas
	log    *logging.Logger

	// UI state
	interval  time.Duration
	dragScale float64
	width     int
	height    int
	ready     bool
	help      bool
	relayout  bool // terminal resized while fullscreen
	lastFrame time.Time

	// Pointer position at the last look-drag event
	mouseX, mouseY int

	snapshot state.Snapshot
}

// New creates the root model around a runner whose executor is canvas.
func New(runner *frame.Runner, canvas *raster.Canvas, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.DragScale <= 0 {
		opts.DragScale = 8
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return Model{
		runner:    runner,
		canvas:    canvas,
		log:       opts.Log,
		interval:  time.Second / time.Duration(opts.FPS),
		dragScale: opts.DragScale,
		snapshot:  runner.State().Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "?" {
			m.help = !m.help
			return m, nil
		}
		if !m.runner.Queue().Key(key) {
			m.log.Debug("unbound key %q", key)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case FrameMsg:
		return m.step(time.Time(msg))
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	q := m.runner.Queue()
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonRight:
			q.SetLook(true)
			m.mouseX, m.mouseY = msg.X, msg.Y
		case tea.MouseButtonWheelUp:
			q.Scroll(1)
		case tea.MouseButtonWheelDown:
			q.Scroll(-1)
		}
	case tea.MouseActionRelease:
		// Legacy encodings do not say which button was released.
		if msg.Button == tea.MouseButtonRight || msg.Button == tea.MouseButtonNone {
			q.SetLook(false)
		}
	case tea.MouseActionMotion:
		if !q.LookHeld() {
			return
		}
		// A cell is one canvas pixel wide and two tall.
		dx := float64(msg.X-m.mouseX) * m.dragScale
		dy := float64(msg.Y-m.mouseY) * 2 * m.dragScale
		m.mouseX, m.mouseY = msg.X, msg.Y
		q.Drag(dx, dy)
	}
}

// layout maps the terminal onto the window: the whole terminal is the
// monitor and the windowed rect is what the chrome leaves.
func (m *Model) layout() {
	win := m.runner.State().Window
	win.SetMonitor(window.Rect{Width: m.width, Height: m.height * 2})
	if win.Fullscreen() {
		m.relayout = true
		return
	}
	rows := max(m.height-headerLines-footerLines, 1)
	win.Resize(m.width, rows*2)
	m.relayout = false
}

func (m Model) step(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.interval.Seconds()
	if !m.lastFrame.IsZero() {
		dt = min(now.Sub(m.lastFrame).Seconds(), MaxFrameDt)
	}
	m.lastFrame = now

	if !m.ready {
		return m, m.frameCmd()
	}

	running := m.runner.Step(dt)
	if m.relayout && !m.runner.State().Window.Fullscreen() {
		m.layout()
	}
	m.snapshot = m.runner.State().Snapshot()
	if !running {
		return m, tea.Quit
	}
	return m, m.frameCmd()
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := m.canvas.String()
	if m.snapshot.Fullscreen {
		return content
	}
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderTabs()
}

func (m Model) renderTitle() string {
	title := gradientText("  ls-orrery")
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return title + muted.Render(fmt.Sprintf("  solar system orrery · v%s · [?] help", version.Version))
}

func (m Model) renderTabs() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, mode := range camera.Modes {
		tab := fmt.Sprintf("[%d] %s", i+1, mode)
		if mode.String() == m.snapshot.Mode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A427"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.snapshot.Frame%uint64(len(spinnerFrames))]

	s := m.snapshot
	var status string
	if s.Paused {
		status = warnStyle.Render("❚❚ PAUSED")
	} else {
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %.2fx", s.TimeScale))
	}

	fields := []string{
		fmt.Sprintf("%.1f fps", s.FPS),
		s.Mode,
		"focus " + s.Focus,
		fmt.Sprintf("FOV %.0f°", s.Fov),
	}
	if s.Mode == camera.ModeFocus.String() {
		fields = append(fields, fmt.Sprintf("dist %.1f", s.FocusDistance))
	}
	line := "  " + status + "  " + dimStyle.Render("| "+strings.Join(fields, " | "))

	var second string
	if m.help {
		second = dimStyle.Render(helpLine)
	} else if n := len(s.Events); n > 0 {
		second = dimStyle.Render(s.Events[n-1].Message)
	}
	return line + "\n  " + second
}

const helpLine = "1/2/3 camera · n/p focus · drag(right) look · wheel zoom · wasd/qe fly, ad/qe turn · " +
	"z/x focus dist · -/= fov · [/] speed · space pause · h orbits · b stars · f fullscreen · esc quit"

// Snapshot returns the state as of the last frame.
func (m Model) Snapshot() state.Snapshot {
	return m.snapshot
}
