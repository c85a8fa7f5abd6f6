package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/metrics"
	"gonum.org/v1/gonum/floats"
)

const (
	canvasWidth     = 72
	canvasHeight    = 16
	historyCapacity = 600
	frameInterval   = time.Second / 30
	maxSpeed        = 64
)

type TickMsg time.Time

// Factory builds a fresh solver. Reset calls it again, so it must return
// an independent solver each time.
type Factory func() (*fdtd.Solver, error)

type fieldView int

const (
	viewE fieldView = iota
	viewH
	viewBoth
)

func (v fieldView) String() string {
	switch v {
	case viewE:
		return "E"
	case viewH:
		return "H"
	default:
		return "E+H"
	}
}

type LiveOptions struct {
	Theme string
	// Speed is the number of solver steps per frame.
	Speed int
	// MaxSteps pauses the view once reached; zero runs until quit.
	MaxSteps int
	// Probe is the E index charted over time; negative uses the source node.
	Probe int
}

// LiveModel steps a solver on every frame and draws its fields.
type LiveModel struct {
	build  Factory
	solver *fdtd.Solver
	grid   fdtd.GridConfig
	eta    float64
	opts   LiveOptions

	e, h   []float64
	canvas *Canvas
	scale  float64

	running  bool
	speed    int
	view     fieldView
	theme    Theme
	st       styles
	showHelp bool
	status   string

	energy    []float64
	probeHist []float64
	probe     int
}

func NewLiveModel(build Factory, opts LiveOptions) (LiveModel, error) {
	s, err := build()
	if err != nil {
		return LiveModel{}, err
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	theme := GetTheme(opts.Theme)
	m := LiveModel{
		build:   build,
		opts:    opts,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		speed:   min(opts.Speed, maxSpeed),
		theme:   theme,
		st:      newStyles(theme),
	}
	m.attach(s)
	return m, nil
}

func (m *LiveModel) attach(s *fdtd.Solver) {
	m.solver = s
	m.grid = s.Config()
	m.eta = Impedance(m.grid.Eps, m.grid.Mu)
	m.e = s.ReadE(m.e)
	m.h = s.ReadH(m.h)
	m.scale = 0
	m.energy = make([]float64, 0, historyCapacity)
	m.probeHist = make([]float64, 0, historyCapacity)
	m.probe = m.opts.Probe
	if m.probe < 0 || m.probe >= m.grid.N {
		m.probe = s.SourceIndex()
	}
	m.status = ""
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "f":
			m.view = (m.view + 1) % 3
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// advance steps up to n times, stopping at MaxSteps or on a NaN field.
func (m *LiveModel) advance(n int) {
	stepped := 0
	for ; stepped < n; stepped++ {
		if m.opts.MaxSteps > 0 && m.solver.Steps() >= m.opts.MaxSteps {
			m.running = false
			m.status = "done"
			break
		}
		m.solver.Step()
	}
	if stepped == 0 {
		return
	}
	m.e = m.solver.ReadE(m.e)
	m.h = m.solver.ReadH(m.h)

	if floats.HasNaN(m.e) {
		m.running = false
		m.status = "unstable"
		return
	}
	m.record()
}

func (m *LiveModel) record() {
	m.energy = appendCapped(m.energy, metrics.FieldEnergy(m.grid, m.e, m.h))
	m.probeHist = appendCapped(m.probeHist, m.e[m.probe])

	peak := floats.Norm(m.e, math.Inf(1))
	if len(m.h) > 0 {
		peak = math.Max(peak, m.eta*floats.Norm(m.h, math.Inf(1)))
	}
	m.scale = math.Max(m.scale, peak)
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) == historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m *LiveModel) reset() {
	s, err := m.build()
	if err != nil {
		m.running = false
		m.status = err.Error()
		return
	}
	m.attach(s)
}

func (m LiveModel) Steps() int    { return m.solver.Steps() }
func (m LiveModel) Running() bool { return m.running }
func (m LiveModel) Speed() int    { return m.speed }
func (m LiveModel) Theme() Theme  { return m.theme }
func (m LiveModel) Status() string {
	return m.status
}

// Energy returns the recorded energy history, oldest first.
func (m LiveModel) Energy() []float64 { return m.energy }

func (m LiveModel) drawFields() string {
	m.canvas.Clear()
	m.canvas.Axis()
	scale := m.scale
	if scale == 0 {
		scale = 1
	}

	var eTrace, hTrace string
	if m.view == viewE || m.view == viewBoth {
		m.canvas.Trace(m.e, scale)
		eTrace = m.canvas.String()
	}
	if m.view == viewH || m.view == viewBoth {
		m.canvas.Clear()
		m.canvas.Axis()
		scaled := make([]float64, len(m.h))
		floats.ScaleTo(scaled, m.eta, m.h)
		m.canvas.Trace(scaled, scale)
		hTrace = m.canvas.String()
	}

	switch m.view {
	case viewE:
		return m.st.e.Render(eTrace)
	case viewH:
		return m.st.h.Render(hTrace)
	default:
		return m.st.e.Render(eTrace) + "\n" + m.st.h.Render(hTrace)
	}
}

func (m LiveModel) View() string {
	st := m.st
	fields := lipgloss.NewStyle().Padding(1, 2).Render(m.drawFields())

	var s strings.Builder
	s.WriteString(st.header.Render(fmt.Sprintf("YEE1D  %s", strings.ToUpper(m.grid.Boundary.String()))) + "\n")

	status := st.run.Render("RUNNING")
	switch {
	case m.status != "":
		status = st.warn.Render(strings.ToUpper(m.status))
	case !m.running:
		status = st.pause.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.solver.Steps()))
	row("Time", fmt.Sprintf("%.4e s", m.solver.Time()))
	row("Grid", fmt.Sprintf("N=%d dx=%g", m.grid.N, m.grid.Dx))
	row("Courant", fmt.Sprintf("%.3f", m.grid.S))
	row("Speed", fmt.Sprintf("%d steps/frame", m.speed))
	row("View", m.view.String())
	row("Scale", fmt.Sprintf("%.3e V/m", m.scale))
	if m.opts.MaxSteps > 0 {
		row("Progress", ProgressBar(float64(m.solver.Steps())/float64(m.opts.MaxSteps), 20))
	}

	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.4e J/m²", m.energy[len(m.energy)-1]))
		s.WriteString(st.label.Render("") + st.value.Render(Sparkline(m.energy, 24)) + "\n")
	}
	if len(m.probeHist) > 1 {
		chart := asciigraph.Plot(m.probeHist,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption(fmt.Sprintf("E[%d]", m.probe)),
			asciigraph.SeriesColors(m.theme.EPlot),
		)
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause N:Step R:Reset Q:Quit\n+/-:Speed F:Field T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, fields, st.panel.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single step (paused)     ║
║  R        - Restart from step 0      ║
║  + / -    - Double/halve speed       ║
║  F        - Cycle E, H, both         ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
