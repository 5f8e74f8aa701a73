package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ljsim/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 600
	maxStepsPerTick = 256
)

type TickMsg time.Time

type LiveOptions struct {
	Title     string
	BoxLength float64
	// MaxSteps stops stepping once reached; 0 runs until quit.
	MaxSteps      int
	StepsPerFrame int
	FPS           int
	// OnSample is called with every sample the model produces.
	OnSample func(sim.Sample)
}

// Model steps an engine on every tick and renders its latest sample.
type Model struct {
	engine sim.Stepper
	opts   LiveOptions

	canvas *Canvas
	camera *Camera

	running  bool
	done     bool
	showHelp bool
	err      error

	last      sim.Sample
	potential []float64
	total     []float64
	accepted  int
	trials    int
}

func NewModel(engine sim.Stepper, opts LiveOptions) Model {
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return Model{
		engine:    engine,
		opts:      opts,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		camera:    NewCamera(),
		running:   true,
		potential: make([]float64, 0, historyCapacity),
		total:     make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err is the error that stopped stepping, if any.
func (m Model) Err() error { return m.err }

func (m Model) Done() bool { return m.done }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done {
				m.running = !m.running
			}
		case "+", "=":
			m.opts.StepsPerFrame = min(maxStepsPerTick, m.opts.StepsPerFrame*2)
		case "-", "_":
			m.opts.StepsPerFrame = max(1, m.opts.StepsPerFrame/2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "]":
			m.camera.ZoomIn()
		case "[":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		if m.opts.MaxSteps > 0 && m.engine.StepsTaken() >= m.opts.MaxSteps {
			m.finish()
			return
		}
		s, err := m.engine.Step()
		if err != nil {
			m.err = err
			m.finish()
			return
		}
		m.record(s)
	}
	if m.opts.MaxSteps > 0 && m.engine.StepsTaken() >= m.opts.MaxSteps {
		m.finish()
	}
}

func (m *Model) finish() {
	m.done = true
	m.running = false
}

func (m *Model) record(s sim.Sample) {
	if s.Step > 0 {
		m.trials++
		if s.Accept {
			m.accepted++
		}
	}
	if m.opts.OnSample != nil {
		m.opts.OnSample(s)
	}
	m.last = s
	m.potential = appendCapped(m.potential, s.Potential)
	m.total = appendCapped(m.total, s.Total())
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m Model) View() string {
	st := currentStyles()

	m.canvas.Clear()
	RenderBox(m.canvas, m.camera, m.last.Position, m.opts.BoxLength)
	left := st.box.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.done:
		s.WriteString(st.done.Render("DONE") + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.engine.StepsTaken()))
	if m.opts.MaxSteps > 0 {
		frac := float64(m.engine.StepsTaken()) / float64(m.opts.MaxSteps)
		row("Progress", ProgressBar(frac, 20))
	}
	row("Potential", fmt.Sprintf("%.6g kcal/mol", m.last.Potential))
	row("Kinetic", fmt.Sprintf("%.6g", m.last.Kinetic))
	row("Total", fmt.Sprintf("%.6g", m.last.Total()))
	if m.trials > 0 {
		row("Accepted", fmt.Sprintf("%d/%d (%.1f%%)", m.accepted, m.trials, 100*float64(m.accepted)/float64(m.trials)))
	}
	row("Speed", fmt.Sprintf("%d steps/frame", m.opts.StepsPerFrame))
	row("Total E", Sparkline(m.total, 30))

	if len(m.potential) > 1 {
		chart := asciigraph.Plot(m.potential, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("potential energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + st.muted.Render("space pause  +/- speed  x/y rotate  [/] zoom  t theme  q quit") + "\n")
	} else {
		s.WriteString("\n" + st.muted.Render("? help") + "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, st.stats.Render(s.String()))
}
