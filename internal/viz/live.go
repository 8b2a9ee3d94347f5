package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/pin"
	"github.com/san-kum/ropesim/internal/scenario"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	tearLogSize     = 5
	kickSpeed       = 0.05
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// ReloadMsg swaps in a new configuration and rebuilds the scene.
type ReloadMsg struct {
	Config *config.Config
}

// ReloadErrMsg reports a configuration that failed to load.
type ReloadErrMsg struct {
	Err error
}

// Builder creates the scene shown by the live view.
type Builder func(cfg *config.Config) (*scenario.Scene, error)

// Model is the live view of one scene.
type Model struct {
	build    Builder
	cfg      *config.Config
	scene    *scenario.Scene
	t, dt    float64
	width    int
	height   int
	canvas   *Canvas
	camera   *Camera
	framer   *Framer
	running  bool
	view3D   bool
	showMesh bool
	showHelp bool
	points   []mgl64.Vec3
	stretch  []float64
	tears    []sim.TearEvent
	status   string
}

func NewModel(cfg *config.Config, build Builder) (Model, error) {
	scene, err := build(cfg)
	if err != nil {
		return Model{}, err
	}
	fps := max(int(math.Round(1/cfg.Run.Dt)), 1)
	return Model{
		build:   build,
		cfg:     cfg.Clone(),
		scene:   scene,
		dt:      cfg.Run.Dt,
		width:   width,
		height:  height,
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(),
		framer:  NewFramer(fps, 4, 1),
		running: true,
		stretch: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Time() float64          { return m.t }
func (m Model) Scene() *scenario.Scene { return m.scene }
func (m Model) Running() bool          { return m.running }
func (m Model) Tears() []sim.TearEvent { return m.tears }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-50, 20)
		m.height = max(msg.Height-4, 8)
		m.canvas = NewCanvas(m.width, m.height)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	case ReloadMsg:
		if err := m.reload(msg.Config); err != nil {
			m.status = "reload failed: " + err.Error()
		} else {
			m.status = "reloaded"
		}
	case ReloadErrMsg:
		m.status = "reload failed: " + msg.Err.Error()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.scene.Rope
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case ".":
		if !m.running {
			m.step()
		}
	case "r":
		if err := m.reload(m.cfg); err != nil {
			m.status = err.Error()
		}
	case "c":
		if edge := r.Len()/2 - 1; r.TearAt(edge) {
			m.status = fmt.Sprintf("cut edge %d", edge)
		}
	case "f":
		repaired := 0
		for e := 0; e < r.Len()-1; e++ {
			if r.Repair(e) {
				repaired++
			}
		}
		m.status = fmt.Sprintf("repaired %d edges", repaired)
	case "i":
		r.ApplyImpulse(r.Len()-1, mgl64.Vec3{kickSpeed, kickSpeed, 0})
	case "v":
		m.view3D = !m.view3D
	case "m":
		m.showMesh = !m.showMesh
	case "t":
		NextTheme()
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
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) reload(cfg *config.Config) error {
	scene, err := m.build(cfg)
	if err != nil {
		return err
	}
	m.cfg = cfg.Clone()
	m.scene = scene
	m.dt = cfg.Run.Dt
	m.t = 0
	m.stretch = m.stretch[:0]
	m.tears = nil
	m.framer.Reset()
	return nil
}

func (m *Model) step() {
	r := m.scene.Rope
	m.scene.Drive(r, m.t)
	r.Tick(m.dt)
	m.t += m.dt

	for _, edge := range r.DrainTorn() {
		m.tears = append(m.tears, sim.TearEvent{Time: m.t, Edge: edge})
	}
	if len(m.tears) > tearLogSize {
		m.tears = m.tears[len(m.tears)-tearLogSize:]
	}

	if len(m.stretch) == historyCapacity {
		m.stretch = append(m.stretch[:0], m.stretch[1:]...)
	}
	m.stretch = append(m.stretch, r.Stats().MaxStretch)
}

func (m *Model) draw() {
	m.canvas.Clear()
	r := m.scene.Rope
	m.points = r.PointsInto(m.points)
	if m.view3D {
		m.draw3D()
		return
	}

	cw, ch := m.canvas.PixelSize()
	centre, half := m.framer.Update(r.Bounds())
	project := func(p mgl64.Vec3) (int, int) { return ToCanvas(p, centre, half, cw, ch) }

	for _, o := range m.scene.Static {
		switch ob := o.(type) {
		case collide.Sphere:
			x, y := project(ob.Center)
			m.canvas.DrawCircle(x, y, int(ob.Radius*float64(ch)/(2*half)))
		case collide.Plane:
			if math.Abs(ob.Normal.Y()) > 0.9 {
				_, y := project(ob.Point)
				m.canvas.DrawLine(0, y, cw-1, y)
			}
		}
	}
	if m.scene.World != nil {
		for _, o := range m.scene.World.Obstacles() {
			for i := 0; i+1 < len(o.Outline); i++ {
				x0, y0 := project(mgl64.Vec3{o.Outline[i].X(), o.Outline[i].Y(), 0})
				x1, y1 := project(mgl64.Vec3{o.Outline[i+1].X(), o.Outline[i+1].Y(), 0})
				m.canvas.DrawLine(x0, y0, x1, y1)
			}
		}
	}

	mask := r.Mask()
	for i := 0; i+1 < len(m.points); i++ {
		if i < len(mask) && !mask[i] {
			continue
		}
		x0, y0 := project(m.points[i])
		x1, y1 := project(m.points[i+1])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i, p := range m.points {
		if r.PinKind(i) != pin.Free {
			x, y := project(p)
			m.canvas.DrawCross(x, y)
		}
	}
}

func (m *Model) draw3D() {
	r := m.scene.Rope
	m.camera.Target = r.Bounds().Center()

	var wire *Wireframe
	if m.showMesh {
		wire = MeshWireframe(r.Mesh())
	} else {
		wire = RopeWireframe(m.points, r.Mask())
	}
	for _, o := range m.scene.Static {
		if s, ok := o.(collide.Sphere); ok {
			wire.Extend(SphereWireframe(s.Center, s.Radius, 16))
		}
	}
	for i, p := range m.points {
		if r.PinKind(i) != pin.Free {
			wire.AddPoint(p)
		}
	}
	if len(m.points) > 0 {
		wire.Extend(AxesWireframe(m.points[0], 0.5))
	}
	Render3D(m.canvas, wire, m.camera)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Rope).Render(m.canvas.String()))

	r := m.scene.Rope
	stats := r.Stats()
	limit := m.cfg.Tear.StretchRatio

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(CurrentTheme.Primary).Render(strings.ToUpper(m.scene.Name)) + "\n")
	switch {
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED"))
	case stats.TornEdges > 0:
		s.WriteString(StatusTorn.Render(fmt.Sprintf("TORN x%d", stats.TornEdges)))
	default:
		s.WriteString(StatusRunning.Render("RUNNING"))
	}
	s.WriteString("\n\n")

	if len(m.stretch) > 1 {
		chart := asciigraph.Plot(m.stretch, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("max stretch"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Points", fmt.Sprintf("%d", r.Len()))
	row("Substeps", fmt.Sprintf("%d", stats.Substeps))
	row("Iterations", fmt.Sprintf("%d", stats.Iterations))
	row("Max speed", fmt.Sprintf("%.2f", stats.MaxSpeed))
	row("Candidates", fmt.Sprintf("%d (+%d dropped)", stats.Candidates, stats.Dropped))
	row("Triangles", fmt.Sprintf("%d", stats.Triangles))
	s.WriteString(MetricLabel.Render("Strain") + StrainBar(stats.MaxStretch, limit, 20) + "\n")

	if len(m.tears) > 0 {
		s.WriteString("\nTEARS\n")
		for _, ev := range m.tears {
			s.WriteString(KeyHint.Render(fmt.Sprintf("  edge %d at %.2fs", ev.Edge, ev.Time)) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + Subtle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("\n" + Separator(30) + "\nSP:Pause R:Reset Q:Quit\nC:Cut F:Fix I:Kick ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single step when paused  ║
║  R        - Rebuild the scene        ║
║  C        - Cut the middle edge      ║
║  F        - Repair torn edges        ║
║  I        - Kick the tip             ║
║  V        - Toggle 3D view           ║
║  M        - Toggle tube mesh in 3D   ║
║  X/Y      - Rotate 3D camera         ║
║  +/-      - Zoom 3D camera           ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
