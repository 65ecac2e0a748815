package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/notionmap/pkg/buildinfo"
	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/physics"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// Terminal cells map to screen pixels at this size. Cells are about twice
// as tall as they are wide.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	frameInterval = 33 * time.Millisecond
	wheelDelta    = 100.0 // pixels per wheel notch
	panStep       = 4     // cells per arrow key
	chromeRows    = 3     // header, status and help lines
)

var (
	linkStyle   = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Key bindings
// =============================================================================

type exploreKeys struct {
	Quit      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetZoom key.Binding
	Pan       key.Binding
	ExpandAll key.Binding
	Collapse  key.Binding
	Level     key.Binding
	Reset     key.Binding
	Reheat    key.Binding
	Help      key.Binding
}

func newExploreKeys() exploreKeys {
	return exploreKeys{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_")),
		ResetZoom: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Pan:       key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "pan")),
		ExpandAll: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Collapse:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Level:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "expand to level")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset layout")),
		Reheat:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "reheat")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	}
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.Pan, k.ExpandAll, k.Collapse, k.Help, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ResetZoom, k.Pan},
		{k.ExpandAll, k.Collapse, k.Level},
		{k.Reset, k.Reheat, k.Quit},
	}
}

// =============================================================================
// exploreModel - Interactive mind map
// =============================================================================

// frameMsg asks for one simulation frame under the generation it was
// scheduled with.
type frameMsg struct{ gen uint64 }

// exploreModel is the bubbletea model for the explore command. Mouse
// gestures go through the view's interaction controller: drag to move a
// node, click to expand or collapse, double-click to open its link, wheel
// to zoom and drag on empty canvas to pan.
type exploreModel struct {
	view    *mindmap.View
	palette svg.Palette
	keys    exploreKeys
	help    help.Model

	cols, rows int
	stats      physics.Stats
	opened     string

	doubleClick time.Duration
	lastPress   time.Time
	pressAt     [2]int
	now         func() time.Time
}

func newExploreModel(view *mindmap.View, palette svg.Palette) *exploreModel {
	return &exploreModel{
		view:    view,
		palette: palette,
		keys:    newExploreKeys(),
		help:    help.New(),

		doubleClick: interaction.DefaultDoubleClickWindow,
		now:         time.Now,
	}
}

// opener records the link a double-click opened.
func (m *exploreModel) opener(open func(string) error) func(id, url string) {
	return func(id, url string) {
		m.opened = url
		if open != nil {
			_ = open(url)
		}
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m *exploreModel) nextFrame() tea.Cmd {
	gen := m.view.Generation()
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{gen: gen} })
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if st, ok := m.view.Frame(msg.gen); ok {
			m.stats = st
		}
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(1, msg.Height-chromeRows)
		m.help.Width = msg.Width
		m.view.Resize(float64(m.cols)*cellWidth, float64(m.rows)*cellHeight)

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		return m, m.keypress(msg)
	}
	return m, nil
}

func (m *exploreModel) keypress(msg tea.KeyMsg) tea.Cmd {
	ctrl := m.view.Controller()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		ctrl.UpdateViewport((*interaction.Viewport).ZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		ctrl.UpdateViewport((*interaction.Viewport).ZoomOut)
	case key.Matches(msg, m.keys.ResetZoom):
		ctrl.UpdateViewport((*interaction.Viewport).Reset)
	case key.Matches(msg, m.keys.Pan):
		d := panDelta(msg.String())
		ctrl.UpdateViewport(func(vp *interaction.Viewport) { vp.PanBy(d) })
	case key.Matches(msg, m.keys.ExpandAll):
		m.view.ExpandAll()
	case key.Matches(msg, m.keys.Collapse):
		m.view.CollapseAll()
	case key.Matches(msg, m.keys.Level):
		m.view.ExpandToLevel(int(msg.String()[0] - '0'))
	case key.Matches(msg, m.keys.Reset):
		m.view.Reset()
	case key.Matches(msg, m.keys.Reheat):
		m.view.Restart()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func panDelta(k string) layout.Vec {
	switch k {
	case "up":
		return layout.Vec{Y: panStep * cellHeight}
	case "down":
		return layout.Vec{Y: -panStep * cellHeight}
	case "left":
		return layout.Vec{X: panStep * cellWidth}
	default:
		return layout.Vec{X: -panStep * cellWidth}
	}
}

// mouse forwards a terminal mouse event to the controller in screen pixels.
// The first row is the header, so canvas rows start at Y=1.
func (m *exploreModel) mouse(msg tea.MouseMsg) {
	ctrl := m.view.Controller()
	p := cellToScreen(msg.X, msg.Y-1)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		ctrl.Wheel(-wheelDelta, p)
	case msg.Button == tea.MouseButtonWheelDown:
		ctrl.Wheel(wheelDelta, p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		now := m.now()
		cell := [2]int{msg.X, msg.Y}
		double := cell == m.pressAt && now.Sub(m.lastPress) < m.doubleClick
		m.lastPress, m.pressAt = now, cell
		if double {
			ctrl.DoubleClick(p)
			return
		}
		ctrl.Down(0, p)
	case msg.Action == tea.MouseActionMotion:
		ctrl.Move(0, p)
	case msg.Action == tea.MouseActionRelease:
		ctrl.Up(0, p)
	}
}

func cellToScreen(col, row int) layout.Vec {
	return layout.Vec{X: (float64(col) + 0.5) * cellWidth, Y: (float64(row) + 0.5) * cellHeight}
}

// =============================================================================
// Drawing
// =============================================================================

func (m *exploreModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	snap := m.view.Snapshot()
	vp := m.view.Controller().ViewportState()

	var b strings.Builder
	b.WriteString(headerStyle.Render(appName+" "+buildinfo.Short()) + "\n")
	b.WriteString(drawCanvas(snap, &vp, m.palette, m.cols, m.rows))
	b.WriteString(statusStyle.Render(m.status(snap, vp.Scale)))
	if m.opened != "" {
		b.WriteString(statusStyle.Render(" · link ") + StyleLink.Render(m.opened))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *exploreModel) status(snap graph.Snapshot, scale float64) string {
	state := "resting"
	if m.stats.Active {
		state = fmt.Sprintf("alpha %.3f", m.stats.Alpha)
	}
	return fmt.Sprintf("%d visible · tick %d · %s · zoom %.0f%%", len(snap.Nodes), snap.Ticks, state, scale*100)
}

// canvas is a grid of cells, each with an optional style key.
type canvas struct {
	cols, rows int
	runes      [][]rune
	styles     [][]int // 0 plain, 1 link, 2+depth node
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([][]rune, rows), styles: make([][]int, rows)}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.styles[y] = make([]int, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.styles[y][x] = style
}

// line draws a dotted segment between two cells.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for steps := 0; steps < 4*(c.cols+c.rows); steps++ {
		c.set(x0, y0, '·', 1)
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * err; e2 >= dy {
			err += dy
			x0 += sx
		} else {
			err += dx
			y0 += sy
		}
	}
}

// drawCanvas projects snap through vp into a cols×rows text grid. Links are
// dotted; each node is its fitted title in brackets, with "+" marking a
// collapsed node that has children.
func drawCanvas(snap graph.Snapshot, vp *interaction.Viewport, palette svg.Palette, cols, rows int) string {
	c := newCanvas(cols, rows)

	cell := func(n graph.SnapshotNode) (int, int) {
		x, y := n.Center()
		p := vp.WorldToScreen(layout.Vec{X: x, Y: y})
		return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
	}

	for _, l := range snap.Links {
		a, okA := snap.Node(l.Source)
		b, okB := snap.Node(l.Target)
		if !okA || !okB {
			continue
		}
		x0, y0 := cell(a)
		x1, y1 := cell(b)
		c.line(x0, y0, x1, y1)
	}

	maxDepth := 0
	for _, n := range snap.Nodes {
		maxDepth = max(maxDepth, n.Depth)
		label := nodeLabel(n, int(n.Size*vp.Scale/cellWidth))
		x, y := cell(n)
		x -= len([]rune(label)) / 2
		for i, r := range []rune(label) {
			c.set(x+i, y, r, 2+n.Depth)
		}
	}

	styles := make([]lipgloss.Style, maxDepth+3)
	styles[1] = linkStyle
	for d := 0; d <= maxDepth; d++ {
		fill := palette.Fill(d)
		styles[2+d] = lipgloss.NewStyle().Bold(d == 0).
			Background(lipgloss.Color(fill)).
			Foreground(lipgloss.Color(svg.ReadableText(fill)))
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		start := 0
		for x := 1; x <= cols; x++ {
			if x < cols && c.styles[y][x] == c.styles[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if s := c.styles[y][start]; s > 0 {
				run = styles[s].Render(run)
			}
			b.WriteString(run)
			start = x
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// nodeLabel fits the title into width cells.
func nodeLabel(n graph.SnapshotNode, width int) string {
	marker := ""
	if n.HasChildren && !n.Expanded {
		marker = "+"
	}
	room := max(1, width-2-len(marker))
	title := []rune(n.Title)
	if len(title) > room {
		title = append(title[:max(0, room-1)], '…')
	}
	return "(" + string(title) + marker + ")"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
