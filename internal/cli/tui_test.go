package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/hierarchy"
	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

func testView(t *testing.T) *mindmap.View {
	t.Helper()
	settings := mindmap.DefaultSettings()
	settings.Interaction.DoubleClickWindow = 0
	v := mindmap.New([]hierarchy.Node{
		{ID: "root", Title: "Workspace"},
		{ID: "eng", Title: "Engineering", ParentID: "root"},
		{ID: "api", Title: "API", ParentID: "eng"},
	}, mindmap.WithSettings(settings))
	t.Cleanup(v.Close)
	return v
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		name  string
		node  graph.SnapshotNode
		width int
		want  string
	}{
		{"fits", graph.SnapshotNode{Title: "API"}, 11, "(API)"},
		{"truncated", graph.SnapshotNode{Title: "Engineering"}, 8, "(Engin…)"},
		{"collapsed marker", graph.SnapshotNode{Title: "Ops", HasChildren: true}, 11, "(Ops+)"},
		{"tiny", graph.SnapshotNode{Title: "Workspace"}, 0, "(…)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nodeLabel(tt.node, tt.width); got != tt.want {
				t.Errorf("nodeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawCanvas(t *testing.T) {
	snap := graph.Snapshot{
		Nodes: []graph.SnapshotNode{
			{ID: "root", Title: "Root", X: 45, Y: 45, Size: 110},
			{ID: "a", Title: "A", Depth: 1, X: 300, Y: 70, Size: 94},
		},
		Links: []graph.SnapshotLink{{Source: "root", Target: "a"}},
	}
	vp := interaction.NewViewport(400, 200, interaction.DefaultZoomConfig())
	palette, _ := svg.LookupPalette("minimal")

	out := drawCanvas(snap, vp, palette, 40, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("canvas has %d rows, want 10", len(lines))
	}
	for _, want := range []string{"(Root)", "(A)", "·"} {
		if !strings.Contains(out, want) {
			t.Errorf("canvas lacks %q:\n%s", want, out)
		}
	}
}

func TestExploreModelKeys(t *testing.T) {
	v := testView(t)
	m := newExploreModel(v, svg.Palette{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	if got := len(v.Visible()); got != 2 {
		t.Fatalf("initial visible = %d, want 2", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if got := len(v.Visible()); got != 3 {
		t.Errorf("after expand all visible = %d, want 3", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if got := len(v.Visible()); got != 2 {
		t.Errorf("after collapse all visible = %d, want 2", got)
	}

	before := v.Controller().ViewportState().Scale
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if after := v.Controller().ViewportState().Scale; after <= before {
		t.Errorf("zoom in: scale %v -> %v", before, after)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreModelFrames(t *testing.T) {
	v := testView(t)
	m := newExploreModel(v, svg.Palette{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	_, cmd := m.Update(frameMsg{gen: v.Generation()})
	if cmd == nil {
		t.Fatal("frames should reschedule")
	}
	if !m.stats.Active {
		t.Error("first frame after load should be active")
	}

	// A frame from an older generation is dropped but keeps the loop alive.
	stale := v.Generation()
	v.ExpandAll()
	m.stats.Active = false
	if _, cmd := m.Update(frameMsg{gen: stale}); cmd == nil || m.stats.Active {
		t.Error("stale frame should be dropped and rescheduled")
	}
}

func TestExploreModelClickToggles(t *testing.T) {
	v := testView(t)
	m := newExploreModel(v, svg.Palette{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	// Find the screen cell of "eng" through the controller's viewport.
	pos, ok := v.Position("eng")
	if !ok {
		t.Fatal("eng has no position")
	}
	size := v.Sizes()["eng"]
	vp := v.Controller().ViewportState()
	p := vp.WorldToScreen(layout.Vec{X: pos.X + size/2, Y: pos.Y + size/2})
	x, y := int(p.X/cellWidth), int(p.Y/cellHeight)+1

	m.now = func() time.Time { return time.Unix(100, 0) }
	m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	if !v.IsExpanded("eng") {
		t.Error("click should expand eng")
	}
}
