package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/notionmap/pkg/graph"
)

func TestLookupPalette(t *testing.T) {
	for _, name := range []string{"minimal", "forest", "ocean", "sunset", "candy", "slate", "aurora", "orchid"} {
		if _, ok := LookupPalette(name); !ok {
			t.Errorf("palette %q missing", name)
		}
	}
	if _, ok := LookupPalette("Ocean"); !ok {
		t.Error("lookup should ignore case")
	}
	if _, ok := LookupPalette("neon"); ok {
		t.Error("unknown palette should not resolve")
	}
	if got := len(PaletteNames()); got != 8 {
		t.Errorf("PaletteNames() has %d entries, want 8", got)
	}
}

func TestPaletteFill(t *testing.T) {
	p, _ := LookupPalette("forest")
	tests := []struct {
		depth int
		want  string
	}{
		{0, "#2e7d32"},
		{1, "#43a047"},
		{5, "#e8f5e9"},
		{9, "#e8f5e9"},
		{-1, "#2e7d32"},
	}
	for _, tt := range tests {
		if got := p.Fill(tt.depth); got != tt.want {
			t.Errorf("Fill(%d) = %s, want %s", tt.depth, got, tt.want)
		}
	}

	minimal, _ := LookupPalette("minimal")
	if got := minimal.Fill(3); got != "#e5e7eb" {
		t.Errorf("minimal Fill = %s", got)
	}
	if got := minimal.Stroke(); got != "#9ca3af" {
		t.Errorf("minimal Stroke = %s", got)
	}
}

func TestReadableText(t *testing.T) {
	tests := []struct {
		fill string
		want string
	}{
		{"#ffffff", darkText},
		{"#e5e7eb", darkText},
		{"#000000", lightText},
		{"#0369a1", lightText},
		{"nonsense", darkText},
	}
	for _, tt := range tests {
		if got := ReadableText(tt.fill); got != tt.want {
			t.Errorf("ReadableText(%s) = %s, want %s", tt.fill, got, tt.want)
		}
	}
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		diameter  float64
		wantLines int
		ellipsis  bool
	}{
		{"empty", "   ", 110, 1, false},
		{"short", "Home", 110, 1, false},
		{"wraps", "Quarterly planning notes", 200, 2, false},
		{"overflow", "one two three four five six seven eight nine ten eleven twelve", 56, 3, true},
		{"long word", "Supercalifragilisticexpialidocious", 56, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := FitLabel(tt.title, tt.diameter)
			if len(l.Lines) != tt.wantLines {
				t.Fatalf("lines = %q, want %d lines", l.Lines, tt.wantLines)
			}
			last := l.Lines[len(l.Lines)-1]
			if got := strings.HasSuffix(last, ellipsis); got != tt.ellipsis {
				t.Errorf("last line %q ellipsis = %v, want %v", last, got, tt.ellipsis)
			}
			if l.FontSize < fontMin || l.FontSize > fontMax {
				t.Errorf("font size %.1f out of range", l.FontSize)
			}
			limit := charsPerLine(tt.diameter, l.FontSize)
			for _, line := range l.Lines {
				if runeLen(line) > limit {
					t.Errorf("line %q longer than %d", line, limit)
				}
			}
		})
	}
}

func TestFitLabelFontScalesWithSize(t *testing.T) {
	tests := []struct {
		diameter float64
		want     float64
	}{
		{56, 11},
		{62, 11},
		{78, 14},
		{94, 17},
		{110, 20},
		{400, 20},
	}
	for _, tt := range tests {
		if got := FitLabel("A", tt.diameter).FontSize; got != tt.want {
			t.Errorf("FitLabel(A, %v) font = %.1f, want %.1f", tt.diameter, got, tt.want)
		}
	}
}

func testSnapshot() graph.Snapshot {
	return graph.Snapshot{
		ViewID: "v1",
		Width:  800,
		Height: 600,
		Nodes: []graph.SnapshotNode{
			{ID: "r", Title: "Root & <Co>", Depth: 0, X: 0, Y: 0, Size: 110, Link: "https://www.notion.so/r"},
			{ID: "a", Title: "Alpha", Depth: 1, X: 200, Y: 0, Size: 94},
		},
		Links: []graph.SnapshotLink{{Source: "r", Target: "a", Distance: 140}},
	}
}

func TestRender(t *testing.T) {
	out := string(Render(testSnapshot(), WithPalette("ocean")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="-24.0 -24.0 342.0 158.0"`,
		`<line x1="55.0" y1="55.0" x2="247.0" y2="47.0"/>`,
		`id="node-r"`,
		`fill="#0369a1"`,
		`font-size="20.0"`,
		`>Root &amp;</text>`,
		`>&lt;Co&gt;</text>`,
		`<a href="https://www.notion.so/r" target="_blank">`,
		`<desc>notionmap view v1 generation 0</desc>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "<circle") != 2 {
		t.Errorf("want 2 circles")
	}
	if strings.Count(out, "<a href") != 1 {
		t.Errorf("only linked nodes should be anchors")
	}
}

func TestRenderOptions(t *testing.T) {
	out := string(Render(testSnapshot(), WithoutLabels(), WithoutLinks(), WithMargin(0)))
	if strings.Contains(out, "<text") {
		t.Error("WithoutLabels still drew text")
	}
	if strings.Contains(out, "<line") {
		t.Error("WithoutLinks still drew lines")
	}
	if !strings.Contains(out, `viewBox="0.0 0.0 294.0 110.0"`) {
		t.Errorf("unexpected viewBox in %s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	out := string(Render(graph.Snapshot{Width: 300, Height: 200}, WithMargin(0)))
	if !strings.Contains(out, `viewBox="0.0 0.0 300.0 200.0"`) {
		t.Errorf("empty snapshot viewBox: %s", out)
	}
	if strings.Contains(out, "<circle") {
		t.Error("empty snapshot drew nodes")
	}
}
