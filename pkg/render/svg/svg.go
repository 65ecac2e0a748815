package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/notionmap/pkg/graph"
)

// DefaultMargin surrounds the node bounds in the output viewBox.
const DefaultMargin = 24.0

const fontFamily = `Inter, system-ui, -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif`

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	palette Palette
	margin  float64
	labels  bool
	links   bool
}

// WithPalette selects a built-in palette by name. Unknown names fall back
// to [DefaultPalette].
func WithPalette(name string) Option {
	return func(r *renderer) {
		if p, ok := LookupPalette(name); ok {
			r.palette = p
		}
	}
}

// WithMargin sets the space around the drawing.
func WithMargin(m float64) Option {
	return func(r *renderer) { r.margin = max(0, m) }
}

// WithoutLabels draws bare circles.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// WithoutLinks omits the parent-child lines.
func WithoutLinks() Option { return func(r *renderer) { r.links = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		palette: palettes[DefaultPalette],
		margin:  DefaultMargin,
		labels:  true,
		links:   true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render draws s. It never fails: an empty snapshot yields an empty
// document of the snapshot's screen size.
func Render(s graph.Snapshot, opts ...Option) []byte {
	r := newRenderer(opts...)

	minX, minY, maxX, maxY, ok := s.Bounds()
	if !ok {
		minX, minY, maxX, maxY = 0, 0, max(1, s.Width), max(1, s.Height)
	}
	minX -= r.margin
	minY -= r.margin
	w := maxX - minX + r.margin
	h := maxY - minY + r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	if s.ViewID != "" {
		fmt.Fprintf(&buf, "  <desc>notionmap view %s generation %d</desc>\n", escapeXML(s.ViewID), s.Generation)
	}

	if r.links {
		r.renderLinks(&buf, s)
	}
	fmt.Fprintf(&buf, `  <g font-family="%s" font-weight="600" text-anchor="middle" dominant-baseline="middle">`+"\n", escapeXML(fontFamily))
	for _, n := range s.Nodes {
		wrapURL(&buf, n.Link, func() { r.renderNode(&buf, n) })
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderLinks(buf *bytes.Buffer, s graph.Snapshot) {
	if len(s.Links) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g stroke="%s" stroke-width="2" stroke-linecap="round">`+"\n", linkColor)
	for _, l := range s.Links {
		a, okA := s.Node(l.Source)
		b, okB := s.Node(l.Target)
		if !okA || !okB {
			continue
		}
		x1, y1 := a.Center()
		x2, y2 := b.Center()
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) renderNode(buf *bytes.Buffer, n graph.SnapshotNode) {
	fill := r.palette.Fill(n.Depth)
	cx, cy := n.Center()
	fmt.Fprintf(buf, `<g id="node-%s">`, escapeXML(n.ID))
	fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`,
		cx, cy, max(0, (n.Size-4)/2), fill, r.palette.Stroke())
	if r.labels {
		renderLabel(buf, FitLabel(n.Title, n.Size), cx, cy, ReadableText(fill))
	}
	buf.WriteString("</g>\n")
}

func renderLabel(buf *bytes.Buffer, l Label, cx, cy float64, color string) {
	lh := l.LineHeight()
	y := cy - float64(len(l.Lines))*lh/2 + lh/2
	for i, line := range l.Lines {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`,
			cx, y+float64(i)*lh, l.FontSize, color, escapeXML(line))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func wrapURL(buf *bytes.Buffer, url string, fn func()) {
	buf.WriteString("    ")
	if url != "" {
		fmt.Fprintf(buf, `<a href="%s" target="_blank">`, escapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("    </a>\n")
	}
}
