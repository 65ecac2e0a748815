package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// pointsPerInch converts snapshot pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Palette names an svg palette; unknown names use the default.
	Palette string

	// Detailed adds the node id and depth under the title.
	Detailed bool
}

// ToDOT converts a snapshot to DOT with every node pinned at its center.
func ToDOT(s graph.Snapshot, opts Options) string {
	pal, ok := svg.LookupPalette(opts.Palette)
	if !ok {
		pal, _ = svg.LookupPalette(svg.DefaultPalette)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, penwidth=2, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=\"#cbd5e1\", penwidth=2];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(fmtAttrs(n, pal, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  %s -- %s;\n", quote(l.Source), quote(l.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.SnapshotNode, detailed bool) (string, float64) {
	l := svg.FitLabel(n.Title, n.Size)
	label := strings.Join(l.Lines, "\n")
	if detailed {
		label += fmt.Sprintf("\n%s (depth %d)", n.ID, n.Depth)
	}
	return label, l.FontSize
}

func fmtAttrs(n graph.SnapshotNode, pal svg.Palette, detailed bool) []string {
	cx, cy := n.Center()
	fill := pal.Fill(n.Depth)
	label, fontSize := fmtLabel(n, detailed)
	attrs := []string{
		"label=" + quote(label),
		fmt.Sprintf("pos=\"%s,%s!\"", inches(cx), inches(-cy)),
		"width=" + inches(n.Size),
		"fontsize=" + strconv.FormatFloat(fontSize, 'f', 1, 64),
		"fillcolor=" + quote(fill),
		"fontcolor=" + quote(svg.ReadableText(fill)),
		"color=" + quote(pal.Stroke()),
	}
	if n.Link != "" {
		attrs = append(attrs, "URL="+quote(n.Link), "target=\"_blank\"")
	}
	if n.Pinned {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 3, 64)
}

// quote writes s as a DOT double-quoted string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
