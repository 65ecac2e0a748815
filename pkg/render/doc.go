// Package render converts rendered mind maps between output formats.
//
// # Overview
//
// Two renderers produce the drawing itself:
//
//   - [svg]: native SVG with palettes and fitted circle labels
//   - [nodelink]: DOT with pinned positions, rendered by Graphviz
//
// [ToPDF] and [ToPNG] convert the SVG of either renderer using the external
// rsvg-convert tool (from librsvg):
//
//	out := svg.Render(snap)
//	png, err := render.ToPNG(out, 2.0)
//
// [svg]: github.com/matzehuels/notionmap/pkg/render/svg
// [nodelink]: github.com/matzehuels/notionmap/pkg/render/nodelink
package render
