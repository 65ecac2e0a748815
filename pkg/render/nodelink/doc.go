// Package nodelink exports a mind map snapshot as a Graphviz graph.
//
// # Overview
//
// [ToDOT] writes an undirected DOT graph in which every node keeps the
// position the force simulation settled on: positions are emitted as pinned
// neato coordinates (pos="x,y!") in inches, with y flipped because Graphviz
// grows upward. Nodes are fixed-size circles filled from the same palettes as
// the native SVG renderer.
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{Palette: "forest"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools (neato -n2).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
