// Package svg renders a mind map snapshot as a standalone SVG document.
//
// Every visible node becomes a circle of its snapshot size, filled from a
// [Palette] by depth and labeled with its title wrapped by [FitLabel]. Links
// are straight lines between circle centers, drawn underneath the nodes.
// Nodes with a link are wrapped in an anchor so that the exported file stays
// clickable.
//
//	out := svg.Render(snap, svg.WithPalette("ocean"))
//
// The document's viewBox is the bounding box of the nodes plus a margin, so
// the output does not depend on the viewport the snapshot was taken with.
package svg
