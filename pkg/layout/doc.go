// Package layout holds the geometric vocabulary of a mind map and the
// deterministic steps that run before physics: sizing, seeding and links.
//
// # Coordinates
//
// All positions are in world space. A [PositionMap] entry is the top-left
// corner of the node's bounding square; the center is the entry plus half
// the node's diameter from the [SizeMap]. Seeders, the physics engine and
// renderers all use this convention.
//
// # Seeding
//
// [SeedRoot] places the primary root so that its center sits on the viewport
// center and lays its visible children on a ring starting at the top and
// proceeding clockwise. [SeedRevealed] places every other child that lacks a
// position on a ring around its parent's current center, far enough out that
// the ring clears the parent. Neither function ever overwrites an existing
// entry, so calling them again without a visibility change is a no-op.
//
// # Links
//
// [BuildLinks] emits one spring per visible parent-child pair. The rest
// length shrinks with the child's depth toward a floor, per [LinkPolicy].
package layout
