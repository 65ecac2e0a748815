// Package hierarchy indexes a flat list of workspace nodes into a forest.
//
// # Overview
//
// A mind map is drawn from a flat export of a Notion (or Drive) workspace:
// every record names its own id and, optionally, the id of its parent. This
// package normalizes those records into a canonical [Node] and builds an
// [Index] with the lookups every later stage needs:
//
//   - id to node ([Index.Node])
//   - parent to ordered children, in source order ([Index.Children])
//   - the set of true roots ([Index.Roots]) and orphans ([Index.Orphans])
//   - depth from the roots, computed breadth-first ([Index.Depth])
//
// # Orphans
//
// A node whose parent id does not name any known node is still indexed by
// id but is attached to no children list and receives no depth. Such nodes
// are unreachable and are excluded from layout instead of failing the load.
// Nodes trapped in a parent cycle are unreachable in the same way.
//
// # Effective title and link
//
// Records carry optional labels and links in several shapes. [Node.EffectiveTitle]
// and [Node.EffectiveLink] are the only fallback chains; nothing downstream
// inspects the raw fields. When no explicit link exists the Notion permalink
// is derived with [NotionURL].
package hierarchy
