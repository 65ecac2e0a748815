// Package graph provides serialization types for workspace datasets and
// mind map snapshots.
//
// This package defines the wire formats at the edges of the system: the
// node exports a map is drawn from, and the positioned snapshots it
// produces. Internal types live elsewhere:
//
//   - [Record], [Dataset]: serialized workspace nodes (this package)
//   - pkg/hierarchy.Node: canonical in-memory node
//   - [Snapshot]: serialized state of a laid-out view (this package)
//
// # Dataset Formats
//
// Datasets are JSON or YAML, either an object with a "nodes" array or a
// bare array:
//
//	{
//	  "nodes": [
//	    {"id": "root", "title": "Workspace", "parent_id": null},
//	    {"id": "db::1a2b", "title": "Tasks", "parent_id": "root", "kind": "db"}
//	  ]
//	}
//
// Field aliases from the Notion and Drive exporters are accepted:
//
//	title       name
//	parent_id   parentId, parent
//	kind        type, category
//	url         link, href (kept separately, resolved by hierarchy.Node.EffectiveLink)
//
// Several datasets can be merged with [Merge]; the first record for an id
// wins.
//
// # Sources
//
// [Load] reads a dataset from a local path, from "-" (standard input), or
// from an S3 object addressed as s3://bucket/key.
//
// # Snapshots
//
// A [Snapshot] records what a view showed: visible nodes with positions and
// sizes, links, expansion and viewport. Snapshots feed the renderers and the
// layout cache.
//
//	snap, _ := graph.ReadSnapshotFile("layout.json")
//	for _, n := range snap.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package graph
