// Package pkg holds the public libraries behind notionmap, a layout and
// physics engine for Notion workspace mind maps.
//
// # Overview
//
// A workspace export (pages, databases and teamspaces with parent links) is
// turned into a radial mind map whose nodes settle under a force simulation
// and respond to pointer input. The packages stack bottom-up:
//
//	[graph]        dataset records, loaders (file, stdin, S3) and layout snapshots
//	[hierarchy]    the parent/child tree, depths and the id index
//	[visibility]   expansion state, level caps and show-only / exclude filters
//	[layout]       node sizes, radial seeding and link parameters
//	[physics]      the force engine, quadtree repulsion and the tick scheduler
//	[interaction]  viewport transforms and the pointer gesture controller
//	[mindmap]      the live View tying the stages together
//	[render]       SVG drawing, Graphviz DOT, PNG and PDF conversion
//	[pipeline]     load -> settle -> render with caching
//
// Supporting packages: [cache] (file, Redis and null caches), [config]
// (TOML settings), [errors] (coded errors and validators), [observability]
// (hooks and Prometheus metrics) and [buildinfo].
//
// # Data Flow
//
//	workspace.json / .yaml / s3://bucket/key
//	         ↓
//	    [graph.Loader] (decode and merge records)
//	         ↓
//	    [hierarchy.Build] (tree + depth)
//	         ↓
//	    [visibility.Resolve] (visible set)
//	         ↓
//	    [layout] + [physics] (seed, settle)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	ds, _ := new(graph.Loader).Load(ctx, "workspace.json")
//	v := mindmap.New(ds.HierarchyNodes(), mindmap.WithSettings(mindmap.DefaultSettings()))
//	defer v.Close()
//	v.Settle(300)
//	svgBytes := svg.Render(v.Snapshot())
//
// The CLI in cmd/notionmap wraps the [pipeline] for headless use and
// offers an interactive terminal explorer.
package pkg
