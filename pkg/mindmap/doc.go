// Package mindmap owns the live state of one mind map view.
//
// A [View] ties the stages together in a fixed order. Every change to the
// expansion set or the filters runs, under one lock:
//
//	visibility.Resolve -> layout.Sizes -> layout.Seed -> layout.BuildLinks
//	  -> physics.Engine.Load -> physics.Scheduler.Start
//
// so the engine never ticks against a position map and link list from
// different visible sets. The scheduler's generation stamp discards frames
// issued before the rebuild.
//
// The rendering layer reads [View.Visible], [View.Positions], [View.Sizes]
// and [View.Links] (positions are top-left corners in world space) and
// forwards pointer input to [View.Controller]. Drags become pins on the
// simulation; clicks toggle expansion; double-clicks open a node's link.
//
// A View is safe for concurrent use. Create one per displayed map and call
// [View.Close] when it is no longer shown.
package mindmap
