// Package physics runs the force simulation that keeps a mind map legible.
//
// # Model
//
// A [State] holds one body per visible node (center, velocity, radius), the
// spring list and the pins. An [Engine] advances a State by one tick with
// [Engine.Tick]. Each tick runs its phases strictly in order:
//
//  1. pins are applied (position forced, velocity zeroed)
//  2. forces are accumulated: many-body repulsion, link springs, center pull
//  3. velocities and positions are integrated for unpinned bodies
//  4. overlapping bodies are pushed apart (collision)
//  5. pins are applied again
//
// Repulsion is exact for small graphs and switches to a Barnes-Hut quadtree
// approximation above [Config.BarnesHutThreshold] bodies.
//
// # Energy
//
// Forces are scaled by a temperature, alpha, which decays geometrically
// toward a target each tick. Once alpha falls below [Config.AlphaMin] with no
// drag in progress the state is at rest and Tick returns immediately.
// [Engine.Restart] reheats to 1; [Engine.Release] reheats partially. While a
// drag pin exists alpha is held near [Config.DragAlphaTarget] so neighbors
// follow the pointer.
//
// # Scheduling
//
// A [Scheduler] hands out generation numbers. Every restart bumps the
// generation; frames issued under an older generation are discarded by the
// owner instead of being cancelled.
//
// Neither State nor Engine is safe for concurrent use. The owner serializes
// access.
package physics
