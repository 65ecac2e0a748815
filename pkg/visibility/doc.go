// Package visibility decides which nodes of a hierarchy are on screen.
//
// Two kinds of state feed the decision. An [Expansion] is the set of node
// ids whose children the user asked to see. A [Filter] carries a level cap
// plus four orthogonal selections: show-only ids, exclude ids, show-only
// categories and exclude categories.
//
// [Resolve] first walks the forest breadth-first from the roots. A child is
// included when its depth is within the level cap or its parent is expanded;
// the walk descends into a child only when the child is shallower than the
// cap or is itself expanded. Filters are then applied in a fixed order:
//
//  1. exclude categories (the node and its subtree)
//  2. show-only categories (matching nodes and their ancestors)
//  3. show-only ids (the ids, their ancestors and their visible subtrees)
//  4. exclude ids (the node and its subtree)
//
// Roots are never removed. Every filter keeps the result ancestor-closed:
// a visible non-root node always has its parent visible. Selections naming
// ids or categories absent from the dataset are ignored.
//
// # Level cap and manual collapse
//
// The level cap is a floor. Nodes shallower than the cap are revealed
// regardless of the expansion set, so collapsing such a node has no visible
// effect until the cap is lowered. Expansion only ever reveals more.
package visibility
