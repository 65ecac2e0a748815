// Package interaction turns pointer gestures into commands on a mind map.
//
// A [Viewport] maps between screen pixels and world coordinates. The
// simulation always works in world space; the viewport's scale and pan only
// matter when converting pointer input and when drawing.
//
// A [Controller] runs one small state machine per pressed node:
//
//	Idle --down--> Pressed --move > threshold--> Dragging --up--> Idle
//	                  |
//	                  +--up--> click (toggle), unless a drag just ended
//
// Pressing empty canvas pans the viewport instead, and the wheel zooms
// around the cursor. Clicks are held for the double-click window so that a
// double-click can cancel the pending toggle and open the node's link.
package interaction
