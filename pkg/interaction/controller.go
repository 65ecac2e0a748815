package interaction

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/notionmap/pkg/layout"
)

// Default gesture timing.
const (
	DefaultDragThreshold     = 2.0
	DefaultClickSuppression  = 180 * time.Millisecond
	DefaultDoubleClickWindow = 250 * time.Millisecond
	DefaultReleaseScale      = 0.25
)

// frameDuration converts pointer speed into per-tick release velocity.
const frameDuration = 16 * time.Millisecond

// Target receives the commands a Controller produces. Positions are
// top-left corners in world space.
type Target interface {
	HitTest(world layout.Vec) (id string, ok bool)
	Position(id string) (layout.Vec, bool)
	PinStart(id string, at layout.Vec)
	PinMove(id string, at layout.Vec)
	PinEnd(id string, at, release layout.Vec)
	Toggle(id string)
	Link(id string) string
}

// Config tunes gesture recognition.
type Config struct {
	// DragThreshold is the screen distance a press must travel to become
	// a drag.
	DragThreshold float64 `toml:"drag_threshold" json:"drag_threshold" validate:"gte=0"`

	// ClickSuppression swallows the click that follows a drag release.
	ClickSuppression time.Duration `toml:"click_suppression" json:"click_suppression" validate:"gte=0"`

	// DoubleClickWindow delays toggles so a double-click can cancel them.
	// Zero toggles immediately.
	DoubleClickWindow time.Duration `toml:"double_click_window" json:"double_click_window" validate:"gte=0"`

	// ReleaseScale multiplies pointer velocity at release. Zero releases
	// dragged nodes at rest.
	ReleaseScale float64 `toml:"release_scale" json:"release_scale" validate:"gte=0"`
}

// DefaultConfig returns the built-in gesture settings.
func DefaultConfig() Config {
	return Config{
		DragThreshold:     DefaultDragThreshold,
		ClickSuppression:  DefaultClickSuppression,
		DoubleClickWindow: DefaultDoubleClickWindow,
		ReleaseScale:      DefaultReleaseScale,
	}
}

// Phase is the state of a node under the pointer.
type Phase int

const (
	Idle Phase = iota
	Pressed
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// gesture is one pointer's activity from down to up.
type gesture struct {
	node     string // empty for canvas pans
	start    layout.Vec
	origin   layout.Vec // node top-left, or viewport pan
	at       layout.Vec // last forwarded pin position
	velocity layout.Vec
	lastMove time.Time
	phase    Phase
}

type nodeState struct {
	dragEnded time.Time
	pending   time.Time // zero when no toggle is pending
}

// Controller recognizes gestures for one view. It is safe for concurrent
// use; commands reach the Target while the controller's lock is held, so a
// Target must not call back into the Controller.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	target   Target
	viewport *Viewport
	now      func() time.Time
	open     func(id, url string)

	pointers map[int]*gesture
	nodes    map[string]*nodeState
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOpener sets the function that opens a node's link on double-click.
func WithOpener(open func(id, url string)) Option {
	return func(c *Controller) { c.open = open }
}

// NewController returns a controller driving target through viewport.
func NewController(target Target, viewport *Viewport, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		target:   target,
		viewport: viewport,
		now:      time.Now,
		pointers: make(map[int]*gesture),
		nodes:    make(map[string]*nodeState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Viewport returns the controlled viewport. Callers that share the
// controller across goroutines use [Controller.UpdateViewport] and
// [Controller.ViewportState] instead.
func (c *Controller) Viewport() *Viewport { return c.viewport }

// UpdateViewport runs fn on the viewport under the controller's lock.
func (c *Controller) UpdateViewport(fn func(vp *Viewport)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.viewport)
}

// ViewportState returns a copy of the viewport.
func (c *Controller) ViewportState() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.viewport
}

func (c *Controller) node(id string) *nodeState {
	n, ok := c.nodes[id]
	if !ok {
		n = &nodeState{}
		c.nodes[id] = n
	}
	return n
}

// Phase returns the phase of the node id.
func (c *Controller) Phase(id string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.pointers {
		if g.node == id {
			return g.phase
		}
	}
	return Idle
}

// Down starts a gesture for pointer at screen point p. A press on a node
// records the drag origin without notifying the target; a press on empty
// canvas starts a pan.
func (c *Controller) Down(pointer int, p layout.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := &gesture{start: p, lastMove: c.now()}
	if id, ok := c.target.HitTest(c.viewport.ScreenToWorld(p)); ok {
		if origin, ok := c.target.Position(id); ok {
			g.node = id
			g.origin = origin
			g.at = origin
			g.phase = Pressed
		}
	}
	if g.node == "" {
		g.origin = c.viewport.Pan
	}
	c.pointers[pointer] = g
}

// Move updates the gesture for pointer. A press that travels past the drag
// threshold pins its node and forwards every later move as a pin update.
func (c *Controller) Move(pointer int, p layout.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.pointers[pointer]
	if !ok {
		return
	}
	delta := p.Sub(g.start)
	if g.node == "" {
		c.viewport.Pan = g.origin.Add(delta)
		return
	}

	if g.phase == Pressed {
		if delta.Len() <= c.cfg.DragThreshold {
			return
		}
		// The node may have moved since the press; drag from where it is now.
		if cur, ok := c.target.Position(g.node); ok {
			g.origin = cur
			g.at = cur
		}
		g.phase = Dragging
		c.target.PinStart(g.node, g.origin)
	}

	now := c.now()
	at := g.origin.Add(delta.Scale(1 / c.viewport.Scale))
	if dt := now.Sub(g.lastMove); dt > 0 {
		g.velocity = at.Sub(g.at).Scale(float64(frameDuration) / float64(dt))
	}
	g.at = at
	g.lastMove = now
	c.target.PinMove(g.node, at)
}

// Up ends the gesture for pointer. A drag releases its pin; a press that
// never moved past the threshold is a click.
func (c *Controller) Up(pointer int, p layout.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish(pointer, true)
}

// Cancel ends the gesture for pointer without producing a click, as when
// the pointer capture is lost.
func (c *Controller) Cancel(pointer int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finish(pointer, false)
}

func (c *Controller) finish(pointer int, click bool) {
	g, ok := c.pointers[pointer]
	if !ok {
		return
	}
	delete(c.pointers, pointer)
	if g.node == "" {
		return
	}

	now := c.now()
	n := c.node(g.node)
	switch g.phase {
	case Dragging:
		release := layout.Vec{}
		if now.Sub(g.lastMove) < 4*frameDuration {
			release = g.velocity.Scale(c.cfg.ReleaseScale)
		}
		c.target.PinEnd(g.node, g.at, release)
		n.dragEnded = now
	case Pressed:
		if !click {
			return
		}
		if !n.dragEnded.IsZero() && now.Sub(n.dragEnded) < c.cfg.ClickSuppression {
			return
		}
		if c.cfg.DoubleClickWindow <= 0 {
			c.target.Toggle(g.node)
			return
		}
		n.pending = now
	}
}

// DoubleClick opens the link of the node under screen point p and cancels
// its pending toggle. It returns the opened url, or "" when there is no
// node or no link.
func (c *Controller) DoubleClick(p layout.Vec) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.target.HitTest(c.viewport.ScreenToWorld(p))
	if !ok {
		return ""
	}
	return c.openLocked(id)
}

// Open cancels any pending toggle on id and opens its link.
func (c *Controller) Open(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openLocked(id)
}

func (c *Controller) openLocked(id string) string {
	c.node(id).pending = time.Time{}
	url := c.target.Link(id)
	if url != "" && c.open != nil {
		c.open(id, url)
	}
	return url
}

// Flush delivers toggles whose double-click window has passed and returns
// their ids.
func (c *Controller) Flush() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var fired []string
	for id, n := range c.nodes {
		if n.pending.IsZero() || now.Sub(n.pending) < c.cfg.DoubleClickWindow {
			continue
		}
		n.pending = time.Time{}
		fired = append(fired, id)
	}
	slices.Sort(fired)
	for _, id := range fired {
		c.target.Toggle(id)
	}
	return fired
}

// Pending reports whether id has a toggle waiting for the double-click
// window to pass.
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[id]
	return ok && !n.pending.IsZero()
}

// Wheel zooms around screen point p.
func (c *Controller) Wheel(deltaY float64, p layout.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.Wheel(deltaY, p)
}
