package mindmap

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/observability"
	"github.com/matzehuels/notionmap/pkg/physics"
	"github.com/matzehuels/notionmap/pkg/visibility"
)

var (
	// ErrUnknownNode is returned for ids that are not reachable from a root.
	ErrUnknownNode = errors.New("unknown node")

	// ErrHidden is returned when filters keep a node out of the visible set.
	ErrHidden = errors.New("node is hidden by filters")
)

// View is the live state of one mind map.
type View struct {
	mu sync.Mutex

	id       uuid.UUID
	settings Settings
	logger   *log.Logger
	open     func(id, url string)
	ctrlOpts []interaction.Option

	idx        *hierarchy.Index
	root       string
	exp        *visibility.Expansion
	filter     visibility.Filter
	visible    []string
	visibleSet map[string]bool
	sizes      layout.SizeMap
	links      []layout.Link
	positions  layout.PositionMap // last known top-left of every node ever shown
	center     layout.Vec

	state  *physics.State
	engine *physics.Engine
	sched  physics.Scheduler
	active bool

	ctrl *interaction.Controller
}

// New indexes nodes and returns a view showing the primary root expanded.
// A dataset without a root yields an empty view.
func New(nodes []hierarchy.Node, opts ...Option) *View {
	return NewFromIndex(hierarchy.Build(nodes), opts...)
}

// NewFromIndex returns a view over an existing index.
func NewFromIndex(idx *hierarchy.Index, opts ...Option) *View {
	v := &View{
		id:       uuid.New(),
		settings: DefaultSettings(),
		logger:   log.New(io.Discard),
		idx:      idx,
	}
	for _, opt := range opts {
		opt(v)
	}

	s := v.settings
	v.root, _ = idx.Root()
	v.exp = visibility.NewExpansion()
	if v.root != "" {
		v.exp.Expand(v.root)
	}
	v.filter = s.Filter.Clone()
	v.positions = layout.PositionMap{}
	v.center = layout.Vec{X: s.Width / 2, Y: s.Height / 2}
	v.state = physics.NewState()
	v.engine = physics.NewEngine(s.Physics)

	vp := interaction.NewViewport(s.Width, s.Height, s.Zoom)
	ctrlOpts := append([]interaction.Option{interaction.WithOpener(v.open)}, v.ctrlOpts...)
	v.ctrl = interaction.NewController(target{v}, vp, s.Interaction, ctrlOpts...)

	v.mu.Lock()
	v.rebuildLocked("load")
	v.mu.Unlock()

	if v.filter.CenterOn != "" {
		if err := v.CenterOn(v.filter.CenterOn); err != nil {
			v.logger.Warn("center-on ignored", "id", v.filter.CenterOn, "err", err)
		}
	}
	return v
}

// =============================================================================
// Rebuild and ticking
// =============================================================================

// rebuildLocked resolves visibility, seeds, links and restarts the engine,
// in that order, then starts a new scheduler generation.
func (v *View) rebuildLocked(reason string) {
	v.syncLocked()

	v.visible = visibility.Resolve(v.idx, v.exp, v.filter)
	v.visibleSet = make(map[string]bool, len(v.visible))
	for _, id := range v.visible {
		v.visibleSet[id] = true
	}
	v.sizes = layout.Sizes(v.idx, v.visible, v.settings.Sizing)
	seeded := layout.Seed(v.positions, layout.SeedInput{
		Index:   v.idx,
		Visible: v.visible,
		Sizes:   v.sizes,
		Center:  v.center,
		Rings:   v.settings.Rings,
	})
	v.links = layout.BuildLinks(v.idx, v.visible, v.settings.Links)

	v.engine.Load(v.state, physics.Input{
		IDs:       v.visible,
		Sizes:     v.sizes,
		Positions: v.positions,
		Links:     v.links,
		Center:    v.center,
	})
	gen := v.sched.Start()
	v.active = true
	v.syncLocked()

	observability.Simulation().OnRestart(context.Background(), len(v.visible), len(v.links))
	v.logger.Debug("restart", "view", v.id, "reason", reason, "visible", len(v.visible),
		"links", len(v.links), "seeded", seeded, "generation", gen)
}

// syncLocked copies the engine's published positions into the view.
func (v *View) syncLocked() {
	for id, p := range v.state.Positions() {
		v.positions[id] = p
	}
}

func (v *View) tickLocked() physics.Stats {
	st := v.engine.Tick(v.state)
	if st.Active {
		v.syncLocked()
		v.active = true
		observability.Simulation().OnTick(context.Background(), st.Alpha, st.Energy)
		return st
	}
	if v.active {
		v.active = false
		observability.Simulation().OnRest(context.Background(), st.Tick)
		v.logger.Debug("rest", "view", v.id, "ticks", st.Tick, "energy", st.Energy)
	}
	return st
}

// Frame runs one scheduled frame issued under gen. Pending click toggles are
// delivered first; if they or anything else restarted the view since gen
// was issued, the frame is dropped and the second result is false.
func (v *View) Frame(gen uint64) (physics.Stats, bool) {
	v.ctrl.Flush()

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.sched.Valid(gen) {
		return physics.Stats{}, false
	}
	return v.tickLocked(), true
}

// Tick advances the simulation one step regardless of the scheduler.
func (v *View) Tick() physics.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tickLocked()
}

// Settle ticks until the simulation rests or maxTicks ticks have run.
func (v *View) Settle(maxTicks int) physics.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := physics.Stats{Tick: v.state.Ticks(), Alpha: v.state.Alpha(), Energy: v.state.Energy()}
	for i := 0; i < maxTicks && !v.engine.Resting(v.state); i++ {
		st = v.tickLocked()
	}
	if v.engine.Resting(v.state) {
		v.tickLocked() // reports the rest
	}
	return st
}

// Run drives frames every interval until ctx is done or the view is
// closed.
func (v *View) Run(ctx context.Context, interval time.Duration) error {
	return v.sched.Run(ctx, interval, func(gen uint64) { v.Frame(gen) })
}

// Restart reheats the simulation without changing the working set.
func (v *View) Restart() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.engine.Restart(v.state)
	v.sched.Start()
	v.active = true
}

// Close stops the scheduler. Outstanding frames become no-ops.
func (v *View) Close() {
	v.sched.Stop()
}

// =============================================================================
// Queries
// =============================================================================

// ID returns the view's instance id.
func (v *View) ID() uuid.UUID { return v.id }

// Index returns the hierarchy the view was built from.
func (v *View) Index() *hierarchy.Index { return v.idx }

// Root returns the primary root id, or "" for an empty dataset.
func (v *View) Root() string { return v.root }

// Controller returns the gesture controller bound to this view.
func (v *View) Controller() *interaction.Controller { return v.ctrl }

// Generation returns the scheduler generation.
func (v *View) Generation() uint64 { return v.sched.Generation() }

// Visible returns the visible ids, parents before children.
func (v *View) Visible() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.visible)
}

// IsVisible reports whether id is in the visible set.
func (v *View) IsVisible(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleSet[id]
}

// Positions returns the top-left corners of the visible nodes.
func (v *View) Positions() layout.PositionMap {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Positions()
}

// Position returns the top-left corner of a visible node.
func (v *View) Position(id string) (layout.Vec, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Position(id)
}

// Sizes returns the diameters of the visible nodes.
func (v *View) Sizes() layout.SizeMap {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.sizes)
}

// Links returns the springs between visible parents and children.
func (v *View) Links() []layout.Link {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.links)
}

// IsExpanded reports whether id is in the expansion set.
func (v *View) IsExpanded(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exp.Has(id)
}

// Expanded returns the expansion set, sorted.
func (v *View) Expanded() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exp.IDs()
}

// IsPinned reports whether id is held by a drag or a lock.
func (v *View) IsPinned(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Pinned(id)
}

// IsDragging reports whether id is held by an active drag.
func (v *View) IsDragging(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Dragging(id)
}

// Filter returns a copy of the current filter.
func (v *View) Filter() visibility.Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Clone()
}

// Resting reports whether the simulation has cooled down.
func (v *View) Resting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.Resting(v.state)
}

// Link returns the external link of id, or "".
func (v *View) Link(id string) string {
	n, ok := v.idx.Node(id)
	if !ok {
		return ""
	}
	return n.EffectiveLink()
}

// HitTest returns the topmost visible node whose circle contains the world
// point p.
func (v *View) HitTest(p layout.Vec) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := len(v.visible) - 1; i >= 0; i-- {
		id := v.visible[i]
		tl, ok := v.state.Position(id)
		if !ok {
			continue
		}
		r := v.sizes.Radius(id)
		if p.Dist(tl.Add(layout.Vec{X: r, Y: r})) <= r {
			return id, true
		}
	}
	return "", false
}
