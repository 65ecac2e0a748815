package mindmap

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/physics"
	"github.com/matzehuels/notionmap/pkg/visibility"
)

// Default screen size used before the renderer reports its own.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// Settings gathers every tunable of a view.
type Settings struct {
	Width, Height float64

	Physics     physics.Config
	Sizing      layout.Sizing
	Rings       layout.Rings
	Links       layout.LinkPolicy
	Interaction interaction.Config
	Zoom        interaction.ZoomConfig
	Filter      visibility.Filter

	// LockRoot keeps a dragged root pinned where it was released.
	LockRoot bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Physics:     physics.DefaultConfig(),
		Sizing:      layout.DefaultSizing(),
		Rings:       layout.DefaultRings(),
		Links:       layout.DefaultLinkPolicy(),
		Interaction: interaction.DefaultConfig(),
		Zoom:        interaction.DefaultZoomConfig(),
		Filter:      visibility.DefaultFilter(),
		LockRoot:    true,
	}
}

// Option configures a View.
type Option func(*View)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(v *View) { v.settings = s }
}

// WithLogger sets the logger for restart and settle events. Views log
// nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithOpener sets the function called when a node's link is opened.
func WithOpener(open func(id, url string)) Option {
	return func(v *View) { v.open = open }
}

// WithInteractionOptions passes options through to the controller, for
// example a fake clock in tests.
func WithInteractionOptions(opts ...interaction.Option) Option {
	return func(v *View) { v.ctrlOpts = append(v.ctrlOpts, opts...) }
}
