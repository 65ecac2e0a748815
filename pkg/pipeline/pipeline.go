// Package pipeline runs the headless load → settle → render pipeline behind
// the `layout` and `render` commands.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and merge datasets from files, standard input or S3
//  2. Settle: build a mind map view, apply expansion and filters, and tick
//     the simulation until it rests or the tick budget runs out
//  3. Render: draw the settled snapshot as SVG, PNG, PDF, DOT or JSON
//
// Settle results and rendered artifacts are memoized in a [cache.Cache]
// under keys covering every input, so repeated runs over an unchanged export
// are instant. Interactive exploration never goes through the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sources:  []string{"notion.json", "drive.json"},
//	    Formats:  []string{"svg"},
//	    Settings: cfg.Settings(),
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notionmap/pkg/cache"
	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxTicks bounds a headless settle. The default alpha decay
	// reaches its minimum in under 200 ticks; the rest is headroom for
	// reheats from collisions.
	DefaultMaxTicks = 600

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Render engines.
const (
	EngineSVG      = "svg"
	EngineGraphviz = "graphviz"
)

// Expansion presets applied before settling.
const (
	ExpandDefault = ""     // root expanded, level cap applies
	ExpandAll     = "all"  // every node with children
	ExpandNone    = "none" // root only
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	EngineSVG:      true,
	EngineGraphviz: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Load options
	Sources []string `json:"sources"`
	Refresh bool     `json:"refresh,omitempty"` // bypass cached remote datasets and settles

	// Settle options
	Expand   string `json:"expand,omitempty"`
	MaxTicks int    `json:"max_ticks,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Engine  string   `json:"engine,omitempty"`
	Palette string   `json:"palette,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Settings tunes the view; its Filter holds level cap, selections and
	// center-on.
	Settings mindmap.Settings `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset     graph.Dataset
	DatasetHash string
	Snapshot    graph.Snapshot
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	Ticks        int
	LoadTime     time.Duration
	SettleTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SettleHit bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a render engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: svg, graphviz)", engine)
	}
	return nil
}

// ValidatePalette checks that a palette exists.
func ValidatePalette(name string) error {
	if _, ok := svg.LookupPalette(name); !ok {
		return fmt.Errorf("invalid palette: %q (must be one of: %v)", name, svg.PaletteNames())
	}
	return nil
}

// ValidateExpand checks an expansion preset.
func ValidateExpand(expand string) error {
	switch expand {
	case ExpandDefault, ExpandAll, ExpandNone:
		return nil
	}
	return fmt.Errorf("invalid expand: %q (must be one of: all, none)", expand)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that there is something to load.
func (o *Options) ValidateForLoad() error {
	if len(o.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	o.setLogger()
	return nil
}

// SetSettleDefaults fills unset settle options.
func (o *Options) SetSettleDefaults() {
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Settings.Width == 0 || o.Settings.Height == 0 {
		filter := o.Settings.Filter
		o.Settings = mindmap.DefaultSettings()
		o.Settings.Filter = filter
	}
	o.setLogger()
}

// ValidateForSettle validates and sets defaults for settling.
func (o *Options) ValidateForSettle() error {
	o.SetSettleDefaults()
	return ValidateExpand(o.Expand)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineSVG
	}
	if o.Palette == "" {
		o.Palette = svg.DefaultPalette
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	return ValidatePalette(o.Palette)
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it twice has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSettle(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SettleKeyOpts returns cache key options covering every settle input.
func (o *Options) SettleKeyOpts() cache.LayoutKeyOpts {
	f := o.Settings.Filter
	return cache.LayoutKeyOpts{
		Width:              o.Settings.Width,
		Height:             o.Settings.Height,
		LevelCap:           f.LevelCap,
		Expand:             o.Expand,
		ShowOnlyIDs:        f.ShowOnlyIDs,
		ExcludeIDs:         f.ExcludeIDs,
		ShowOnlyCategories: f.ShowOnlyCategories,
		ExcludeCategories:  f.ExcludeCategories,
		MaxTicks:           o.MaxTicks,
		ConfigHash:         settingsHash(o.Settings),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Engine:  o.Engine,
		Palette: o.Palette,
		Labels:  o.Labels,
	}
}

// settingsHash fingerprints the simulation settings. The filter's
// selections are keyed separately in sorted form, so only CenterOn is
// kept here.
func settingsHash(s mindmap.Settings) string {
	s.Filter.ShowOnlyIDs = nil
	s.Filter.ExcludeIDs = nil
	s.Filter.ShowOnlyCategories = nil
	s.Filter.ExcludeCategories = nil
	return cache.HashJSON(s)
}
