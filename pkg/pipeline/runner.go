package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notionmap/pkg/cache"
	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/observability"
	"github.com/matzehuels/notionmap/pkg/render"
	"github.com/matzehuels/notionmap/pkg/render/nodelink"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, loader and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Loader *graph.Loader
	Logger *log.Logger

	// TTL replaces the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observed(c),
		Keyer:  keyer,
		Loader: &graph.Loader{},
		Logger: logger,
	}
}

// Execute runs the complete load → settle → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Dataset = ds
	result.DatasetHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(ds.Nodes)

	r.Logger.Info("loaded dataset",
		"sources", len(opts.Sources),
		"nodes", len(ds.Nodes),
		"duration", result.Stats.LoadTime)

	// Stage 2: Settle
	settleStart := time.Now()
	snap, hit, err := r.SettleWithCacheInfo(ctx, ds, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	result.Snapshot = snap
	result.Stats.SettleTime = time.Since(settleStart)
	result.Stats.VisibleCount = len(snap.Nodes)
	result.Stats.Ticks = snap.Ticks
	result.CacheInfo.SettleHit = hit

	r.Logger.Info("settled layout",
		"visible", len(snap.Nodes),
		"ticks", snap.Ticks,
		"cached", hit,
		"duration", result.Stats.SettleTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"engine", opts.Engine,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and merges every source and returns the dataset with its
// content hash. Remote sources are served from the cache unless Refresh is
// set.
func (r *Runner) Load(ctx context.Context, opts Options) (graph.Dataset, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return graph.Dataset{}, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	sets := make([]graph.Dataset, 0, len(opts.Sources))
	for _, src := range opts.Sources {
		if err := errors.ValidatePath(src); err != nil {
			return graph.Dataset{}, "", err
		}
		d, err := r.loadSource(ctx, src, opts.Refresh)
		if err != nil {
			return graph.Dataset{}, "", err
		}
		sets = append(sets, d)
	}
	ds := graph.Merge(sets...)
	if len(ds.Nodes) == 0 {
		return graph.Dataset{}, "", errors.New(errors.ErrCodeEmptyDataset, "no nodes in %s", strings.Join(opts.Sources, ", "))
	}

	var buf bytes.Buffer
	if err := graph.Encode(&buf, ds, graph.FormatJSON); err != nil {
		return graph.Dataset{}, "", err
	}
	return ds, cache.Hash(buf.Bytes()), nil
}

func (r *Runner) loadSource(ctx context.Context, src string, refresh bool) (graph.Dataset, error) {
	bucket, key, err := graph.ParseS3(src)
	if err != nil {
		return r.Loader.Load(ctx, src)
	}

	cacheKey := r.Keyer.SourceKey("s3", bucket+"/"+key)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := graph.Decode(bytes.NewReader(data), graph.FormatJSON); err == nil {
				r.Logger.Debug("dataset from cache", "source", src)
				return d, nil
			}
		}
	}

	d, err := r.Loader.Load(ctx, src)
	if err != nil {
		return graph.Dataset{}, err
	}
	var buf bytes.Buffer
	if err := graph.Encode(&buf, d, graph.FormatJSON); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(cache.TTLSource))
	}
	return d, nil
}

// SettleWithCacheInfo settles the dataset headlessly, with caching, and
// reports whether the snapshot came from the cache.
func (r *Runner) SettleWithCacheInfo(ctx context.Context, ds graph.Dataset, hash string, opts Options) (graph.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSettle(); err != nil {
		return graph.Snapshot{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(hash, opts.SettleKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, err := graph.UnmarshalSnapshot(data); err == nil {
				return snap, true, nil
			}
		}
	}

	snap, err := Settle(ctx, ds, opts)
	if err != nil {
		return graph.Snapshot{}, false, err
	}

	if data, err := graph.MarshalSnapshot(snap); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout))
	}
	return snap, false, nil
}

// Settle builds a view over ds and ticks it until it rests or the tick
// budget is spent. It never reads the cache.
func Settle(ctx context.Context, ds graph.Dataset, opts Options) (snap graph.Snapshot, err error) {
	if err := opts.ValidateForSettle(); err != nil {
		return graph.Snapshot{}, err
	}

	nodes := ds.HierarchyNodes()
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(nodes))
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, len(nodes), time.Since(start), err)
	}()

	view := mindmap.New(nodes,
		mindmap.WithSettings(opts.Settings),
		mindmap.WithLogger(opts.Logger),
	)
	defer view.Close()

	if view.Root() == "" {
		return graph.Snapshot{}, errors.New(errors.ErrCodeEmptyDataset, "dataset has no root node")
	}

	switch opts.Expand {
	case ExpandAll:
		view.ExpandAll()
	case ExpandNone:
		view.CollapseAll()
	}

	if id := opts.Settings.Filter.CenterOn; id != "" {
		if err := view.CenterOn(id); err != nil {
			if stderrors.Is(err, mindmap.ErrUnknownNode) {
				return graph.Snapshot{}, errors.Wrap(errors.ErrCodeNodeNotFound, err, "center on %q", id)
			}
			opts.Logger.Warn("center-on target is filtered out", "id", id)
		}
	}

	// Settle in slices so that cancellation is honored between them.
	const slice = 50
	for ticks := 0; ticks < opts.MaxTicks && !view.Resting(); ticks += slice {
		if err := ctx.Err(); err != nil {
			return graph.Snapshot{}, err
		}
		view.Settle(min(slice, opts.MaxTicks-ticks))
	}
	return view.Snapshot(), nil
}

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	snapData, err := graph.MarshalSnapshot(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	snapHash := cache.Hash(snapData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// Render draws snap in every requested format without caching.
func Render(ctx context.Context, snap graph.Snapshot, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	artifacts = make(map[string][]byte, len(opts.Formats))
	var drawn []byte // svg drawing shared by svg, png and pdf
	drawing := func() ([]byte, error) {
		if drawn != nil {
			return drawn, nil
		}
		var err error
		drawn, err = drawSVG(ctx, snap, opts)
		return drawn, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = drawing()
		case FormatPNG:
			if opts.Engine == EngineGraphviz {
				data, err = nodelink.RenderPNG(ctx, toDOT(snap, opts))
				break
			}
			if data, err = drawing(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case FormatPDF:
			if data, err = drawing(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatDOT:
			data = []byte(toDOT(snap, opts))
		case FormatJSON:
			data, err = graph.MarshalSnapshot(snap)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func drawSVG(ctx context.Context, snap graph.Snapshot, opts Options) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		return nodelink.RenderSVG(ctx, toDOT(snap, opts))
	}
	svgOpts := []svg.Option{svg.WithPalette(opts.Palette)}
	if !opts.Labels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	return svg.Render(snap, svgOpts...), nil
}

func toDOT(snap graph.Snapshot, opts Options) string {
	return nodelink.ToDOT(snap, nodelink.Options{Palette: opts.Palette})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
