package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/config"
	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/pipeline"
)

// settleFlags are the view flags shared by layout, render and explore.
// Unset flags leave the config file's values in place.
type settleFlags struct {
	expand      string
	levelCap    int
	showOnly    string
	exclude     string
	showOnlyCat string
	excludeCat  string
	center      string
	width       float64
	height      float64
	maxTicks    int
	refresh     bool
}

func (f *settleFlags) register(cmd *cobra.Command, headless bool) {
	fs := cmd.Flags()
	fs.IntVarP(&f.levelCap, "level", "l", -1, "reveal every node up to this depth (default from config)")
	fs.StringVar(&f.showOnly, "show-only", "", "comma-separated node ids to keep, with their ancestors")
	fs.StringVar(&f.exclude, "exclude", "", "comma-separated node ids whose subtrees are hidden")
	fs.StringVar(&f.showOnlyCat, "show-only-kind", "", "comma-separated kinds to keep")
	fs.StringVar(&f.excludeCat, "exclude-kind", "", "comma-separated kinds whose subtrees are hidden")
	fs.StringVar(&f.center, "center", "", "node id to reveal and center")
	fs.Float64Var(&f.width, "width", 0, "canvas width (default from config)")
	fs.Float64Var(&f.height, "height", 0, "canvas height (default from config)")
	if headless {
		fs.StringVar(&f.expand, "expand", "", "expansion preset: all, none")
		fs.IntVar(&f.maxTicks, "max-ticks", 0, "simulation tick budget (default from config)")
		fs.BoolVar(&f.refresh, "refresh", false, "ignore cached datasets, layouts and artifacts")
	}
	registerSettleCompletions(cmd, headless)
}

// options merges the config file and the flags into pipeline options.
func (f *settleFlags) options(cfg *config.Config, sources []string) (pipeline.Options, error) {
	for _, src := range sources {
		if err := errors.ValidatePath(src); err != nil {
			return pipeline.Options{}, err
		}
	}

	settings := cfg.Settings()
	if f.width > 0 {
		settings.Width = f.width
	}
	if f.height > 0 {
		settings.Height = f.height
	}

	filter := &settings.Filter
	if f.levelCap >= 0 {
		filter.LevelCap = f.levelCap
	}
	if f.showOnly != "" {
		ids, err := nodeIDs(f.showOnly)
		if err != nil {
			return pipeline.Options{}, err
		}
		filter.ShowOnlyIDs = ids
	}
	if f.exclude != "" {
		ids, err := nodeIDs(f.exclude)
		if err != nil {
			return pipeline.Options{}, err
		}
		filter.ExcludeIDs = ids
	}
	if f.showOnlyCat != "" {
		filter.ShowOnlyCategories = splitList(f.showOnlyCat)
	}
	if f.excludeCat != "" {
		filter.ExcludeCategories = splitList(f.excludeCat)
	}
	if f.center != "" {
		if err := errors.ValidateNodeID(f.center); err != nil {
			return pipeline.Options{}, err
		}
		filter.CenterOn = f.center
	}

	maxTicks := cfg.Render.MaxTicks
	if f.maxTicks > 0 {
		maxTicks = f.maxTicks
	}

	opts := pipeline.Options{
		Sources:  sources,
		Refresh:  f.refresh,
		Expand:   f.expand,
		MaxTicks: maxTicks,
		Engine:   cfg.Render.Engine,
		Palette:  cfg.Render.Palette,
		Labels:   cfg.Render.Labels,
		Scale:    cfg.Render.Scale,
		Settings: settings,
	}
	if err := pipeline.ValidateExpand(opts.Expand); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// nodeIDs splits a comma-separated id list and validates every entry.
func nodeIDs(list string) ([]string, error) {
	ids := splitList(list)
	for _, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// layoutCommand creates the layout command for settling a dataset.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  settleFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset.json...]",
		Short: "Settle a mind map and write the layout snapshot",
		Long: `Settle a mind map and write the layout snapshot.

The layout command loads one or more Notion or Drive exports (local files,
"-" for stdin, or s3://bucket/key), merges them, and runs the force
simulation until it rests or the tick budget is spent. The result is a
snapshot JSON file with every visible node's position, size and link, which
'visualize' can draw later.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd, true)

	return cmd
}

// runLayout loads the datasets, settles them and writes the snapshot.
func (c *CLI) runLayout(ctx context.Context, sources []string, flags *settleFlags, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cfg, sources)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	ds, hash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Loaded dataset", "sources", len(sources), "records", len(ds.Nodes))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d nodes...", len(ds.Nodes)))
	spinner.Start()

	snap, cacheHit, err := runner.SettleWithCacheInfo(ctx, ds, hash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("settle: %w", err)
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", sources[0]) + ".layout.json"
	}

	if err := graph.WriteSnapshotFile(snap, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(ds.Nodes), len(snap.Nodes), snap.Ticks, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// basePath derives the base output path from the output and input file
// paths. Known format extensions are stripped from output; stdin and S3
// inputs fall back to "notionmap".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || strings.HasPrefix(input, "s3://") {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
