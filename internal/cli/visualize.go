package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/pipeline"
)

// visualizeCommand creates the visualize command for drawing a saved layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var draw renderFlags

	cmd := &cobra.Command{
		Use:   "visualize [map.layout.json]",
		Short: "Render a layout snapshot written by 'layout'",
		Long: `Render a layout snapshot written by 'layout'.

The snapshot already holds every position, so this step only draws. It
accepts the same format, engine and palette flags as 'render'.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayouts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], &draw)
		},
	}

	draw.register(cmd)

	return cmd
}

// runVisualize loads the snapshot and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, draw *renderFlags) error {
	snap, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Engine:  cfg.Render.Engine,
		Palette: cfg.Render.Palette,
		Labels:  cfg.Render.Labels,
		Scale:   cfg.Render.Scale,
		Logger:  c.Logger,
	}
	if err := draw.apply(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d nodes...", len(snap.Nodes)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     trimLayoutExt(input),
		output:    draw.output,
		cacheHit:  cacheHit,
		visible:   len(snap.Nodes),
		ticks:     snap.Ticks,
	})
}

// trimLayoutExt maps "map.layout.json" to "map.json" so derived outputs are
// named "map.svg" rather than "map.layout.svg".
func trimLayoutExt(path string) string {
	const ext = ".layout.json"
	if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
		return path[:len(path)-len(ext)] + ".json"
	}
	return path
}
