package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/pipeline"
)

// renderFlags are the drawing flags shared by render and visualize.
type renderFlags struct {
	output   string
	formats  string
	engine   string
	palette  string
	noLabels bool
	scale    float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	fs.StringVarP(&f.engine, "engine", "e", "", "render engine: svg, graphviz (default from config)")
	fs.StringVarP(&f.palette, "palette", "p", "", "color palette (default from config)")
	fs.BoolVar(&f.noLabels, "no-labels", false, "draw circles without titles")
	fs.Float64Var(&f.scale, "scale", 0, "PNG pixel density (default from config)")
	registerRenderCompletions(cmd)
}

// apply overrides opts with the flags that were set and validates the
// result.
func (f *renderFlags) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	if f.engine != "" {
		opts.Engine = f.engine
	}
	if f.palette != "" {
		opts.Palette = strings.ToLower(f.palette)
	}
	if f.noLabels {
		opts.Labels = false
	}
	if f.scale > 0 {
		opts.Scale = f.scale
	}
	return opts.ValidateForRender()
}

// renderCommand creates the render command: load, settle and draw in one
// step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		settle settleFlags
		draw   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [dataset.json...]",
		Short: "Render a mind map to SVG, PNG, PDF or DOT",
		Long: `Render a mind map to SVG, PNG, PDF or DOT.

The render command loads and merges the given exports, settles the force
simulation headlessly and draws the result. The svg engine draws filled
circles with fitted labels in the chosen palette; the graphviz engine emits
DOT with pinned positions and renders it with neato. PNG and PDF output from
the svg engine needs rsvg-convert on the PATH.

Settled layouts and rendered files are cached locally.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, &settle, &draw)
		},
	}

	draw.register(cmd)
	settle.register(cmd, true)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, sources []string, settle *settleFlags, draw *renderFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := settle.options(cfg, sources)
	if err != nil {
		return err
	}
	if err := draw.apply(&opts); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering mind map...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     sources[0],
		output:    draw.output,
		cacheHit:  result.CacheInfo.SettleHit && result.CacheInfo.RenderHit,
		nodes:     result.Stats.NodeCount,
		visible:   result.Stats.VisibleCount,
		ticks:     result.Stats.Ticks,
	})
}

// =============================================================================
// Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool

	nodes, visible, ticks int
}

// writeArtifacts writes one file per format. A single format goes to
// output verbatim; several formats share output as a base path.
func writeArtifacts(p artifactWriteParams) error {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := basePath(p.output, p.input) + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if path == "-" {
			path = ""
		}

		if err := writeOutput(path, data); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		if path != "" {
			paths = append(paths, path)
		}
	}

	if len(paths) == 0 {
		return nil // everything went to stdout
	}
	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodes, p.visible, p.ticks, p.cacheHit)
	return nil
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
