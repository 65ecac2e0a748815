package cli

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags  settleFlags
		noOpen bool
	)

	cmd := &cobra.Command{
		Use:   "explore [dataset.json...]",
		Short: "Explore a mind map interactively in the terminal",
		Long: `Explore a mind map interactively in the terminal.

Click a node to expand or collapse it, drag it to move it, double-click to
open its Notion or Drive link, scroll to zoom and drag the background to pan.
Press ? for every key binding.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, &flags, noOpen)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "show links instead of opening them in the browser")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, sources []string, flags *settleFlags, noOpen bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cfg, sources)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, _, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	palette, _ := svg.LookupPalette(cfg.Render.Palette)
	var model *exploreModel
	open := openURL
	if noOpen {
		open = nil
	}

	// The opener closes over model, which is assigned before any event runs.
	view := mindmap.New(ds.HierarchyNodes(),
		mindmap.WithSettings(opts.Settings),
		mindmap.WithLogger(c.Logger),
		mindmap.WithOpener(func(id, url string) { model.opener(open)(id, url) }),
	)
	defer view.Close()

	model = newExploreModel(view, palette)
	model.doubleClick = opts.Settings.Interaction.DoubleClickWindow
	c.Logger.Debug("explore", "view", view.ID(), "nodes", len(ds.Nodes), "visible", len(view.Visible()))

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("explore: %w", err)
	}
	return ctx.Err()
}

// openURL opens a node's link in the system browser. Only http and https
// links are opened.
func openURL(rawURL string) error {
	if err := errors.ValidateURL(rawURL); err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", strings.ReplaceAll(rawURL, "&", "^&"))
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
