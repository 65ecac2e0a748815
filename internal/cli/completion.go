package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/hierarchy"
	"github.com/matzehuels/notionmap/pkg/pipeline"
	"github.com/matzehuels/notionmap/pkg/render/svg"
)

// completionCommand prints shell completion scripts. Besides commands and
// flags, the scripts complete dataset files, palettes, and the node ids and
// kinds of the datasets already named on the command line.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for notionmap.

  $ source <(notionmap completion bash)
  $ notionmap completion zsh > "${fpath[1]}/_notionmap"
  $ notionmap completion fish > ~/.config/fish/completions/notionmap.fish
  PS> notionmap completion powershell | Out-String | Invoke-Expression

With completion loaded, --center, --show-only and --exclude offer the ids
of the datasets given before them:

  $ notionmap explore workspace.json --center <TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeDatasets offers JSON and YAML files as positional arguments.
func completeDatasets(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeLayouts offers snapshot files for visualize.
func completeLayouts(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// fixedValues completes a flag from a static list.
func fixedValues(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerRenderCompletions completes --format, --engine and --palette.
func registerRenderCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", listValues(func(context.Context, []string) []string { return sortedKeys(pipeline.ValidFormats) }))
	_ = cmd.RegisterFlagCompletionFunc("engine", fixedValues(sortedKeys(pipeline.ValidEngines)...))
	_ = cmd.RegisterFlagCompletionFunc("palette", fixedValues(svg.PaletteNames()...))
}

// registerSettleCompletions completes node ids and kinds from the datasets
// given as arguments.
func registerSettleCompletions(cmd *cobra.Command, headless bool) {
	_ = cmd.RegisterFlagCompletionFunc("center", nodeIDValues)
	_ = cmd.RegisterFlagCompletionFunc("show-only", listValues(completeNodeIDs))
	_ = cmd.RegisterFlagCompletionFunc("exclude", listValues(completeNodeIDs))
	_ = cmd.RegisterFlagCompletionFunc("show-only-kind", listValues(datasetKinds))
	_ = cmd.RegisterFlagCompletionFunc("exclude-kind", listValues(datasetKinds))
	if headless {
		_ = cmd.RegisterFlagCompletionFunc("expand", fixedValues(pipeline.ExpandAll, pipeline.ExpandNone))
	}
}

// nodeIDValues completes one id, described by its title.
func nodeIDValues(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return completeNodeIDs(cmd.Context(), args), cobra.ShellCompDirectiveNoFileComp
}

// listValues completes the last entry of a comma-separated list, keeping
// the entries already typed as a prefix.
func listValues(candidates func(ctx context.Context, args []string) []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
		}
		taken := splitList(prefix)
		var out []string
		for _, c := range candidates(cmd.Context(), args) {
			value, _, _ := strings.Cut(c, "\t")
			if !slices.Contains(taken, value) {
				out = append(out, prefix+c)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// completionIndex loads the local datasets in args. Unreadable files and
// remote locations are skipped; completion must not block on the network.
func completionIndex(ctx context.Context, args []string) *hierarchy.Index {
	if ctx == nil {
		ctx = context.Background()
	}
	loader := &graph.Loader{}
	var sets []graph.Dataset
	for _, a := range args {
		if a == "-" || strings.HasPrefix(a, "s3://") {
			continue
		}
		if ds, err := loader.Load(ctx, a); err == nil {
			sets = append(sets, ds)
		}
	}
	return hierarchy.Build(graph.Merge(sets...).HierarchyNodes())
}

// completeNodeIDs returns "id\ttitle" pairs, which shells show as value and
// description.
func completeNodeIDs(ctx context.Context, args []string) []string {
	idx := completionIndex(ctx, args)
	var out []string
	for _, id := range idx.IDs() {
		n, _ := idx.Node(id)
		out = append(out, id+"\t"+n.EffectiveTitle())
	}
	return out
}

func datasetKinds(ctx context.Context, args []string) []string {
	return completionIndex(ctx, args).Categories()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
