package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/cache"
)

// cacheCommand manages the local settle cache. Redis entries are not
// touched; they expire on the server.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cacheInfoCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached layouts, renderings and datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := c.openFileCache()
			if err != nil || fc == nil {
				return err
			}

			remove, what := fc.Clear, "cached entries"
			if expired {
				remove, what = fc.Prune, "expired entries"
			}
			count, err := remove()
			if err != nil {
				return err
			}
			printSuccess("Removed %d %s", count, what)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired and unreadable entries")
	return cmd
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how many layouts, renderings and datasets are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := c.openFileCache()
			if err != nil || fc == nil {
				return err
			}
			counts, size, err := fc.Usage()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "directory  %s\n", dir)
			for _, kind := range []string{cache.PrefixLayout, cache.PrefixArtifact, cache.PrefixSource} {
				fmt.Fprintf(out, "%-10s %d\n", kind, counts[kind])
			}
			fmt.Fprintf(out, "size       %.1f KiB\n", float64(size)/1024)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// openFileCache opens the file cache without creating it. A nil cache with
// a nil error means there is nothing cached yet.
func (c *CLI) openFileCache() (*cache.FileCache, string, error) {
	dir, err := c.fileCacheDir()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, dir, err
}

// fileCacheDir returns the configured file cache directory, or the XDG
// default.
func (c *CLI) fileCacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
