package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/buildinfo"
	"github.com/matzehuels/notionmap/pkg/cache"
	"github.com/matzehuels/notionmap/pkg/config"
	"github.com/matzehuels/notionmap/pkg/observability"
	"github.com/matzehuels/notionmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "notionmap"

	// cacheNone disables caching when set as the config backend.
	cacheNone = "none"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cacheURL   string
	metrics    bool
	logFormat  string

	registry *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Notionmap lays out workspace hierarchies as force-directed mind maps",
		Long:         `Notionmap reads Notion and Drive hierarchy exports and arranges them as mind maps: nodes sized by depth, seeded on rings around the root and settled by a force simulation. Maps can be explored in the terminal or rendered to SVG, PNG, PDF and DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogFormat(c.Logger, c.logFormat); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.metrics {
				c.enableMetrics()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.registry == nil {
				return nil
			}
			return observability.WriteText(os.Stderr, c.registry)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.cacheURL, "cache", "", "cache backend URL, e.g. redis://localhost:6379/0")
	flags.BoolVar(&c.metrics, "metrics", false, "print Prometheus metrics to stderr on exit")
	flags.StringVar(&c.logFormat, "log-format", "text", "log output format: text, json or logfmt")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// enableMetrics routes every observability hook to a fresh registry.
func (c *CLI) enableMetrics() {
	c.registry = prometheus.NewRegistry()
	p := observability.NewPrometheus(c.registry)
	observability.SetPipelineHooks(p)
	observability.SetSimulationHooks(p)
	observability.SetCacheHooks(p)
	observability.SetSourceHooks(p)
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the default location, over the
// built-in defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", orDefault(c.configPath, config.DefaultPath()))
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, redis := store.(*cache.RedisCache); !redis && cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// newCache picks the backend: --no-cache wins, then --cache, then the
// config file.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	backend, url := cfg.Cache.Backend, cfg.Cache.URL
	if c.cacheURL != "" {
		backend, url = "redis", c.cacheURL
	}
	if c.noCache || backend == cacheNone {
		return cache.NewNullCache(), nil
	}

	if backend == "redis" {
		c.Logger.Debug("using redis cache", "url", url)
		return cache.NewRedisCache(ctx, url, cfg.Cache.Prefix)
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/notionmap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return splitList(s)
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
