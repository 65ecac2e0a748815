package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/notionmap/pkg/config"
)

func TestDirectories(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	xdg := t.TempDir()

	tests := []struct {
		name      string
		xdgCache  string
		xdgConfig string
		got       func(c *CLI) (string, error)
		want      string
	}{
		{
			name: "cache dir under home",
			got:  func(*CLI) (string, error) { return cacheDir() },
			want: filepath.Join(home, ".cache", appName),
		},
		{
			name:     "cache dir under XDG_CACHE_HOME",
			xdgCache: xdg,
			got:      func(*CLI) (string, error) { return cacheDir() },
			want:     filepath.Join(xdg, appName),
		},
		{
			name:      "config path under XDG_CONFIG_HOME",
			xdgConfig: xdg,
			got:       func(c *CLI) (string, error) { return c.resolvedConfigPath(), nil },
			want:      filepath.Join(xdg, appName, "notionmap.toml"),
		},
		{
			name:      "file cache dir follows XDG when the config sets none",
			xdgCache:  xdg,
			xdgConfig: t.TempDir(),
			got:       func(c *CLI) (string, error) { return c.fileCacheDir() },
			want:      filepath.Join(xdg, appName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdgCache)
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)

			got, err := tt.got(New(os.Stderr, LogInfo))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(dir, "maps-cache")
	path := filepath.Join(dir, "notionmap.toml")
	if err := config.Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	c.configPath = path
	got, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg.Cache.Dir {
		t.Errorf("fileCacheDir() = %q, want %q", got, cfg.Cache.Dir)
	}
	if orDefault(c.configPath, "unused") != path {
		t.Error("orDefault should keep a set value")
	}
}
