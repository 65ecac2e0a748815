package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/notionmap/pkg/cache"
	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/graph"
	"github.com/matzehuels/notionmap/pkg/mindmap"
)

const sample = `[
  {"id": "root", "title": "Workspace"},
  {"id": "eng", "title": "Engineering", "parent_id": "root", "kind": "page"},
  {"id": "ops", "title": "Operations", "parent_id": "root", "kind": "db"},
  {"id": "api", "title": "API Guide", "parent_id": "eng", "url": "https://example.com/api"},
  {"id": "oncall", "title": "On-call", "parent_id": "ops"}
]`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notion.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"svg", false},
		{"graphviz", false},
		{"dagre", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestValidatePalette(t *testing.T) {
	tests := []struct {
		palette string
		wantErr bool
	}{
		{"minimal", false},
		{"Ocean", false},
		{"neon", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidatePalette(tt.palette)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePalette(%q) error = %v, wantErr %v", tt.palette, err, tt.wantErr)
		}
	}
}

func TestValidateExpand(t *testing.T) {
	for _, ok := range []string{ExpandDefault, ExpandAll, ExpandNone} {
		if err := ValidateExpand(ok); err != nil {
			t.Errorf("ValidateExpand(%q) = %v", ok, err)
		}
	}
	if err := ValidateExpand("some"); err == nil {
		t.Error("ValidateExpand(\"some\") should fail")
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	var opts Options
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("no sources should fail")
	}

	opts.Sources = []string{"a.json"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("ValidateForLoad() = %v", err)
	}
	if opts.Logger == nil {
		t.Error("logger should be set")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Sources: []string{"a.json"}}
	opts.Settings.Filter.CenterOn = "eng"
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, DefaultMaxTicks, opts.MaxTicks)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.Equal(t, EngineSVG, opts.Engine)
	assert.Equal(t, "minimal", opts.Palette)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.Equal(t, mindmap.DefaultSettings().Width, opts.Settings.Width)
	assert.Equal(t, "eng", opts.Settings.Filter.CenterOn, "filter survives defaults")

	// Idempotent
	before := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, before.MaxTicks, opts.MaxTicks)
	assert.Equal(t, before.Formats, opts.Formats)
	assert.Equal(t, before.Settings, opts.Settings)
}

func TestSettleKeyOpts(t *testing.T) {
	a := Options{Sources: []string{"a.json"}}
	require.NoError(t, a.ValidateAndSetDefaults())
	b := a
	b.Settings.Filter.ExcludeIDs = []string{"ops"}

	keyer := cache.NewDefaultKeyer()
	ka := keyer.LayoutKey("h", a.SettleKeyOpts())
	kb := keyer.LayoutKey("h", b.SettleKeyOpts())
	assert.NotEqual(t, ka, kb)

	c := a
	c.Settings.Physics.Repulsion = -400
	assert.NotEqual(t, ka, keyer.LayoutKey("h", c.SettleKeyOpts()), "physics changes the key")

	d := a
	d.Palette = "ocean"
	assert.Equal(t, ka, keyer.LayoutKey("h", d.SettleKeyOpts()), "render options do not")
}

func TestRunnerLoad(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	path := writeSample(t)

	ds, hash, err := r.Load(ctx, Options{Sources: []string{path}})
	require.NoError(t, err)
	assert.Len(t, ds.Nodes, 5)
	assert.Len(t, hash, 64)

	// Merging the same file twice keeps first records only
	ds2, hash2, err := r.Load(ctx, Options{Sources: []string{path, path}})
	require.NoError(t, err)
	assert.Len(t, ds2.Nodes, 5)
	assert.Equal(t, hash, hash2)
}

func TestRunnerLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": []}`), 0o644))

	_, _, err := NewRunner(nil, nil, nil).Load(context.Background(), Options{Sources: []string{path}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyDataset))
}

func TestRunnerLoadRejectsTraversal(t *testing.T) {
	_, _, err := NewRunner(nil, nil, nil).Load(context.Background(), Options{Sources: []string{"../secret.json"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	ds, err := graph.Decode(strings.NewReader(sample), graph.FormatJSON)
	require.NoError(t, err)

	tests := []struct {
		name    string
		expand  string
		visible int
	}{
		{"default", ExpandDefault, 3},
		{"all", ExpandAll, 5},
		{"none", ExpandNone, 3}, // the root stays expanded
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Settle(ctx, ds, Options{Expand: tt.expand, MaxTicks: 300})
			require.NoError(t, err)
			assert.Len(t, snap.Nodes, tt.visible)
			assert.LessOrEqual(t, snap.Ticks, 301)
			require.NoError(t, snap.Validate())
		})
	}
}

func TestSettleCenterOnUnknown(t *testing.T) {
	ds, err := graph.Decode(strings.NewReader(sample), graph.FormatJSON)
	require.NoError(t, err)

	opts := Options{}
	opts.Settings = mindmap.DefaultSettings()
	opts.Settings.Filter.CenterOn = "nope"

	_, err = Settle(context.Background(), ds, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNodeNotFound))
}

func TestSettleCanceled(t *testing.T) {
	ds, err := graph.Decode(strings.NewReader(sample), graph.FormatJSON)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Settle(ctx, ds, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender(t *testing.T) {
	ds, err := graph.Decode(strings.NewReader(sample), graph.FormatJSON)
	require.NoError(t, err)
	ctx := context.Background()
	snap, err := Settle(ctx, ds, Options{})
	require.NoError(t, err)

	out, err := Render(ctx, snap, Options{Formats: []string{FormatSVG, FormatDOT, FormatJSON}, Labels: true})
	require.NoError(t, err)

	assert.Contains(t, string(out[FormatSVG]), "<svg")
	assert.Contains(t, string(out[FormatSVG]), "<text")
	assert.True(t, strings.HasPrefix(string(out[FormatDOT]), "graph G {"))

	back, err := graph.UnmarshalSnapshot(out[FormatJSON])
	require.NoError(t, err)
	assert.Len(t, back.Nodes, len(snap.Nodes))

	noLabels, err := Render(ctx, snap, Options{Formats: []string{FormatSVG}})
	require.NoError(t, err)
	assert.NotContains(t, string(noLabels[FormatSVG]), "<text")
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{
		Sources: []string{writeSample(t)},
		Formats: []string{FormatSVG, FormatJSON},
		Labels:  true,
	}

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.SettleHit)
	assert.False(t, first.CacheInfo.RenderHit)
	assert.Equal(t, 5, first.Stats.NodeCount)
	assert.Equal(t, 3, first.Stats.VisibleCount)

	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.SettleHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifacts[FormatSVG], second.Artifacts[FormatSVG])

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.SettleHit)
}

func TestRunnerExecuteInvalid(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Sources: []string{"a.json"},
		Formats: []string{"gif"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
