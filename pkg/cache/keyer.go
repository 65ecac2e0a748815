package cache

import (
	"slices"
	"strings"
)

// Key prefixes, also used as the key type reported to observability hooks.
const (
	PrefixSource   = "source"
	PrefixLayout   = "layout"
	PrefixArtifact = "artifact"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always produce equal keys.
type Keyer interface {
	// SourceKey identifies a fetched remote dataset.
	SourceKey(scheme, location string) string

	// LayoutKey identifies a settled snapshot of a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a snapshot.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every input of a headless settle besides the dataset.
type LayoutKeyOpts struct {
	Width    float64
	Height   float64
	LevelCap int
	Expand   string // "", "all" or "none"

	ShowOnlyIDs        []string
	ExcludeIDs         []string
	ShowOnlyCategories []string
	ExcludeCategories  []string

	MaxTicks   int
	ConfigHash string // hash of the effective configuration
}

// ArtifactKeyOpts lists the inputs of rendering a snapshot.
type ArtifactKeyOpts struct {
	Format  string
	Engine  string
	Palette string
	Labels  bool
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey keeps the location readable: "source:s3:bucket/key".
func (DefaultKeyer) SourceKey(scheme, location string) string {
	return PrefixSource + ":" + scheme + ":" + location
}

// LayoutKey hashes the dataset hash with the options. Selection lists are
// sorted first so that their order does not matter.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	opts.ShowOnlyIDs = sorted(opts.ShowOnlyIDs)
	opts.ExcludeIDs = sorted(opts.ExcludeIDs)
	opts.ShowOnlyCategories = sorted(opts.ShowOnlyCategories)
	opts.ExcludeCategories = sorted(opts.ExcludeCategories)
	return hashKey(PrefixLayout, datasetHash, opts)
}

// ArtifactKey hashes the snapshot hash with the render options.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey(PrefixArtifact, snapshotHash, opts)
}

func sorted(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	s = slices.Clone(s)
	slices.Sort(s)
	return s
}

// keyType returns the prefix segment of key, skipping any scope added by a
// [ScopedKeyer].
func keyType(key string) string {
	for _, p := range []string{PrefixSource, PrefixLayout, PrefixArtifact} {
		if strings.HasPrefix(key, p+":") || strings.Contains(key, ":"+p+":") {
			return p
		}
	}
	return "other"
}
