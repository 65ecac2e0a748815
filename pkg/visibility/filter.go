package visibility

import "slices"

// DefaultLevelCap reveals the root and its direct children.
const DefaultLevelCap = 1

// Filter holds the user's visibility criteria. The zero value shows the
// root only, unless it is expanded.
type Filter struct {
	LevelCap           int      `json:"level_cap" toml:"level_cap"`
	ShowOnlyIDs        []string `json:"show_only_ids,omitempty" toml:"show_only_ids"`
	ExcludeIDs         []string `json:"exclude_ids,omitempty" toml:"exclude_ids"`
	ShowOnlyCategories []string `json:"show_only_categories,omitempty" toml:"show_only_categories"`
	ExcludeCategories  []string `json:"exclude_categories,omitempty" toml:"exclude_categories"`

	// CenterOn names a node the view should bring into focus. It does not
	// affect which nodes are visible.
	CenterOn string `json:"center_on,omitempty" toml:"center_on"`
}

// DefaultFilter returns a filter with [DefaultLevelCap] and no selections.
func DefaultFilter() Filter {
	return Filter{LevelCap: DefaultLevelCap}
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	f.ShowOnlyIDs = slices.Clone(f.ShowOnlyIDs)
	f.ExcludeIDs = slices.Clone(f.ExcludeIDs)
	f.ShowOnlyCategories = slices.Clone(f.ShowOnlyCategories)
	f.ExcludeCategories = slices.Clone(f.ExcludeCategories)
	return f
}

// HasSelections reports whether any id or category selection is set.
func (f Filter) HasSelections() bool {
	return len(f.ShowOnlyIDs)+len(f.ExcludeIDs)+len(f.ShowOnlyCategories)+len(f.ExcludeCategories) > 0
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	s := make(map[string]bool, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}
