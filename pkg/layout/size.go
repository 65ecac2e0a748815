package layout

import "github.com/matzehuels/notionmap/pkg/hierarchy"

// Default sizing constants, in world pixels.
const (
	DefaultBaseSize = 110.0
	DefaultSizeStep = 16.0
	DefaultMinSize  = 56.0
)

// Sizing maps depth to diameter: Base at the root, Step smaller per level,
// never below Min.
type Sizing struct {
	Base float64 `toml:"base" json:"base" validate:"gt=0"`
	Step float64 `toml:"step" json:"step" validate:"gte=0"`
	Min  float64 `toml:"min" json:"min" validate:"gt=0"`
}

// DefaultSizing returns the built-in sizing.
func DefaultSizing() Sizing {
	return Sizing{Base: DefaultBaseSize, Step: DefaultSizeStep, Min: DefaultMinSize}
}

// ForDepth returns the diameter of a node at depth d. The result is
// non-increasing in d.
func (s Sizing) ForDepth(d int) float64 {
	return max(s.Min, s.Base-s.Step*float64(max(d, 0)))
}

// SizeMap maps node ids to diameters.
type SizeMap map[string]float64

// Radius returns half the diameter of id, or 0 when unknown.
func (s SizeMap) Radius(id string) float64 { return s[id] / 2 }

// Sizes computes diameters for ids. Ids without a depth are skipped.
func Sizes(idx *hierarchy.Index, ids []string, s Sizing) SizeMap {
	out := make(SizeMap, len(ids))
	for _, id := range ids {
		if d, ok := idx.Depth(id); ok {
			out[id] = s.ForDepth(d)
		}
	}
	return out
}
