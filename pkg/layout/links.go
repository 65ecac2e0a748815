package layout

import "github.com/matzehuels/notionmap/pkg/hierarchy"

// Default link policy.
var DefaultLinkDistances = []float64{140, 110, 100}

const (
	DefaultLinkDecay    = 10.0
	DefaultLinkFloor    = 80.0
	DefaultLinkStrength = 0.08
)

// Link is a spring between a visible parent and a visible child.
type Link struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
	Strength float64 `json:"strength"`
}

// LinkPolicy decides rest length and stiffness by the child's depth.
type LinkPolicy struct {
	// Distances[i] is the rest length for a child at depth i+1.
	Distances []float64 `toml:"distances" json:"distances" validate:"min=1,dive,gt=0"`

	// Decay shortens links per level beyond Distances, down to Floor.
	Decay float64 `toml:"decay" json:"decay" validate:"gte=0"`
	Floor float64 `toml:"floor" json:"floor" validate:"gt=0"`

	Strength float64 `toml:"strength" json:"strength" validate:"gt=0,lte=1"`
}

// DefaultLinkPolicy returns 140/110/100 with a floor of 80 and strength 0.08.
func DefaultLinkPolicy() LinkPolicy {
	return LinkPolicy{
		Distances: append([]float64(nil), DefaultLinkDistances...),
		Decay:     DefaultLinkDecay,
		Floor:     DefaultLinkFloor,
		Strength:  DefaultLinkStrength,
	}
}

// Distance returns the rest length for a child at depth.
func (p LinkPolicy) Distance(depth int) float64 {
	if len(p.Distances) == 0 {
		return p.Floor
	}
	i := max(depth, 1) - 1
	if i < len(p.Distances) {
		return max(p.Distances[i], p.Floor)
	}
	last := p.Distances[len(p.Distances)-1]
	extra := float64(i - len(p.Distances) + 1)
	return max(last-p.Decay*extra, p.Floor)
}

// BuildLinks returns a link for every visible child whose parent is also
// visible, in visible order.
func BuildLinks(idx *hierarchy.Index, visible []string, p LinkPolicy) []Link {
	in := make(map[string]bool, len(visible))
	for _, id := range visible {
		in[id] = true
	}
	links := make([]Link, 0, len(visible))
	for _, id := range visible {
		parent, ok := idx.Parent(id)
		if !ok || !in[parent] {
			continue
		}
		d, _ := idx.Depth(id)
		links = append(links, Link{
			Source:   parent,
			Target:   id,
			Distance: p.Distance(d),
			Strength: p.Strength,
		})
	}
	return links
}
