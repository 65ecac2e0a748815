package graph

import (
	"encoding/json"
	"math"
	"os"

	"github.com/matzehuels/notionmap/pkg/errors"
)

// =============================================================================
// Snapshot - Laid-Out View
// =============================================================================

// Snapshot is the serialized state of one mind map view.
//
// Node positions are top-left corners in world coordinates; a node's circle
// has diameter Size. Nodes are listed in visibility order, parents before
// children.
type Snapshot struct {
	ViewID     string  `json:"view_id"`
	Generation uint64  `json:"generation"`
	Ticks      int     `json:"ticks"`
	Alpha      float64 `json:"alpha"`

	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Viewport Viewport `json:"viewport"`

	Nodes []SnapshotNode `json:"nodes"`
	Links []SnapshotLink `json:"links,omitempty"`
}

// Viewport is the pan and zoom the snapshot was taken with.
type Viewport struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"pan_x"`
	PanY  float64 `json:"pan_y"`
}

// SnapshotNode is one visible node. Expanded is not membership in the
// expansion set; it tells a renderer whether to draw a collapsed marker.
type SnapshotNode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Kind        string  `json:"kind,omitempty"`
	Depth       int     `json:"depth"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Expanded    bool    `json:"expanded,omitempty"` // some child is drawn, by expansion or level cap
	HasChildren bool    `json:"has_children,omitempty"`
	Pinned      bool    `json:"pinned,omitempty"`
	Link        string  `json:"link,omitempty"`
}

// Center returns the center of the node's circle.
func (n SnapshotNode) Center() (x, y float64) {
	return n.X + n.Size/2, n.Y + n.Size/2
}

// SnapshotLink is a drawn parent-child edge.
type SnapshotLink struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (SnapshotNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return SnapshotNode{}, false
}

// Bounds returns the bounding box of all node circles. The second result is
// false for an empty snapshot.
func (s *Snapshot) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(s.Nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range s.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X+n.Size)
		maxY = math.Max(maxY, n.Y+n.Size)
	}
	return minX, minY, maxX, maxY, true
}

// Validate checks that ids are unique and every link joins two listed
// nodes.
func (s *Snapshot) Validate() error {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "snapshot node without id")
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate snapshot node %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, l := range s.Links {
		if !ids[l.Source] || !ids[l.Target] {
			return errors.New(errors.ErrCodeInvalidFormat, "link %s->%s references a missing node", l.Source, l.Target)
		}
	}
	return nil
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot serializes a Snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes and validates a Snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal snapshot")
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteSnapshotFile writes a Snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSnapshotFile reads a Snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalSnapshot(data)
}
