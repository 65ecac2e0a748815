package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

// Dataset formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Record - Serialized Workspace Node
// =============================================================================

// Record is one node as exported by Notion or Drive tooling. Aliased
// fields are resolved by [Record.Node].
type Record struct {
	ID string `json:"id" yaml:"id"`

	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`

	ParentID      string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	ParentIDCamel string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Parent        string `json:"parent,omitempty" yaml:"parent,omitempty"`

	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Node converts r to the canonical node shape.
func (r Record) Node() hierarchy.Node {
	return hierarchy.Node{
		ID:       strings.TrimSpace(r.ID),
		Title:    first(r.Title, r.Name),
		ParentID: strings.TrimSpace(first(r.ParentID, r.ParentIDCamel, r.Parent)),
		Kind:     first(r.Kind, r.Type, r.Category),
		URL:      r.URL,
		Link:     r.Link,
		Href:     r.Href,
	}
}

// FromNode converts a canonical node back to its wire shape.
func FromNode(n hierarchy.Node) Record {
	return Record{
		ID:       n.ID,
		Title:    n.Title,
		ParentID: n.ParentID,
		Kind:     n.Kind,
		URL:      n.URL,
		Link:     n.Link,
		Href:     n.Href,
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// Dataset - Node Export
// =============================================================================

// Dataset is a flat node export.
type Dataset struct {
	Nodes []Record `json:"nodes" yaml:"nodes"`
}

type datasetAlias Dataset

// UnmarshalJSON accepts both {"nodes": [...]} and a bare array.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '[' {
		return json.Unmarshal(t, &d.Nodes)
	}
	return json.Unmarshal(data, (*datasetAlias)(d))
}

// UnmarshalYAML accepts both a mapping with a nodes key and a bare sequence.
func (d *Dataset) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&d.Nodes)
	}
	return value.Decode((*datasetAlias)(d))
}

// HierarchyNodes converts every record to a canonical node, in source order.
func (d Dataset) HierarchyNodes() []hierarchy.Node {
	out := make([]hierarchy.Node, len(d.Nodes))
	for i, r := range d.Nodes {
		out[i] = r.Node()
	}
	return out
}

// Merge concatenates datasets. When an id repeats, the first record wins.
func Merge(sets ...Dataset) Dataset {
	var out Dataset
	seen := make(map[string]bool)
	for _, s := range sets {
		for _, r := range s.Nodes {
			id := strings.TrimSpace(r.ID)
			if id != "" && seen[id] {
				continue
			}
			seen[id] = true
			out.Nodes = append(out.Nodes, r)
		}
	}
	return out
}

// FormatFromPath infers the dataset format from a file extension,
// defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a dataset in the given format.
func Decode(r io.Reader, format string) (Dataset, error) {
	var d Dataset
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json dataset")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil && err != io.EOF {
			return Dataset{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml dataset")
		}
	default:
		return Dataset{}, errors.New(errors.ErrCodeUnsupported, "unsupported dataset format %q", format)
	}
	return d, nil
}

// Encode writes d as indented JSON or YAML.
func Encode(w io.Writer, d Dataset, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported dataset format %q", format)
	}
}
