package hierarchy

import "strings"

// Node is one record of the workspace hierarchy.
//
// Nodes are immutable once indexed. The optional fields are kept verbatim so
// that [Node.EffectiveTitle] and [Node.EffectiveLink] can resolve them in one
// deterministic order.
type Node struct {
	ID       string // Unique identifier (Notion ids may carry a "db::" prefix)
	Title    string // Display label; may be empty
	ParentID string // Parent id; empty marks a root
	Kind     string // Optional category used by filters ("page", "db", "folder", ...)

	URL  string // Explicit permalink
	Link string // Alternate link field (Drive exports)
	Href string // Alternate link field (legacy exports)
}

// IsRoot reports whether the node declares no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// EffectiveTitle returns the trimmed title, or the id when the title is blank.
func (n Node) EffectiveTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return n.ID
}

// EffectiveLink returns the first non-empty of URL, Link and Href, falling
// back to the Notion permalink built from the title and id. It returns ""
// when no link can be produced; callers treat that as "nothing to open".
func (n Node) EffectiveLink() string {
	for _, s := range []string{n.URL, n.Link, n.Href} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return NotionURL(n.Title, n.ID)
}
