package hierarchy

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const notionBase = "https://www.notion.so/"

// NotionURL builds the canonical Notion permalink for a page.
//
// The id loses its "db::" namespace prefix and its hyphens. The title is
// lowercased, NFKD-normalized and reduced to runs of letters and digits
// joined by single hyphens. An empty slug yields a bare id URL; an id that is
// empty after cleaning yields "".
func NotionURL(title, id string) string {
	clean := cleanID(id)
	if clean == "" {
		return ""
	}
	slug := Slugify(title)
	if slug == "" {
		return notionBase + clean
	}
	return notionBase + slug + "-" + clean
}

func cleanID(id string) string {
	id = strings.TrimPrefix(strings.TrimSpace(id), "db::")
	return strings.ReplaceAll(id, "-", "")
}

// Slugify lowercases and NFKD-normalizes s, then collapses every run of
// characters that are neither letters nor numbers into a single hyphen.
// Leading and trailing hyphens are trimmed.
func Slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
