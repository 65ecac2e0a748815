package svg

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// DefaultPalette is used when no palette or an unknown one is requested.
const DefaultPalette = "minimal"

const (
	darkText  = "#111827"
	lightText = "#ffffff"
	linkColor = "#cbd5e1"
)

// Palette is an ordered list of fills, lightest first.
type Palette struct {
	Name   string
	Colors []string
}

var palettes = map[string]Palette{
	"minimal": {"minimal", []string{"#e5e7eb"}},
	"forest":  {"forest", []string{"#e8f5e9", "#c8e6c9", "#a5d6a7", "#81c784", "#43a047", "#2e7d32"}},
	"ocean":   {"ocean", []string{"#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0369a1"}},
	"sunset":  {"sunset", []string{"#fff1f2", "#ffe4e6", "#fecdd3", "#fb7185", "#f43f5e", "#be123c"}},
	"candy":   {"candy", []string{"#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#be185d"}},
	"slate":   {"slate", []string{"#f8fafc", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#334155"}},
	"aurora":  {"aurora", []string{"#ecfeff", "#cffafe", "#a5f3fc", "#67e8f9", "#22d3ee", "#0891b2"}},
	"orchid":  {"orchid", []string{"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#7c3aed"}},
}

// LookupPalette returns the named palette.
func LookupPalette(name string) (Palette, bool) {
	p, ok := palettes[strings.ToLower(name)]
	return p, ok
}

// PaletteNames lists the built-in palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Fill returns the fill for a node at depth. The root takes the darkest
// color and each level steps one shade lighter.
func (p Palette) Fill(depth int) string {
	n := len(p.Colors)
	if n == 0 {
		return palettes[DefaultPalette].Colors[0]
	}
	i := n - 1 - max(0, depth)
	return p.Colors[max(0, i)]
}

// Stroke returns the outline color: the darkest shade, or a neutral gray
// for single-color palettes.
func (p Palette) Stroke() string {
	if len(p.Colors) < 2 {
		return "#9ca3af"
	}
	return p.Colors[len(p.Colors)-1]
}

// ReadableText picks dark or light text for a hex fill by relative
// luminance.
func ReadableText(fill string) string {
	if Luminance(fill) > 0.6 {
		return darkText
	}
	return lightText
}

// Luminance returns the WCAG relative luminance of a "#rrggbb" color, or 1
// for anything that does not parse.
func Luminance(hex string) float64 {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 1
	}
	var c [3]float64
	for i := range c {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return 1
		}
		f := float64(v) / 255
		if f <= 0.03928 {
			c[i] = f / 12.92
		} else {
			c[i] = math.Pow((f+0.055)/1.055, 2.4)
		}
	}
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}
