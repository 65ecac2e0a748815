package cli

import (
	"strings"
	"testing"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name                  string
		nodes, visible, ticks int
		cached                bool
		want                  []string
		absent                []string
	}{
		{"fresh settle", 42, 17, 180, false, []string{"42 nodes", "17 visible", "180 ticks", "fresh"}, []string{"cached"}},
		{"cached render", 0, 17, 0, true, []string{"17 visible", "cached"}, []string{"nodes", "ticks"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.nodes, tt.visible, tt.ticks, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("statsLine() = %q, should not contain %q", got, a)
				}
			}
		})
	}
}
