package svg

import (
	"math"
	"strings"
)

const (
	maxLabelLines = 3
	fontMin       = 11.0
	fontMax       = 20.0
	fontPerPixel  = 0.18
	avgCharWidth  = 0.54
	lineSpacing   = 1.12
	ellipsis      = "…"
)

// Label is a title wrapped to fit inside a circle.
type Label struct {
	Lines    []string
	FontSize float64
}

// LineHeight is the distance between baselines.
func (l Label) LineHeight() float64 { return l.FontSize * lineSpacing }

// FitLabel wraps title into at most three lines that fit a circle of the
// given diameter, using an average character width of 0.54 em. The font is
// 18% of the diameter, rounded and kept within 11 to 20. Text that
// does not fit ends in an ellipsis. A single word too long for one line
// shrinks the font once (not below 11) and is then cut.
func FitLabel(title string, diameter float64) Label {
	words := strings.Fields(title)
	size := clamp(math.Round(diameter*fontPerPixel), fontMin, fontMax)
	if len(words) == 0 {
		return Label{Lines: []string{""}, FontSize: min(size, 18)}
	}

	perLine := charsPerLine(diameter, size)
	if len(words) == 1 && runeLen(words[0]) > perLine+2 {
		size = max(fontMin, size*0.92)
		perLine = charsPerLine(diameter, size)
	}

	var lines []string
	cur := ""
	truncated := false
	for _, w := range words {
		if runeLen(w) > perLine {
			w = cut(w, perLine)
		}
		if cur == "" {
			cur = w
			continue
		}
		if runeLen(cur)+1+runeLen(w) <= perLine {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
		if len(lines) == maxLabelLines {
			truncated = true
			break
		}
	}
	if !truncated {
		lines = append(lines, cur)
	} else if last := lines[len(lines)-1]; !strings.HasSuffix(last, ellipsis) {
		lines[len(lines)-1] = cut(last+ellipsis, perLine)
	}
	return Label{Lines: lines, FontSize: size}
}

// charsPerLine is the usable width of the circle in average characters,
// after a padding of 11% of the diameter on each side.
func charsPerLine(diameter, fontSize float64) int {
	pad := max(6, diameter*0.11)
	usable := max(10, diameter-2*pad)
	return max(6, int(math.Floor(usable/(avgCharWidth*fontSize))))
}

// cut shortens s to n runes, the last being an ellipsis.
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:max(0, n-1)]), " ") + ellipsis
}

func runeLen(s string) int { return len([]rune(s)) }

func clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }
