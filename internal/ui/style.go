package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Title gradient stops: blue -> purple -> magenta -> pink.
var gradientStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// gradientColor returns the hex colour at t in [0, 1] along the stops.
func gradientColor(t float64) string {
	if t <= 0 {
		return gradientStops[0].Hex()
	}
	if t >= 1 {
		return gradientStops[len(gradientStops)-1].Hex()
	}
	seg := t * float64(len(gradientStops)-1)
	i := int(seg)
	return gradientStops[i].BlendLab(gradientStops[i+1], seg-float64(i)).Clamped().Hex()
}

// gradientText renders text with a horizontal colour gradient.
func gradientText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(t))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
