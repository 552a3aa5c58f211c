package raster

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock draws the upper pixel in the foreground colour and the lower
// one in the background colour.
const halfBlock = "▀"

// Hex returns the display colour of a shaded value, clamped to [0, 1].
func Hex(c mgl32.Vec3) string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}

// Lines returns the canvas as terminal lines, one per pixel row pair.
// Runs of identical cells share one style.
func (c *Canvas) Lines() []string {
	rows := make([]string, 0, c.height/2)
	var b strings.Builder
	for y := 0; y+1 < c.height; y += 2 {
		b.Reset()
		top := c.color[y*c.width : (y+1)*c.width]
		bottom := c.color[(y+1)*c.width : (y+2)*c.width]

		runStart := 0
		fg, bg := Hex(top[0]), Hex(bottom[0])
		for x := 1; x <= c.width; x++ {
			if x < c.width {
				nfg, nbg := Hex(top[x]), Hex(bottom[x])
				if nfg == fg && nbg == bg {
					continue
				}
				writeRun(&b, fg, bg, x-runStart)
				runStart, fg, bg = x, nfg, nbg
				continue
			}
			writeRun(&b, fg, bg, x-runStart)
		}
		rows = append(rows, b.String())
	}
	return rows
}

func writeRun(b *strings.Builder, fg, bg string, n int) {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg))
	b.WriteString(style.Render(strings.Repeat(halfBlock, n)))
}

// String renders the canvas for the terminal.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}
