package raster

import (
	"image/color"
	"math"
)

var (
	boneColor  = color.NRGBA{255, 210, 60, 255}
	jointColor = color.NRGBA{255, 80, 40, 255}
)

// DrawLine draws a line of the given pixel width on top of everything.
func DrawLine(fb *FrameBuffer, x0, y0, x1, y1 float64, width int, c color.NRGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	r := width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(x0 + (x1-x0)*t))
		y := int(math.Round(y0 + (y1-y0)*t))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				fb.set(x+dx, y+dy, c)
			}
		}
	}
}

// DrawPoint draws a filled square marker centred on (x, y).
func DrawPoint(fb *FrameBuffer, x, y float64, radius int, c color.NRGBA) {
	cx, cy := int(math.Round(x)), int(math.Round(y))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			fb.set(cx+dx, cy+dy, c)
		}
	}
}
