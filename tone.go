package monogif

import (
	"image/color"
	"math"
)

// Grayscale approximates perceived luminance with the integer weights
// 0.299 R + 0.587 G + 0.114 B, truncating the result.
func Grayscale(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// AdjustContrast stretches (contrast > 0) or flattens (contrast < 0) gray
// around the midpoint 128. Contrast must be within -100..100.
func AdjustContrast(gray uint8, contrast int) uint8 {
	c := float64(contrast)
	factor := (259 * (c + 255)) / (255 * (259 - c))
	return clip(int(math.Round(factor*(float64(gray)-128) + 128)))
}

// Tone maps palette colors to grayscale.
type Tone struct {
	Contrast int
}

// Gray returns the tone-mapped luminance of c. Alpha is ignored; callers
// handle transparency through the frame's transparency index.
func (t Tone) Gray(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	g := Grayscale(n.R, n.G, n.B)
	if t.Contrast != 0 {
		g = AdjustContrast(g, t.Contrast)
	}
	return g
}

func clip(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
