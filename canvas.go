package monogif

import (
	"image"
	"image/color"
)

// NoTransparency marks a frame without a transparent palette index.
const NoTransparency = -1

// Frame is one decoded image of a sequence: a region of the screen filled with
// palette indices.
type Frame struct {
	// Bounds is the region of the screen covered by Pix. It may extend past
	// the screen; pixels outside it are discarded.
	Bounds image.Rectangle
	// Palette resolves Pix. A nil palette falls back to the sequence palette.
	Palette color.Palette
	// Pix holds Bounds.Dy() rows of palette indices, Stride bytes apart.
	Pix    []uint8
	Stride int
	// Transparent is the palette index that leaves the screen untouched, or
	// NoTransparency.
	Transparent int
}

// Composite draws f onto canvas, which is anchored at the origin and spans the
// whole screen. Transparent pixels, fully transparent palette colors and
// indices missing from the palette keep whatever the canvas held before;
// everything else is replaced by its tone-mapped gray level.
func Composite(canvas *image.Gray, f Frame, def color.Palette, tone Tone) {
	p := f.Palette
	if p == nil {
		p = def
	}

	// Resolve the palette once; -1 leaves the canvas alone.
	var lut [256]int
	for i := range lut {
		if i >= len(p) || i == f.Transparent {
			lut[i] = -1
			continue
		}
		if _, _, _, a := p[i].RGBA(); a == 0 {
			lut[i] = -1
			continue
		}
		lut[i] = int(tone.Gray(p[i]))
	}

	stride := f.Stride
	if stride == 0 {
		stride = f.Bounds.Dx()
	}
	screen := canvas.Rect
	for y := 0; y < f.Bounds.Dy(); y++ {
		dy := f.Bounds.Min.Y + y
		if dy < screen.Min.Y || dy >= screen.Max.Y {
			continue
		}
		for x := 0; x < f.Bounds.Dx(); x++ {
			dx := f.Bounds.Min.X + x
			if dx < screen.Min.X || dx >= screen.Max.X {
				continue
			}
			si := y*stride + x
			if si >= len(f.Pix) {
				return
			}
			g := lut[f.Pix[si]]
			if g < 0 {
				continue
			}
			canvas.Pix[canvas.PixOffset(dx, dy)] = uint8(g)
		}
	}
}
