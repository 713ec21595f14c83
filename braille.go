package monogif

import (
	"image"
	"io"
)

// Braille is one 2x4 block of a binary frame, indexed [x][y], holding 1 for
// a raised dot and 0 for a blank.
type Braille [2][4]int

// Rune returns the character of the U+2800 braille block for b. Unicode
// numbers the dots column by column for the top three rows and adds the
// bottom row last:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Dot n sets bit n-1 of the offset from U+2800.
func (b Braille) Rune() rune {
	bits := [8]int{b[0][0], b[0][1], b[0][2], b[1][0], b[1][1], b[1][2], b[0][3], b[1][3]}
	var v int
	for i, dot := range bits {
		v |= dot << uint(i)
	}
	return '\u2800' + rune(v)
}

func (b Braille) String() string {
	return string(b.Rune())
}

// BrailleFlusher prints binary frames as braille text, one symbol per 2x4
// pixel block. Black pixels become raised dots.
type BrailleFlusher struct{}

func (BrailleFlusher) Flush(w io.Writer, img *image.Paletted) error {
	// Looping over Y first and X second follows the row-major pixel layout.
	bounds := img.Bounds()
	for py := bounds.Min.Y; py < bounds.Max.Y; py += 4 {
		line := make([]byte, 0, bounds.Dx()/2*3+4)
		for px := bounds.Min.X; px < bounds.Max.X; px += 2 {
			var b Braille
			// Draw left-right, top-bottom.
			for y := 0; y < 4; y++ {
				for x := 0; x < 2; x++ {
					// Blocks hanging off the right or bottom edge stay blank.
					if px+x >= bounds.Max.X || py+y >= bounds.Max.Y {
						continue
					}
					// Always bet on black!
					if img.ColorIndexAt(px+x, py+y) == 0 {
						b[x][y] = 1
					}
				}
			}
			line = append(line, b.String()...)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
