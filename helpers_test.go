package monogif_test

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/kevin-cantwell/monogif"
)

// grayImage builds an origin-anchored gray image from rows of levels.
func grayImage(rows ...[]uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		copy(img.Pix[y*img.Stride:], row)
	}
	return img
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func noiseGray(w, h int, seed int64) *image.Gray {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	return img
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

func rowsOf(img *image.Gray) [][]uint8 {
	var rows [][]uint8
	for y := 0; y < img.Rect.Dy(); y++ {
		rows = append(rows, append([]uint8(nil), img.Pix[y*img.Stride:y*img.Stride+img.Rect.Dx()]...))
	}
	return rows
}

func monoRows(img *image.Paletted) [][]uint8 {
	var rows [][]uint8
	for y := 0; y < img.Rect.Dy(); y++ {
		rows = append(rows, append([]uint8(nil), img.Pix[y*img.Stride:y*img.Stride+img.Rect.Dx()]...))
	}
	return rows
}

func monoFor(img *image.Gray) *image.Paletted {
	return image.NewPaletted(img.Rect, monogif.MonoPalette)
}

// grayPalette maps index i to the gray level i.
func grayPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.RGBA{uint8(i), uint8(i), uint8(i), 0xff}
	}
	return p
}

// solidFrame covers r with palette index idx.
func solidFrame(r image.Rectangle, p color.Palette, idx uint8, transparent int) monogif.Frame {
	pix := make([]uint8, r.Dx()*r.Dy())
	for i := range pix {
		pix[i] = idx
	}
	return monogif.Frame{
		Bounds:      r,
		Palette:     p,
		Pix:         pix,
		Stride:      r.Dx(),
		Transparent: transparent,
	}
}
