package monogif

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// BWThreshold splits gray levels into black (below) and white (at or above).
const BWThreshold = 128

// MonoPalette is the palette of every binary frame. Index 0 is black and
// index 1 is white, so a frame's Pix holds the 0/1 pixel values directly.
var MonoPalette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

// ErrDitherMethod is returned for dither codes or names outside the known set.
var ErrDitherMethod = errors.New("unknown dither method")

// Method selects a binarization strategy. The numeric values are the codes
// accepted on the command line.
type Method int

const (
	FloydSteinberg Method = iota
	Bayer
	Atkinson
	Stucki
	Burkes
	SierraLite
)

var methodNames = [...]string{
	FloydSteinberg: "floyd-steinberg",
	Bayer:          "bayer",
	Atkinson:       "atkinson",
	Stucki:         "stucki",
	Burkes:         "burkes",
	SierraLite:     "sierra-lite",
}

// Methods lists every strategy in code order.
func Methods() []Method {
	return []Method{FloydSteinberg, Bayer, Atkinson, Stucki, Burkes, SierraLite}
}

func (m Method) Valid() bool {
	return m >= FloydSteinberg && m <= SierraLite
}

func (m Method) String() string {
	if !m.Valid() {
		return "method(" + strconv.Itoa(int(m)) + ")"
	}
	return methodNames[m]
}

// ParseMethod accepts either a numeric code (0..5) or a method name such as
// "atkinson" or "sierra-lite". Names are case insensitive.
func ParseMethod(s string) (Method, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := Method(n)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: %d (want 0..%d)", ErrDitherMethod, n, SierraLite)
		}
		return m, nil
	}
	for _, m := range Methods() {
		if strings.EqualFold(s, methodNames[m]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrDitherMethod, s)
}

// Ditherer returns the strategy implementing m, or nil if m is not valid.
func (m Method) Ditherer() Ditherer {
	switch m {
	case FloydSteinberg:
		return floydSteinberg
	case Bayer:
		return bayer{}
	case Atkinson:
		return atkinson{}
	case Stucki:
		return stucki
	case Burkes:
		return burkes
	case SierraLite:
		return sierraLite
	}
	return nil
}

// A Ditherer binarizes gray in place and writes the 0/1 result into mono.
// Both images must be anchored at the origin and have the same size.
type Ditherer interface {
	Dither(gray *image.Gray, mono *image.Paletted)
}

// Binarize sets each pixel of mono to 1 where gray is at least BWThreshold
// and to 0 otherwise.
func Binarize(gray *image.Gray, mono *image.Paletted) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		dst := mono.Pix[y*mono.Stride : y*mono.Stride+w]
		for x, v := range src {
			if v >= BWThreshold {
				dst[x] = 1
			} else {
				dst[x] = 0
			}
		}
	}
}

// tap is one forward neighbour of an error diffusion kernel.
type tap struct {
	dx, dy int
	weight int
}

// diffusion spreads the quantization error of each pixel over its taps as
// round(delta*weight/divisor). Taps falling outside the image are dropped.
type diffusion struct {
	taps    []tap
	divisor int
}

var (
	floydSteinberg = diffusion{
		divisor: 160,
		taps: []tap{
			{1, 0, 70},
			{-1, 1, 30}, {0, 1, 50}, {1, 1, 10},
		},
	}
	stucki = diffusion{
		divisor: 420,
		taps: []tap{
			{1, 0, 80}, {2, 0, 40},
			{-2, 1, 20}, {-1, 1, 40}, {0, 1, 80}, {1, 1, 40}, {2, 1, 20},
			{-2, 2, 10}, {-1, 2, 20}, {0, 2, 40}, {1, 2, 20}, {2, 2, 10},
		},
	}
	burkes = diffusion{
		divisor: 320,
		taps: []tap{
			{1, 0, 80}, {2, 0, 40},
			{-2, 1, 20}, {-1, 1, 40}, {0, 1, 80}, {1, 1, 40}, {2, 1, 20},
		},
	}
	sierraLite = diffusion{
		divisor: 40,
		taps: []tap{
			{1, 0, 20},
			{-1, 1, 10}, {0, 1, 10},
		},
	}
)

func (d diffusion) Dither(gray *image.Gray, mono *image.Paletted) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*gray.Stride + x
			old, nu := quantize(gray.Pix[i])
			gray.Pix[i] = uint8(nu)
			delta := old - nu
			for _, t := range d.taps {
				nx, ny := x+t.dx, y+t.dy
				if !inside(nx, ny, w, h) {
					continue
				}
				j := ny*gray.Stride + nx
				gray.Pix[j] = clip(int(gray.Pix[j]) + (delta*t.weight+d.divisor/2)/d.divisor)
			}
		}
	}
	Binarize(gray, mono)
}

// atkinson diffuses 1/8 of the error, truncated once, to six neighbours. The
// scan skips the first column, the last two columns and the last two rows;
// those pixels keep their gray value until Binarize.
type atkinson struct{}

var atkinsonTaps = []tap{
	{1, 0, 1}, {2, 0, 1},
	{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
	{0, 2, 1},
}

func (atkinson) Dither(gray *image.Gray, mono *image.Paletted) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h-2; y++ {
		for x := 1; x < w-2; x++ {
			i := y*gray.Stride + x
			old, nu := quantize(gray.Pix[i])
			gray.Pix[i] = uint8(nu)
			delta := (old - nu) / 8
			for _, t := range atkinsonTaps {
				nx, ny := x+t.dx, y+t.dy
				if !inside(nx, ny, w, h) {
					continue
				}
				j := ny*gray.Stride + nx
				gray.Pix[j] = clip(int(gray.Pix[j]) + delta*t.weight)
			}
		}
	}
	Binarize(gray, mono)
}

// bayer4 is the 4x4 ordered dither matrix scaled to 0..255.
var bayer4 = [4][4]uint8{
	{15, 135, 45, 165},
	{195, 75, 225, 105},
	{60, 180, 30, 150},
	{240, 120, 210, 90},
}

type bayer struct{}

func (bayer) Dither(gray *image.Gray, mono *image.Paletted) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			if v > bayer4[y%4][x%4] {
				row[x] = 255
			} else {
				row[x] = 0
			}
		}
	}
	Binarize(gray, mono)
}

func quantize(v uint8) (old, nu int) {
	old = int(v)
	if old >= BWThreshold {
		return old, 255
	}
	return old, 0
}

func inside(x, y, w, h int) bool {
	return x >= 0 && x < w && y >= 0 && y < h
}
