package monogif_test

import (
	"errors"
	"image"

	"github.com/kevin-cantwell/monogif"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func dither(m monogif.Method, rows ...[]uint8) (gray [][]uint8, mono [][]uint8) {
	img := grayImage(rows...)
	out := monoFor(img)
	m.Ditherer().Dither(img, out)
	return rowsOf(img), monoRows(out)
}

// referenceKernel is an error diffusion kernel in the usual printed layout:
// the current pixel sits in the top row at column center and weights are
// divided by divisor.
type referenceKernel struct {
	rows    [][]int
	center  int
	divisor int
}

var referenceKernels = map[monogif.Method]referenceKernel{
	monogif.FloydSteinberg: {
		rows: [][]int{
			{0, 0, 70},
			{30, 50, 10},
		},
		center:  1,
		divisor: 160,
	},
	monogif.Stucki: {
		rows: [][]int{
			{0, 0, 0, 80, 40},
			{20, 40, 80, 40, 20},
			{10, 20, 40, 20, 10},
		},
		center:  2,
		divisor: 420,
	},
	monogif.Burkes: {
		rows: [][]int{
			{0, 0, 0, 80, 40},
			{20, 40, 80, 40, 20},
		},
		center:  2,
		divisor: 320,
	},
	monogif.SierraLite: {
		rows: [][]int{
			{0, 0, 20},
			{10, 10, 0},
		},
		center:  1,
		divisor: 40,
	},
}

// referenceDiffuse dithers a copy of img with k one pixel at a time, on plain
// ints, and returns the resulting levels.
func referenceDiffuse(k referenceKernel, img *image.Gray) [][]uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	buf := make([][]int, h)
	for y := range buf {
		buf[y] = make([]int, w)
		for x := range buf[y] {
			buf[y][x] = int(img.Pix[y*img.Stride+x])
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old, nu := buf[y][x], 0
			if old >= 128 {
				nu = 255
			}
			buf[y][x] = nu
			for ky, row := range k.rows {
				for kx, weight := range row {
					tx, ty := x+kx-k.center, y+ky
					if weight == 0 || tx < 0 || tx >= w || ty >= h {
						continue
					}
					v := buf[ty][tx] + ((old-nu)*weight+k.divisor/2)/k.divisor
					if v < 0 {
						v = 0
					} else if v > 255 {
						v = 255
					}
					buf[ty][tx] = v
				}
			}
		}
	}
	out := make([][]uint8, h)
	for y := range buf {
		out[y] = make([]uint8, w)
		for x, v := range buf[y] {
			out[y][x] = uint8(v)
		}
	}
	return out
}

// ramp is a horizontal gradient that keeps every tap busy with mid-size errors.
func ramp(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8(40 + x*170/w + y%3)
		}
	}
	return img
}

var _ = Describe("Method", func() {
	table.DescribeTable("parses codes and names",
		func(in string, expected monogif.Method) {
			m, err := monogif.ParseMethod(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(expected))
		},
		table.Entry("code 0", "0", monogif.FloydSteinberg),
		table.Entry("code 1", "1", monogif.Bayer),
		table.Entry("code 5", "5", monogif.SierraLite),
		table.Entry("name", "atkinson", monogif.Atkinson),
		table.Entry("mixed case", "Stucki", monogif.Stucki),
		table.Entry("hyphenated", "sierra-lite", monogif.SierraLite),
		table.Entry("padded", " burkes ", monogif.Burkes),
	)

	It("rejects unknown methods", func() {
		for _, in := range []string{"6", "-1", "jarvis", ""} {
			_, err := monogif.ParseMethod(in)
			Expect(errors.Is(err, monogif.ErrDitherMethod)).To(BeTrue(), in)
		}
	})

	It("names every method and has a ditherer for each", func() {
		for _, m := range monogif.Methods() {
			Expect(m.Valid()).To(BeTrue())
			Expect(m.Ditherer()).NotTo(BeNil())
			parsed, err := monogif.ParseMethod(m.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(m))
		}
		Expect(monogif.Method(6).Ditherer()).To(BeNil())
		Expect(monogif.Method(6).String()).To(Equal("method(6)"))
	})
})

var _ = Describe("Ditherers", func() {
	table.DescribeTable("produce one 0/1 value per pixel",
		func(m monogif.Method) {
			gray := noiseGray(23, 17, 7)
			mono := monoFor(gray)
			m.Ditherer().Dither(gray, mono)
			Expect(mono.Pix).To(HaveLen(23 * 17))
			for _, v := range mono.Pix {
				Expect(v).To(BeNumerically("<=", 1))
			}
		},
		table.Entry("floyd-steinberg", monogif.FloydSteinberg),
		table.Entry("bayer", monogif.Bayer),
		table.Entry("atkinson", monogif.Atkinson),
		table.Entry("stucki", monogif.Stucki),
		table.Entry("burkes", monogif.Burkes),
		table.Entry("sierra-lite", monogif.SierraLite),
	)

	table.DescribeTable("are deterministic",
		func(m monogif.Method) {
			a, b := noiseGray(31, 9, 42), noiseGray(31, 9, 42)
			ma, mb := monoFor(a), monoFor(b)
			m.Ditherer().Dither(a, ma)
			m.Ditherer().Dither(b, mb)
			Expect(ma.Pix).To(Equal(mb.Pix))
			Expect(a.Pix).To(Equal(b.Pix))
		},
		table.Entry("floyd-steinberg", monogif.FloydSteinberg),
		table.Entry("bayer", monogif.Bayer),
		table.Entry("atkinson", monogif.Atkinson),
		table.Entry("stucki", monogif.Stucki),
		table.Entry("burkes", monogif.Burkes),
		table.Entry("sierra-lite", monogif.SierraLite),
	)

	table.DescribeTable("keep solid black and white",
		func(m monogif.Method) {
			_, mono := dither(m, []uint8{0, 0, 0, 0}, []uint8{0, 0, 0, 0}, []uint8{0, 0, 0, 0})
			Expect(mono).To(Equal([][]uint8{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}))
			_, mono = dither(m, []uint8{255, 255, 255, 255}, []uint8{255, 255, 255, 255}, []uint8{255, 255, 255, 255})
			Expect(mono).To(Equal([][]uint8{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}))
		},
		table.Entry("floyd-steinberg", monogif.FloydSteinberg),
		table.Entry("bayer", monogif.Bayer),
		table.Entry("atkinson", monogif.Atkinson),
		table.Entry("stucki", monogif.Stucki),
		table.Entry("burkes", monogif.Burkes),
		table.Entry("sierra-lite", monogif.SierraLite),
	)
})

var _ = Describe("Error diffusion kernels", func() {
	table.DescribeTable("match a transcription of their weight tables",
		func(m monogif.Method) {
			k := referenceKernels[m]
			inputs := []*image.Gray{
				ramp(29, 11),
				noiseGray(37, 13, 1),
				noiseGray(37, 13, 7),
				noiseGray(16, 16, 42),
			}
			for i, img := range inputs {
				expected := referenceDiffuse(k, img)
				mono := monoFor(img)
				m.Ditherer().Dither(img, mono)
				Expect(rowsOf(img)).To(Equal(expected), "input %d", i)
			}
		},
		table.Entry("floyd-steinberg", monogif.FloydSteinberg),
		table.Entry("stucki", monogif.Stucki),
		table.Entry("burkes", monogif.Burkes),
		table.Entry("sierra-lite", monogif.SierraLite),
	)
})

var _ = Describe("FloydSteinberg", func() {
	It("splits at 128", func() {
		gray, mono := dither(monogif.FloydSteinberg, []uint8{127})
		Expect(gray).To(Equal([][]uint8{{0}}))
		Expect(mono).To(Equal([][]uint8{{0}}))

		gray, mono = dither(monogif.FloydSteinberg, []uint8{128})
		Expect(gray).To(Equal([][]uint8{{255}}))
		Expect(mono).To(Equal([][]uint8{{1}}))
	})

	It("pushes rounded error to the right", func() {
		// (100*70 + 80) / 160 = 44
		gray, mono := dither(monogif.FloydSteinberg, []uint8{100, 100})
		Expect(gray).To(Equal([][]uint8{{0, 255}}))
		Expect(mono).To(Equal([][]uint8{{0, 1}}))

		gray, _ = dither(monogif.FloydSteinberg, []uint8{100, 20})
		Expect(gray).To(Equal([][]uint8{{0, 0}}))
	})

	It("pushes error down and diagonally", func() {
		// (0,1) gets +31 from (0,0) and -20 from (1,0), reaching 131. Its own
		// error of -124 then drags (1,1) from 122 down to 69.
		gray, mono := dither(monogif.FloydSteinberg,
			[]uint8{100, 100},
			[]uint8{120, 150},
		)
		Expect(gray).To(Equal([][]uint8{{0, 255}, {255, 0}}))
		Expect(mono).To(Equal([][]uint8{{0, 1}, {1, 0}}))
	})
})

var _ = Describe("SierraLite", func() {
	It("diffuses halves and quarters with rounding", func() {
		gray, mono := dither(monogif.SierraLite,
			[]uint8{100, 100},
			[]uint8{100, 100},
		)
		Expect(gray).To(Equal([][]uint8{{0, 255}, {0, 0}}))
		Expect(mono).To(Equal([][]uint8{{0, 1}, {0, 0}}))
	})
})

var _ = Describe("Stucki and Burkes", func() {
	It("reach two pixels to the right", func() {
		_, mono := dither(monogif.Burkes, []uint8{100, 100, 100})
		Expect(mono).To(Equal([][]uint8{{0, 0, 1}}))
		_, mono = dither(monogif.Stucki, []uint8{100, 100, 100})
		Expect(mono).To(Equal([][]uint8{{0, 0, 1}}))
	})

	It("differ in their divisor", func() {
		// Burkes hands (0,0)'s error of 120 to (1,0) as 30, Stucki as 23.
		gray, _ := dither(monogif.Burkes, []uint8{120, 98})
		Expect(gray).To(Equal([][]uint8{{0, 255}}))
		gray, _ = dither(monogif.Stucki, []uint8{120, 98})
		Expect(gray).To(Equal([][]uint8{{0, 0}}))
	})
})

var _ = Describe("Atkinson", func() {
	It("only scans the interior and binarizes the rest at 128", func() {
		gray, mono := dither(monogif.Atkinson,
			[]uint8{120, 120, 120, 120},
			[]uint8{120, 120, 120, 120},
			[]uint8{120, 120, 120, 120},
			[]uint8{120, 120, 120, 120},
		)
		Expect(gray).To(Equal([][]uint8{
			{120, 0, 135, 135},
			{135, 255, 120, 105},
			{105, 120, 105, 120},
			{120, 105, 120, 120},
		}))
		Expect(mono).To(Equal([][]uint8{
			{0, 0, 1, 1},
			{1, 1, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}))
	})

	It("leaves images without an interior untouched", func() {
		gray, mono := dither(monogif.Atkinson,
			[]uint8{200, 10, 130},
			[]uint8{127, 128, 0},
		)
		Expect(gray).To(Equal([][]uint8{{200, 10, 130}, {127, 128, 0}}))
		Expect(mono).To(Equal([][]uint8{{1, 0, 1}, {0, 1, 0}}))
	})
})

var _ = Describe("Bayer", func() {
	It("thresholds against the tiled 4x4 matrix", func() {
		rows := make([][]uint8, 4)
		for y := range rows {
			rows[y] = []uint8{100, 100, 100, 100}
		}
		gray, mono := dither(monogif.Bayer, rows...)
		Expect(mono).To(Equal([][]uint8{
			{1, 0, 1, 0},
			{0, 1, 0, 0},
			{1, 0, 1, 0},
			{0, 0, 0, 1},
		}))
		for _, row := range gray {
			for _, v := range row {
				Expect(v).To(SatisfyAny(BeEquivalentTo(0), BeEquivalentTo(255)))
			}
		}
	})

	It("needs strictly more than the threshold", func() {
		_, mono := dither(monogif.Bayer, []uint8{15, 136, 45, 165, 15})
		Expect(mono).To(Equal([][]uint8{{0, 1, 0, 0, 0}}))
	})

	It("only writes 0 and 255", func() {
		gray := noiseGray(13, 11, 3)
		monogif.Bayer.Ditherer().Dither(gray, monoFor(gray))
		for _, v := range gray.Pix {
			Expect(v == 0 || v == 255).To(BeTrue())
		}
	})
})
