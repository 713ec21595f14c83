package monogif_test

import (
	"bytes"

	"github.com/kevin-cantwell/monogif"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Braille", func() {
	It("maps dots to code points", func() {
		Expect(monogif.Braille{}.String()).To(Equal("⠀"))
		Expect(monogif.Braille{{1, 1, 1, 1}, {1, 1, 1, 1}}.String()).To(Equal("⣿"))
		Expect(monogif.Braille{{1, 0, 0, 0}, {0, 0, 0, 0}}.String()).To(Equal("⠁"))
		Expect(monogif.Braille{{0, 0, 0, 0}, {0, 0, 0, 1}}.String()).To(Equal("⢀"))
	})
})

var _ = Describe("BrailleFlusher", func() {
	It("raises a dot for every black pixel", func() {
		img := monoImage(
			[]uint8{0, 0, 1},
			[]uint8{0, 0, 1},
			[]uint8{0, 0, 1},
			[]uint8{0, 0, 1},
			[]uint8{1, 0, 1},
		)
		var buf bytes.Buffer
		Expect(monogif.BrailleFlusher{}.Flush(&buf, img)).To(Succeed())
		Expect(buf.String()).To(Equal("⣿⠀\n⠈⠀\n"))
	})
})
