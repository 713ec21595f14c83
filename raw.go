package monogif

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"

	"github.com/klauspost/compress/zstd"
)

// RawMagic opens every raw stream.
const RawMagic = "MONO"

var errRawClosed = errors.New("raw: encoder closed")

/*
RawEncoder writes binary frames as a packed 1 bit per pixel stream that small
display controllers can blit directly:

	"MONO" | width uint16 | height uint16
	then per frame: delay uint16 | height rows of ceil(width/8) bytes

Integers are little endian. Rows are MSB first; a set bit is white.
*/
type RawEncoder struct {
	bw   *bufio.Writer
	zw   *zstd.Encoder
	size image.Point
	row  []byte
	done bool
}

// NewRawEncoder writes to w, zstd-compressing the stream if compress is set.
func NewRawEncoder(w io.Writer, compress bool) (*RawEncoder, error) {
	enc := &RawEncoder{}
	if compress {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		enc.zw = zw
		w = zw
	}
	enc.bw = bufio.NewWriter(w)
	return enc, nil
}

// WriteFrame appends img. The first frame fixes the stream's dimensions.
func (enc *RawEncoder) WriteFrame(img *image.Paletted, delay int) error {
	if enc.done {
		return errRawClosed
	}
	b := img.Bounds()
	if enc.row == nil {
		if b.Dx() > 0xffff || b.Dy() > 0xffff {
			return fmt.Errorf("raw: frame %v too large", b)
		}
		enc.size = b.Size()
		enc.row = make([]byte, (b.Dx()+7)/8)
		if _, err := enc.bw.WriteString(RawMagic); err != nil {
			return err
		}
		if err := binary.Write(enc.bw, binary.LittleEndian, [2]uint16{uint16(b.Dx()), uint16(b.Dy())}); err != nil {
			return err
		}
	}
	if b.Size() != enc.size {
		return fmt.Errorf("raw: frame size %v differs from %v", b.Size(), enc.size)
	}
	if delay < 0 || delay > 0xffff {
		delay = 0
	}
	if err := binary.Write(enc.bw, binary.LittleEndian, uint16(delay)); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		PackRow(enc.row, img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+b.Dx()])
		if _, err := enc.bw.Write(enc.row); err != nil {
			return err
		}
	}
	return nil
}

// EncodeAll writes every frame of giff with its delay and closes the stream.
func (enc *RawEncoder) EncodeAll(giff *gif.GIF) error {
	for i, m := range giff.Image {
		var delay int
		if i < len(giff.Delay) {
			delay = giff.Delay[i]
		}
		if err := enc.WriteFrame(m, delay); err != nil {
			enc.abort()
			return err
		}
	}
	return enc.Close()
}

// Close flushes buffered data and ends the zstd frame, if any. It does not
// close the underlying writer. Closing twice is a no-op.
func (enc *RawEncoder) Close() error {
	if enc.done {
		return nil
	}
	enc.done = true
	if err := enc.bw.Flush(); err != nil {
		enc.abort()
		return err
	}
	if enc.zw != nil {
		return enc.zw.Close()
	}
	return nil
}

// abort drops buffered data and shuts the zstd encoder down after a failed
// write.
func (enc *RawEncoder) abort() {
	enc.done = true
	if enc.zw != nil {
		enc.zw.Close()
		enc.zw = nil
	}
}

// PackRow packs 0/1 pixels into dst, eight per byte, most significant bit
// first. Trailing bits of the last byte are zero.
func PackRow(dst, pix []uint8) {
	for i := range dst {
		dst[i] = 0
	}
	for x, v := range pix {
		if v != 0 {
			dst[x>>3] |= 0x80 >> uint(x&7)
		}
	}
}
