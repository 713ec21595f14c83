package monogif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"log"
)

// ErrNoFrames is returned when a GIF holds no images.
var ErrNoFrames = errors.New("gif has no frames")

// FrameFromGIF describes a frame decoded by image/gif. The decoder replaces
// the transparent palette entry with a fully transparent color. A transparent
// index past the color table makes it pad the palette with transparent colors
// up to that index, so the last entry with zero alpha is the one the file named.
func FrameFromGIF(m *image.Paletted) Frame {
	f := Frame{
		Bounds:      m.Rect,
		Palette:     m.Palette,
		Pix:         m.Pix,
		Stride:      m.Stride,
		Transparent: NoTransparency,
	}
	for i := len(m.Palette) - 1; i >= 0; i-- {
		if _, _, _, a := m.Palette[i].RGBA(); a == 0 {
			f.Transparent = i
			break
		}
	}
	return f
}

// DecodeGIF reads every frame of a GIF like gif.DecodeAll, but also accepts
// frames that reach past the logical screen. image/gif refuses those, so the
// screen descriptor is widened while decoding and restored afterwards; the
// off-screen parts are clipped when composited.
func DecodeGIF(r io.Reader) (*gif.GIF, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 10 || !bytes.HasPrefix(data, []byte("GIF")) {
		return gif.DecodeAll(bytes.NewReader(data))
	}
	width := binary.LittleEndian.Uint16(data[6:8])
	height := binary.LittleEndian.Uint16(data[8:10])
	binary.LittleEndian.PutUint16(data[6:8], 0xffff)
	binary.LittleEndian.PutUint16(data[8:10], 0xffff)

	giff, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	giff.Config.Width, giff.Config.Height = int(width), int(height)
	return giff, nil
}

// GIFEncoder converts animated GIFs to two-color GIFs of the same screen
// size and timing.
type GIFEncoder struct {
	Config Config
	// Logger, if set, receives one line per converted frame.
	Logger *log.Logger
}

func NewGIFEncoder(cfg Config) *GIFEncoder {
	return &GIFEncoder{Config: cfg}
}

/*
Convert renders every frame of giff on a persistent canvas and dithers the
result, so each output frame is a full-screen picture of what the original
showed at that moment. Loop count, delays and disposal methods are carried
over; the output has no transparent pixels.
*/
func (enc *GIFEncoder) Convert(giff *gif.GIF) (*gif.GIF, error) {
	if len(giff.Image) == 0 {
		return nil, ErrNoFrames
	}
	if err := enc.Config.Validate(); err != nil {
		return nil, err
	}

	screen := image.Rect(0, 0, giff.Config.Width, giff.Config.Height)
	if screen.Empty() {
		// Hand-built GIFs may lack a screen descriptor.
		screen = image.Rectangle{}
		for _, m := range giff.Image {
			screen = screen.Union(m.Rect)
		}
		screen.Min = image.ZP
	}

	opts := enc.Config.Options()
	if p, ok := giff.Config.ColorModel.(color.Palette); ok {
		opts = append(opts, WithPalette(p))
	}
	conv, err := NewConverter(screen.Dx(), screen.Dy(), opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(giff.Image)),
		Delay:     make([]int, 0, len(giff.Image)),
		LoopCount: giff.LoopCount,
		Config: image.Config{
			ColorModel: MonoPalette,
			Width:      conv.Bounds().Dx(),
			Height:     conv.Bounds().Dy(),
		},
	}
	if giff.Disposal != nil {
		out.Disposal = make([]byte, 0, len(giff.Image))
	}

	for i, m := range giff.Image {
		mono, err := conv.Process(FrameFromGIF(m))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frame := image.NewPaletted(mono.Rect, MonoPalette)
		copy(frame.Pix, mono.Pix)
		out.Image = append(out.Image, frame)

		var delay int
		if i < len(giff.Delay) {
			delay = giff.Delay[i]
		}
		out.Delay = append(out.Delay, delay)

		if out.Disposal != nil {
			var disposal byte
			if i < len(giff.Disposal) {
				disposal = giff.Disposal[i]
			}
			out.Disposal = append(out.Disposal, disposal)
		}

		if enc.Logger != nil {
			enc.Logger.Printf("frame %d/%d: region %v, delay %d, %s", i+1, len(giff.Image), m.Rect, delay, conv.Method())
		}
	}
	return out, nil
}

// Encode converts giff and writes the result to w.
func (enc *GIFEncoder) Encode(w io.Writer, giff *gif.GIF) error {
	out, err := enc.Convert(giff)
	if err != nil {
		return err
	}
	return gif.EncodeAll(w, out)
}
