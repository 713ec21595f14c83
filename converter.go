package monogif

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// MaxPixels bounds the screen area a Converter agrees to allocate buffers for.
const MaxPixels = 1 << 26

var (
	ErrContrastRange = errors.New("contrast out of range -100..100")
	ErrScreenSize    = errors.New("invalid screen size")
	ErrClosed        = errors.New("converter closed")
	ErrSequence      = errors.New("converter steps out of order")
)

type Option func(c *Converter)

// WithContrast sets the contrast adjustment, -100..100. Zero disables it.
func WithContrast(contrast int) Option {
	return func(c *Converter) {
		c.tone.Contrast = contrast
	}
}

// WithDither selects the binarization strategy. Floyd-Steinberg is the default.
func WithDither(m Method) Option {
	return func(c *Converter) {
		c.method = m
	}
}

// If used, strong edges are painted black before dithering.
func WithEdges() Option {
	return func(c *Converter) {
		c.edges = true
	}
}

// WithPalette sets the sequence palette used by frames that carry none.
func WithPalette(p color.Palette) Option {
	return func(c *Converter) {
		c.palette = p
	}
}

// WithFit scales every snapshot down to fit within width x height while
// keeping the aspect ratio. Screens that already fit are left alone.
func WithFit(width, height int) Option {
	return func(c *Converter) {
		c.fit = image.Pt(width, height)
	}
}

type state int

const (
	stateIdle state = iota
	stateComposited
	statePrepared
	stateDone
)

/*
Converter turns a sequence of frames into binary images one frame at a time.

The canvas accumulates every frame composited so far, so frames must be fed in
display order. Each step works on buffers allocated once by NewConverter:

	Composite(frame) -> Prepare() -> Dither()

Process runs all three. The image returned by Dither and Process is reused by
the next frame; copy it to keep it.
*/
type Converter struct {
	tone    Tone
	method  Method
	edges   bool
	palette color.Palette
	fit     image.Point

	ditherer Ditherer
	canvas   *image.Gray     // persistent, full screen
	work     *image.Gray     // per-frame snapshot, possibly fitted
	edgeMap  *image.Gray     // scratch for edge detection
	mono     *image.Paletted // binary result

	state  state
	frames int
}

// NewConverter allocates the buffers for a width x height screen. The canvas
// starts out white.
func NewConverter(width, height int, opts ...Option) (*Converter, error) {
	c := Converter{
		method: FloydSteinberg,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.tone.Contrast < -100 || c.tone.Contrast > 100 {
		return nil, fmt.Errorf("%w: %d", ErrContrastRange, c.tone.Contrast)
	}
	if c.ditherer = c.method.Ditherer(); c.ditherer == nil {
		return nil, fmt.Errorf("%w: %d", ErrDitherMethod, int(c.method))
	}
	if width <= 0 || height <= 0 || width > MaxPixels/height {
		return nil, fmt.Errorf("%w: %dx%d", ErrScreenSize, width, height)
	}

	c.canvas = image.NewGray(image.Rect(0, 0, width, height))
	for i := range c.canvas.Pix {
		c.canvas.Pix[i] = 0xff
	}

	out := fitWithin(image.Pt(width, height), c.fit)
	c.work = image.NewGray(image.Rectangle{Max: out})
	c.edgeMap = image.NewGray(image.Rectangle{Max: out})
	c.mono = image.NewPaletted(image.Rectangle{Max: out}, MonoPalette)
	return &c, nil
}

// Bounds is the size of the images returned by Dither.
func (c *Converter) Bounds() image.Rectangle {
	return c.mono.Rect
}

// Method reports the binarization strategy in use.
func (c *Converter) Method() Method {
	return c.method
}

// Frames is the number of frames composited so far.
func (c *Converter) Frames() int {
	return c.frames
}

// Canvas exposes the persistent grayscale screen. Callers must not modify it.
func (c *Converter) Canvas() *image.Gray {
	return c.canvas
}

// Composite applies f on top of everything composited before.
func (c *Converter) Composite(f Frame) error {
	if c.state == stateDone {
		return ErrClosed
	}
	Composite(c.canvas, f, c.palette, c.tone)
	c.frames++
	c.state = stateComposited
	return nil
}

// Prepare snapshots the canvas into the working buffer, fitting it to the
// output size and emphasizing edges if configured. The returned buffer is the
// one Dither will binarize.
func (c *Converter) Prepare() (*image.Gray, error) {
	switch c.state {
	case stateDone:
		return nil, ErrClosed
	case stateIdle:
		return nil, fmt.Errorf("%w: prepare before composite", ErrSequence)
	}
	if c.work.Rect.Eq(c.canvas.Rect) {
		copy(c.work.Pix, c.canvas.Pix)
	} else {
		w, h := c.work.Rect.Dx(), c.work.Rect.Dy()
		scaled := resize.Resize(uint(w), uint(h), c.canvas, resize.Bilinear)
		draw.Draw(c.work, c.work.Rect, scaled, scaled.Bounds().Min, draw.Src)
	}
	if c.edges {
		EmphasizeEdges(c.work, c.edgeMap)
	}
	c.state = statePrepared
	return c.work, nil
}

// Dither binarizes the prepared buffer.
func (c *Converter) Dither() (*image.Paletted, error) {
	switch c.state {
	case stateDone:
		return nil, ErrClosed
	case statePrepared:
	default:
		return nil, fmt.Errorf("%w: dither before prepare", ErrSequence)
	}
	c.ditherer.Dither(c.work, c.mono)
	c.state = stateIdle
	return c.mono, nil
}

// Process composites f and returns its binary rendition.
func (c *Converter) Process(f Frame) (*image.Paletted, error) {
	if err := c.Composite(f); err != nil {
		return nil, err
	}
	if _, err := c.Prepare(); err != nil {
		return nil, err
	}
	return c.Dither()
}

// Close ends the sequence. Every later step fails with ErrClosed.
func (c *Converter) Close() {
	c.state = stateDone
}

// fitWithin shrinks size to fit inside box, keeping the aspect ratio. A zero
// box dimension leaves that axis unconstrained.
func fitWithin(size, box image.Point) image.Point {
	if box.X <= 0 && box.Y <= 0 {
		return size
	}
	scale := 1.0
	if box.X > 0 && size.X > box.X {
		scale = float64(box.X) / float64(size.X)
	}
	if box.Y > 0 && size.Y > box.Y {
		if s := float64(box.Y) / float64(size.Y); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return size
	}
	out := image.Pt(int(float64(size.X)*scale), int(float64(size.Y)*scale))
	if out.X < 1 {
		out.X = 1
	}
	if out.Y < 1 {
		out.Y = 1
	}
	return out
}
