package monogif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/bmp"
)

const sheetGap = 4

var sheetBackground = color.RGBA{0x80, 0x80, 0x80, 0xff}

// ContactSheet lays frames out in a grid of cols columns, each magnified by
// scale with nearest neighbour sampling and outlined in red. It is meant for
// eyeballing a converted sequence on a regular monitor.
func ContactSheet(frames []*image.Paletted, cols, scale int) *image.RGBA {
	if cols < 1 {
		cols = 1
	}
	if scale < 1 {
		scale = 1
	}
	if len(frames) == 0 {
		return image.NewRGBA(image.Rect(0, 0, sheetGap, sheetGap))
	}
	if cols > len(frames) {
		cols = len(frames)
	}
	rows := (len(frames) + cols - 1) / cols
	cw, ch := frames[0].Rect.Dx()*scale, frames[0].Rect.Dy()*scale

	sheet := image.NewRGBA(image.Rect(0, 0, cols*(cw+sheetGap)+sheetGap, rows*(ch+sheetGap)+sheetGap))
	draw.Draw(sheet, sheet.Rect, image.NewUniform(sheetBackground), image.ZP, draw.Src)

	gc := draw2dimg.NewGraphicContext(sheet)
	gc.SetStrokeColor(color.RGBA{0xff, 0x00, 0x00, 0xff})
	gc.SetLineWidth(1)

	for i, frame := range frames {
		x := (i%cols)*(cw+sheetGap) + sheetGap
		y := (i/cols)*(ch+sheetGap) + sheetGap
		cell := imaging.Resize(frame, cw, ch, imaging.NearestNeighbor)
		draw.Draw(sheet, image.Rect(x, y, x+cw, y+ch), cell, cell.Bounds().Min, draw.Src)
		draw2dkit.Rectangle(gc, float64(x)-0.5, float64(y)-0.5, float64(x+cw)+0.5, float64(y+ch)+0.5)
	}
	gc.Stroke()
	return sheet
}

// PreviewFormat picks the preview encoding from a file name: "bmp" for .bmp
// files, "png" for everything else.
func PreviewFormat(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".bmp") {
		return "bmp"
	}
	return "png"
}

// WritePreview encodes img as "png" or "bmp".
func WritePreview(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported preview format %q", format)
}
