package monogif

import "image"

// EdgeThreshold is the gradient magnitude above which EmphasizeEdges paints a
// pixel black.
const EdgeThreshold = 200

// DetectEdges writes the Sobel gradient magnitude |Gx|+|Gy| of gray, capped at
// 255, into edges. Both images must share the same origin-anchored bounds.
// The outermost rows and columns of edges are always 0.
//
//	Gx = [-1 0 1]   Gy = [ 1  2  1]
//	     [-2 0 2]        [ 0  0  0]
//	     [-1 0 1]        [-1 -2 -1]
func DetectEdges(gray, edges *image.Gray) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	at := func(x, y int) int {
		return int(gray.Pix[y*gray.Stride+x])
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1) -
				at(x-1, y+1) - 2*at(x, y+1) - at(x+1, y+1)
			mag := abs(gx) + abs(gy)
			if mag > 255 {
				mag = 255
			}
			edges.Pix[y*edges.Stride+x] = uint8(mag)
		}
	}

	// The border has no full 3x3 neighbourhood and carries no edge signal.
	for x := 0; x < w; x++ {
		edges.Pix[x] = 0
		edges.Pix[(h-1)*edges.Stride+x] = 0
	}
	for y := 0; y < h; y++ {
		edges.Pix[y*edges.Stride] = 0
		edges.Pix[y*edges.Stride+w-1] = 0
	}
}

// EmphasizeEdges runs DetectEdges and forces every pixel of gray whose edge
// strength exceeds EdgeThreshold to black. edges is scratch space.
func EmphasizeEdges(gray, edges *image.Gray) {
	DetectEdges(gray, edges)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges.Pix[y*edges.Stride+x] > EdgeThreshold {
				gray.Pix[y*gray.Stride+x] = 0
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
