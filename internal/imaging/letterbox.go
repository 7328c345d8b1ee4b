package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Letterbox resizes img into a rows x cols canvas while keeping its aspect
// ratio: the image is scaled on whichever axis is proportionally larger,
// then centered into a zero (black) padded canvas. An image already exactly
// at the target size is copied through unchanged.
func Letterbox(img *image.RGBA, rows, cols int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, cols, rows))
	srcH := img.Bounds().Dy()
	srcW := img.Bounds().Dx()
	if srcH == 0 || srcW == 0 {
		return canvas
	}

	rowsRate := float64(srcH) / float64(rows)
	colsRate := float64(srcW) / float64(cols)

	var newW, newH int
	if rowsRate > colsRate {
		newH = rows
		newW = (srcW * rows) / srcH
		if newW > cols {
			newW = cols
		}
		if newW < 1 {
			newW = 1
		}
	} else {
		newW = cols
		newH = (srcH * cols) / srcW
		if newH > rows {
			newH = rows
		}
		if newH < 1 {
			newH = 1
		}
	}

	offX := (cols - newW) / 2
	offY := (rows - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	xdraw.CatmullRom.Scale(canvas, dst, img, img.Bounds(), xdraw.Src, nil)
	return canvas
}

// ResizeBack inverts the letterbox transform for a prediction plane: the
// plane's long axis is resized to match the original dimension, then the
// centered padding strip is cropped away. The result is exactly
// origH x origW.
func ResizeBack(p Plane, origW, origH int) Plane {
	if p.W == 0 || p.H == 0 || origW <= 0 || origH <= 0 {
		return NewPlane(origW, origH)
	}

	rowsRate := float64(origH) / float64(p.H)
	colsRate := float64(origW) / float64(p.W)

	if rowsRate > colsRate {
		newCols := (p.W * origH) / p.H
		if newCols < origW {
			newCols = origW
		}
		resized := p.Resize(newCols, origH)
		off := (resized.W - origW) / 2
		return resized.CropX(off, origW)
	}
	newRows := (p.H * origW) / p.W
	if newRows < origH {
		newRows = origH
	}
	resized := p.Resize(origW, newRows)
	off := (resized.H - origH) / 2
	return resized.CropY(off, origH)
}
