// Package segmentation detects visual GUI elements (buttons, icons, text
// blocks) in a screenshot. Region candidates come from classical
// edge/contour heuristics; text regions come from a trained text detector;
// classification combines both. The composite visualization it produces is
// the precomputed artifact the segmentation metric surfaces.
package segmentation

import (
	"image"
	"image/draw"
	"math"
)

// Region is one connected high-gradient area of the screenshot.
type Region struct {
	Bounds image.Rectangle
	// Fill is the fraction of the bounding box covered by edge pixels.
	Fill float64
}

// detectorParams tune the classical extraction stage.
type detectorParams struct {
	gradientThreshold float64
	minArea           int
	maxAreaFraction   float64
}

func defaultDetectorParams() detectorParams {
	return detectorParams{
		gradientThreshold: 50,
		minArea:           64,
		maxAreaFraction:   0.9,
	}
}

// ExtractRegions runs the old-fashioned computer-vision pass: grayscale,
// Sobel gradient magnitude, binarization, then 8-connected component
// labeling with size filtering.
func ExtractRegions(img image.Image) []Region {
	return extractRegions(img, defaultDetectorParams())
}

func extractRegions(img image.Image, p detectorParams) []Region {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return nil
	}

	edges := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := sobelX(gray, bounds.Min.X+x, bounds.Min.Y+y)
			gy := sobelY(gray, bounds.Min.X+x, bounds.Min.Y+y)
			if math.Sqrt(float64(gx*gx+gy*gy)) > p.gradientThreshold {
				edges[y*w+x] = true
			}
		}
	}

	labels := make([]int, w*h)
	next := 0
	var regions []Region
	maxArea := int(float64(w*h) * p.maxAreaFraction)

	for i := range edges {
		if !edges[i] || labels[i] != 0 {
			continue
		}
		next++
		r, area := flood(edges, labels, w, h, i, next)
		if area < p.minArea || area > maxArea {
			continue
		}
		boxArea := r.Dx() * r.Dy()
		fill := 0.0
		if boxArea > 0 {
			fill = float64(area) / float64(boxArea)
		}
		regions = append(regions, Region{Bounds: r.Add(bounds.Min), Fill: fill})
	}
	return regions
}

// flood labels the 8-connected component containing start and returns its
// bounding box and pixel count. Iterative, to stay safe on large blobs.
func flood(edges []bool, labels []int, w, h, start, label int) (image.Rectangle, int) {
	stack := []int{start}
	labels[start] = label
	minX, minY := start%w, start/w
	maxX, maxY := minX, minY
	area := 0

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		area++
		x, y := i%w, i/w
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if edges[j] && labels[j] == 0 {
					labels[j] = label
					stack = append(stack, j)
				}
			}
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), area
}

func sobelX(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) + 1*int(gray.GrayAt(x+1, y-1).Y) +
		-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
		-1*int(gray.GrayAt(x-1, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}

func sobelY(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - 1*int(gray.GrayAt(x+1, y-1).Y) +
		1*int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}
