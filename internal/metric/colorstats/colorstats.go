// Package colorstats holds the lightweight color statistics metrics:
// luminance standard deviation, Hassler-Susstrunk colorfulness, and
// distinct HSV value counts.
package colorstats

import (
	"context"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/metric"
)

// Metric identifiers.
const (
	LuminanceSDID  = "luminance_sd"
	ColorfulnessID = "colorfulness"
	DistinctHSVID  = "distinct_hsv"
)

// Rec. 709 luma coefficients.
var lumaCoef = [3]float64{0.2126, 0.7152, 0.0722}

// LuminanceSD reports the standard deviation of Rec. 709 luminance across
// all pixels. Measure list: one float in [0, +inf).
type LuminanceSD struct{}

func NewLuminanceSD() *LuminanceSD { return &LuminanceSD{} }

// ID implements metric.Metric.
func (*LuminanceSD) ID() string { return LuminanceSDID }

// Execute implements metric.Metric.
func (*LuminanceSD) Execute(_ context.Context, in *metric.Input) ([]metric.Measure, error) {
	img, err := imaging.DecodeBase64PNG(in.ImageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}

	luma := make([]float64, 0, img.Bounds().Dx()*img.Bounds().Dy())
	forEachPixel(img, func(r, g, b float64) {
		luma = append(luma, lumaCoef[0]*r+lumaCoef[1]*g+lumaCoef[2]*b)
	})
	if len(luma) == 0 {
		return []metric.Measure{metric.Num(0)}, nil
	}
	// Population SD, not sample SD.
	mean := stat.Mean(luma, nil)
	var sq float64
	for _, v := range luma {
		d := v - mean
		sq += d * d
	}
	return []metric.Measure{metric.Num(math.Sqrt(sq / float64(len(luma))))}, nil
}

// Colorfulness reports Hassler-Susstrunk colorfulness over the opponent
// axes rg = R-G and yb = (R+G)/2 - B. Measure list: one float.
type Colorfulness struct{}

func NewColorfulness() *Colorfulness { return &Colorfulness{} }

// ID implements metric.Metric.
func (*Colorfulness) ID() string { return ColorfulnessID }

// Execute implements metric.Metric.
func (*Colorfulness) Execute(_ context.Context, in *metric.Input) ([]metric.Measure, error) {
	img, err := imaging.DecodeBase64PNG(in.ImageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}

	n := img.Bounds().Dx() * img.Bounds().Dy()
	rg := make([]float64, 0, n)
	yb := make([]float64, 0, n)
	forEachPixel(img, func(r, g, b float64) {
		rg = append(rg, r-g)
		yb = append(yb, (r+g)/2-b)
	})
	if len(rg) == 0 {
		return []metric.Measure{metric.Num(0)}, nil
	}

	meanRG, sdRG := stat.MeanStdDev(rg, nil)
	meanYB, sdYB := stat.MeanStdDev(yb, nil)
	if len(rg) < 2 {
		sdRG, sdYB = 0, 0
	}
	sdRGYB := math.Hypot(sdRG, sdYB)
	meanRGYB := math.Hypot(meanRG, meanYB)
	return []metric.Measure{metric.Num(sdRGYB + 0.3*meanRGYB)}, nil
}

// DistinctHSV reports the number of distinct hue, saturation, and value
// levels after dropping levels that cover less than 0.1% of pixels.
// Measure list: three integers.
type DistinctHSV struct{}

func NewDistinctHSV() *DistinctHSV { return &DistinctHSV{} }

// ID implements metric.Metric.
func (*DistinctHSV) ID() string { return DistinctHSVID }

const hsvReductionRatio = 0.001

// Execute implements metric.Metric.
func (*DistinctHSV) Execute(_ context.Context, in *metric.Input) ([]metric.Measure, error) {
	img, err := imaging.DecodeBase64PNG(in.ImageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}

	var hHist, sHist, vHist [256]int
	total := 0
	forEachPixel(img, func(r, g, b float64) {
		h, s, v := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Hsv()
		// Quantize each channel to 8 bits, mirroring an 8-bit HSV raster.
		hHist[quantize(h/360)]++
		sHist[quantize(s)]++
		vHist[quantize(v)]++
		total++
	})

	threshold := int(float64(total) * hsvReductionRatio)
	return []metric.Measure{
		metric.Num(float64(countAbove(hHist, threshold))),
		metric.Num(float64(countAbove(sHist, threshold))),
		metric.Num(float64(countAbove(vHist, threshold))),
	}, nil
}

func quantize(v float64) int {
	i := int(v * 255)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return i
}

func countAbove(hist [256]int, threshold int) int {
	n := 0
	for _, c := range hist {
		if c > threshold {
			n++
		}
	}
	return n
}

// forEachPixel walks the raster and hands each pixel's RGB values in
// [0, 255] to fn.
func forEachPixel(img *image.RGBA, fn func(r, g, b float64)) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			o := x * 4
			fn(float64(row[o]), float64(row[o+1]), float64(row[o+2]))
		}
	}
}
