package segmentation

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/logger"
	"github.com/MarcWong/aim/internal/metric"
	"github.com/sirupsen/logrus"
)

// classColors pick the rectangle color per element class in the composite
// visualization.
var classColors = map[string]color.RGBA{
	ClassText:   {0, 166, 81, 255},    // green
	ClassButton: {237, 28, 36, 255},   // red
	ClassIcon:   {255, 165, 0, 255},   // orange
	ClassImage:  {0, 114, 188, 255},   // blue
	ClassBlock:  {128, 128, 128, 255}, // gray
}

// Segmenter runs the full detection pipeline and produces the precomputed
// artifact consumed by the segmentation metric.
type Segmenter struct {
	textDetector TextDetector
	classifier   Classifier
}

// NewSegmenter wires the detection pipeline. textDetector may be nil, in
// which case only classical region extraction runs.
func NewSegmenter(textDetector TextDetector, classifier Classifier) *Segmenter {
	if classifier == nil {
		classifier = NewHeuristicClassifier()
	}
	return &Segmenter{textDetector: textDetector, classifier: classifier}
}

// Segment detects GUI elements in a Base64-encoded screenshot and returns
// the typed elements plus the composited visualization, re-encoded in
// Base64. The input raster is consumed within this call.
func (s *Segmenter) Segment(ctx context.Context, imageB64 string) (*metric.Segments, error) {
	img, err := imaging.DecodeBase64PNG(imageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("segmentation canceled", err)
	}

	regions := ExtractRegions(img)

	var textBoxes []TextBox
	if s.textDetector != nil {
		pngBytes, err := imaging.PNGBytes(img)
		if err != nil {
			return nil, apperrors.NewProcessingError("cannot re-encode GUI image", err)
		}
		textBoxes, err = s.textDetector.DetectText(pngBytes)
		if err != nil {
			// Text detection is best-effort: classical regions still
			// produce a usable segmentation.
			logger.WithError(err).Warn("text detection failed, continuing without text regions")
			textBoxes = nil
		}
	}

	elements := s.assemble(regions, textBoxes)

	vis := composite(img, elements)
	b64, err := imaging.EncodeBase64PNG(vis)
	if err != nil {
		return nil, apperrors.NewProcessingError("cannot encode segmentation visualization", err)
	}

	logger.WithFields(logrus.Fields{
		"regions":  len(regions),
		"text":     len(textBoxes),
		"elements": len(elements),
	}).Debug("segmentation completed")

	return &metric.Segments{ImgB64: b64, Elements: elements}, nil
}

// assemble merges classical regions with detected text: regions mostly
// covered by a text box are text fragments, not widgets, and are dropped
// in favor of the text element.
func (s *Segmenter) assemble(regions []Region, textBoxes []TextBox) []metric.Element {
	var out []metric.Element
	for _, tb := range textBoxes {
		out = append(out, metric.Element{
			Class: ClassText,
			X:     tb.Box.Min.X,
			Y:     tb.Box.Min.Y,
			W:     tb.Box.Dx(),
			H:     tb.Box.Dy(),
		})
	}
	for _, r := range regions {
		isText := false
		for _, tb := range textBoxes {
			if boxContainsMostly(tb.Box, r.Bounds) {
				isText = true
				break
			}
		}
		if isText {
			continue
		}
		out = append(out, metric.Element{
			Class: s.classifier.Classify(r),
			X:     r.Bounds.Min.X,
			Y:     r.Bounds.Min.Y,
			W:     r.Bounds.Dx(),
			H:     r.Bounds.Dy(),
		})
	}
	return out
}

// composite draws class-colored rectangles over a copy of the original.
func composite(img *image.RGBA, elements []metric.Element) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, e := range elements {
		c, ok := classColors[e.Class]
		if !ok {
			c = classColors[ClassBlock]
		}
		drawRect(out, image.Rect(e.X, e.Y, e.X+e.W, e.Y+e.H), c)
	}
	return out
}

// drawRect strokes a 2px rectangle outline clipped to the image bounds.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < 2; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if r.Min.Y+t < r.Max.Y {
				img.SetRGBA(x, r.Min.Y+t, c)
			}
			if r.Max.Y-1-t >= r.Min.Y {
				img.SetRGBA(x, r.Max.Y-1-t, c)
			}
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if r.Min.X+t < r.Max.X {
				img.SetRGBA(r.Min.X+t, y, c)
			}
			if r.Max.X-1-t >= r.Min.X {
				img.SetRGBA(r.Max.X-1-t, y, c)
			}
		}
	}
}
