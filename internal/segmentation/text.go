package segmentation

import (
	"fmt"
	"image"
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/otiai10/gosseract/v2"
)

// TextBox is one detected word with its bounding box.
type TextBox struct {
	Box        image.Rectangle
	Word       string
	Confidence float64
}

// TextDetector locates text regions in a screenshot.
type TextDetector interface {
	DetectText(pngBytes []byte) ([]TextBox, error)
}

// tesseractDetector wraps the Tesseract engine. A fresh client is created
// per call: gosseract clients are not safe for concurrent use and holding
// one per process pins native memory.
type tesseractDetector struct {
	tessdataPrefix string
	minConfidence  float64
}

// NewTesseractDetector returns the default text detector. An empty
// tessdataPrefix falls back to the engine's default data path.
func NewTesseractDetector(tessdataPrefix string) TextDetector {
	return &tesseractDetector{
		tessdataPrefix: tessdataPrefix,
		minConfidence:  40,
	}
}

func (d *tesseractDetector) DetectText(pngBytes []byte) ([]TextBox, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if d.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(d.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("tessdata prefix: %w", err)
		}
	}
	if err := client.SetImageFromBytes(pngBytes); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	out := make([]TextBox, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" || b.Confidence < d.minConfidence {
			continue
		}
		out = append(out, TextBox{Box: b.Box, Word: word, Confidence: b.Confidence})
	}
	return DedupeTextBoxes(out), nil
}

// DedupeTextBoxes suppresses near-duplicate detections: Tesseract often
// reports the same word twice with slightly shifted boxes. Two boxes are
// duplicates when they overlap heavily and their words are within an edit
// distance of 1. The higher-confidence detection wins.
func DedupeTextBoxes(in []TextBox) []TextBox {
	var out []TextBox
	for _, cand := range in {
		dup := false
		for i := range out {
			if !boxesOverlap(out[i].Box, cand.Box, 0.7) {
				continue
			}
			if levenshtein.Distance(strings.ToLower(out[i].Word), strings.ToLower(cand.Word)) <= 1 {
				if cand.Confidence > out[i].Confidence {
					out[i] = cand
				}
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, cand)
		}
	}
	return out
}

// boxesOverlap reports whether the intersection covers at least frac of
// the smaller box.
func boxesOverlap(a, b image.Rectangle, frac float64) bool {
	inter := a.Intersect(b)
	if inter.Empty() {
		return false
	}
	smaller := a.Dx() * a.Dy()
	if s := b.Dx() * b.Dy(); s < smaller {
		smaller = s
	}
	if smaller == 0 {
		return false
	}
	return float64(inter.Dx()*inter.Dy())/float64(smaller) >= frac
}
