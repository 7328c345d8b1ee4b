package segmentation

import "image"

// Element classes. Text comes from the text detector; the rest are
// assigned to non-text regions by the classifier.
const (
	ClassText   = "Text"
	ClassButton = "Button"
	ClassIcon   = "Icon"
	ClassImage  = "Image"
	ClassBlock  = "Block"
)

// Classifier labels a non-text region candidate.
type Classifier interface {
	Classify(r Region) string
}

// heuristicClassifier labels regions from their geometry and edge fill.
// The shape/size priors follow how GUI widgets are typically drawn: icons
// are small and square-ish, buttons are wide and shallow, large sparse
// boxes are layout blocks, and dense large regions are images.
type heuristicClassifier struct{}

// NewHeuristicClassifier returns the geometry-based element classifier.
func NewHeuristicClassifier() Classifier {
	return &heuristicClassifier{}
}

func (heuristicClassifier) Classify(r Region) string {
	w := r.Bounds.Dx()
	h := r.Bounds.Dy()
	if h == 0 || w == 0 {
		return ClassBlock
	}
	aspect := float64(w) / float64(h)
	area := w * h

	switch {
	case area <= 48*48 && aspect >= 0.5 && aspect <= 2.0:
		return ClassIcon
	case aspect >= 2.0 && h <= 80 && r.Fill >= 0.15:
		return ClassButton
	case area >= 160*120 && r.Fill >= 0.25:
		return ClassImage
	default:
		return ClassBlock
	}
}

// boxContainsMostly reports whether most of inner lies within outer, used
// to drop region candidates that are really text fragments.
func boxContainsMostly(outer, inner image.Rectangle) bool {
	return boxesOverlap(outer, inner, 0.8)
}
