// Package metric defines the uniform calling convention shared by every
// usability/aesthetics metric: one Execute capability over a decoded GUI
// screenshot plus optional precomputed artifacts, returning a fixed-arity
// ordered measure list.
package metric

import "context"

// GUIType selects the parameter profile for type-sensitive algorithms.
type GUIType int

const (
	Desktop GUIType = 0
	Mobile  GUIType = 1
)

// Valid reports whether t is a known GUI type.
func (t GUIType) Valid() bool {
	return t == Desktop || t == Mobile
}

func (t GUIType) String() string {
	switch t {
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Element is one detected GUI element in a precomputed segmentation.
type Element struct {
	Class string `json:"class"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
}

// Segments is the precomputed segmentation artifact handed in from
// upstream. ImgB64 (the composite visualization) is the minimum contract;
// typed elements are optional extra detail.
type Segments struct {
	ImgB64   string    `json:"img_b64"`
	Elements []Element `json:"elements,omitempty"`
}

// Input is the already-validated input to one metric invocation. The
// decoded raster is owned by the invocation and discarded when it returns.
type Input struct {
	ImageB64 string
	GUIType  GUIType
	Segments *Segments
	URL      string
}

// MeasureKind discriminates measure list entries.
type MeasureKind int

const (
	KindNumber MeasureKind = iota
	KindImage
)

// Measure is one entry of the ordered measure list: a number or a
// Base64-PNG string. Order and count are fixed per metric.
type Measure struct {
	Kind   MeasureKind `json:"-"`
	Number float64     `json:"number,omitempty"`
	Image  string      `json:"image,omitempty"`
}

// Num wraps a numeric measure.
func Num(v float64) Measure {
	return Measure{Kind: KindNumber, Number: v}
}

// Img wraps a Base64-PNG image measure.
func Img(b64 string) Measure {
	return Measure{Kind: KindImage, Image: b64}
}

// Metric is the capability interface every concrete metric implements.
// Implementations are stateless and deterministic given identical model
// weights and parameters: a pure function of the input. A nil measure list
// with a nil error means the metric is structurally inapplicable to the
// input, which is not an error.
type Metric interface {
	// ID is the stable identifier the registry and the wire protocol use.
	ID() string
	// Execute runs the metric over one GUI screenshot.
	Execute(ctx context.Context, in *Input) ([]Measure, error)
}
