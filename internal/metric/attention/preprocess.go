// Package attention implements the multi-duration visual attention
// predictor: a spatiotemporal saliency model that emits heatmaps for three
// viewing durations (0.5 s, 3 s, 5 s), visualized as standalone heatmaps
// and per-pixel alpha-blended overlays.
package attention

import (
	"image"

	"github.com/MarcWong/aim/internal/imaging"
)

// Model input geometry and duration layout. These are part of the external
// checkpoint contract and must not change without retraining.
const (
	ShapeRows    = 240
	ShapeCols    = 320
	NumDurations = 3
)

// Durations are the three viewing durations, in slice order.
var Durations = [NumDurations]float64{0.5, 3, 5}

// channelMeans approximate the model's training color distribution; they
// are subtracted per channel after letterboxing.
var channelMeans = [3]float32{103.939, 116.779, 123.68}

// Preprocess letterboxes the raster into the model's fixed input size and
// subtracts the per-channel means, yielding an NHWC float32 tensor of
// shape (1, ShapeRows, ShapeCols, 3). The tensor is ephemeral: created and
// discarded within one predictor call.
func Preprocess(img *image.RGBA) []float32 {
	padded := imaging.Letterbox(img, ShapeRows, ShapeCols)
	out := make([]float32, ShapeRows*ShapeCols*3)
	i := 0
	for y := 0; y < ShapeRows; y++ {
		for x := 0; x < ShapeCols; x++ {
			px := padded.RGBAAt(x, y)
			out[i] = float32(px.R) - channelMeans[0]
			out[i+1] = float32(px.G) - channelMeans[1]
			out[i+2] = float32(px.B) - channelMeans[2]
			i += 3
		}
	}
	return out
}
