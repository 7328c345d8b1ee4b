package attention

import (
	"context"
	"image"

	"github.com/mazznoer/colorgrad"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/metric"
)

// MetricID identifies the multi-duration attention metric.
const MetricID = "multiduration_attention"

// Metric predicts human attention at three viewing durations. Measure
// list: exactly 6 Base64 PNGs in fixed order: heatmap@0.5s, heatmap@3s,
// heatmap@5s, overlay@0.5s, overlay@3s, overlay@5s.
type Metric struct {
	predictor Predictor
}

// New returns the attention metric over a predictor. The predictor is
// expected to acquire and release its model resources per call.
func New(predictor Predictor) *Metric {
	return &Metric{predictor: predictor}
}

// ID implements metric.Metric.
func (*Metric) ID() string {
	return MetricID
}

// Execute implements metric.Metric.
func (m *Metric) Execute(ctx context.Context, in *metric.Input) ([]metric.Measure, error) {
	img, err := imaging.DecodeBase64PNG(in.ImageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}

	frame := Preprocess(img)
	planes, err := m.predictor.Predict(ctx, frame)
	if err != nil {
		return nil, apperrors.NewModelError("attention prediction failed", err)
	}

	viridis, err := imaging.Gradient(imaging.ColormapViridis)
	if err != nil {
		return nil, apperrors.NewInternalError("heatmap color map unavailable", err)
	}
	hot, err := imaging.Gradient(imaging.ColormapHot)
	if err != nil {
		return nil, apperrors.NewInternalError("overlay color map unavailable", err)
	}

	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	heatmaps := make([]metric.Measure, 0, NumDurations)
	overlays := make([]metric.Measure, 0, NumDurations)
	for t := 0; t < NumDurations; t++ {
		plane := PostprocessSlice(planes[t], origW, origH, postprocessOptions{})

		heat, err := encodeHeatmap(plane, viridis)
		if err != nil {
			return nil, apperrors.NewProcessingError("cannot encode heatmap", err)
		}
		overlay, err := encodeOverlay(img, plane, hot)
		if err != nil {
			return nil, apperrors.NewProcessingError("cannot encode heatmap overlay", err)
		}
		heatmaps = append(heatmaps, metric.Img(heat))
		overlays = append(overlays, metric.Img(overlay))
	}

	// Fixed output order: all heatmaps first, then all overlays, each in
	// ascending duration order.
	return append(heatmaps, overlays...), nil
}

// encodeHeatmap renders a slice through the ramp. Model outputs already
// live in [0, 1]; ApplyColormap clamps strays.
func encodeHeatmap(plane imaging.Plane, grad colorgrad.Gradient) (string, error) {
	return imaging.EncodeBase64PNG(imaging.ApplyColormap(plane, grad))
}

func encodeOverlay(src *image.RGBA, plane imaging.Plane, grad colorgrad.Gradient) (string, error) {
	return imaging.EncodeBase64PNG(imaging.OverlayHeatmap(src, plane, grad))
}
