// Package segmentation exposes the UIED-style element segmentation result
// through the uniform metric façade. The heavy lifting happens upstream
// (see internal/segmentation); this metric's entire job is to surface the
// precomputed composite visualization.
package segmentation

import (
	"context"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/metric"
)

// MetricID identifies the element segmentation metric.
const MetricID = "uied_segmentation"

// Metric returns the precomputed segmentation visualization. Measure list:
// one Base64 PNG string.
type Metric struct{}

// New returns the segmentation pass-through metric.
func New() *Metric {
	return &Metric{}
}

// ID implements metric.Metric.
func (*Metric) ID() string {
	return MetricID
}

// Execute implements metric.Metric. The segmentation artifact is a
// required precomputed input: without it the metric cannot produce
// anything, so the call fails immediately with a precondition error before
// any computation.
func (*Metric) Execute(_ context.Context, in *metric.Input) ([]metric.Measure, error) {
	if in.Segments == nil || in.Segments.ImgB64 == "" {
		return nil, apperrors.NewPreconditionError("segmentation metric requires precomputed GUI segments", nil)
	}
	return []metric.Measure{metric.Img(in.Segments.ImgB64)}, nil
}
