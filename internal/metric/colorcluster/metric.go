package colorcluster

import (
	"context"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/metric"
)

// MetricID identifies the distinct-RGB-values-per-dynamic-cluster metric.
const MetricID = "distinct_rgb_per_cluster"

// Metric reports the ratio of distinct RGB values to the number of dynamic
// clusters, a color variability measure. Measure list: one float in
// [0, +inf).
type Metric struct{}

// New returns the clustering ratio metric.
func New() *Metric {
	return &Metric{}
}

// ID implements metric.Metric.
func (*Metric) ID() string {
	return MetricID
}

// Execute implements metric.Metric. Zero clusters is a valid degenerate
// outcome and yields a ratio of exactly 0 rather than an error.
func (*Metric) Execute(_ context.Context, in *metric.Input) ([]metric.Measure, error) {
	img, err := imaging.DecodeBase64PNG(in.ImageB64)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot decode GUI image", err)
	}

	cs := DynamicClusters(img, ParamsFor(in.GUIType))

	distinct := 0
	for _, c := range cs {
		distinct += c.DistinctColors
	}

	ratio := 0.0
	if len(cs) != 0 {
		ratio = float64(distinct) / float64(len(cs))
	}
	return []metric.Measure{metric.Num(ratio)}, nil
}
