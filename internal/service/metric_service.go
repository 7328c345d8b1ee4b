// Package service orchestrates metric execution: it resolves the input
// screenshot, optionally runs segmentation, and dispatches the requested
// metrics across a bounded worker pool.
package service

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/metric"
	"github.com/MarcWong/aim/internal/observer"
	"github.com/MarcWong/aim/internal/repository"
	"github.com/MarcWong/aim/internal/segmentation"
	"github.com/MarcWong/aim/pkg/models"
	"github.com/MarcWong/aim/pkg/validation"
)

// MetricService defines the metric execution surface.
type MetricService interface {
	Execute(ctx context.Context, request models.ExecuteRequest) (*models.ExecuteResponse, error)
	MetricIDs() []string
}

type metricService struct {
	registry      *metric.Registry
	screenshots   repository.ScreenshotRepository
	segmenter     *segmentation.Segmenter
	validator     *validation.RequestValidator
	publisher     observer.Subject
	maxWorkers    int
	metricTimeout time.Duration
}

// NewMetricService creates a metric execution service. screenshots and
// segmenter may be nil when URL fetching or server-side segmentation is
// disabled.
func NewMetricService(
	registry *metric.Registry,
	screenshots repository.ScreenshotRepository,
	segmenter *segmentation.Segmenter,
	validator *validation.RequestValidator,
	publisher observer.Subject,
	maxWorkers int,
	metricTimeout time.Duration,
) MetricService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &metricService{
		registry:      registry,
		screenshots:   screenshots,
		segmenter:     segmenter,
		validator:     validator,
		publisher:     publisher,
		maxWorkers:    maxWorkers,
		metricTimeout: metricTimeout,
	}
}

// MetricIDs returns the registered metric IDs, sorted.
func (s *metricService) MetricIDs() []string {
	return s.registry.IDs()
}

// Execute validates the request, resolves the screenshot, and runs the
// requested metrics.
func (s *metricService) Execute(ctx context.Context, request models.ExecuteRequest) (*models.ExecuteResponse, error) {
	started := time.Now()

	input, segments, err := s.resolveInput(ctx, request)
	if err != nil {
		return nil, err
	}

	ids := request.Metrics
	if len(ids) == 0 {
		ids = s.registry.IDs()
	} else if err := s.validator.ValidateMetricIDs(ids); err != nil {
		return nil, apperrors.NewValidationError("invalid metric list", err)
	}

	metrics := make([]metric.Metric, 0, len(ids))
	for _, id := range ids {
		m, ok := s.registry.Get(id)
		if !ok {
			return nil, apperrors.NewNotFoundError("unknown metric "+id, nil)
		}
		metrics = append(metrics, m)
	}

	results := s.runAll(ctx, metrics, input)

	response := &models.ExecuteResponse{
		Timestamp:         started.Format("2006-01-02T15:04:05Z07:00"),
		ProcessingTimeSec: time.Since(started).Seconds(),
		Results:           results,
		Segments:          segments,
	}
	return response, nil
}

// resolveInput produces the metric input: inline image or fetched from a
// URL, with caller-supplied or server-computed segmentation attached.
func (s *metricService) resolveInput(ctx context.Context, request models.ExecuteRequest) (*metric.Input, *models.SegmentsPayload, error) {
	if err := s.validator.ValidateGUIType(request.GUIType); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid GUI type", err)
	}

	imageB64 := request.ImageB64
	if imageB64 == "" {
		if request.URL == "" {
			return nil, nil, apperrors.NewValidationError("request carries neither image_b64 nor url", nil)
		}
		if s.screenshots == nil {
			return nil, nil, apperrors.NewValidationError("URL fetching is not configured", nil)
		}
		if err := s.validator.ValidateURL(request.URL); err != nil {
			return nil, nil, apperrors.NewValidationError("invalid screenshot URL", err)
		}
		fetched, err := s.screenshots.FetchScreenshotB64(ctx, request.URL)
		if err != nil {
			s.notify(ctx, observer.MetricEvent{
				EventType:    observer.ScreenshotFetchFailed,
				Timestamp:    time.Now(),
				ErrorMessage: err.Error(),
				Metadata:     map[string]interface{}{"url": request.URL},
			})
			return nil, nil, apperrors.NewNetworkError("failed to fetch screenshot", err)
		}
		s.notify(ctx, observer.MetricEvent{
			EventType: observer.ScreenshotFetched,
			Timestamp: time.Now(),
			Success:   true,
			Metadata:  map[string]interface{}{"url": request.URL},
		})
		imageB64 = fetched
	} else if err := s.validator.ValidateImageB64(imageB64); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid image payload", err)
	}

	input := &metric.Input{
		ImageB64: imageB64,
		GUIType:  metric.GUIType(request.GUIType),
		URL:      request.URL,
	}

	var payload *models.SegmentsPayload
	switch {
	case request.Segments != nil:
		input.Segments = segmentsFromPayload(request.Segments)
	case request.Segment:
		if s.segmenter == nil {
			return nil, nil, apperrors.NewValidationError("segmentation is not configured", nil)
		}
		segs, err := s.segmenter.Segment(ctx, imageB64)
		if err != nil {
			return nil, nil, err
		}
		input.Segments = segs
		payload = segmentsToPayload(segs)
	}

	return input, payload, nil
}

// runAll dispatches metrics across the worker pool and collects results
// in request order.
func (s *metricService) runAll(ctx context.Context, metrics []metric.Metric, input *metric.Input) []models.MetricResult {
	results := make([]models.MetricResult, len(metrics))

	sem := make(chan struct{}, s.maxWorkers)
	var wg sync.WaitGroup
	for i, m := range metrics {
		wg.Add(1)
		go func(i int, m metric.Metric) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.runOne(ctx, m, input)
		}(i, m)
	}
	wg.Wait()

	return results
}

func (s *metricService) runOne(ctx context.Context, m metric.Metric, input *metric.Input) models.MetricResult {
	started := time.Now()
	s.notify(ctx, observer.MetricEvent{
		EventType: observer.MetricStarted,
		Timestamp: started,
		MetricID:  m.ID(),
	})

	runCtx := ctx
	if s.metricTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.metricTimeout)
		defer cancel()
	}

	measures, err := m.Execute(runCtx, input)
	elapsed := time.Since(started)

	result := models.MetricResult{MetricID: m.ID()}
	switch {
	case err != nil:
		result.Error = err.Error()
		s.notify(ctx, observer.MetricEvent{
			EventType:      observer.MetricFailed,
			Timestamp:      time.Now(),
			MetricID:       m.ID(),
			ProcessingTime: elapsed,
			ErrorMessage:   err.Error(),
		})
	case measures == nil:
		result.Inapplicable = true
		s.notify(ctx, observer.MetricEvent{
			EventType:      observer.MetricCompleted,
			Timestamp:      time.Now(),
			MetricID:       m.ID(),
			ProcessingTime: elapsed,
			Success:        true,
			Metadata:       map[string]interface{}{"inapplicable": true},
		})
	default:
		result.Measures = measuresToPayload(measures)
		s.notify(ctx, observer.MetricEvent{
			EventType:      observer.MetricCompleted,
			Timestamp:      time.Now(),
			MetricID:       m.ID(),
			ProcessingTime: elapsed,
			Success:        true,
		})
	}
	return result
}

func (s *metricService) notify(ctx context.Context, event observer.MetricEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

func measuresToPayload(measures []metric.Measure) []models.MeasurePayload {
	out := make([]models.MeasurePayload, len(measures))
	for i, m := range measures {
		switch m.Kind {
		case metric.KindImage:
			out[i] = models.MeasurePayload{Kind: "image", ImageB64: m.Image}
		default:
			out[i] = models.MeasurePayload{Kind: "number", Number: m.Number}
		}
	}
	return out
}

func segmentsFromPayload(p *models.SegmentsPayload) *metric.Segments {
	segs := &metric.Segments{ImgB64: p.ImgB64}
	for _, e := range p.Elements {
		segs.Elements = append(segs.Elements, metric.Element{
			Class: e.Class,
			X:     e.X,
			Y:     e.Y,
			W:     e.W,
			H:     e.H,
		})
	}
	return segs
}

func segmentsToPayload(segs *metric.Segments) *models.SegmentsPayload {
	p := &models.SegmentsPayload{ImgB64: segs.ImgB64}
	for _, e := range segs.Elements {
		p.Elements = append(p.Elements, models.ElementPayload{
			Class: e.Class,
			X:     e.X,
			Y:     e.Y,
			W:     e.W,
			H:     e.H,
		})
	}
	return p
}
