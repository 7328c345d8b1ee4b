package observer

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// MetricEvent describes one step of a metric invocation.
type MetricEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	MetricID       string                 `json:"metric_id"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of metric event.
type EventType string

const (
	// MetricStarted when a metric invocation begins
	MetricStarted EventType = "metric_started"
	// MetricCompleted when a metric invocation finishes successfully
	MetricCompleted EventType = "metric_completed"
	// MetricFailed when a metric invocation fails
	MetricFailed EventType = "metric_failed"
	// ScreenshotFetched when a screenshot is successfully fetched
	ScreenshotFetched EventType = "screenshot_fetched"
	// ScreenshotFetchFailed when a screenshot fetch fails
	ScreenshotFetchFailed EventType = "screenshot_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event MetricEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event MetricEvent)
}

// LoggingObserver logs metric events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles metric events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event MetricEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"metric_id":       event.MetricID,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case MetricStarted:
		o.logger.WithFields(fields).Info("Metric invocation started")
	case MetricCompleted:
		o.logger.WithFields(fields).Info("Metric invocation completed")
	case MetricFailed:
		o.logger.WithFields(fields).Error("Metric invocation failed")
	case ScreenshotFetched:
		o.logger.WithFields(fields).Debug("Screenshot fetched successfully")
	case ScreenshotFetchFailed:
		o.logger.WithFields(fields).Error("Screenshot fetch failed")
	default:
		o.logger.WithFields(fields).Info("Metric event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// PrometheusObserver exports metric invocation counters and latency
// histograms on the process registry.
type PrometheusObserver struct {
	invocations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPrometheusObserver creates and registers a Prometheus observer.
func NewPrometheusObserver(reg prometheus.Registerer) Observer {
	o := &PrometheusObserver{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aim_metric_invocations_total",
			Help: "Number of metric invocations started, by metric ID.",
		}, []string{"metric_id"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aim_metric_failures_total",
			Help: "Number of failed metric invocations, by metric ID.",
		}, []string{"metric_id"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aim_metric_duration_seconds",
			Help:    "Wall-clock duration of successful metric invocations.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"metric_id"}),
	}
	reg.MustRegister(o.invocations, o.failures, o.duration)
	return o
}

// OnEvent handles metric events by updating Prometheus series
func (o *PrometheusObserver) OnEvent(ctx context.Context, event MetricEvent) {
	switch event.EventType {
	case MetricStarted:
		o.invocations.WithLabelValues(event.MetricID).Inc()
	case MetricCompleted:
		o.duration.WithLabelValues(event.MetricID).Observe(event.ProcessingTime.Seconds())
	case MetricFailed:
		o.failures.WithLabelValues(event.MetricID).Inc()
	}
}

// GetObserverName returns the observer name
func (o *PrometheusObserver) GetObserverName() string {
	return "prometheus_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event MetricEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
