package container

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MarcWong/aim/internal/config"
	"github.com/MarcWong/aim/internal/logger"
	"github.com/MarcWong/aim/internal/metric"
	"github.com/MarcWong/aim/internal/metric/attention"
	"github.com/MarcWong/aim/internal/metric/colorcluster"
	"github.com/MarcWong/aim/internal/metric/colorstats"
	segmetric "github.com/MarcWong/aim/internal/metric/segmentation"
	"github.com/MarcWong/aim/internal/observer"
	"github.com/MarcWong/aim/internal/repository"
	"github.com/MarcWong/aim/internal/segmentation"
	"github.com/MarcWong/aim/internal/service"
	"github.com/MarcWong/aim/internal/storage"
	"github.com/MarcWong/aim/internal/transport"
	"github.com/MarcWong/aim/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	registry      *metric.Registry
	metricService service.MetricService
	handler       http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Screenshot access
	fetcher := storage.NewHTTPScreenshotFetcher(cfg.ScreenshotTimeout, cfg.MaxRequestBodySize)
	var blobs storage.BlobStorage
	if cfg.AzureEnabled() {
		blobs, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to init blob storage: %w", err)
		}
	}
	screenshots := repository.NewFetchingRepository(fetcher, blobs)

	// Segmentation pipeline
	segmenter := segmentation.NewSegmenter(
		segmentation.NewTesseractDetector(cfg.TessdataPrefix),
		segmentation.NewHeuristicClassifier(),
	)

	// Metric registry
	registry := metric.NewRegistry()
	registry.MustRegister(colorcluster.New())
	registry.MustRegister(segmetric.New())
	registry.MustRegister(attention.New(attention.NewPredictor(attention.ModelConfig{
		LibraryPath: cfg.OnnxLibraryPath,
		ModelPath:   cfg.AttentionModelPath,
		InputName:   cfg.AttentionInputName,
		OutputName:  cfg.AttentionOutput,
		OutRows:     cfg.AttentionOutRows,
		OutCols:     cfg.AttentionOutCols,
	})))
	registry.MustRegister(colorstats.NewLuminanceSD())
	registry.MustRegister(colorstats.NewColorfulness())
	registry.MustRegister(colorstats.NewDistinctHSV())

	// Observability
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(observer.NewPrometheusObserver(promRegistry))

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	metricService := service.NewMetricService(
		registry,
		screenshots,
		segmenter,
		validation.NewRequestValidator(),
		publisher,
		maxWorkers,
		cfg.MetricTimeout,
	)
	handler := transport.NewHandler(metricService, cfg, promRegistry)

	return &Container{
		config:        cfg,
		registry:      registry,
		metricService: metricService,
		handler:       handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Registry returns the metric registry
func (c *Container) Registry() *metric.Registry {
	return c.registry
}
