package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/MarcWong/aim/internal/config"
	apperrors "github.com/MarcWong/aim/internal/errors"
	"github.com/MarcWong/aim/internal/logger"
	"github.com/MarcWong/aim/internal/service"
	"github.com/MarcWong/aim/pkg/models"
)

// NewHandler wires the HTTP surface: metric execution, health, and the
// Prometheus scrape endpoint.
func NewHandler(metrics service.MetricService, cfg *config.Config, gatherer prometheus.Gatherer) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(metrics))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.POST("/api/v1/execute", executeMetrics(metrics, cfg))

	return r
}

func executeMetrics(metrics service.MetricService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing metric execution request")

		var req models.ExecuteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := metrics.Execute(ctx, req)
		if err != nil {
			var wrapped error = err
			if errors.Is(err, context.DeadlineExceeded) {
				wrapped = apperrors.NewTimeoutError("metric execution timeout", err)
			}

			logger.WithError(wrapped).WithFields(logrus.Fields{
				"metrics": req.Metrics,
				"ip":      c.ClientIP(),
			}).Error("Metric execution failed")

			respondError(c, apperrors.GetStatusCode(wrapped), "metric execution failed", wrapped)
			return
		}

		logger.WithFields(logrus.Fields{
			"metrics":            req.Metrics,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"results":            len(resp.Results),
		}).Info("Metric execution completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func healthCheck(metrics service.MetricService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "available",
			Metrics: metrics.MetricIDs(),
		})
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	errType := "internal"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		errType = string(appErr.Type)
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Type:    errType,
		Details: message + ": " + err.Error(),
	})
}
