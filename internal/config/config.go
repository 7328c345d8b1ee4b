package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the service reads from the environment.
// Model-related settings are part of the external contract: the attention
// checkpoint expects a 240x320x3 input and emits three duration slices.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ScreenshotTimeout  time.Duration
	MetricTimeout      time.Duration
	MaxRequestBodySize int64
	MaxWorkers         int

	// Attention model backend
	OnnxLibraryPath    string
	AttentionModelPath string
	AttentionInputName string
	AttentionOutput    string
	AttentionOutRows   int
	AttentionOutCols   int

	// Segmentation
	TessdataPrefix string

	// Optional Azure blob storage for screenshots and checkpoints
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob storage credentials were supplied.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8888"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ScreenshotTimeout:  parseDurationOrDefault("SCREENSHOT_TIMEOUT", 15*time.Second),
		MetricTimeout:      parseDurationOrDefault("METRIC_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB, screenshots are large
		MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)),

		OnnxLibraryPath:    getEnvOrDefault("ONNX_LIBRARY_PATH", "/usr/lib/libonnxruntime.so"),
		AttentionModelPath: getEnvOrDefault("ATTENTION_MODEL_PATH", "models/multiduration_attention.onnx"),
		AttentionInputName: getEnvOrDefault("ATTENTION_INPUT_NAME", "input_1"),
		AttentionOutput:    getEnvOrDefault("ATTENTION_OUTPUT_NAME", "output_1"),
		AttentionOutRows:   int(parseIntOrDefault("ATTENTION_OUT_ROWS", 240)),
		AttentionOutCols:   int(parseIntOrDefault("ATTENTION_OUT_COLS", 320)),

		TessdataPrefix: getEnvOrDefault("TESSDATA_PREFIX", ""),

		AzureAccountName: getEnvOrDefault("AZURE_ACCOUNT_NAME", ""),
		AzureAccountKey:  getEnvOrDefault("AZURE_ACCOUNT_KEY", ""),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ScreenshotTimeout <= 0 || cfg.MetricTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, screenshot=%s, metric=%s)",
			cfg.RequestTimeout, cfg.ScreenshotTimeout, cfg.MetricTimeout)
	}
	if cfg.AttentionOutRows <= 0 || cfg.AttentionOutCols <= 0 {
		return nil, fmt.Errorf("attention output shape must be positive (got %dx%d)",
			cfg.AttentionOutRows, cfg.AttentionOutCols)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
