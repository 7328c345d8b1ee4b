// Package validation checks execute requests before they reach the
// metric pipeline.
package validation

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// RequestLimits defines configurable bounds for request validation
type RequestLimits struct {
	// MaxImageB64Bytes caps the inline image payload length
	MaxImageB64Bytes int

	// MaxMetrics caps the number of metric IDs per request
	MaxMetrics int
}

// DefaultRequestLimits returns the default request limits
func DefaultRequestLimits() RequestLimits {
	return RequestLimits{
		MaxImageB64Bytes: 20 * 1024 * 1024,
		MaxMetrics:       32,
	}
}

// RequestValidator handles execute request validation logic
type RequestValidator struct {
	limits RequestLimits
}

// NewRequestValidator creates a request validator with default limits
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{limits: DefaultRequestLimits()}
}

// NewRequestValidatorWithLimits creates a request validator with custom limits
func NewRequestValidatorWithLimits(limits RequestLimits) *RequestValidator {
	return &RequestValidator{limits: limits}
}

var metricIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateMetricIDs checks the requested metric ID list.
func (v *RequestValidator) ValidateMetricIDs(ids []string) error {
	if len(ids) > v.limits.MaxMetrics {
		return fmt.Errorf("too many metrics requested: %d (limit %d)", len(ids), v.limits.MaxMetrics)
	}
	for _, id := range ids {
		if !metricIDPattern.MatchString(id) {
			return fmt.Errorf("malformed metric ID %q", id)
		}
	}
	return nil
}

// ValidateImageB64 checks that the inline payload is well-formed Base64
// within limits. Decoding the pixels happens later, in the pipeline.
func (v *RequestValidator) ValidateImageB64(imageB64 string) error {
	if imageB64 == "" {
		return fmt.Errorf("image payload is empty")
	}
	if len(imageB64) > v.limits.MaxImageB64Bytes {
		return fmt.Errorf("image payload exceeds %d bytes", v.limits.MaxImageB64Bytes)
	}
	trimmed := strings.TrimRight(imageB64, "=")
	if _, err := base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(trimmed); err != nil {
		return fmt.Errorf("image payload is not valid Base64: %w", err)
	}
	return nil
}

// ValidateGUIType checks the GUI type discriminator.
func (v *RequestValidator) ValidateGUIType(guiType int) error {
	if guiType != 0 && guiType != 1 {
		return fmt.Errorf("unknown GUI type %d (expected 0 desktop or 1 mobile)", guiType)
	}
	return nil
}

// ValidateURL checks a screenshot URL.
func (v *RequestValidator) ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}
