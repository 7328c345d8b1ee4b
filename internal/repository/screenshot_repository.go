// Package repository resolves screenshot references into Base64 PNG
// payloads that the metric pipeline consumes.
package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"strings"

	"github.com/MarcWong/aim/internal/storage"
)

// ErrInvalidScreenshotURL is returned when a screenshot URL fails validation.
var ErrInvalidScreenshotURL = errors.New("invalid screenshot URL")

// ScreenshotRepository fetches a screenshot by URL and returns it as a
// Base64 PNG string.
type ScreenshotRepository interface {
	FetchScreenshotB64(ctx context.Context, screenshotURL string) (string, error)
	ValidateScreenshotURL(screenshotURL string) error
}

// FetchingRepository routes blob-storage URLs to BlobStorage and
// everything else to the HTTP fetcher. Either backend may be nil.
type FetchingRepository struct {
	fetcher storage.ScreenshotFetcher
	blobs   storage.BlobStorage
}

func NewFetchingRepository(fetcher storage.ScreenshotFetcher, blobs storage.BlobStorage) *FetchingRepository {
	return &FetchingRepository{fetcher: fetcher, blobs: blobs}
}

func (r *FetchingRepository) FetchScreenshotB64(ctx context.Context, screenshotURL string) (string, error) {
	if err := r.ValidateScreenshotURL(screenshotURL); err != nil {
		return "", err
	}

	var (
		data []byte
		err  error
	)
	if r.blobs != nil && isBlobURL(screenshotURL) {
		data, err = r.blobs.GetScreenshot(ctx, screenshotURL)
	} else {
		data, err = r.fetcher.FetchScreenshot(ctx, screenshotURL)
	}
	if err != nil {
		return "", err
	}

	// Screenshots may arrive as JPEG; the pipeline expects PNG.
	data, err = ensurePNG(data)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

func (r *FetchingRepository) ValidateScreenshotURL(screenshotURL string) error {
	if screenshotURL == "" {
		return ErrInvalidScreenshotURL
	}
	parsed, err := url.Parse(screenshotURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidScreenshotURL
	}
	return nil
}

func isBlobURL(screenshotURL string) bool {
	parsed, err := url.Parse(screenshotURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}

// ensurePNG re-encodes non-PNG payloads. PNG payloads pass through
// untouched so round-trips stay byte exact.
func ensurePNG(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
