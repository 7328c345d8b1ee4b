package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ScreenshotFetcher downloads a page screenshot and returns the raw
// encoded bytes. Callers decode; the fetcher never interprets pixels.
type ScreenshotFetcher interface {
	FetchScreenshot(ctx context.Context, screenshotURL string) ([]byte, error)
}

// HTTPScreenshotFetcher implements ScreenshotFetcher over plain HTTP(S).
type HTTPScreenshotFetcher struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPScreenshotFetcher creates an HTTP screenshot fetcher. maxSize
// caps the download in bytes.
func NewHTTPScreenshotFetcher(timeout time.Duration, maxSize int64) ScreenshotFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		// Screenshot hosts frequently serve self-signed certs.
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPScreenshotFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxSize: maxSize,
	}
}

func (h *HTTPScreenshotFetcher) FetchScreenshot(ctx context.Context, screenshotURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", screenshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/png, image/jpeg, */*")
	req.Header.Set("User-Agent", "AIM-Metrics/1.0")

	// Retry transient failures; 4xx responses are final.
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			func() {
				defer resp.Body.Close()
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
					return
				}
				if resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
				}
			}()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
		}

		if attempt < 2 && (err != nil || (resp != nil && resp.StatusCode >= 500)) {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}

		if resp != nil && (err != nil || resp.StatusCode != http.StatusOK) {
			resp = nil
		}
	}

	if resp == nil || (err == nil && resp.StatusCode != http.StatusOK) {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch screenshot after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch screenshot after 3 attempts: unknown error")
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot body: %w", err)
	}
	if int64(len(data)) > h.maxSize {
		return nil, fmt.Errorf("screenshot exceeds %d byte limit", h.maxSize)
	}

	return data, nil
}
