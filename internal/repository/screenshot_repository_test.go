package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MarcWong/aim/internal/storage"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestFetchScreenshotB64_PNGPassesThroughByteExact(t *testing.T) {
	pngData := encodePNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	repo := NewFetchingRepository(storage.NewHTTPScreenshotFetcher(10*time.Second, 1<<20), nil)

	b64, err := repo.FetchScreenshotB64(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchScreenshotB64 failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("Result is not valid Base64: %v", err)
	}
	if !bytes.Equal(decoded, pngData) {
		t.Errorf("PNG payload must pass through byte exact")
	}
}

func TestFetchScreenshotB64_JPEGReencodedAsPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	repo := NewFetchingRepository(storage.NewHTTPScreenshotFetcher(10*time.Second, 1<<20), nil)

	b64, err := repo.FetchScreenshotB64(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchScreenshotB64 failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("Result is not valid Base64: %v", err)
	}
	if !bytes.HasPrefix(decoded, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("JPEG payload should be re-encoded as PNG")
	}
}

func TestValidateScreenshotURL(t *testing.T) {
	repo := NewFetchingRepository(nil, nil)
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/a.png", false},
		{"http://example.com/a.png", false},
		{"", true},
		{"ftp://example.com/a.png", true},
		{"https://", true},
	}
	for _, tt := range tests {
		err := repo.ValidateScreenshotURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateScreenshotURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
