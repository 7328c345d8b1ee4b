// Package imaging holds the raster utilities shared by every metric:
// Base64 PNG decoding into a canonical RGB raster, PNG re-encoding,
// aspect-preserving letterbox padding and its inverse, float-valued
// heatmap planes, and visualization color ramps.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
)

// DecodeBase64PNG turns a Base64-encoded PNG into the canonical in-memory
// raster every metric consumes. Transparent and semi-transparent pixels are
// flattened onto a white background, matching how GUI screenshots are
// rendered, and the bounds are translated to the origin.
func DecodeBase64PNG(imageB64 string) (*image.RGBA, error) {
	raw, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return Flatten(img), nil
}

// Flatten composites img over a white background into an origin-anchored
// RGBA raster.
func Flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	white := image.NewUniform(color.White)
	draw.Draw(out, out.Bounds(), white, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}

// EncodeBase64PNG re-encodes a raster as a Base64 PNG string, the wire form
// of every image measure.
func EncodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// PNGBytes encodes a raster as raw PNG bytes for callers that talk to
// byte-oriented backends (OCR, blob storage).
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
