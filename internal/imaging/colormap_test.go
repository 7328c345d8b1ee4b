package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGradient_KnownNames(t *testing.T) {
	for _, name := range []string{ColormapViridis, ColormapHot} {
		if _, err := Gradient(name); err != nil {
			t.Errorf("Gradient(%q) failed: %v", name, err)
		}
	}
	if _, err := Gradient("plasma"); err == nil {
		t.Errorf("Expected error for unknown color map")
	}
}

func TestApplyColormap_HotEndpoints(t *testing.T) {
	grad, err := Gradient(ColormapHot)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	p := Plane{W: 2, H: 1, Pix: []float32{0, 1}}
	out := ApplyColormap(p, grad)

	lo := out.RGBAAt(0, 0)
	if lo.R > 10 || lo.G > 10 || lo.B > 10 {
		t.Errorf("Hot ramp at 0 should be black, got %v", lo)
	}
	hi := out.RGBAAt(1, 0)
	if hi.R < 245 || hi.G < 245 || hi.B < 245 {
		t.Errorf("Hot ramp at 1 should be white, got %v", hi)
	}
}

func TestOverlayHeatmap_AlphaFollowsIntensity(t *testing.T) {
	grad, err := Gradient(ColormapHot)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	// Mid-gray source with a heatmap that is zero on the left and maximal
	// on the right.
	src := solidRGBA(2, 1, color.RGBA{100, 100, 100, 255})
	heat := Plane{W: 2, H: 1, Pix: []float32{0, 3}}

	out := OverlayHeatmap(src, heat, grad)

	// Zero intensity: alpha 0, so the source shows through untouched.
	if got := out.RGBAAt(0, 0); got != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("Zero-attention pixel should be the source, got %v", got)
	}
	// Maximal intensity: alpha 1, so the pixel is pure ramp color (white
	// for hot at 1).
	if got := out.RGBAAt(1, 0); got.R < 245 || got.G < 245 || got.B < 245 {
		t.Errorf("Full-attention pixel should be ramp color, got %v", got)
	}
}

func TestOverlayHeatmap_ConstantHeatLeavesSource(t *testing.T) {
	grad, err := Gradient(ColormapHot)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	src := solidRGBA(3, 3, color.RGBA{10, 200, 30, 255})
	heat := NewPlane(3, 3) // constant, normalizes to all zeros

	out := OverlayHeatmap(src, heat, grad)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := out.RGBAAt(x, y); got != src.RGBAAt(x, y) {
				t.Fatalf("Constant heatmap must leave source unchanged at (%d,%d): %v", x, y, got)
			}
		}
	}
}

func TestDecodeBase64PNG_RoundTrip(t *testing.T) {
	src := solidRGBA(5, 4, color.RGBA{12, 34, 56, 255})
	b64, err := EncodeBase64PNG(src)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out, err := DecodeBase64PNG(b64)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 5, 4) {
		t.Fatalf("Expected origin-anchored 5x4 bounds, got %v", out.Bounds())
	}
	if got := out.RGBAAt(2, 2); got != (color.RGBA{12, 34, 56, 255}) {
		t.Errorf("Pixel changed in round trip: %v", got)
	}
}

func TestDecodeBase64PNG_FlattensAlphaOntoWhite(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{0, 0, 0, 0}) // fully transparent

	b64, err := EncodeBase64PNG(src)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := DecodeBase64PNG(b64)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Transparent pixel should flatten to white, got %v", got)
	}
}

func TestDecodeBase64PNG_RejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64PNG("not-base64!!"); err == nil {
		t.Errorf("Expected error for invalid Base64")
	}
	if _, err := DecodeBase64PNG("aGVsbG8gd29ybGQ="); err == nil {
		t.Errorf("Expected error for non-image payload")
	}
}
