package colorcluster

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/metric"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func b64Of(t *testing.T, img *image.RGBA) string {
	t.Helper()
	b64, err := imaging.EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return b64
}

func TestDynamicClusters_SolidColor(t *testing.T) {
	img := solid(50, 50, color.RGBA{255, 0, 0, 255})
	cs := DynamicClusters(img, ParamsFor(metric.Desktop))

	if len(cs) != 1 {
		t.Fatalf("Expected 1 cluster for a solid image, got %d", len(cs))
	}
	if cs[0].DistinctColors != 1 {
		t.Errorf("Expected 1 distinct color, got %d", cs[0].DistinctColors)
	}
	if cs[0].Pixels != 2500 {
		t.Errorf("Expected 2500 pixels, got %d", cs[0].Pixels)
	}
	if cs[0].R != 255 || cs[0].G != 0 || cs[0].B != 0 {
		t.Errorf("Cluster center drifted: (%v, %v, %v)", cs[0].R, cs[0].G, cs[0].B)
	}
}

func TestDynamicClusters_ThresholdDropsRareColors(t *testing.T) {
	// 3 red pixels on a 10x10 white canvas: red covers <= 5 pixels, so a
	// desktop profile (threshold 5) drops it entirely.
	img := solid(10, 10, color.RGBA{255, 255, 255, 255})
	for i := 0; i < 3; i++ {
		img.SetRGBA(i, 0, color.RGBA{255, 0, 0, 255})
	}

	cs := DynamicClusters(img, ParamsFor(metric.Desktop))
	if len(cs) != 1 {
		t.Fatalf("Expected only the white cluster, got %d clusters", len(cs))
	}

	// The mobile profile (threshold 2) keeps 3-pixel colors.
	cs = DynamicClusters(img, ParamsFor(metric.Mobile))
	total := 0
	for _, c := range cs {
		total += c.DistinctColors
	}
	if total != 2 {
		t.Errorf("Mobile profile should keep both colors, got %d distinct", total)
	}
}

func TestDynamicClusters_NearbyShadesMerge(t *testing.T) {
	// Two barely distinguishable reds land in one cluster with two
	// distinct source colors.
	img := solid(20, 20, color.RGBA{200, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetRGBA(x, y, color.RGBA{203, 0, 0, 255})
		}
	}

	cs := DynamicClusters(img, ParamsFor(metric.Desktop))
	if len(cs) != 1 {
		t.Fatalf("Expected shades to merge into 1 cluster, got %d", len(cs))
	}
	if cs[0].DistinctColors != 2 {
		t.Errorf("Expected 2 distinct colors absorbed, got %d", cs[0].DistinctColors)
	}
}

func TestDynamicClusters_Deterministic(t *testing.T) {
	img := solid(40, 40, color.RGBA{10, 20, 30, 255})
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			img.SetRGBA(x, y, color.RGBA{250, 240, 230, 255})
		}
	}

	first := DynamicClusters(img, ParamsFor(metric.Desktop))
	for i := 0; i < 5; i++ {
		again := DynamicClusters(img, ParamsFor(metric.Desktop))
		if len(again) != len(first) {
			t.Fatalf("Cluster count varied between runs: %d vs %d", len(again), len(first))
		}
	}
}

func TestMetric_RatioSolidColor(t *testing.T) {
	m := New()
	in := &metric.Input{ImageB64: b64Of(t, solid(50, 50, color.RGBA{0, 128, 255, 255})), GUIType: metric.Desktop}

	got, err := m.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 measure, got %d", len(got))
	}
	if got[0].Kind != metric.KindNumber || got[0].Number != 1 {
		t.Errorf("Solid image should score ratio 1, got %+v", got[0])
	}
}

func TestMetric_ZeroClustersYieldsZeroRatio(t *testing.T) {
	// A tiny all-distinct image: every color covers exactly 1 pixel, below
	// both thresholds, so zero clusters form. That is a ratio of 0, not an
	// error.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	img.SetRGBA(1, 0, color.RGBA{4, 5, 6, 255})
	img.SetRGBA(0, 1, color.RGBA{7, 8, 9, 255})
	img.SetRGBA(1, 1, color.RGBA{10, 11, 12, 255})

	m := New()
	got, err := m.Execute(context.Background(), &metric.Input{ImageB64: b64Of(t, img), GUIType: metric.Desktop})
	if err != nil {
		t.Fatalf("Zero clusters must not be an error, got: %v", err)
	}
	if len(got) != 1 || got[0].Number != 0 {
		t.Errorf("Expected ratio 0, got %+v", got)
	}
}

func TestMetric_InvalidImage(t *testing.T) {
	m := New()
	if _, err := m.Execute(context.Background(), &metric.Input{ImageB64: "@@@"}); err == nil {
		t.Errorf("Expected error for undecodable payload")
	}
}
