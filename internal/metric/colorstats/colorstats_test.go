package colorstats

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/MarcWong/aim/internal/imaging"
	"github.com/MarcWong/aim/internal/metric"
)

func solidB64(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	b64, err := imaging.EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return b64
}

func checkerB64(t *testing.T, w, h int, a, b color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	b64, err := imaging.EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return b64
}

func TestLuminanceSD_SolidIsZero(t *testing.T) {
	m := NewLuminanceSD()
	got, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: solidB64(t, 10, 10, color.RGBA{42, 42, 42, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 1 || got[0].Number != 0 {
		t.Errorf("Solid image should have zero luminance SD, got %+v", got)
	}
}

func TestLuminanceSD_Checkerboard(t *testing.T) {
	// Half black, half white: luma values 0 and 255, population SD 127.5.
	m := NewLuminanceSD()
	got, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: checkerB64(t, 10, 10, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if math.Abs(got[0].Number-127.5) > 0.01 {
		t.Errorf("Expected SD 127.5, got %v", got[0].Number)
	}
}

func TestColorfulness_GrayIsZero(t *testing.T) {
	m := NewColorfulness()
	got, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: solidB64(t, 8, 8, color.RGBA{128, 128, 128, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got[0].Number != 0 {
		t.Errorf("Gray image should be entirely uncolorful, got %v", got[0].Number)
	}
}

func TestColorfulness_OpponentContrastScoresHigher(t *testing.T) {
	m := NewColorfulness()

	dull, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: checkerB64(t, 10, 10, color.RGBA{120, 120, 120, 255}, color.RGBA{136, 136, 136, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	vivid, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: checkerB64(t, 10, 10, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if vivid[0].Number <= dull[0].Number {
		t.Errorf("Red/blue checkerboard (%v) should outscore gray checkerboard (%v)",
			vivid[0].Number, dull[0].Number)
	}
}

func TestDistinctHSV_SolidColor(t *testing.T) {
	m := NewDistinctHSV()
	got, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: solidB64(t, 10, 10, color.RGBA{255, 0, 0, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 measures (H, S, V counts), got %d", len(got))
	}
	for i, measure := range got {
		if measure.Number != 1 {
			t.Errorf("Measure %d: solid image should have exactly 1 level, got %v", i, measure.Number)
		}
	}
}

func TestDistinctHSV_TwoHues(t *testing.T) {
	m := NewDistinctHSV()
	got, err := m.Execute(context.Background(), &metric.Input{
		ImageB64: checkerB64(t, 10, 10, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 0, 255}),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got[0].Number != 2 {
		t.Errorf("Expected 2 distinct hues, got %v", got[0].Number)
	}
	// Both colors are fully saturated and fully bright.
	if got[1].Number != 1 || got[2].Number != 1 {
		t.Errorf("Expected 1 saturation and 1 value level, got %v and %v", got[1].Number, got[2].Number)
	}
}

func TestColorstats_InvalidImage(t *testing.T) {
	for _, m := range []metric.Metric{NewLuminanceSD(), NewColorfulness(), NewDistinctHSV()} {
		if _, err := m.Execute(context.Background(), &metric.Input{ImageB64: "!!"}); err == nil {
			t.Errorf("%s: expected error for undecodable payload", m.ID())
		}
	}
}
