package segmentation

import (
	"image"
	"image/color"
	"testing"
)

func canvasWithBox(w, h int, box image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{255, 255, 255, 255}
	fg := color.RGBA{30, 30, 30, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			img.SetRGBA(x, y, fg)
		}
	}
	return img
}

func TestExtractRegions_FindsDarkRectangle(t *testing.T) {
	box := image.Rect(20, 30, 80, 60)
	regions := ExtractRegions(canvasWithBox(200, 150, box))

	if len(regions) == 0 {
		t.Fatalf("Expected at least one region")
	}

	found := false
	for _, r := range regions {
		// The detected edge contour hugs the rectangle border; allow a
		// couple pixels of slack.
		if abs(r.Bounds.Min.X-box.Min.X) <= 2 && abs(r.Bounds.Min.Y-box.Min.Y) <= 2 &&
			abs(r.Bounds.Max.X-box.Max.X) <= 2 && abs(r.Bounds.Max.Y-box.Max.Y) <= 2 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("No region matches the drawn rectangle; got %+v", regions)
	}
}

func TestExtractRegions_BlankCanvas(t *testing.T) {
	img := canvasWithBox(100, 100, image.Rect(0, 0, 0, 0))
	if regions := ExtractRegions(img); len(regions) != 0 {
		t.Errorf("Blank canvas should yield no regions, got %d", len(regions))
	}
}

func TestExtractRegions_TinyImageNoPanic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if regions := ExtractRegions(img); regions != nil {
		t.Errorf("1x1 image should yield nil regions, got %+v", regions)
	}
}

func TestExtractRegions_DropsSpecks(t *testing.T) {
	// A 2x2 blob is below the minimum area and must be filtered out.
	img := canvasWithBox(100, 100, image.Rect(50, 50, 52, 52))
	for _, r := range ExtractRegions(img) {
		if r.Bounds.Dx() < 5 && r.Bounds.Dy() < 5 {
			t.Errorf("Speck survived filtering: %+v", r)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestHeuristicClassifier(t *testing.T) {
	c := NewHeuristicClassifier()
	tests := []struct {
		name   string
		region Region
		want   string
	}{
		{"small square is icon", Region{Bounds: image.Rect(0, 0, 32, 32), Fill: 0.5}, ClassIcon},
		{"wide shallow box is button", Region{Bounds: image.Rect(0, 0, 200, 48), Fill: 0.3}, ClassButton},
		{"large dense box is image", Region{Bounds: image.Rect(0, 0, 400, 300), Fill: 0.5}, ClassImage},
		{"large sparse box is block", Region{Bounds: image.Rect(0, 0, 400, 300), Fill: 0.05}, ClassBlock},
		{"degenerate box is block", Region{Bounds: image.Rect(0, 0, 0, 10)}, ClassBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.region); got != tt.want {
				t.Errorf("Classify(%+v) = %s, want %s", tt.region, got, tt.want)
			}
		})
	}
}

func TestDedupeTextBoxes(t *testing.T) {
	tests := []struct {
		name string
		in   []TextBox
		want int
	}{
		{
			name: "identical overlapping words collapse",
			in: []TextBox{
				{Box: image.Rect(0, 0, 50, 20), Word: "Submit", Confidence: 80},
				{Box: image.Rect(1, 1, 51, 21), Word: "Submit", Confidence: 90},
			},
			want: 1,
		},
		{
			name: "edit distance one collapses",
			in: []TextBox{
				{Box: image.Rect(0, 0, 50, 20), Word: "Submit", Confidence: 80},
				{Box: image.Rect(0, 0, 50, 20), Word: "Submlt", Confidence: 70},
			},
			want: 1,
		},
		{
			name: "distinct words in distinct places survive",
			in: []TextBox{
				{Box: image.Rect(0, 0, 50, 20), Word: "Cancel", Confidence: 80},
				{Box: image.Rect(100, 0, 150, 20), Word: "Submit", Confidence: 80},
			},
			want: 2,
		},
		{
			name: "same word far apart survives",
			in: []TextBox{
				{Box: image.Rect(0, 0, 50, 20), Word: "OK", Confidence: 80},
				{Box: image.Rect(200, 200, 250, 220), Word: "OK", Confidence: 80},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeTextBoxes(tt.in)
			if len(got) != tt.want {
				t.Errorf("Expected %d boxes, got %d: %+v", tt.want, len(got), got)
			}
		})
	}
}

func TestDedupeTextBoxes_KeepsHigherConfidence(t *testing.T) {
	got := DedupeTextBoxes([]TextBox{
		{Box: image.Rect(0, 0, 50, 20), Word: "Login", Confidence: 60},
		{Box: image.Rect(0, 0, 50, 20), Word: "Login", Confidence: 95},
	})
	if len(got) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(got))
	}
	if got[0].Confidence != 95 {
		t.Errorf("Higher-confidence detection should win, got %v", got[0].Confidence)
	}
}
