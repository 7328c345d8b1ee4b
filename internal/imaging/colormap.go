package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mazznoer/colorgrad"
)

// Color map names are external-interface constants selecting a perceptual
// ramp from a value in [0,1] to a visualization color.
const (
	ColormapViridis = "viridis"
	ColormapHot     = "hot"
)

var hotGradient = mustHotGradient()

// "hot" is the classic black-red-yellow-white ramp; colorgrad ships the
// perceptually uniform maps but not this one, so it is built from its
// anchor colors.
func mustHotGradient() colorgrad.Gradient {
	grad, err := colorgrad.NewGradient().
		HtmlColors("#000000", "#ff0000", "#ffff00", "#ffffff").
		Build()
	if err != nil {
		panic(err)
	}
	return grad
}

// Gradient resolves a color map name to its ramp.
func Gradient(name string) (colorgrad.Gradient, error) {
	switch name {
	case ColormapViridis:
		return colorgrad.Viridis(), nil
	case ColormapHot:
		return hotGradient, nil
	default:
		return colorgrad.Gradient{}, fmt.Errorf("unknown color map %q", name)
	}
}

// ApplyColormap renders a plane through a color ramp into an RGB raster.
// Values are clamped to [0, 1] before lookup.
func ApplyColormap(p Plane, grad colorgrad.Gradient) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			v := float64(p.At(x, y))
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			c := grad.At(v)
			out.SetRGBA(x, y, color.RGBA{
				R: clamp255(c.R * 255),
				G: clamp255(c.G * 255),
				B: clamp255(c.B * 255),
				A: 255,
			})
		}
	}
	return out
}

// OverlayHeatmap composites a heatmap over the original raster. The blend
// alpha is the per-pixel normalized heatmap intensity itself, not a
// constant: high-attention regions become opaque ramp color while
// low-attention regions fall through to the original. The formula
// out = ramp(h)*255*h + src*(1-h) is part of the visual contract and must
// not be replaced with a fixed-alpha blend.
func OverlayHeatmap(src *image.RGBA, heat Plane, grad colorgrad.Gradient) *image.RGBA {
	norm := heat.Normalized()
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var a float64
			if x < norm.W && y < norm.H {
				a = float64(norm.At(x, y))
			}
			c := grad.At(a)
			o := src.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: clamp255(c.R*255*a + float64(o.R)*(1-a)),
				G: clamp255(c.G*255*a + float64(o.G)*(1-a)),
				B: clamp255(c.B*255*a + float64(o.B)*(1-a)),
				A: 255,
			})
		}
	}
	return out
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
