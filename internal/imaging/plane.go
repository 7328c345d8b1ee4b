package imaging

import "math"

// Plane is a float-valued 2-D field, the working form of an attention
// heatmap before visualization. Values are unconstrained until explicitly
// normalized.
type Plane struct {
	W, H int
	Pix  []float32 // row-major, len = W*H
}

// NewPlane returns a zero-filled plane. Negative dimensions collapse to 0.
func NewPlane(w, h int) Plane {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Plane{W: w, H: h, Pix: make([]float32, w*h)}
}

// At returns the value at (x, y) without bounds checking.
func (p Plane) At(x, y int) float32 {
	return p.Pix[y*p.W+x]
}

// Set writes the value at (x, y) without bounds checking.
func (p Plane) Set(x, y int, v float32) {
	p.Pix[y*p.W+x] = v
}

// MinMax returns the smallest and largest values in the plane.
func (p Plane) MinMax() (float32, float32) {
	if len(p.Pix) == 0 {
		return 0, 0
	}
	lo, hi := p.Pix[0], p.Pix[0]
	for _, v := range p.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalized rescales the plane to [0, 1] via min-max scaling. A constant
// plane maps to all zeros rather than dividing by zero.
func (p Plane) Normalized() Plane {
	out := NewPlane(p.W, p.H)
	lo, hi := p.MinMax()
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range p.Pix {
		out.Pix[i] = (v - lo) / span
	}
	return out
}

// Scaled multiplies every value so the maximum becomes limit, the
// [0, 255] intensity rescale used for standalone heatmap export. A
// non-positive maximum leaves the plane zeroed.
func (p Plane) Scaled(limit float32) Plane {
	out := NewPlane(p.W, p.H)
	_, hi := p.MinMax()
	if hi <= 0 {
		return out
	}
	for i, v := range p.Pix {
		out.Pix[i] = v / hi * limit
	}
	return out
}

// Resize bilinearly samples the plane into a w x h plane.
func (p Plane) Resize(w, h int) Plane {
	out := NewPlane(w, h)
	if p.W == 0 || p.H == 0 || w == 0 || h == 0 {
		return out
	}
	xRatio := float64(p.W) / float64(w)
	yRatio := float64(p.H) / float64(h)
	for y := 0; y < h; y++ {
		sy := (float64(y)+0.5)*yRatio - 0.5
		y0 := int(math.Floor(sy))
		fy := sy - float64(y0)
		y1 := y0 + 1
		if y0 < 0 {
			y0, y1, fy = 0, 0, 0
		}
		if y1 >= p.H {
			y1 = p.H - 1
		}
		if y0 >= p.H {
			y0 = p.H - 1
		}
		for x := 0; x < w; x++ {
			sx := (float64(x)+0.5)*xRatio - 0.5
			x0 := int(math.Floor(sx))
			fx := sx - float64(x0)
			x1 := x0 + 1
			if x0 < 0 {
				x0, x1, fx = 0, 0, 0
			}
			if x1 >= p.W {
				x1 = p.W - 1
			}
			if x0 >= p.W {
				x0 = p.W - 1
			}
			top := float64(p.At(x0, y0))*(1-fx) + float64(p.At(x1, y0))*fx
			bot := float64(p.At(x0, y1))*(1-fx) + float64(p.At(x1, y1))*fx
			out.Set(x, y, float32(top*(1-fy)+bot*fy))
		}
	}
	return out
}

// CropX keeps cols columns starting at off.
func (p Plane) CropX(off, cols int) Plane {
	if off < 0 {
		off = 0
	}
	if off+cols > p.W {
		cols = p.W - off
	}
	out := NewPlane(cols, p.H)
	for y := 0; y < p.H; y++ {
		copy(out.Pix[y*cols:(y+1)*cols], p.Pix[y*p.W+off:y*p.W+off+cols])
	}
	return out
}

// CropY keeps rows rows starting at off.
func (p Plane) CropY(off, rows int) Plane {
	if off < 0 {
		off = 0
	}
	if off+rows > p.H {
		rows = p.H - off
	}
	out := NewPlane(p.W, rows)
	copy(out.Pix, p.Pix[off*p.W:(off+rows)*p.W])
	return out
}

// GaussianBlur applies a separable Gaussian with the given sigma, the
// optional edge-softening pass over a prediction slice. Sigma <= 0 returns
// the plane unchanged.
func (p Plane) GaussianBlur(sigma float64) Plane {
	if sigma <= 0 || p.W == 0 || p.H == 0 {
		return p
	}
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var acc float64
			for i, k := range kernel {
				sx := x + i - radius
				if sx < 0 {
					sx = 0
				}
				if sx >= p.W {
					sx = p.W - 1
				}
				acc += k * float64(p.At(sx, y))
			}
			tmp.Set(x, y, float32(acc))
		}
	}
	out := NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var acc float64
			for i, k := range kernel {
				sy := y + i - radius
				if sy < 0 {
					sy = 0
				}
				if sy >= p.H {
					sy = p.H - 1
				}
				acc += k * float64(tmp.At(x, sy))
			}
			out.Set(x, y, float32(acc))
		}
	}
	return out
}
