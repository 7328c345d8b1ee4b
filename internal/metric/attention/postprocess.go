package attention

import "github.com/MarcWong/aim/internal/imaging"

// postprocessOptions tune the per-slice postprocessing pass.
type postprocessOptions struct {
	// blurSigma softens slice edges before resizing; 0 disables the blur
	// and is the default.
	blurSigma float64
	// rescale stretches intensities so the maximum hits 255.
	rescale bool
}

// PostprocessSlice maps one duration slice from the model's native output
// resolution back onto the original image resolution by inverting the
// letterbox transform: resize the long axis to the original size, then
// center-crop the padding strip away.
func PostprocessSlice(slice imaging.Plane, origW, origH int, opts postprocessOptions) imaging.Plane {
	if opts.blurSigma > 0 {
		slice = slice.GaussianBlur(opts.blurSigma)
	}
	out := imaging.ResizeBack(slice, origW, origH)
	if opts.rescale {
		out = out.Scaled(255)
	}
	return out
}
