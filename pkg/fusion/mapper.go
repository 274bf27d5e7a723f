package fusion

import (
	"math"
)

// DepthThreshold is the fractional margin near alpha = 0 or 1 within which
// pixels are treated as background or grazing edge samples and rejected.
const DepthThreshold = 0.05

// PixelSample is one decoded pixel of a view image: (u,v) position within
// the image and the normalized channel quadruple in [0,1]
type PixelSample struct {
	U, V       int
	R, G, B, A float64
}

// Observation is a candidate voxel contribution derived from one pixel.
// Every observation carries an implicit weight of 1: each passing pixel
// contributes equally regardless of its alpha value.
type Observation struct {
	X, Y, Z int
	R, G, B float64
}

// MapPixel maps one pixel sample of the given view onto the cubic grid of
// the given size. It returns the observation and true when the pixel passes
// the depth threshold, or a zero observation and false when the pixel is
// background or an edge sample.
//
// The depth is recovered from the alpha channel as depth = 1 - a, and the
// primary axis coordinate is round(depth * (size-1)). The remaining two
// axes come from (u,v) through the view's permutation rule.
func MapPixel(view View, size int, s PixelSample) (Observation, bool) {
	depth := 1.0 - s.A
	if depth < DepthThreshold || depth > 1.0-DepthThreshold {
		return Observation{}, false
	}

	primary := int(math.Round(depth * float64(size-1)))
	rules := viewRules[view]

	return Observation{
		X: rules[0].apply(primary, s.U, s.V, size),
		Y: rules[1].apply(primary, s.U, s.V, size),
		Z: rules[2].apply(primary, s.U, s.V, size),
		R: s.R,
		G: s.G,
		B: s.B,
	}, true
}
