package vipscale

import "math"

// scalingFactor derives the scale-down factor for the requested geometry,
// resolving auto width or height in place on o
func scalingFactor(inWidth, inHeight int, o *Options) float64 {
	switch {
	// Fixed width and height
	case o.Width > 0 && o.Height > 0:
		xf := float64(inWidth) / float64(o.Width)
		yf := float64(inHeight) / float64(o.Height)
		if o.Crop {
			return math.Min(xf, yf)
		}
		return math.Max(xf, yf)
	// Fixed width, auto height
	case o.Width > 0:
		factor := float64(inWidth) / float64(o.Width)
		o.Height = int(math.Floor(float64(inHeight) / factor))
		return factor
	// Fixed height, auto width
	case o.Height > 0:
		factor := float64(inHeight) / float64(o.Height)
		o.Width = int(math.Floor(float64(inWidth) / factor))
		return factor
	// Identity transform
	default:
		o.Width = inWidth
		o.Height = inHeight
		return 1
	}
}

// shrinkOnLoadFactor picks the libjpeg load-time shrink 2, 4 or 8
// covered by the integral shrink, or 1 when none applies
func shrinkOnLoadFactor(shrink int) int {
	switch {
	case shrink >= 8:
		return 8
	case shrink >= 4:
		return 4
	case shrink >= 2:
		return 2
	}
	return 1
}

// gravityOffset returns the top-left offset of an outWidth x outHeight
// window within the input, anchored by gravity
func gravityOffset(inWidth, inHeight, outWidth, outHeight int, gravity Gravity) (left, top int) {
	left = (inWidth - outWidth + 1) / 2
	top = (inHeight - outHeight + 1) / 2

	if gravity&North != 0 {
		top = 0
	}
	if gravity&East != 0 {
		left = inWidth - outWidth
	}
	if gravity&South != 0 {
		top = inHeight - outHeight
	}
	if gravity&West != 0 {
		left = 0
	}
	return
}

// clampCrop clips the crop rectangle against the image bounds.
// Returns nil when the offset falls entirely outside the image.
func clampCrop(inWidth, inHeight int, crop *CropRect) *CropRect {
	if crop == nil {
		return nil
	}
	if crop.Top > inHeight || crop.Left > inWidth ||
		crop.Top < 0 || crop.Left < 0 {
		return nil
	}
	c := *crop
	if c.Left+c.Width > inWidth {
		c.Width = inWidth - c.Left
	}
	if c.Top+c.Height > inHeight {
		c.Height = inHeight - c.Top
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil
	}
	return &c
}
