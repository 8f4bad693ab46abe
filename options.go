package vipscale

import "github.com/cshum/vipscale/vips"

// Interpolator represents a named libvips resampling strategy
type Interpolator int

// Interpolator enum
const (
	Bicubic Interpolator = iota
	Bilinear
	Nohalo
)

var interpolations = map[Interpolator]string{
	Bicubic:  vips.KernelBicubic,
	Bilinear: vips.KernelBilinear,
	Nohalo:   vips.KernelNohalo,
}

func (i Interpolator) String() string {
	return interpolations[i]
}

// Gravity controls the anchoring of a gravity crop
type Gravity int

// Gravity flags, combinable e.g. North|East
const (
	Centre Gravity = 1 << iota
	North
	East
	South
	West
)

// CropRect is a rectangular crop by top-left offset and explicit geometry
type CropRect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Options for a single resize operation
type Options struct {
	Width        int
	Height       int
	Crop         bool // gravity crop to exact Width x Height
	CropRect     *CropRect
	Enlarge      bool
	Embed        bool
	Extend       vips.Extend
	Gravity      Gravity
	Interpolator Interpolator
	BlurSigma    float64
	Quality      int
	Interlace    bool
	KeepMetadata bool
}
