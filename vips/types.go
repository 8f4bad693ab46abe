package vips

// #include "vips.h"
import "C"
import "bytes"

// ImageType represents an image type
type ImageType int

// ImageType enum
const (
	ImageTypeUnknown ImageType = iota
	ImageTypeJPEG
	ImageTypePNG
	ImageTypeBMP
	ImageTypeMagick
)

// ImageTypes defines the various image types supported by the shim
var ImageTypes = map[ImageType]string{
	ImageTypeJPEG:   "jpeg",
	ImageTypePNG:    "png",
	ImageTypeBMP:    "bmp",
	ImageTypeMagick: "magick",
}

var (
	markerJPEG = []byte{0xff, 0xd8}
	markerPNG  = []byte{0x89, 0x50}
	markerBMP  = []byte("BM")
)

// DetermineImageType sniffs the image type from the leading magic bytes of buf
func DetermineImageType(buf []byte) ImageType {
	if len(buf) < 2 {
		return ImageTypeUnknown
	}
	switch {
	case bytes.Equal(buf[:2], markerJPEG):
		return ImageTypeJPEG
	case bytes.Equal(buf[:2], markerPNG):
		return ImageTypePNG
	case bytes.Equal(buf[:2], markerBMP):
		return ImageTypeBMP
	}
	return ImageTypeUnknown
}

// Interpretation represents a libvips colour space interpretation
type Interpretation int

// Interpretation enum
const (
	InterpretationError     Interpretation = C.VIPS_INTERPRETATION_ERROR
	InterpretationMultiband Interpretation = C.VIPS_INTERPRETATION_MULTIBAND
	InterpretationBW        Interpretation = C.VIPS_INTERPRETATION_B_W
	InterpretationCMYK      Interpretation = C.VIPS_INTERPRETATION_CMYK
	InterpretationRGB       Interpretation = C.VIPS_INTERPRETATION_RGB
	InterpretationSRGB      Interpretation = C.VIPS_INTERPRETATION_sRGB
	InterpretationLAB       Interpretation = C.VIPS_INTERPRETATION_LAB
	InterpretationXYZ       Interpretation = C.VIPS_INTERPRETATION_XYZ
	InterpretationGrey16    Interpretation = C.VIPS_INTERPRETATION_GREY16
	InterpretationRGB16     Interpretation = C.VIPS_INTERPRETATION_RGB16
	InterpretationScRGB     Interpretation = C.VIPS_INTERPRETATION_scRGB
	InterpretationHSV       Interpretation = C.VIPS_INTERPRETATION_HSV
)

// Extend represents a libvips edge extension policy for embed
type Extend int

// Extend enum
const (
	ExtendBlack      Extend = C.VIPS_EXTEND_BLACK
	ExtendCopy       Extend = C.VIPS_EXTEND_COPY
	ExtendRepeat     Extend = C.VIPS_EXTEND_REPEAT
	ExtendMirror     Extend = C.VIPS_EXTEND_MIRROR
	ExtendWhite      Extend = C.VIPS_EXTEND_WHITE
	ExtendBackground Extend = C.VIPS_EXTEND_BACKGROUND
)
