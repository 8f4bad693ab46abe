package vips

// #include "vips.h"
import "C"
import (
	"errors"
	"unsafe"
)

// ErrUnsupportedImageFormat when no loader matches the buffer magic bytes
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// JpegExportParams are options when exporting a JPEG to buffer.
// Optimized coding is always on; the remaining libvips save options
// stay at their defaults.
type JpegExportParams struct {
	StripMetadata bool
	Quality       int
	Interlace     bool
}

// NewJpegExportParams creates default values for an export of a JPEG image.
func NewJpegExportParams() *JpegExportParams {
	return &JpegExportParams{
		Quality: 80,
	}
}

// https://www.libvips.org/API/current/VipsForeignSave.html#vips-jpegsave-buffer
func vipsSaveJPEGToBuffer(in *C.VipsImage, params JpegExportParams) ([]byte, error) {
	var ptr unsafe.Pointer
	length := C.size_t(0)

	code := C.jpegsave_buffer_custom(in, &ptr, &length,
		C.int(boolToInt(params.StripMetadata)),
		C.int(params.Quality),
		C.int(boolToInt(params.Interlace)))
	if code != 0 {
		if ptr != nil {
			gFreePointer(ptr)
		}
		return nil, handleVipsError()
	}

	buf := C.GoBytes(ptr, C.int(length))
	gFreePointer(ptr)

	return buf, nil
}
