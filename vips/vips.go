package vips

// #include "vips.h"
import "C"
import (
	"runtime"
	"unsafe"
)

// https://www.libvips.org/API/current/VipsForeignSave.html#vips-jpegload-buffer
func vipsJpegloadBufferSeq(buf []byte) (*C.VipsImage, error) {
	src := buf
	// Reference src here so it's not garbage collected during image initialization.
	defer runtime.KeepAlive(src)

	var out *C.VipsImage
	if code := C.jpegload_buffer_seq(unsafe.Pointer(&src[0]), C.size_t(len(src)), &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsJpegloadBufferShrink(buf []byte, shrink int) (*C.VipsImage, error) {
	src := buf
	defer runtime.KeepAlive(src)

	var out *C.VipsImage
	if code := C.jpegload_buffer_shrink(unsafe.Pointer(&src[0]), C.size_t(len(src)), &out, C.int(shrink)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsPngloadBufferSeq(buf []byte) (*C.VipsImage, error) {
	src := buf
	defer runtime.KeepAlive(src)

	var out *C.VipsImage
	if code := C.pngload_buffer_seq(unsafe.Pointer(&src[0]), C.size_t(len(src)), &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

// https://www.libvips.org/API/current/VipsForeignSave.html#vips-magickload
func vipsMagickloadFile(filename string) (*C.VipsImage, error) {
	cFileName := C.CString(filename)
	defer freeCString(cFileName)

	var out *C.VipsImage
	if code := C.magickload_file(cFileName, &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsImageFromMemory(buf []byte, width, height, bands int) (*C.VipsImage, error) {
	src := buf
	defer runtime.KeepAlive(src)

	var out *C.VipsImage
	if code := C.image_new_from_memory(unsafe.Pointer(&src[0]), C.size_t(len(src)),
		C.int(width), C.int(height), C.int(bands), &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsShrink(in *C.VipsImage, xshrink, yshrink float64) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.shrink_image(in, &out, C.double(xshrink), C.double(yshrink)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsCopyImage(in *C.VipsImage) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.copy_image(in, &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

// vipsFlattenWhite binds vips_flatten with a white background array that is
// allocated and released within this single call.
func vipsFlattenWhite(in *C.VipsImage) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.flatten_image_white(in, &out); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsEmbedExtend(in *C.VipsImage, left, top, width, height int, extend Extend) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.embed_image_extend(in, &out, C.int(left), C.int(top),
		C.int(width), C.int(height), C.int(extend)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsToColorspace(in *C.VipsImage, interpretation Interpretation) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.to_colorspace(in, &out, C.VipsInterpretation(interpretation)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsExtractArea(in *C.VipsImage, left, top, width, height int) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.extract_image_area(in, &out, C.int(left), C.int(top),
		C.int(width), C.int(height)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsGaussianBlur(in *C.VipsImage, sigma float64) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.gaussian_blur_image(in, &out, C.double(sigma)); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsAffineInterpolate(in *C.VipsImage, a, b, c, d float64, interpolate *Interpolate) (*C.VipsImage, error) {
	var out *C.VipsImage
	if code := C.affine_interpolate(in, &out, C.double(a), C.double(b), C.double(c), C.double(d),
		interpolate.interpolate); code != 0 {
		return nil, handleImageError(out)
	}
	return out, nil
}

func vipsHasAlpha(in *C.VipsImage) bool {
	return int(C.has_alpha_channel(in)) > 0
}
