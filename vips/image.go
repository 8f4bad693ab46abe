package vips

// #include "vips.h"
import "C"

import (
	"runtime"
	"sync"
)

// Image contains a libvips image and manages its lifecycle.
type Image struct {
	// NOTE: We keep a reference to this so that the input buffer is
	// never garbage collected during processing. The sequential-access
	// loaders stream from the original buffer while operations pull pixels.
	buf    []byte
	image  *C.VipsImage
	format ImageType
	lock   sync.Mutex
}

// ImageMetadata is a data structure holding the width, height and other metadata of the picture.
type ImageMetadata struct {
	Format     ImageType
	Width      int
	Height     int
	Bands      int
	Colorspace Interpretation
}

// LoadImageFromBuffer loads an image buffer and creates a new Image.
// JPEG and PNG sources decode with the sequential access hint to favour
// streaming and low memory use.
func LoadImageFromBuffer(buf []byte) (*Image, error) {
	startupIfNeeded()

	var (
		vipsImage *C.VipsImage
		err       error
	)
	format := DetermineImageType(buf)
	switch format {
	case ImageTypeJPEG:
		vipsImage, err = vipsJpegloadBufferSeq(buf)
	case ImageTypePNG:
		vipsImage, err = vipsPngloadBufferSeq(buf)
	case ImageTypeBMP:
		return loadImageFromBMP(buf)
	default:
		return nil, ErrUnsupportedImageFormat
	}
	if err != nil {
		return nil, err
	}
	return newImageRef(vipsImage, format, buf), nil
}

// LoadImageFromBufferShrink loads a JPEG buffer with the libjpeg
// shrink-on-load factor applied during decode
func LoadImageFromBufferShrink(buf []byte, shrink int) (*Image, error) {
	startupIfNeeded()

	if DetermineImageType(buf) != ImageTypeJPEG {
		return nil, ErrUnsupportedImageFormat
	}
	vipsImage, err := vipsJpegloadBufferShrink(buf, shrink)
	if err != nil {
		return nil, err
	}
	return newImageRef(vipsImage, ImageTypeJPEG, buf), nil
}

// ReloadShrink reloads the retained source buffer with the libjpeg
// shrink-on-load factor applied during decode, replacing the current handle
func (r *Image) ReloadShrink(shrink int) error {
	if r.format != ImageTypeJPEG || r.buf == nil {
		return ErrUnsupportedImageFormat
	}
	out, err := vipsJpegloadBufferShrink(r.buf, shrink)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// LoadImageFromFile loads an image from file through the generic magick
// loader, covering the legacy formats libvips has no native loader for
func LoadImageFromFile(file string) (*Image, error) {
	startupIfNeeded()

	vipsImage, err := vipsMagickloadFile(file)
	if err != nil {
		return nil, err
	}
	return newImageRef(vipsImage, ImageTypeMagick, nil), nil
}

// LoadImageFromMemory loads a raw 8-bit pixel buffer of the given geometry
func LoadImageFromMemory(buf []byte, width, height, bands int) (*Image, error) {
	startupIfNeeded()

	vipsImage, err := vipsImageFromMemory(buf, width, height, bands)
	if err != nil {
		return nil, err
	}
	return newImageRef(vipsImage, ImageTypeUnknown, buf), nil
}

func newImageRef(vipsImage *C.VipsImage, format ImageType, buf []byte) *Image {
	imageRef := &Image{
		image:  vipsImage,
		format: format,
		buf:    buf,
	}
	runtime.SetFinalizer(imageRef, finalizeImage)
	return imageRef
}

func finalizeImage(ref *Image) {
	ref.Close()
}

// Close manually closes the image and frees the memory. Calling Close() is optional.
// Images are automatically closed by GC. However, in high volume applications the GC
// can't keep up with the amount of memory, so you might want to manually close the images.
func (r *Image) Close() {
	r.lock.Lock()

	if r.image != nil {
		clearImage(r.image)
		r.image = nil
	}

	r.buf = nil

	r.lock.Unlock()
}

// setImage replaces the underlying handle, releasing the one it replaces
func (r *Image) setImage(image *C.VipsImage) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.image == image {
		return
	}
	if r.image != nil {
		clearImage(r.image)
	}
	r.image = image
}

// Format returns the initial format of the vips image when loaded.
func (r *Image) Format() ImageType {
	return r.format
}

// Width returns the width of this image.
func (r *Image) Width() int {
	return int(r.image.Xsize)
}

// Height returns the height of this image.
func (r *Image) Height() int {
	return int(r.image.Ysize)
}

// Bands returns the number of bands of this image.
func (r *Image) Bands() int {
	return int(r.image.Bands)
}

// HasAlpha returns if the image has an alpha layer.
func (r *Image) HasAlpha() bool {
	return vipsHasAlpha(r.image)
}

// Interpretation returns the current interpretation of the color space of the image.
func (r *Image) Interpretation() Interpretation {
	return Interpretation(int(r.image.Type))
}

// ColorSpace returns the interpretation of the current color space. Alias to Interpretation().
func (r *Image) ColorSpace() Interpretation {
	return r.Interpretation()
}

// Metadata returns the metadata (ImageMetadata struct) of the associated Image
func (r *Image) Metadata() *ImageMetadata {
	return &ImageMetadata{
		Format:     r.format,
		Width:      r.Width(),
		Height:     r.Height(),
		Bands:      r.Bands(),
		Colorspace: r.ColorSpace(),
	}
}

// Copy creates a new copy of the given image.
func (r *Image) Copy() (*Image, error) {
	out, err := vipsCopyImage(r.image)
	if err != nil {
		return nil, err
	}
	return newImageRef(out, r.format, r.buf), nil
}

// Shrink the image by an integral factor on each axis
func (r *Image) Shrink(xshrink, yshrink float64) error {
	out, err := vipsShrink(r.image, xshrink, yshrink)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// Affine applies the 2x2 transform matrix with the given interpolator
func (r *Image) Affine(a, b, c, d float64, interpolate *Interpolate) error {
	out, err := vipsAffineInterpolate(r.image, a, b, c, d, interpolate)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// GaussianBlur blurs the image with the given sigma, remaining
// tuning parameters left at the libvips defaults
func (r *Image) GaussianBlur(sigma float64) error {
	out, err := vipsGaussianBlur(r.image, sigma)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// FlattenWhite flattens the alpha channel onto a white background
func (r *Image) FlattenWhite() error {
	out, err := vipsFlattenWhite(r.image)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// Embed the image within a canvas of the given geometry using the extend policy
func (r *Image) Embed(left, top, width, height int, extend Extend) error {
	out, err := vipsEmbedExtend(r.image, left, top, width, height, extend)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// ToColorSpace converts the image to the given colour space interpretation
func (r *Image) ToColorSpace(interpretation Interpretation) error {
	out, err := vipsToColorspace(r.image, interpretation)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// ExtractArea crops the rectangle of the given offset and geometry
func (r *Image) ExtractArea(left, top, width, height int) error {
	out, err := vipsExtractArea(r.image, left, top, width, height)
	if err != nil {
		return err
	}
	r.setImage(out)
	return nil
}

// ExportJpeg exports the image as JPEG to a buffer.
func (r *Image) ExportJpeg(params *JpegExportParams) ([]byte, *ImageMetadata, error) {
	if params == nil {
		params = NewJpegExportParams()
	}
	buf, err := vipsSaveJPEGToBuffer(r.image, *params)
	if err != nil {
		return nil, nil, err
	}
	metadata := r.Metadata()
	metadata.Format = ImageTypeJPEG
	return buf, metadata, nil
}
