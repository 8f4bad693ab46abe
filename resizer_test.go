package vipscale

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cshum/vipscale/vips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
)

var testResizer *Resizer

func testContext() context.Context {
	return context.Background()
}

func resizer(t *testing.T) *Resizer {
	t.Helper()
	if testResizer == nil {
		testResizer = New(
			WithLogger(zap.NewExample()),
			WithDebug(true),
			WithConcurrency(2),
		)
		require.NoError(t, testResizer.Startup(testContext()))
	}
	return testResizer
}

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 255 / width)
			img.Pix[i+1] = uint8(y * 255 / height)
			img.Pix[i+2] = 96
			img.Pix[i+3] = 255
		}
	}
	return img
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(width, height), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(width, height)))
	return buf.Bytes()
}

// spliceEXIF inserts a minimal APP1 EXIF segment carrying Orientation=1
// right after the JPEG SOI marker
func spliceEXIF(t *testing.T, src []byte) []byte {
	t.Helper()
	require.True(t, len(src) > 2)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(42))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8)) // IFD0 offset
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1)) // one entry
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3)) // SHORT
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1)) // orientation value
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0)) // value padding
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	out := make([]byte, 0, len(src)+len(payload)+4)
	out = append(out, src[:2]...)
	out = append(out, 0xff, 0xe1)
	out = append(out, byte((len(payload)+2)>>8), byte((len(payload)+2)&0xff))
	out = append(out, payload...)
	out = append(out, src[2:]...)
	return out
}

func jpegDims(t *testing.T, buf []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestNewDefaults(t *testing.T) {
	r := New()
	assert.Equal(t, 80, r.DefaultQuality)
	assert.Equal(t, 1, r.VipsConcurrency)
	assert.Equal(t, int64(0), r.Concurrency)
	assert.NotNil(t, r.Logger)
}

func TestResizeIdentity(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testPNG(t, 120, 90), Options{})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 120, w)
	assert.Equal(t, 90, h)
}

func TestResizeFixedWidthAndHeight(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testJPEG(t, 800, 600), Options{Width: 200, Height: 200})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	// max factor rule fits within the box
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
}

func TestResizeAutoHeight(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testJPEG(t, 640, 480), Options{Width: 160})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 160, w)
	assert.Equal(t, 120, h)
}

func TestResizeGravityCrop(t *testing.T) {
	r := resizer(t)
	for _, gravity := range []Gravity{Centre, North, South | East, West} {
		out, err := r.Resize(testContext(), testJPEG(t, 400, 300),
			Options{Width: 100, Height: 100, Crop: true, Gravity: gravity})
		require.NoError(t, err)
		w, h := jpegDims(t, out)
		assert.Equal(t, 100, w)
		assert.Equal(t, 100, h)
	}
}

func TestResizeCropRect(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testPNG(t, 200, 200),
		Options{CropRect: &CropRect{Left: 50, Top: 40, Width: 100, Height: 80}})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)
}

func TestResizeCropRectClamped(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testPNG(t, 100, 100),
		Options{CropRect: &CropRect{Left: 60, Top: 60, Width: 100, Height: 100}})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 40, w)
	assert.Equal(t, 40, h)
}

func TestResizeShrinkOnLoad(t *testing.T) {
	r := resizer(t)
	// integral 4x reduction goes through the libjpeg load-time shrink
	out, err := r.Resize(testContext(), testJPEG(t, 512, 512), Options{Width: 128, Height: 128})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)
}

func TestResizeNoEnlarge(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testJPEG(t, 50, 40), Options{Width: 200, Height: 200})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 50, w)
	assert.Equal(t, 40, h)
}

func TestResizeEnlarge(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testJPEG(t, 50, 50),
		Options{Width: 100, Height: 100, Enlarge: true})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestResizeEmbed(t *testing.T) {
	r := resizer(t)
	for _, extend := range []vips.Extend{
		vips.ExtendBlack, vips.ExtendRepeat, vips.ExtendMirror, vips.ExtendWhite,
	} {
		out, err := r.Resize(testContext(), testJPEG(t, 200, 100),
			Options{Width: 100, Height: 100, Embed: true, Extend: extend})
		require.NoError(t, err)
		w, h := jpegDims(t, out)
		assert.Equal(t, 100, w)
		assert.Equal(t, 100, h)
	}
}

func TestResizeBlur(t *testing.T) {
	r := resizer(t)
	out, err := r.Resize(testContext(), testJPEG(t, 100, 100), Options{BlurSigma: 2})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestResizeInterpolators(t *testing.T) {
	r := resizer(t)
	for _, interpolator := range []Interpolator{Bicubic, Bilinear, Nohalo} {
		out, err := r.Resize(testContext(), testJPEG(t, 300, 300),
			Options{Width: 100, Height: 100, Interpolator: interpolator})
		require.NoError(t, err)
		w, h := jpegDims(t, out)
		assert.Equal(t, 100, w)
		assert.Equal(t, 100, h)
	}
}

func TestResizeQuality(t *testing.T) {
	r := resizer(t)
	src := testJPEG(t, 300, 300)
	high, err := r.Resize(testContext(), src, Options{Quality: 95})
	require.NoError(t, err)
	low, err := r.Resize(testContext(), src, Options{Quality: 10})
	require.NoError(t, err)
	assert.Less(t, len(low), len(high))
}

func TestResizeStripMetadata(t *testing.T) {
	r := resizer(t)
	src := spliceEXIF(t, testJPEG(t, 64, 64))

	stripped, err := r.Resize(testContext(), src, Options{})
	require.NoError(t, err)
	kept, err := r.Resize(testContext(), src, Options{KeepMetadata: true})
	require.NoError(t, err)

	assert.NotEqual(t, len(stripped), len(kept))
	assert.Less(t, len(stripped), len(kept))
}

func TestResizeInterlace(t *testing.T) {
	r := resizer(t)
	src := testJPEG(t, 200, 200)
	plain, err := r.Resize(testContext(), src, Options{})
	require.NoError(t, err)
	interlaced, err := r.Resize(testContext(), src, Options{Interlace: true})
	require.NoError(t, err)
	assert.NotEqual(t, plain, interlaced)
}

func TestResizeUnsupportedFormat(t *testing.T) {
	r := resizer(t)
	_, err := r.Resize(testContext(), []byte("certainly not an image"), Options{})
	assert.Equal(t, ErrUnsupportedFormat, WrapError(err))
}

func TestResizeTooManyRequests(t *testing.T) {
	resizer(t)
	limited := New(WithConcurrency(1))
	require.NoError(t, limited.sema.Acquire(testContext(), 1))

	_, err := limited.Resize(testContext(), testJPEG(t, 10, 10), Options{})
	assert.Equal(t, ErrTooManyRequests, WrapError(err))

	limited.sema.Release(1)
	_, err = limited.Resize(testContext(), testJPEG(t, 10, 10), Options{})
	require.NoError(t, err)
}

func TestResizeCancelledContext(t *testing.T) {
	r := resizer(t)
	ctx, cancel := context.WithCancel(testContext())
	cancel()
	_, err := r.Resize(ctx, testJPEG(t, 10, 10), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResizeBMPFallback(t *testing.T) {
	r := resizer(t)
	img := testImage(40, 30)
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	out, err := r.Resize(testContext(), buf.Bytes(), Options{Width: 20})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 20, w)
	assert.Equal(t, 15, h)
}

func TestResizeFile(t *testing.T) {
	r := resizer(t)
	if !vips.IsLoadSupported(vips.ImageTypeMagick) {
		t.Skip("libvips built without magick support")
	}

	file := filepath.Join(t.TempDir(), "source.jpg")
	require.NoError(t, os.WriteFile(file, testJPEG(t, 400, 300), 0644))

	out, err := r.ResizeFile(testContext(), file,
		Options{Width: 100, Height: 100, Crop: true})
	require.NoError(t, err)
	w, h := jpegDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)

	t.Run("missing file", func(t *testing.T) {
		_, err := r.ResizeFile(testContext(),
			filepath.Join(t.TempDir(), "missing.tif"), Options{})
		assert.Error(t, err)
	})
}

func TestServeHTTPResize(t *testing.T) {
	r := resizer(t)
	req := httptest.NewRequest(http.MethodPost, "/?width=100&height=100&crop=true",
		bytes.NewReader(testJPEG(t, 400, 400)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	width, height := jpegDims(t, w.Body.Bytes())
	assert.Equal(t, 100, width)
	assert.Equal(t, 100, height)
}

func TestServeHTTPResizeError(t *testing.T) {
	r := resizer(t)
	req := httptest.NewRequest(http.MethodPost, "/?width=100",
		bytes.NewReader([]byte("garbage body")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported format")
}
