package vips

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestDetermineImageType(t *testing.T) {
	tests := []struct {
		name      string
		buf       []byte
		imageType ImageType
	}{
		{
			name:      "jpeg",
			buf:       encodeTestJPEG(t, 8, 8, 80),
			imageType: ImageTypeJPEG,
		},
		{
			name:      "png",
			buf:       encodeTestPNG(t, 8, 8),
			imageType: ImageTypePNG,
		},
		{
			name:      "bmp",
			buf:       encodeTestBMP(t, 8, 8),
			imageType: ImageTypeBMP,
		},
		{
			name:      "garbage",
			buf:       []byte("not an image at all"),
			imageType: ImageTypeUnknown,
		},
		{
			name:      "empty",
			buf:       nil,
			imageType: ImageTypeUnknown,
		},
		{
			name:      "single byte",
			buf:       []byte{0xff},
			imageType: ImageTypeUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.imageType, DetermineImageType(tt.buf))
		})
	}
}

func TestImageTypes(t *testing.T) {
	for imageType, name := range ImageTypes {
		assert.NotEmpty(t, name)
		assert.NotEqual(t, ImageTypeUnknown, imageType)
	}
}

func testGradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 255 / width)
			img.Pix[i+1] = uint8(y * 255 / height)
			img.Pix[i+2] = uint8((x + y) * 255 / (width + height))
			img.Pix[i+3] = 255
		}
	}
	return img
}

func encodeTestJPEG(t *testing.T, width, height, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testGradient(width, height), &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testGradient(width, height)))
	return buf.Bytes()
}

func encodeTestBMP(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testGradient(width, height)))
	return buf.Bytes()
}
