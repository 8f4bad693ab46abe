package vips

import (
	"bytes"
	"image"
	"image/draw"

	"golang.org/x/image/bmp"
)

// loadImageFromBMP decodes BMP in Go as libvips has no native BMP loader
func loadImageFromBMP(buf []byte) (*Image, error) {
	img, err := bmp.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	size := rect.Size()
	rgba := image.NewRGBA(rect)
	draw.Draw(rgba, rect, img, rect.Min, draw.Src)
	ref, err := LoadImageFromMemory(rgba.Pix, size.X, size.Y, 4)
	if err != nil {
		return nil, err
	}
	ref.format = ImageTypeBMP
	return ref, nil
}
