package png

import (
	"image"
)

// FromImage builds a 1-bit grayscale image from any image.Image. A pixel is
// lit when its luminance reaches level; fully transparent pixels stay dark.
func FromImage(src image.Image, level uint8) (*Image, error) {
	bounds := src.Bounds()
	img, err := New(uint32(bounds.Dx()), uint32(bounds.Dy()), 1, Grayscale)
	if err != nil {
		return nil, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var v uint8
			if Luminance(src.At(x, y).RGBA()) >= level {
				v = 1
			}
			img.PutPixel(v, uint32(x-bounds.Min.X), uint32(y-bounds.Min.Y))
		}
	}
	return img, nil
}

// Luminance weights the 16-bit channels returned by color.Color.RGBA using
// the Rec. 601 luma coefficients. Fully transparent colours have zero
// luminance.
func Luminance(r, g, b, a uint32) uint8 {
	if a == 0 {
		return 0
	}
	// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
	return uint8(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8))
}
