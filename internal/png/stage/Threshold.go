package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/png-chunks/internal/png"
)

type ThresholdStage struct {
	Level uint8
}

// Process converts the raster to black and white: pixels whose luminance
// reaches Level become white, everything else black.
func (s *ThresholdStage) Process(r *png.Raster) error {
	out := image.NewGray(r.Bounds)
	for y := r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
		for x := r.Bounds.Min.X; x < r.Bounds.Max.X; x++ {
			if png.Luminance(r.Img.At(x, y).RGBA()) >= s.Level {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	r.Img = out
	return nil
}
