package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/png-chunks/internal/png"
	"golang.org/x/image/draw"
)

type ResampleStage struct {
	Width  int
	Height int
}

// Process scales the raster to Width x Height with Catmull-Rom
// interpolation. A zero dimension keeps the source size on that axis.
func (s *ResampleStage) Process(r *png.Raster) error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("invalid resample size %dx%d", s.Width, s.Height)
	}
	w, h := s.Width, s.Height
	if w == 0 {
		w = r.Bounds.Dx()
	}
	if h == 0 {
		h = r.Bounds.Dy()
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), r.Img, r.Bounds, draw.Over, nil)
	r.Img = dst
	r.Bounds = dst.Bounds()
	return nil
}
