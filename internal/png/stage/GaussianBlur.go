package stage

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/png-chunks/internal/png"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur with the given Sigma. A non-positive
// Sigma leaves the raster untouched.
func (s *GaussianBlurStage) Process(r *png.Raster) error {
	if s.Sigma <= 0 {
		return nil
	}
	r.Img = blur.Gaussian(r.Img, s.Sigma)
	return nil
}
