package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/png-chunks/internal/png"
)

type InvertStage struct{}

// Process swaps light and dark; alpha is kept.
func (s *InvertStage) Process(r *png.Raster) error {
	r.Img = effect.Invert(r.Img)
	return nil
}
