package png

import (
	"image"
	"image/png"
	"io"
)

// Raster is a decoded view of an image that pipeline stages can transform.
type Raster struct {
	Img    image.Image
	Bounds image.Rectangle
}

type PipelineStage interface {
	Process(r *Raster) error
}

func NewRaster(img image.Image) *Raster {
	return &Raster{
		Img:    img,
		Bounds: img.Bounds(),
	}
}

// NewRasterFromReader decodes any PNG the standard library understands.
func NewRasterFromReader(r io.Reader) (*Raster, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewRaster(img), nil
}

func (r *Raster) Write(w io.Writer) error {
	return png.Encode(w, r.Img)
}

func (r *Raster) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(r); err != nil {
			return err
		}
	}
	return nil
}
