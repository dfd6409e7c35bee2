package cmd

import (
	"fmt"
	"os"

	"github.com/rm-hull/png-chunks/internal/png"
	"github.com/rm-hull/png-chunks/internal/png/stage"
)

type RenderOptions struct {
	Sigma     float64
	Width     int
	Height    int
	Invert    bool
	Threshold uint8 // 0 disables
}

func (o RenderOptions) stages() []png.PipelineStage {
	var stages []png.PipelineStage
	if o.Invert {
		stages = append(stages, &stage.InvertStage{})
	}
	if o.Sigma > 0 {
		stages = append(stages, &stage.GaussianBlurStage{Sigma: o.Sigma})
	}
	if o.Width > 0 || o.Height > 0 {
		stages = append(stages, &stage.ResampleStage{Width: o.Width, Height: o.Height})
	}
	if o.Threshold > 0 {
		stages = append(stages, &stage.ThresholdStage{Level: o.Threshold})
	}
	return stages
}

// Render decodes the pixel data of src, runs it through the requested
// stages and writes the result with the standard library encoder.
func Render(src, dst string, opts RenderOptions) error {
	img, err := png.FromFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	r, err := img.Raster()
	if err != nil {
		return fmt.Errorf("failed to decode image data: %w", err)
	}

	if err := r.Pipeline(opts.stages()...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := r.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return f.Close()
}
