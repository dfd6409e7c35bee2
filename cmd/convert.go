package cmd

import (
	"fmt"
	"os"

	"github.com/rm-hull/png-chunks/internal/png"
	"github.com/rm-hull/png-chunks/internal/png/stage"
)

// Convert reads any PNG and stores it as a 1-bit grayscale image, lighting
// pixels whose luminance reaches level.
func Convert(src, dst string, level uint8, sigma float64) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}

	r, err := png.NewRasterFromReader(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", src, err)
	}

	if err := r.Pipeline(&stage.GaussianBlurStage{Sigma: sigma}); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	img, err := png.FromImage(r.Img, level)
	if err != nil {
		return err
	}
	return img.Save(dst)
}
