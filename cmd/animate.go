package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/rm-hull/png-chunks/internal/png"
)

func Animate(files []string, dst string, frameDelay float64) error {
	if !(frameDelay >= 0 && frameDelay <= png.MaxFrameDelay) {
		return fmt.Errorf("--delay must be between 0 and %g seconds, got %g", png.MaxFrameDelay, frameDelay)
	}

	images := make([]*png.Image, len(files))
	for i, fname := range files {
		img, err := png.FromFile(fname)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fname, err)
		}
		images[i] = img
	}

	apngBytes, err := png.Animate(images, frameDelay)
	if err != nil {
		return err
	}

	log.Printf("Writing %d frames to %s", len(files), dst)
	return os.WriteFile(dst, apngBytes, 0644)
}
