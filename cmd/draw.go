package cmd

import (
	"fmt"
	"log"

	"github.com/rm-hull/png-chunks/internal/png"
)

// Diagonals returns a blank white image with both diagonals of its largest
// top-left square cleared. Pixels are packed one bit each whatever the
// colour type, so only 1-bit grayscale renders as lines.
func Diagonals(width, height uint32, bitDepth uint8, colour png.ColourType) (*png.Image, error) {
	img, err := png.New(width, height, bitDepth, colour)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < min(width, height); i++ {
		img.PutPixel(0, i, i)
		img.PutPixel(0, width-1-i, i)
	}
	return img, nil
}

func Draw(path string, width, height uint32, bitDepth uint8, colourName string) error {
	colour, err := png.ParseColourType(colourName)
	if err != nil {
		return err
	}

	img, err := Diagonals(width, height, bitDepth, colour)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	log.Printf("Saving %dx%d %d-bit %s image to %s", width, height, bitDepth, colour, path)
	if err := img.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
