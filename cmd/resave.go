package cmd

import (
	"fmt"
	"log"

	"github.com/rm-hull/png-chunks/internal/png"
)

// Resave decodes src and writes it to dst. The header is regenerated from
// its fields; with recompress set the image data is inflated and deflated
// again at the configured level, otherwise the IDAT chunks are copied.
func Resave(src, dst string, recompress bool) error {
	img, err := png.FromFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	if recompress {
		if err := img.DecodeScanlines(); err != nil {
			return err
		}
	}

	if bad := img.VerifyChunks(); len(bad) > 0 {
		log.Printf("Copying chunks with bad CRCs: %v", bad)
	}

	if err := img.Save(dst); err != nil {
		return fmt.Errorf("failed to save %s: %w", dst, err)
	}
	return nil
}
