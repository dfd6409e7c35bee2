package png

import (
	"fmt"
	"image"
	"image/color"
	"slices"
)

// imageData concatenates the payloads of the stored IDAT chunks.
func (img *Image) imageData() ([]byte, error) {
	var data []byte
	for _, c := range img.chunks {
		if c.Type() == "IDAT" {
			data = append(data, c.Data...)
		}
	}
	if data == nil {
		return nil, ErrNoScanlines
	}
	return data, nil
}

// rows inflates the image data and strips the per-row filter byte. Only
// filter type 0 is understood.
func (img *Image) rows() ([][]byte, error) {
	if len(img.scanlines) > 0 {
		return img.scanlines, nil
	}

	data, err := img.imageData()
	if err != nil {
		return nil, err
	}
	raw, err := img.getCompressor().Decompress(data)
	if err != nil {
		return nil, err
	}

	// Compare by division: height * (rowLen+1) can overflow for header
	// fields taken from an untrusted file.
	rowLen := img.BytesPerRow()
	if uint64(len(raw))/(uint64(rowLen)+1) < uint64(img.height) {
		return nil, fmt.Errorf("inflated %d bytes, want %d rows of %d: %w", len(raw), img.height, rowLen+1, ErrTruncated)
	}

	rows := make([][]byte, img.height)
	for y := range rows {
		line := raw[y*(rowLen+1) : (y+1)*(rowLen+1)]
		if line[0] != 0 {
			return nil, fmt.Errorf("row %d uses filter %d: %w", y, line[0], ErrUnsupportedFilter)
		}
		rows[y] = slices.Clone(line[1:])
	}
	return rows, nil
}

// DecodeScanlines inflates the stored IDAT chunks into scanlines and drops
// them from the chunk list, so a later save writes the data once.
func (img *Image) DecodeScanlines() error {
	if len(img.scanlines) > 0 {
		return nil
	}
	rows, err := img.rows()
	if err != nil {
		return fmt.Errorf("failed to decode scanlines: %w", err)
	}
	img.scanlines = rows
	img.chunks = slices.DeleteFunc(img.chunks, func(c Chunk) bool {
		return c.Type() == "IDAT"
	})
	return nil
}

// Raster expands a grayscale image into an image.Image. Other colour types
// are not supported.
func (img *Image) Raster() (*Raster, error) {
	if img.colour != Grayscale || !img.colour.IsValid(img.bitDepth) {
		return nil, fmt.Errorf("%s at depth %d: %w", img.colour, img.bitDepth, ErrUnsupportedFormat)
	}

	rows, err := img.rows()
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, int(img.width), int(img.height))
	if img.bitDepth == 16 {
		out := image.NewGray16(bounds)
		for y, row := range rows {
			for x := 0; x < int(img.width); x++ {
				v := uint16(row[2*x])<<8 | uint16(row[2*x+1])
				out.SetGray16(x, y, color.Gray16{Y: v})
			}
		}
		return NewRaster(out), nil
	}

	depth := int(img.bitDepth)
	maxVal := 1<<depth - 1
	perByte := 8 / depth
	out := image.NewGray(bounds)
	for y, row := range rows {
		for x := 0; x < int(img.width); x++ {
			shift := 8 - depth*(x%perByte+1)
			v := int(row[x/perByte]>>shift) & maxVal
			out.SetGray(x, y, color.Gray{Y: uint8(v * 255 / maxVal)})
		}
	}
	return NewRaster(out), nil
}
