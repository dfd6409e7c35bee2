package cmd

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rm-hull/png-chunks/internal/png"
)

type ChunkReport struct {
	Type     string `json:"type"`
	Length   uint32 `json:"length"`
	CRC      string `json:"crc"`
	Critical bool   `json:"critical"`
	CRCValid *bool  `json:"crcValid,omitempty"`
}

type Report struct {
	Width      uint32        `json:"width"`
	Height     uint32        `json:"height"`
	BitDepth   uint8         `json:"bitDepth"`
	ColourType string        `json:"colourType"`
	Chunks     []ChunkReport `json:"chunks"`
}

// NewReport describes the chunks of a decoded image. With verify set every
// chunk CRC is checked, not only the header's.
func NewReport(img *png.Image, verify bool) Report {
	report := Report{
		Width:      img.Width(),
		Height:     img.Height(),
		BitDepth:   img.BitDepth(),
		ColourType: img.Colour().String(),
		Chunks:     make([]ChunkReport, 0, len(img.Chunks())),
	}

	for _, c := range img.Chunks() {
		cr := ChunkReport{
			Type:     c.Type(),
			Length:   c.Length,
			CRC:      fmt.Sprintf("%08X", c.CRC),
			Critical: c.IsCritical(),
		}
		if verify {
			valid := c.VerifyCRC()
			cr.CRCValid = &valid
		}
		report.Chunks = append(report.Chunks, cr)
	}
	return report
}

func Inspect(w io.Writer, path string, asJSON, verify bool) error {
	img, err := png.FromFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := NewReport(img, verify)
	if asJSON {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	fmt.Fprintf(w, "%s: %dx%d, %d-bit %s\n", path, report.Width, report.Height, report.BitDepth, report.ColourType)
	for _, c := range report.Chunks {
		status := ""
		if c.CRCValid != nil && !*c.CRCValid {
			status = " BAD CRC"
		}
		fmt.Fprintf(w, "  %s %8d bytes crc=%s%s\n", c.Type, c.Length, c.CRC, status)
	}
	return nil
}
