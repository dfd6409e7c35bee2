package png

import (
	"errors"
	"fmt"
)

var (
	ErrMissingIHDR       = errors.New("first chunk must be IHDR")
	ErrIHDRSize          = errors.New("IHDR chunk has wrong size")
	ErrIHDRChecksum      = errors.New("IHDR CRC check failed")
	ErrNoChunks          = errors.New("no chunks after signature")
	ErrTruncated         = errors.New("unexpected end of data")
	ErrNoScanlines       = errors.New("image has no scanlines")
	ErrUnevenRows        = errors.New("scanlines have differing lengths")
	ErrInvalidDimensions = errors.New("width and height must be at least 1")
	ErrInvalidBitDepth   = errors.New("bit depth not valid for colour type")
	ErrUnsupportedFilter = errors.New("unsupported scanline filter")
	ErrUnsupportedFormat = errors.New("unsupported colour type or bit depth")
	ErrInvalidFrameDelay = errors.New("invalid frame delay")
)

// FormatError reports a structural problem with a PNG stream that the
// caller can recover from, such as a bad or missing IHDR chunk.
type FormatError struct {
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("png: format error at offset %d: %v", e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
