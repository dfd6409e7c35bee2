package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compressor produces and consumes the zlib stream carried in IDAT chunks.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

type ZlibCompressor struct {
	Level int
}

// DefaultCompressor is used by images that have not been given one.
var DefaultCompressor Compressor = ZlibCompressor{Level: zlib.DefaultCompression}

func (z ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, z.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress scanlines: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

func (z ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open zlib stream: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate image data: %w", err)
	}
	return out, nil
}
