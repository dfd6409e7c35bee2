package internal

import (
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/compress/zlib"
	"github.com/rm-hull/png-chunks/internal/png"
)

const CompressionLevelEnv = "PNG_COMPRESSION_LEVEL"

// CompressionLevel reads the zlib level from PNG_COMPRESSION_LEVEL, falling
// back to the library default when unset.
func CompressionLevel() (int, error) {
	value := os.Getenv(CompressionLevelEnv)
	if value == "" {
		return zlib.DefaultCompression, nil
	}

	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to convert %s=%q to integer: %w", CompressionLevelEnv, value, err)
	}
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return 0, fmt.Errorf("%s=%d out of range [%d, %d]", CompressionLevelEnv, level, zlib.HuffmanOnly, zlib.BestCompression)
	}
	return level, nil
}

// ConfigureCompression installs the configured compressor as the package
// default.
func ConfigureCompression() error {
	level, err := CompressionLevel()
	if err != nil {
		return err
	}
	png.DefaultCompressor = png.ZlibCompressor{Level: level}
	return nil
}
