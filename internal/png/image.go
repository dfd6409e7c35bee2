package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
)

const (
	// Signature opens every PNG stream.
	Signature = "\x89PNG\r\n\x1a\n"

	ihdrLength   = 13
	maxIDATBytes = 1024
	iendCRC      = 0xAE426082
)

var iend = Chunk{Tag: [4]byte{'I', 'E', 'N', 'D'}, CRC: iendCRC}

// Image is an in-memory PNG: header fields, the chunks that sit between
// IHDR and IEND, and the unfiltered scanlines. Images built with New carry
// scanlines; images decoded from a stream carry only their chunks until
// DecodeScanlines is called.
type Image struct {
	ihdr       Chunk
	width      uint32
	height     uint32
	bitDepth   uint8
	colour     ColourType
	chunks     []Chunk
	scanlines  [][]byte
	compressor Compressor
}

// New allocates a width x height image whose every byte is 0xFF, so a
// fresh 1-bit grayscale image is white.
func New(width, height uint32, bitDepth uint8, colour ColourType) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if !colour.IsValid(bitDepth) {
		return nil, fmt.Errorf("depth %d for %s: %w", bitDepth, colour, ErrInvalidBitDepth)
	}

	rowLen := BytesPerRow(width, bitDepth)
	scanlines := make([][]byte, height)
	for y := range scanlines {
		scanlines[y] = bytes.Repeat([]byte{0xFF}, rowLen)
	}

	return &Image{
		ihdr:      ihdrChunk(width, height, bitDepth, colour.Code()),
		width:     width,
		height:    height,
		bitDepth:  bitDepth,
		colour:    colour,
		scanlines: scanlines,
	}, nil
}

// MustNew is like New but panics if the arguments are invalid.
func MustNew(width, height uint32, bitDepth uint8, colour ColourType) *Image {
	img, err := New(width, height, bitDepth, colour)
	if err != nil {
		panic(err)
	}
	return img
}

// BytesPerRow is ceil(width * bitDepth / 8). The channel count of the
// colour type is not taken into account.
func BytesPerRow(width uint32, bitDepth uint8) int {
	bits := uint64(width) * uint64(bitDepth)
	return int((bits + 7) / 8)
}

func ihdrChunk(width, height uint32, bitDepth, colourCode uint8) Chunk {
	data := make([]byte, 0, ihdrLength)
	data = binary.BigEndian.AppendUint32(data, width)
	data = binary.BigEndian.AppendUint32(data, height)
	data = append(data,
		bitDepth,
		colourCode,
		0, // compression: deflate
		0, // filter: adaptive, only type 0 emitted
		0, // interlace: none
	)
	return NewChunk("IHDR", data)
}

// FromFile reads a whole PNG file and decodes its chunk stream.
func FromFile(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(b)
}

// FromBytes decodes a PNG chunk stream. A bad signature or a final chunk
// other than IEND is logged and tolerated. Only the IHDR chunk has its CRC
// checked; everything between IHDR and the final chunk is kept verbatim,
// IDAT included, and no pixel data is decompressed.
func FromBytes(b []byte) (*Image, error) {
	c := newCursor(b)

	sig, err := c.Take(len(Signature))
	if err != nil {
		return nil, fmt.Errorf("failed to read signature: %w", err)
	}
	if string(sig) != Signature {
		log.Printf("PNG signature mismatch: got % X", sig)
	}

	var chunks []Chunk
	for c.Remaining() > 0 {
		ch, err := ParseChunk(c)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chunk %d: %w", len(chunks), err)
		}
		chunks = append(chunks, ch)
	}

	if len(chunks) == 0 {
		return nil, &FormatError{Offset: len(Signature), Err: ErrNoChunks}
	}

	hdr := chunks[0]
	switch {
	case hdr.Type() != "IHDR":
		return nil, &FormatError{Offset: len(Signature), Err: ErrMissingIHDR}
	case hdr.Length != ihdrLength:
		return nil, &FormatError{Offset: len(Signature), Err: ErrIHDRSize}
	case !hdr.VerifyCRC():
		return nil, &FormatError{Offset: len(Signature), Err: ErrIHDRChecksum}
	}

	width := binary.BigEndian.Uint32(hdr.Data[0:4])
	height := binary.BigEndian.Uint32(hdr.Data[4:8])
	bitDepth := hdr.Data[8]
	colour := ColourType(hdr.Data[9])
	if !colour.IsValid(bitDepth) {
		log.Printf("IHDR declares bit depth %d for %s", bitDepth, colour)
	}
	if hdr.Data[10] != 0 || hdr.Data[11] != 0 || hdr.Data[12] != 0 {
		log.Printf("IHDR compression/filter/interlace methods %v will be written as 0", hdr.Data[10:13])
	}

	var ancillary []Chunk
	if len(chunks) > 1 {
		last := chunks[len(chunks)-1]
		if last.Type() != "IEND" {
			log.Printf("final chunk is %q, not IEND; dropping it", last.Type())
		}
		ancillary = slices.Clone(chunks[1 : len(chunks)-1])
	} else {
		log.Printf("stream ends after IHDR without IEND")
	}

	return &Image{
		ihdr:     ihdrChunk(width, height, bitDepth, colour.Code()),
		width:    width,
		height:   height,
		bitDepth: bitDepth,
		colour:   colour,
		chunks:   ancillary,
	}, nil
}

func (img *Image) Width() uint32 {
	return img.width
}

func (img *Image) Height() uint32 {
	return img.height
}

func (img *Image) BitDepth() uint8 {
	return img.bitDepth
}

func (img *Image) Colour() ColourType {
	return img.colour
}

// IHDR returns the header chunk regenerated from the image fields.
func (img *Image) IHDR() Chunk {
	return img.ihdr
}

func (img *Image) BytesPerRow() int {
	return BytesPerRow(img.width, img.bitDepth)
}

// Chunks returns copies of the chunks between IHDR and IEND in wire order.
func (img *Image) Chunks() []Chunk {
	chunks := make([]Chunk, len(img.chunks))
	for i, c := range img.chunks {
		c.Data = slices.Clone(c.Data)
		chunks[i] = c
	}
	return chunks
}

// AddChunk appends a copy of c to be written after IHDR, ahead of the image
// data.
func (img *Image) AddChunk(c Chunk) {
	c.Data = slices.Clone(c.Data)
	img.chunks = append(img.chunks, c)
}

// Scanlines returns the image rows. The slices are shared with the image.
func (img *Image) Scanlines() [][]byte {
	return img.scanlines
}

func (img *Image) SetCompressor(c Compressor) {
	img.compressor = c
}

func (img *Image) getCompressor() Compressor {
	if img.compressor == nil {
		return DefaultCompressor
	}
	return img.compressor
}

// VerifyChunks checks the CRC of every chunk between IHDR and IEND and
// returns the tags of those that fail.
func (img *Image) VerifyChunks() []string {
	var bad []string
	for _, c := range img.chunks {
		if !c.VerifyCRC() {
			bad = append(bad, c.Type())
		}
	}
	return bad
}

// PutPixel sets (value&1 == 1) or clears bit 7-x%8 of byte x/8 in row y.
// This is 1-bit grayscale packing and is meaningless for other formats.
// It panics if x or y lies outside the scanlines.
func (img *Image) PutPixel(value uint8, x, y uint32) {
	mask := byte(0x80) >> (x % 8)
	row := img.scanlines[y]
	if value&1 == 1 {
		row[x/8] |= mask
	} else {
		row[x/8] &^= mask
	}
}

// Pixel reads back the bit written by PutPixel.
func (img *Image) Pixel(x, y uint32) uint8 {
	return (img.scanlines[y][x/8] >> (7 - x%8)) & 1
}

// SplitIDAT cuts a compressed stream into IDAT chunks of at most 1024
// payload bytes each.
func SplitIDAT(data []byte) []Chunk {
	var chunks []Chunk
	for block := range slices.Chunk(data, maxIDATBytes) {
		chunks = append(chunks, NewChunk("IDAT", block))
	}
	return chunks
}

func (img *Image) hasIDAT() bool {
	return slices.ContainsFunc(img.chunks, func(c Chunk) bool {
		return c.Type() == "IDAT"
	})
}

// compressedScanlines prefixes every row with filter type 0 and deflates
// the lot.
func (img *Image) compressedScanlines() ([]byte, error) {
	if len(img.scanlines) == 0 {
		return nil, ErrNoScanlines
	}
	rowLen := len(img.scanlines[0])
	raw := make([]byte, 0, len(img.scanlines)*(rowLen+1))
	for y, row := range img.scanlines {
		if len(row) != rowLen {
			return nil, fmt.Errorf("row %d has %d bytes, want %d: %w", y, len(row), rowLen, ErrUnevenRows)
		}
		raw = append(raw, 0)
		raw = append(raw, row...)
	}
	return img.getCompressor().Compress(raw)
}

// Bytes serialises the image: signature, IHDR, the stored chunks in order,
// IDAT chunks holding the scanlines, then IEND. An image without scanlines
// can only be written if its stored chunks already carry IDAT data.
func (img *Image) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Signature)
	buf.Write(img.ihdr.Bytes())
	for _, c := range img.chunks {
		buf.Write(c.Bytes())
	}

	if len(img.scanlines) > 0 || !img.hasIDAT() {
		data, err := img.compressedScanlines()
		if err != nil {
			return nil, fmt.Errorf("failed to encode image data: %w", err)
		}
		for _, c := range SplitIDAT(data) {
			buf.Write(c.Bytes())
		}
	}

	buf.Write(iend.Bytes())
	return buf.Bytes(), nil
}

func (img *Image) Encode(w io.Writer) error {
	b, err := img.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Save writes the image to a temporary file next to path and renames it
// into place.
func (img *Image) Save(path string) error {
	b, err := img.Bytes()
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "png-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := tmpFile.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if _, err := tmpFile.Write(b); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpFile.Name(), err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false
	return nil
}
