package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"slices"
	"strings"
)

// Chunk is a single length-tagged record in a PNG stream.
type Chunk struct {
	Length uint32
	Tag    [4]byte
	Data   []byte
	CRC    uint32
}

// ComputeCRC returns the CRC-32 of the tag bytes followed by the payload.
func ComputeCRC(tag [4]byte, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, tag[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// NewChunk builds a chunk from a tag and a copy of the payload, filling in
// the length and CRC. Tags shorter than four bytes are zero padded, longer
// ones truncated.
func NewChunk(tag string, data []byte) Chunk {
	var t [4]byte
	copy(t[:], tag)
	data = slices.Clone(data)
	return Chunk{
		Length: uint32(len(data)),
		Tag:    t,
		Data:   data,
		CRC:    ComputeCRC(t, data),
	}
}

// ParseChunk reads one chunk verbatim; the stored CRC is not checked.
func ParseChunk(c *cursor) (Chunk, error) {
	start := c.Offset()
	length, err := c.Uint32()
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to read chunk length at offset %d: %w", start, err)
	}

	tag, err := c.Take(4)
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to read chunk tag at offset %d: %w", start, err)
	}

	if int64(length) > int64(c.Remaining()) {
		return Chunk{}, fmt.Errorf("chunk %q at offset %d declares %d bytes, %d remaining: %w",
			tag, start, length, c.Remaining(), ErrTruncated)
	}
	data, err := c.Take(int(length))
	if err != nil {
		return Chunk{}, err
	}

	crc, err := c.Uint32()
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to read CRC of chunk %q at offset %d: %w", tag, start, err)
	}

	ch := Chunk{
		Length: length,
		Data:   append([]byte(nil), data...),
		CRC:    crc,
	}
	copy(ch.Tag[:], tag)
	return ch, nil
}

func (c Chunk) Type() string {
	return string(c.Tag[:])
}

// IsCritical reports whether the ancillary bit (bit 5 of the first tag
// byte) is clear.
func (c Chunk) IsCritical() bool {
	return c.Tag[0]&0x20 == 0
}

// VerifyCRC recomputes the CRC from the tag and payload and compares it to
// the stored value.
func (c Chunk) VerifyCRC() bool {
	return ComputeCRC(c.Tag, c.Data) == c.CRC
}

// Size is Length + 8. It does not count the trailing CRC; the full wire
// footprint is Size() + 4.
func (c Chunk) Size() int {
	return int(c.Length) + 8
}

// WireSize is the number of bytes the chunk occupies in a stream.
func (c Chunk) WireSize() int {
	return c.Size() + 4
}

// Bytes returns the wire form: length, tag, payload and CRC, with both
// integers big-endian.
func (c Chunk) Bytes() []byte {
	b := make([]byte, 0, c.WireSize())
	b = binary.BigEndian.AppendUint32(b, c.Length)
	b = append(b, c.Tag[:]...)
	b = append(b, c.Data...)
	return binary.BigEndian.AppendUint32(b, c.CRC)
}

func (c Chunk) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chunk %s size=%d crc=%08X", c.Type(), c.Length, c.CRC)
	for i := 0; i < len(c.Data); i += 16 {
		end := min(i+16, len(c.Data))
		fmt.Fprintf(&sb, "\n\t% X", c.Data[i:end])
	}
	return sb.String()
}
