package png

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaster(t *testing.T) {
	img := MustNew(10, 3, 1, Grayscale)
	img.PutPixel(0, 0, 0)
	img.PutPixel(0, 9, 2)

	r, err := img.Raster()
	require.NoError(t, err)
	gray, ok := r.Img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 10, 3), r.Bounds)
	assert.Equal(t, uint8(0), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), gray.GrayAt(9, 2).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(1, 0).Y)

	t.Run("from decoded IDAT", func(t *testing.T) {
		b, err := img.Bytes()
		require.NoError(t, err)
		decoded, err := FromBytes(b)
		require.NoError(t, err)

		r2, err := decoded.Raster()
		require.NoError(t, err)
		assert.Equal(t, r.Img, r2.Img)
	})

	t.Run("standard decoder agrees", func(t *testing.T) {
		b, err := img.Bytes()
		require.NoError(t, err)
		std, err := stdpng.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		for y := 0; y < 3; y++ {
			for x := 0; x < 10; x++ {
				want := color.GrayModel.Convert(std.At(x, y)).(color.Gray).Y
				assert.Equal(t, want, gray.GrayAt(x, y).Y, "pixel %d,%d", x, y)
			}
		}
	})
}

func TestRasterDepths(t *testing.T) {
	t.Run("2-bit", func(t *testing.T) {
		img := MustNew(4, 1, 2, Grayscale)
		img.Scanlines()[0][0] = 0b00011011
		r, err := img.Raster()
		require.NoError(t, err)
		gray := r.Img.(*image.Gray)
		assert.Equal(t, []uint8{0, 85, 170, 255}, gray.Pix)
	})

	t.Run("16-bit", func(t *testing.T) {
		img := MustNew(1, 1, 16, Grayscale)
		img.Scanlines()[0][0] = 0x12
		img.Scanlines()[0][1] = 0x34
		r, err := img.Raster()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x1234), r.Img.(*image.Gray16).Gray16At(0, 0).Y)
	})

	t.Run("colour types other than grayscale", func(t *testing.T) {
		_, err := MustNew(2, 2, 8, RGB).Raster()
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestDecodeScanlines(t *testing.T) {
	img := MustNew(12, 4, 1, Grayscale)
	img.PutPixel(0, 11, 3)
	img.AddChunk(NewChunk("tEXt", []byte("a\x00b")))
	b, err := img.Bytes()
	require.NoError(t, err)

	decoded, err := FromBytes(b)
	require.NoError(t, err)
	require.NoError(t, decoded.DecodeScanlines())
	assert.Equal(t, img.Scanlines(), decoded.Scanlines())
	require.Len(t, decoded.Chunks(), 1)
	assert.Equal(t, "tEXt", decoded.Chunks()[0].Type())

	again, err := decoded.Bytes()
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestRasterRejectsFilteredRows(t *testing.T) {
	data, err := ZlibCompressor{Level: 6}.Compress([]byte{1, 0xFF, 0, 0xFF})
	require.NoError(t, err)
	stream := buildStream(ihdrChunk(8, 2, 1, 0), NewChunk("IDAT", data), iend)

	img, err := FromBytes(stream)
	require.NoError(t, err)
	_, err = img.Raster()
	assert.ErrorIs(t, err, ErrUnsupportedFilter)
}

func TestRasterShortData(t *testing.T) {
	data, err := ZlibCompressor{Level: 6}.Compress([]byte{0, 0xFF})
	require.NoError(t, err)
	img, err := FromBytes(buildStream(ihdrChunk(8, 2, 1, 0), NewChunk("IDAT", data), iend))
	require.NoError(t, err)
	assert.ErrorIs(t, img.DecodeScanlines(), ErrTruncated)
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 11, 5))
	src.Set(2, 3, color.White)
	src.Set(10, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	src.Set(5, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	img, err := FromImage(src, 128)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), img.Width())
	assert.Equal(t, uint32(2), img.Height())
	assert.Equal(t, uint8(1), img.Pixel(0, 0))
	assert.Equal(t, uint8(1), img.Pixel(8, 1))
	assert.Equal(t, uint8(0), img.Pixel(3, 1))
	assert.Equal(t, uint8(0), img.Pixel(1, 0))

	_, err = FromImage(image.NewGray(image.Rect(0, 0, 0, 4)), 128)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestAnimate(t *testing.T) {
	a := MustNew(8, 8, 1, Grayscale)
	b := MustNew(8, 8, 1, Grayscale)
	b.PutPixel(0, 4, 4)

	out, err := Animate([]*Image{a, b}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []byte(Signature), out[:8])
	assert.True(t, bytes.Contains(out, []byte("acTL")))

	parsed, err := FromBytes(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), parsed.Width())

	_, err = Animate([]*Image{MustNew(2, 2, 8, RGB)}, 1)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	t.Run("frame delay range", func(t *testing.T) {
		for _, delay := range []float64{-0.001, 65.536, 120, math.NaN()} {
			_, err := Animate([]*Image{a}, delay)
			assert.ErrorIs(t, err, ErrInvalidFrameDelay, "delay %v", delay)
		}
		for _, delay := range []float64{0, MaxFrameDelay} {
			_, err := Animate([]*Image{a}, delay)
			assert.NoError(t, err, "delay %v", delay)
		}
	})
}

func TestNewRasterFromReader(t *testing.T) {
	img := MustNew(5, 5, 8, Grayscale)
	b, err := img.Bytes()
	require.NoError(t, err)

	r, err := NewRasterFromReader(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 5), r.Bounds)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	assert.Equal(t, []byte(Signature), buf.Bytes()[:8])
}

func TestDecodeScanlinesOversizedHeader(t *testing.T) {
	data, err := ZlibCompressor{Level: 6}.Compress([]byte{0, 0, 0})
	require.NoError(t, err)
	stream := buildStream(ihdrChunk(1<<31, 0xFFFFFFFF, 16, 0), NewChunk("IDAT", data), iend)

	img, err := FromBytes(stream)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, img.DecodeScanlines(), ErrTruncated)
		_, err := img.Raster()
		assert.ErrorIs(t, err, ErrTruncated)
	})
	assert.Empty(t, img.Scanlines())
}
