package cmd

import (
	"bytes"
	"image"
	"image/color"
	stdpng "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rm-hull/png-chunks/internal/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagonals(t *testing.T) {
	img, err := Diagonals(5, 3, 1, png.Grayscale)
	require.NoError(t, err)

	for _, p := range [][2]uint32{{0, 0}, {1, 1}, {2, 2}, {4, 0}, {3, 1}} {
		assert.Equal(t, uint8(0), img.Pixel(p[0], p[1]), "pixel %v", p)
	}
	assert.Equal(t, uint8(1), img.Pixel(1, 0))
	assert.Equal(t, uint8(1), img.Pixel(4, 2))

	_, err = Diagonals(0, 3, 1, png.Grayscale)
	assert.ErrorIs(t, err, png.ErrInvalidDimensions)

	rgb, err := Diagonals(4, 4, 8, png.RGB)
	require.NoError(t, err)
	assert.Equal(t, 4, rgb.BytesPerRow())

	_, err = Diagonals(4, 4, 1, png.RGB)
	assert.ErrorIs(t, err, png.ErrInvalidBitDepth)
}

func TestDrawColourTypes(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rgb.png")
	require.NoError(t, Draw(path, 6, 4, 16, "rgb+alpha"))
	img, err := png.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, png.RGBAlpha, img.Colour())
	assert.Equal(t, uint8(16), img.BitDepth())

	assert.Error(t, Draw(filepath.Join(dir, "cmyk.png"), 6, 4, 8, "cmyk"))
	assert.ErrorIs(t, Draw(filepath.Join(dir, "bad.png"), 6, 4, 4, "rgb"), png.ErrInvalidBitDepth)
}

func TestDrawAndInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.png")
	require.NoError(t, Draw(path, 101, 101, 1, "grayscale"))

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Inspect(&out, path, false, true))
		assert.True(t, strings.HasPrefix(out.String(), path+": 101x101, 1-bit grayscale\n"))
		assert.Contains(t, out.String(), "IDAT")
		assert.NotContains(t, out.String(), "BAD CRC")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Inspect(&out, path, true, false))
		var report Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, uint32(101), report.Height)
		require.NotEmpty(t, report.Chunks)
		assert.Nil(t, report.Chunks[0].CRCValid)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, Inspect(&bytes.Buffer{}, filepath.Join(dir, "nope.png"), false, false))
	})
}

func TestResave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	img := png.MustNew(30, 30, 1, png.Grayscale)
	img.PutPixel(0, 7, 7)
	img.AddChunk(png.NewChunk("tEXt", []byte("Author\x00me")))
	require.NoError(t, img.Save(src))
	original, err := os.ReadFile(src)
	require.NoError(t, err)

	t.Run("copy", func(t *testing.T) {
		dst := filepath.Join(dir, "copy.png")
		require.NoError(t, Resave(src, dst, false))
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})

	t.Run("recompress", func(t *testing.T) {
		dst := filepath.Join(dir, "recompressed.png")
		require.NoError(t, Resave(src, dst, true))
		loaded, err := png.FromFile(dst)
		require.NoError(t, err)
		require.NoError(t, loaded.DecodeScanlines())
		assert.Equal(t, img.Scanlines(), loaded.Scanlines())
		assert.Equal(t, "tEXt", loaded.Chunks()[0].Type())
	})
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	require.NoError(t, Draw(src, 10, 10, 1, "grayscale"))

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, Render(src, dst, RenderOptions{Invert: true, Width: 20, Height: 20}))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	out, err := stdpng.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())

	assert.Len(t, RenderOptions{Sigma: 1, Width: 5, Invert: true}.stages(), 3)
	assert.Len(t, RenderOptions{Threshold: 100}.stages(), 1)
	assert.Empty(t, RenderOptions{}.stages())
}

func TestRenderThreshold(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	require.NoError(t, Draw(src, 16, 16, 1, "grayscale"))

	dst := filepath.Join(dir, "out.png")
	require.NoError(t, Render(src, dst, RenderOptions{Sigma: 2, Threshold: 128}))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	out, err := stdpng.Decode(f)
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			g := color.GrayModel.Convert(out.At(x, y)).(color.Gray).Y
			assert.True(t, g == 0 || g == 255, "pixel %d,%d = %d", x, y, g)
		}
	}
	assert.Equal(t, uint8(255), color.GrayModel.Convert(out.At(0, 8)).(color.Gray).Y)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "colour.png")

	rgba := image.NewNRGBA(image.Rect(0, 0, 12, 4))
	for x := 0; x < 6; x++ {
		for y := 0; y < 4; y++ {
			rgba.Set(x, y, color.White)
		}
	}
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, stdpng.Encode(f, rgba))
	require.NoError(t, f.Close())

	dst := filepath.Join(dir, "mono.png")
	require.NoError(t, Convert(src, dst, 128, 0))

	img, err := png.FromFile(dst)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), img.Width())
	require.NoError(t, img.DecodeScanlines())
	assert.Equal(t, uint8(1), img.Pixel(0, 0))
	assert.Equal(t, uint8(0), img.Pixel(11, 3))
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	require.NoError(t, Draw(a, 8, 8, 1, "grayscale"))
	require.NoError(t, Draw(b, 8, 8, 1, "grayscale"))

	dst := filepath.Join(dir, "anim.png")
	require.NoError(t, Animate([]string{a, b}, dst, 0.25))

	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("fcTL")))

	assert.Error(t, Animate([]string{filepath.Join(dir, "missing.png")}, dst, 1))

	for _, delay := range []float64{-1, 65.536, 3600} {
		assert.Error(t, Animate([]string{a, b}, dst, delay), "delay %v", delay)
	}
}
