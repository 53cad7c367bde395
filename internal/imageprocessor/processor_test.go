package imageprocessor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestResizeSquare_PNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, testImage(400, 200)))

	res, err := NewProcessor(0).ResizeSquare(&src, 250)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, res.Format)
	assert.Equal(t, ".png", res.Extension())
	assert.Equal(t, "image/png", res.ContentType())

	w, h, err := GetImageDimensions(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 250, w)
	assert.Equal(t, 250, h)
}

func TestResizeSquare_JPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, testImage(100, 300), nil))

	res, err := NewProcessor(90).ResizeSquare(&src, 64)
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, res.Format)
	assert.Equal(t, ".jpg", res.Extension())

	_, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestResizeSquare_GIFBecomesPNG(t *testing.T) {
	palette := color.Palette{color.Black, color.White}
	src := image.NewPaletted(image.Rect(0, 0, 20, 20), palette)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, src, nil))

	res, err := NewProcessor(0).ResizeSquare(&buf, 32)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, res.Format)
}

func TestResizeSquare_Errors(t *testing.T) {
	_, err := NewProcessor(0).ResizeSquare(strings.NewReader("not an image"), 250)
	assert.Error(t, err)

	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, testImage(10, 10)))
	_, err = NewProcessor(0).ResizeSquare(&src, 0)
	assert.Error(t, err)
}

// hugePNG - маленький файл, в заголовке которого записаны огромные размеры
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// IHDR: длина [8:12], тип [12:16], данные [16:29], CRC [29:33]
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestResizeSquare_RejectsHugeDimensions(t *testing.T) {
	data := hugePNG(t, 20000, 20000)

	w, h, err := GetImageDimensions(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20000, w)
	assert.Equal(t, 20000, h)

	_, err = NewProcessor(0).ResizeSquare(bytes.NewReader(data), 250)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImageTooLarge))
}

func TestResizeSquare_CustomMaxDimension(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, testImage(64, 32)))

	_, err := NewProcessor(0).WithMaxDimension(50).ResizeSquare(bytes.NewReader(src.Bytes()), 16)
	assert.True(t, errors.Is(err, ErrImageTooLarge))

	_, err = NewProcessor(0).WithMaxDimension(64).ResizeSquare(bytes.NewReader(src.Bytes()), 16)
	assert.NoError(t, err)
}
