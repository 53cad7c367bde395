package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension - максимальная ширина и высота исходного изображения
const DefaultMaxDimension = 4096

// ErrImageTooLarge - размеры изображения превышают лимит процессора
var ErrImageTooLarge = errors.New("image dimensions exceed the limit")

const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

// Result - закодированное изображение
type Result struct {
	Data   []byte
	Format string // jpeg | png
}

// Extension - расширение файла для итогового формата
func (r *Result) Extension() string {
	if r.Format == FormatJPEG {
		return ".jpg"
	}
	return "." + r.Format
}

// ContentType - MIME-тип итогового формата
func (r *Result) ContentType() string {
	return "image/" + r.Format
}

// Processor handles image processing operations
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality:      quality,
		maxDimension: DefaultMaxDimension,
	}
}

// WithMaxDimension задает лимит ширины и высоты исходного изображения
func (p *Processor) WithMaxDimension(n int) *Processor {
	if n > 0 {
		p.maxDimension = n
	}
	return p
}

// ResizeSquare декодирует изображение и растягивает его ровно до size x size.
// jpeg остается jpeg, остальные форматы кодируются в png.
func (p *Processor) ResizeSquare(reader io.Reader, size int) (*Result, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid target size: %d", size)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	// заголовок проверяем до декодирования, чтобы не выделять память под весь битмап
	width, height, err := GetImageDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if width > p.maxDimension || height > p.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	img, imgFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	result := &Result{}

	switch imgFormat {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		result.Format = FormatJPEG
	case FormatPNG, FormatGIF:
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		result.Format = FormatPNG
	default:
		return nil, fmt.Errorf("unsupported image format: %s", imgFormat)
	}

	result.Data = buf.Bytes()
	return result, nil
}

// GetImageDimensions returns the dimensions of an image
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
