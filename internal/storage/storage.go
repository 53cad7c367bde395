package storage

import (
	"context"
	"fmt"
	"io"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Storage - хранилище публичных файлов (аватары)
type Storage interface {
	// Save сохраняет файл по относительному пути
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete удаляет файл; отсутствие файла не ошибка
	Delete(ctx context.Context, path string) error

	// GetURL возвращает публичный URL файла
	GetURL(path string) string
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For S3
	Region    string // For S3
	AccessKey string // For S3
	SecretKey string // For S3
	Endpoint  string // For MinIO/R2 or custom S3
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocalStorage(cfg)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
