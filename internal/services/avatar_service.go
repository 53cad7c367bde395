package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"contacts_backend/internal/imageprocessor"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/storage"
	"contacts_backend/internal/utils"
	"contacts_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
)

const avatarDir = "avatars"

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/gif"}

type AvatarService interface {
	// UpdateAvatar сохраняет квадратный аватар и возвращает его URL
	UpdateAvatar(ctx context.Context, account *models.Account, file *multipart.FileHeader) (string, error)
}

type AvatarConfig struct {
	MaxSize int64
	Size    int
}

type avatarService struct {
	accounts  repositories.AccountRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	cfg       AvatarConfig
	now       func() time.Time
}

func NewAvatarService(
	accounts repositories.AccountRepository,
	store storage.Storage,
	processor *imageprocessor.Processor,
	cfg AvatarConfig,
) AvatarService {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1 << 20
	}
	if cfg.Size <= 0 {
		cfg.Size = 250
	}

	return &avatarService{
		accounts:  accounts,
		storage:   store,
		processor: processor,
		cfg:       cfg,
		now:       time.Now,
	}
}

// UpdateAvatar - любые ошибки чтения, ресайза и записи отдаются клиенту как 400 без деталей
func (s *avatarService) UpdateAvatar(ctx context.Context, account *models.Account, file *multipart.FileHeader) (string, error) {
	if account == nil {
		return "", apperrors.ErrNotAuthorized
	}
	if file == nil {
		return "", apperrors.ErrAvatarUpload
	}
	if file.Size > s.cfg.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}

	data, err := s.readUpload(file)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrFileTooLarge) {
			return "", apperrors.ErrFileTooLarge
		}
		logger.CtxWithError(ctx, "Failed to read avatar upload", err, "account_id", account.ID)
		return "", apperrors.ErrAvatarUpload
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedAvatarTypes...) {
		logger.CtxWarn(ctx, "Rejected avatar upload", "account_id", account.ID, "mime", mime.String())
		return "", apperrors.ErrAvatarUpload
	}

	img, err := s.processor.ResizeSquare(bytes.NewReader(data), s.cfg.Size)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to resize avatar", err, "account_id", account.ID)
		return "", apperrors.ErrAvatarUpload
	}

	path := avatarDir + "/" + s.fileName(account.Email, file.Filename, img)
	if err := s.storage.Save(ctx, path, bytes.NewReader(img.Data), img.ContentType()); err != nil {
		logger.CtxWithError(ctx, "Failed to store avatar", err, "account_id", account.ID)
		return "", apperrors.ErrAvatarUpload
	}

	previous := account.AvatarURL
	account.AvatarURL = s.storage.GetURL(path)
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.CtxWithError(ctx, "Failed to persist avatar URL", err, "account_id", account.ID)
		account.AvatarURL = previous
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.CtxWithError(ctx, "Failed to clean up avatar", delErr, "path", path)
		}
		return "", apperrors.ErrAvatarUpload
	}

	s.removePrevious(ctx, previous)

	logger.CtxInfo(ctx, "Avatar updated", "account_id", account.ID, "path", path)
	return account.AvatarURL, nil
}

func (s *avatarService) readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	return data, nil
}

// fileName: email без спецсимволов + unix millis + исходное расширение.
// Если формат поменялся (gif -> png), расширение берется из результата.
func (s *avatarService) fileName(accountEmail, original string, img *imageprocessor.Result) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !extensionMatches(ext, img.Format) {
		ext = img.Extension()
	}
	return utils.SanitizeFileName(accountEmail) + strconv.FormatInt(s.now().UnixMilli(), 10) + ext
}

// removePrevious удаляет прошлый аватар, если он лежит в нашем хранилище (gravatar не трогаем)
func (s *avatarService) removePrevious(ctx context.Context, previousURL string) {
	prefix := s.storage.GetURL(avatarDir + "/")
	if previousURL == "" || !strings.HasPrefix(previousURL, prefix) {
		return
	}

	path := avatarDir + "/" + strings.TrimPrefix(previousURL, prefix)
	if err := s.storage.Delete(ctx, path); err != nil {
		logger.CtxWithError(ctx, "Failed to remove previous avatar", err, "path", path)
	}
}

func extensionMatches(ext, format string) bool {
	switch format {
	case imageprocessor.FormatJPEG:
		return ext == ".jpg" || ext == ".jpeg"
	case imageprocessor.FormatPNG:
		return ext == ".png"
	default:
		return false
	}
}
