package repositories

import (
	"context"
	"errors"
	"time"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
)

type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

type AccountRepositoryImpl struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *AccountRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*models.Account, error) {
	return r.findOne(ctx, "verification_token = ?", token)
}

func (r *AccountRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where(query, arg).Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, account *models.Account) error {
	// Check if account already exists
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ?", account.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAccountAlreadyExists
	}

	err := r.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountAlreadyExists
	}
	return err
}

// Update сохраняет изменяемые поля. nil-указатели записываются как NULL.
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"password_hash":      account.PasswordHash,
			"avatar_url":         account.AvatarURL,
			"subscription":       account.Subscription,
			"token":              account.Token,
			"verify":             account.Verify,
			"verification_token": account.VerificationToken,
			"updated_at":         time.Now(),
		})
	return result.Error
}

func (r *AccountRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
