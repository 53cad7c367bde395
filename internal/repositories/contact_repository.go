package repositories

import (
	"context"
	"errors"
	"time"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContactNotFound = errors.New("contact not found")
)

// ContactFilter - параметры выборки. Owner == "" - контакты без владельца.
type ContactFilter struct {
	Owner    string
	Favorite *bool
	Limit    int
	Offset   int
}

// ContactRepository - общий контракт для БД и JSON-файла
type ContactRepository interface {
	List(ctx context.Context, filter ContactFilter) ([]models.Contact, error)
	FindByID(ctx context.Context, owner, id string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	// Update атомарно читает контакт, применяет apply и сохраняет результат.
	// Если apply возвращает ошибку, ничего не сохраняется.
	Update(ctx context.Context, owner, id string, apply func(*models.Contact) error) (*models.Contact, error)
	Delete(ctx context.Context, owner, id string) error
	// DeleteByOwner удаляет все контакты аккаунта, возвращает количество удаленных
	DeleteByOwner(ctx context.Context, owner string) (int, error)
}

type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

// ownerScope ограничивает запрос областью владельца
func ownerScope(owner string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner == "" {
			return db.Where("owner_id IS NULL")
		}
		return db.Where("owner_id = ?", owner)
	}
}

func (r *ContactRepositoryImpl) List(ctx context.Context, filter ContactFilter) ([]models.Contact, error) {
	query := r.db.WithContext(ctx).Scopes(ownerScope(filter.Owner))

	if filter.Favorite != nil {
		query = query.Where("COALESCE(favorite, false) = ?", *filter.Favorite)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	contacts := make([]models.Contact, 0)
	if err := query.Order("created_at").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) FindByID(ctx context.Context, owner, id string) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).
		Where("id = ?", id).
		Take(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepositoryImpl) Update(ctx context.Context, owner, id string, apply func(*models.Contact) error) (*models.Contact, error) {
	var updated models.Contact

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(ownerScope(owner)).
			Where("id = ?", id).
			Take(&updated).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}

		if err := apply(&updated); err != nil {
			return err
		}

		return tx.Model(&models.Contact{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":       updated.Name,
			"email":      updated.Email,
			"phone":      updated.Phone,
			"favorite":   updated.Favorite,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ContactRepositoryImpl) Delete(ctx context.Context, owner, id string) error {
	result := r.db.WithContext(ctx).Scopes(ownerScope(owner)).
		Where("id = ?", id).
		Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *ContactRepositoryImpl) DeleteByOwner(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("owner_id = ?", owner).Delete(&models.Contact{})
	return int(result.RowsAffected), result.Error
}
