package services

import (
	"context"
	"errors"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"
)

// ContactService - операции над контактами в области владельца.
// owner == "" - анонимная область (/contacts).
type ContactService interface {
	List(ctx context.Context, owner string, query dto.ContactListQuery) ([]models.Contact, error)
	Get(ctx context.Context, owner, id string) (*models.Contact, error)
	Add(ctx context.Context, owner string, req *dto.ContactRequest) (*models.Contact, error)
	Remove(ctx context.Context, owner, id string) error
	Update(ctx context.Context, owner, id string, req *dto.ContactRequest) (*models.Contact, map[string]dto.FieldChange, error)
	UpdateFavorite(ctx context.Context, owner, id string, favorite *bool) (*models.Contact, error)
	RemoveAllOwned(ctx context.Context, owner string) (int, error)
}

type contactService struct {
	repo      repositories.ContactRepository
	validator *validator.Validator
}

func NewContactService(repo repositories.ContactRepository, v *validator.Validator) ContactService {
	return &contactService{
		repo:      repo,
		validator: v,
	}
}

func (s *contactService) List(ctx context.Context, owner string, query dto.ContactListQuery) ([]models.Contact, error) {
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, err
	}

	contacts, err := s.repo.List(ctx, repositories.ContactFilter{
		Owner:    owner,
		Favorite: query.Favorite,
		Limit:    query.Limit,
		Offset:   query.Offset(),
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to list contacts", err, "owner", owner)
		return nil, apperrors.StorageError(err)
	}

	logger.CtxDebug(ctx, "Contacts listed", "owner", owner, "count", len(contacts))
	return contacts, nil
}

func (s *contactService) Get(ctx context.Context, owner, id string) (*models.Contact, error) {
	contact, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, s.translate(ctx, err, "get", id)
	}
	return contact, nil
}

func (s *contactService) Add(ctx context.Context, owner string, req *dto.ContactRequest) (*models.Contact, error) {
	normalizeContact(req)
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	}
	if owner != "" {
		contact.OwnerID = &owner
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		logger.CtxWithError(ctx, "Failed to create contact", err, "owner", owner)
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Contact created", "contact_id", contact.ID)
	return contact, nil
}

func (s *contactService) Remove(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return s.translate(ctx, err, "delete", id)
	}

	logger.CtxInfo(ctx, "Contact deleted", "contact_id", id)
	return nil
}

// Update сохраняет новые значения и возвращает только реально изменившиеся поля
func (s *contactService) Update(ctx context.Context, owner, id string, req *dto.ContactRequest) (*models.Contact, map[string]dto.FieldChange, error) {
	normalizeContact(req)
	if err := validateRequest(s.validator, req); err != nil {
		return nil, nil, err
	}

	changes := make(map[string]dto.FieldChange)
	updated, err := s.repo.Update(ctx, owner, id, func(c *models.Contact) error {
		diffString(changes, "name", &c.Name, req.Name)
		diffString(changes, "email", &c.Email, req.Email)
		diffString(changes, "phone", &c.Phone, req.Phone)

		if req.Favorite != nil && c.IsFavorite() != *req.Favorite {
			changes["favorite"] = dto.FieldChange{OldValue: c.IsFavorite(), NewValue: *req.Favorite}
			fav := *req.Favorite
			c.Favorite = &fav
		}
		return nil
	})
	if err != nil {
		return nil, nil, s.translate(ctx, err, "update", id)
	}

	logger.CtxInfo(ctx, "Contact updated", "contact_id", id, "changed", len(changes))
	return updated, changes, nil
}

// UpdateFavorite меняет только флаг, без валидации остальных полей
func (s *contactService) UpdateFavorite(ctx context.Context, owner, id string, favorite *bool) (*models.Contact, error) {
	if favorite == nil {
		return nil, apperrors.ErrMissingFavorite
	}

	value := *favorite
	updated, err := s.repo.Update(ctx, owner, id, func(c *models.Contact) error {
		c.Favorite = &value
		return nil
	})
	if err != nil {
		return nil, s.translate(ctx, err, "update favorite", id)
	}
	return updated, nil
}

func (s *contactService) RemoveAllOwned(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, nil
	}

	n, err := s.repo.DeleteByOwner(ctx, owner)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to delete owned contacts", err, "owner", owner)
		return 0, apperrors.StorageError(err)
	}
	return n, nil
}

func (s *contactService) translate(ctx context.Context, err error, op, id string) error {
	if errors.Is(err, repositories.ErrContactNotFound) {
		return apperrors.ErrContactNotFound
	}

	logger.CtxWithError(ctx, "Contact storage failure", err, "op", op, "contact_id", id)
	return apperrors.StorageError(err)
}

func normalizeContact(req *dto.ContactRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
}

func diffString(changes map[string]dto.FieldChange, field string, current *string, next string) {
	if *current == next {
		return
	}
	changes[field] = dto.FieldChange{OldValue: *current, NewValue: next}
	*current = next
}
