package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"contacts_backend/internal/models"

	"github.com/google/uuid"
)

// FileContactRepository хранит контакты одним JSON-массивом.
// Файл читается целиком перед операцией и переписывается целиком после изменения;
// все операции сериализованы мьютексом.
type FileContactRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileContactRepository(path string) (*FileContactRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create contacts directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("failed to create contacts file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat contacts file: %w", err)
	}

	return &FileContactRepository{path: path}, nil
}

func (r *FileContactRepository) List(ctx context.Context, filter ContactFilter) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}

	contacts := make([]models.Contact, 0, len(all))
	for _, c := range all {
		if !c.IsOwnedBy(filter.Owner) {
			continue
		}
		// favorite не задан - считаем false
		if filter.Favorite != nil && c.IsFavorite() != *filter.Favorite {
			continue
		}
		contacts = append(contacts, c)
	}

	if filter.Limit > 0 {
		if filter.Offset >= len(contacts) {
			return []models.Contact{}, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(contacts) {
			end = len(contacts)
		}
		contacts = contacts[filter.Offset:end]
	}

	return contacts, nil
}

func (r *FileContactRepository) FindByID(ctx context.Context, owner, id string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, owner, id)
	if idx < 0 {
		return nil, ErrContactNotFound
	}
	contact := all[idx]
	return &contact, nil
}

func (r *FileContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return err
	}

	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	all = append(all, *contact)

	return r.write(all)
}

func (r *FileContactRepository) Update(ctx context.Context, owner, id string, apply func(*models.Contact) error) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, owner, id)
	if idx < 0 {
		return nil, ErrContactNotFound
	}

	updated := all[idx]
	if err := apply(&updated); err != nil {
		return nil, err
	}
	// id неизменяем
	updated.ID = all[idx].ID
	all[idx] = updated

	if err := r.write(all); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *FileContactRepository) Delete(ctx context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return err
	}

	idx := indexOf(all, owner, id)
	if idx < 0 {
		return ErrContactNotFound
	}
	all = append(all[:idx], all[idx+1:]...)

	return r.write(all)
}

// DeleteByOwner удаляет все контакты владельца (каскад при удалении аккаунта)
func (r *FileContactRepository) DeleteByOwner(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return 0, err
	}

	kept := all[:0]
	for _, c := range all {
		if !c.IsOwnedBy(owner) {
			kept = append(kept, c)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.write(kept)
}

func (r *FileContactRepository) read() ([]models.Contact, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}

	var contacts []models.Contact
	if len(data) == 0 {
		return contacts, nil
	}
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts file: %w", err)
	}
	return contacts, nil
}

// write пишет во временный файл и переименовывает, чтобы не оставить обрезанный JSON
func (r *FileContactRepository) write(contacts []models.Contact) error {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode contacts: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".contacts-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write contacts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close contacts file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace contacts file: %w", err)
	}
	return nil
}

func indexOf(contacts []models.Contact, owner, id string) int {
	for i := range contacts {
		if contacts[i].ID == id && contacts[i].IsOwnedBy(owner) {
			return i
		}
	}
	return -1
}
