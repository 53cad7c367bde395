package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"contacts_backend/internal/email"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	mu        sync.Mutex
	accounts  map[string]models.Account
	updateErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]models.Account{}}
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ID == id })
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.Email == email })
}

func (r *fakeAccountRepo) FindByVerificationToken(ctx context.Context, token string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.VerificationToken != nil && *a.VerificationToken == token })
}

func (r *fakeAccountRepo) find(match func(models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, repositories.ErrAccountNotFound
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return repositories.ErrAccountAlreadyExists
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return repositories.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

type sentMail struct {
	To   string
	Link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, e *email.Email) error { return m.err }

func (m *fakeMailer) SendVerification(ctx context.Context, to string, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Link: link})
	return nil
}

func (m *fakeMailer) Close() error { return nil }

func newTestContactService(t *testing.T) (ContactService, *repositories.FileContactRepository) {
	t.Helper()
	repo, err := repositories.NewFileContactRepository(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)
	return NewContactService(repo, validator.New()), repo
}

func boolPtr(b bool) *bool { return &b }
