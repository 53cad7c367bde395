package repositories

import (
	"context"
	"testing"

	"contacts_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"id", "email", "password_hash", "avatar_url", "subscription", "token", "verify", "verification_token"}

func TestAccountRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email = `).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow("acc-1", "user@mail.com", "hash", "", "pro", nil, true, nil))

	account, err := repo.FindByEmail(context.Background(), "user@mail.com")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, models.SubscriptionPro, account.Subscription)
	assert.True(t, account.Verify)
	assert.Nil(t, account.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByVerificationTokenNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE verification_token = `).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.FindByVerificationToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE email = `).
		WithArgs("user@mail.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Create(context.Background(), &models.Account{Email: "user@mail.com"})
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateClearsToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`UPDATE "accounts" SET .*"token"=.* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Account{
		BaseModel:    models.BaseModel{ID: "acc-1"},
		Email:        "user@mail.com",
		Subscription: models.SubscriptionStarter,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = `).
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "acc-1"), ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
