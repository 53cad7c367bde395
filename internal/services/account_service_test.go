package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/models"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type accountFixture struct {
	svc      AccountService
	accounts *fakeAccountRepo
	mailer   *fakeMailer
	contacts ContactService
}

func newAccountFixture(t *testing.T, verification bool) *accountFixture {
	t.Helper()
	contacts, _ := newTestContactService(t)
	accounts := newFakeAccountRepo()
	mailer := &fakeMailer{}

	svc := NewAccountService(accounts, contacts, mailer, validator.New(), AccountConfig{
		JWTSecret:    testSecret,
		TokenTTL:     time.Hour,
		Verification: verification,
		BaseURL:      "http://localhost:5000/",
	})
	return &accountFixture{svc: svc, accounts: accounts, mailer: mailer, contacts: contacts}
}

func (f *accountFixture) signupAndLogin(t *testing.T, email string) (*models.Account, string) {
	t.Helper()
	ctx := context.Background()

	account, _, err := f.svc.Signup(ctx, &dto.SignupRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return account, resp.Token
}

func TestAccountService_SignupDefaults(t *testing.T) {
	f := newAccountFixture(t, false)

	account, resent, err := f.svc.Signup(context.Background(), &dto.SignupRequest{Email: " Jane@X.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, resent)
	assert.Equal(t, "jane@x.com", account.Email)
	assert.Equal(t, models.SubscriptionStarter, account.Subscription)
	assert.True(t, account.Verify)
	assert.Nil(t, account.VerificationToken)
	assert.True(t, strings.HasPrefix(account.AvatarURL, "https://www.gravatar.com/avatar/"))
	assert.NotEqual(t, "secret1", account.PasswordHash)
	assert.Empty(t, f.mailer.sent)
}

func TestAccountService_SignupDuplicate(t *testing.T) {
	f := newAccountFixture(t, false)
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret2"})
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestAccountService_SignupValidation(t *testing.T) {
	f := newAccountFixture(t, false)

	_, _, err := f.svc.Signup(context.Background(), &dto.SignupRequest{Email: "jane@x.com", Password: "123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, _, err = f.svc.Signup(context.Background(), &dto.SignupRequest{Email: "not-email", Password: "secret1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestAccountService_VerificationFlow(t *testing.T) {
	f := newAccountFixture(t, true)
	ctx := context.Background()

	account, _, err := f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, account.Verify)
	require.NotNil(t, account.VerificationToken)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "http://localhost:5000/users/verify/"+*account.VerificationToken, f.mailer.sent[0].Link)

	// неподтвержденный аккаунт не может войти
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "jane@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, apperrors.ErrUserNotVerified))

	// повторная регистрация - повторное письмо, а не новый аккаунт
	again, resent, err := f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, resent)
	assert.Equal(t, account.ID, again.ID)
	assert.Len(t, f.mailer.sent, 2)
	assert.Len(t, f.accounts.accounts, 1)

	require.NoError(t, f.svc.VerifyEmail(ctx, *account.VerificationToken))
	assert.True(t, errors.Is(f.svc.VerifyEmail(ctx, *account.VerificationToken), apperrors.ErrVerificationNotFound))

	err = f.svc.ResendVerification(ctx, &dto.ResendVerificationRequest{Email: "jane@x.com"})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyVerified))

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "jane@x.com", Password: "secret1"})
	assert.NoError(t, err)

	_, _, err = f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestAccountService_SignupMailFailureKeepsAccount(t *testing.T) {
	f := newAccountFixture(t, true)
	f.mailer.err = errors.New("smtp down")

	_, _, err := f.svc.Signup(context.Background(), &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeExternalServiceError))
	assert.Len(t, f.accounts.accounts, 1)
}

func TestAccountService_ResendVerificationErrors(t *testing.T) {
	ctx := context.Background()

	disabled := newAccountFixture(t, false)
	err := disabled.svc.ResendVerification(ctx, &dto.ResendVerificationRequest{Email: "jane@x.com"})
	assert.True(t, errors.Is(err, apperrors.ErrVerificationDisabled))

	enabled := newAccountFixture(t, true)
	err = enabled.svc.ResendVerification(ctx, &dto.ResendVerificationRequest{Email: "nobody@x.com"})
	assert.True(t, errors.Is(err, apperrors.ErrVerificationNotFound))
}

func TestAccountService_LoginUnifiedFailure(t *testing.T) {
	f := newAccountFixture(t, false)
	ctx := context.Background()

	_, _, err := f.svc.Signup(ctx, &dto.SignupRequest{Email: "jane@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, &dto.LoginRequest{Email: "jane@x.com", Password: "secret2"})
	_, shortPassword := f.svc.Login(ctx, &dto.LoginRequest{Email: "jane@x.com", Password: "abc"})
	_, unknownEmail := f.svc.Login(ctx, &dto.LoginRequest{Email: "john@x.com", Password: "secret1"})

	assert.True(t, errors.Is(wrongPassword, apperrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(shortPassword, apperrors.ErrInvalidCredentials))
	assert.False(t, apperrors.HasCode(shortPassword, apperrors.CodeValidationFailed))
	assert.True(t, errors.Is(unknownEmail, apperrors.ErrInvalidCredentials))
}

func TestAccountService_LoginTokenCarriesAccountID(t *testing.T) {
	f := newAccountFixture(t, false)

	account, token := f.signupAndLogin(t, "jane@x.com")

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.ID)
	assert.Equal(t, "jane@x.com", claims.Email)
	assert.False(t, claims.Admin)

	stored, err := f.accounts.FindByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Token)
	assert.Equal(t, token, *stored.Token)
}

func TestAccountService_AuthenticateAndLogout(t *testing.T) {
	f := newAccountFixture(t, false)
	ctx := context.Background()

	account, token := f.signupAndLogin(t, "jane@x.com")

	got, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, token+"x")
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthorized))

	_, err = f.svc.Authenticate(ctx, "")
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthorized))

	require.NoError(t, f.svc.Logout(ctx, account.ID))

	// подпись валидна, но сессия отозвана
	_, err = f.svc.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthorized))
}

func TestAccountService_UpdateSubscription(t *testing.T) {
	f := newAccountFixture(t, false)
	ctx := context.Background()

	account, _ := f.signupAndLogin(t, "jane@x.com")

	updated, err := f.svc.UpdateSubscription(ctx, account.ID, &dto.SubscriptionRequest{Subscription: "pro"})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPro, updated.Subscription)

	_, err = f.svc.UpdateSubscription(ctx, account.ID, &dto.SubscriptionRequest{Subscription: "gold"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestAccountService_OwnedContactsAndDelete(t *testing.T) {
	f := newAccountFixture(t, false)
	ctx := context.Background()

	account, _ := f.signupAndLogin(t, "jane@x.com")

	_, err := f.svc.AddOwnedContact(ctx, account.ID, validContact())
	require.NoError(t, err)
	_, err = f.contacts.Add(ctx, "", validContact())
	require.NoError(t, err)

	owned, err := f.svc.ListOwnedContacts(ctx, account.ID, dto.ContactListQuery{})
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, f.svc.DeleteAccount(ctx, account.ID))

	owned, err = f.contacts.List(ctx, account.ID, dto.ContactListQuery{})
	require.NoError(t, err)
	assert.Empty(t, owned)

	public, err := f.contacts.List(ctx, "", dto.ContactListQuery{})
	require.NoError(t, err)
	assert.Len(t, public, 1)

	assert.True(t, errors.Is(f.svc.DeleteAccount(ctx, account.ID), apperrors.ErrAccountNotFound))
}
