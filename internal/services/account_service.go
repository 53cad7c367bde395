package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/utils"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type AccountService interface {
	// Signup возвращает resent=true, если для неподтвержденного email повторно отправлено письмо
	Signup(ctx context.Context, req *dto.SignupRequest) (account *models.Account, resent bool, err error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
	Logout(ctx context.Context, accountID string) error
	VerifyEmail(ctx context.Context, verificationToken string) error
	ResendVerification(ctx context.Context, req *dto.ResendVerificationRequest) error
	UpdateSubscription(ctx context.Context, accountID string, req *dto.SubscriptionRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error

	AddOwnedContact(ctx context.Context, accountID string, req *dto.ContactRequest) (*models.Contact, error)
	ListOwnedContacts(ctx context.Context, accountID string, query dto.ContactListQuery) ([]models.Contact, error)
}

// AccountConfig - параметры сессий и верификации
type AccountConfig struct {
	JWTSecret    []byte
	TokenTTL     time.Duration
	Verification bool
	// BaseURL - внешний адрес API для ссылки подтверждения
	BaseURL    string
	AvatarSize int
}

type accountService struct {
	accounts  repositories.AccountRepository
	contacts  ContactService
	mailer    email.Provider
	validator *validator.Validator
	cfg       AccountConfig
}

func NewAccountService(
	accounts repositories.AccountRepository,
	contacts ContactService,
	mailer email.Provider,
	v *validator.Validator,
	cfg AccountConfig,
) AccountService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = auth.DefaultTokenTTL
	}
	if cfg.AvatarSize <= 0 {
		cfg.AvatarSize = 250
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &accountService{
		accounts:  accounts,
		contacts:  contacts,
		mailer:    mailer,
		validator: v,
		cfg:       cfg,
	}
}

func (s *accountService) Signup(ctx context.Context, req *dto.SignupRequest) (*models.Account, bool, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.validator, req); err != nil {
		return nil, false, err
	}

	existing, err := s.accounts.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if existing.Verify || !s.cfg.Verification {
			return nil, false, apperrors.ErrEmailAlreadyExists
		}
		if err := s.sendVerification(ctx, existing); err != nil {
			return nil, false, err
		}
		logger.CtxInfo(ctx, "Verification resent on repeated signup", "account_id", existing.ID)
		return existing, true, nil
	case !errors.Is(err, repositories.ErrAccountNotFound):
		logger.CtxWithError(ctx, "Failed to look up account", err)
		return nil, false, apperrors.StorageError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	account := &models.Account{
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    utils.GravatarURL(req.Email, s.cfg.AvatarSize),
		Subscription: models.SubscriptionStarter,
		Verify:       !s.cfg.Verification,
	}
	if s.cfg.Verification {
		token := uuid.NewString()
		account.VerificationToken = &token
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountAlreadyExists) {
			return nil, false, apperrors.ErrEmailAlreadyExists
		}
		logger.CtxWithError(ctx, "Failed to create account", err)
		return nil, false, apperrors.StorageError(err)
	}
	logger.CtxInfo(ctx, "Account created", "account_id", account.ID)

	if s.cfg.Verification {
		// аккаунт остается, письмо можно запросить повторно через POST /users/verify
		if err := s.mailer.SendVerification(ctx, account.Email, s.verificationLink(*account.VerificationToken)); err != nil {
			logger.CtxWithError(ctx, "Failed to send verification email", err, "account_id", account.ID)
			return nil, false, apperrors.UpstreamError(err, "email", "Failed to send verification email")
		}
	}

	return account, false, nil
}

func (s *accountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.CtxWithError(ctx, "Failed to look up account", err)
		return nil, apperrors.StorageError(err)
	}

	if !auth.CheckPasswordHash(req.Password, account.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.cfg.Verification && !account.Verify {
		return nil, apperrors.ErrUserNotVerified
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	account.Token = &token
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.CtxWithError(ctx, "Failed to persist session token", err, "account_id", account.ID)
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Account logged in", "account_id", account.ID)
	return &dto.LoginResponse{
		Token: token,
		User: dto.SessionUser{
			Email:        account.Email,
			Subscription: account.Subscription,
		},
	}, nil
}

// Authenticate проверяет подпись и срок токена и что он совпадает с сохраненным
func (s *accountService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, apperrors.ErrNotAuthorized
	}

	claims, err := auth.ParseToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, apperrors.ErrNotAuthorized
	}

	account, err := s.accounts.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrNotAuthorized
		}
		logger.CtxWithError(ctx, "Failed to load account for token", err)
		return nil, apperrors.StorageError(err)
	}

	if account.Token == nil || *account.Token != token {
		return nil, apperrors.ErrNotAuthorized
	}
	return account, nil
}

func (s *accountService) Logout(ctx context.Context, accountID string) error {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return err
	}

	account.Token = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.CtxWithError(ctx, "Failed to clear session token", err, "account_id", accountID)
		return apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Account logged out", "account_id", accountID)
	return nil
}

func (s *accountService) VerifyEmail(ctx context.Context, verificationToken string) error {
	if !s.cfg.Verification {
		return apperrors.ErrVerificationDisabled
	}

	account, err := s.accounts.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrVerificationNotFound
		}
		return apperrors.StorageError(err)
	}

	account.Verify = true
	account.VerificationToken = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "account_id", account.ID)
	return nil
}

func (s *accountService) ResendVerification(ctx context.Context, req *dto.ResendVerificationRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.validator, req); err != nil {
		return err
	}
	if !s.cfg.Verification {
		return apperrors.ErrVerificationDisabled
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrVerificationNotFound
		}
		return apperrors.StorageError(err)
	}
	if account.Verify {
		return apperrors.ErrAlreadyVerified
	}

	return s.sendVerification(ctx, account)
}

func (s *accountService) UpdateSubscription(ctx context.Context, accountID string, req *dto.SubscriptionRequest) (*models.Account, error) {
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Subscription = models.Subscription(req.Subscription)
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.StorageError(err)
	}
	return account, nil
}

// DeleteAccount удаляет контакты аккаунта, затем сам аккаунт
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	removed, err := s.contacts.RemoveAllOwned(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrAccountNotFound
		}
		logger.CtxWithError(ctx, "Failed to delete account", err, "account_id", accountID)
		return apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Account deleted", "account_id", accountID, "contacts_removed", removed)
	return nil
}

func (s *accountService) AddOwnedContact(ctx context.Context, accountID string, req *dto.ContactRequest) (*models.Contact, error) {
	if accountID == "" {
		return nil, apperrors.ErrNotAuthorized
	}
	return s.contacts.Add(ctx, accountID, req)
}

func (s *accountService) ListOwnedContacts(ctx context.Context, accountID string, query dto.ContactListQuery) ([]models.Contact, error) {
	if accountID == "" {
		return nil, apperrors.ErrNotAuthorized
	}
	return s.contacts.List(ctx, accountID, query)
}

func (s *accountService) findAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.StorageError(err)
	}
	return account, nil
}

// sendVerification выдает токен, если его нет, и отправляет письмо
func (s *accountService) sendVerification(ctx context.Context, account *models.Account) error {
	if account.VerificationToken == nil {
		token := uuid.NewString()
		account.VerificationToken = &token
		if err := s.accounts.Update(ctx, account); err != nil {
			return apperrors.StorageError(err)
		}
	}

	if err := s.mailer.SendVerification(ctx, account.Email, s.verificationLink(*account.VerificationToken)); err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email", err, "account_id", account.ID)
		return apperrors.UpstreamError(err, "email", "Failed to send verification email")
	}
	return nil
}

func (s *accountService) verificationLink(token string) string {
	return s.cfg.BaseURL + "/users/verify/" + token
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
