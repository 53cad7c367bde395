package dto

import "contacts_backend/internal/models"

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,email-tld"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest - длину пароля проверяем только при регистрации
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SubscriptionRequest struct {
	Subscription string `json:"subscription" validate:"required,subscription"`
}

// ResendVerificationRequest - POST /users/verify
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse - публичное представление аккаунта
type UserResponse struct {
	Email        string              `json:"email"`
	Subscription models.Subscription `json:"subscription"`
	AvatarURL    string              `json:"avatarURL"`
}

// SessionUser - краткая сводка в ответе на логин
type SessionUser struct {
	Email        string              `json:"email"`
	Subscription models.Subscription `json:"subscription"`
}

type SignupResponse struct {
	User UserResponse `json:"user"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponse собирает ответ из модели
func NewUserResponse(account *models.Account) UserResponse {
	return UserResponse{
		Email:        account.Email,
		Subscription: account.Subscription,
		AvatarURL:    account.AvatarURL,
	}
}
