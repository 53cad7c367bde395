package apperrors

import (
	"net/http"
)

// --- Contacts ---

// ErrContactNotFound - контакт не найден (или принадлежит другому пользователю).
var ErrContactNotFound = New(
	CodeNotFound,
	"contact",
	"Contact not found",
	http.StatusNotFound,
)

// ErrMissingFavorite - в теле PATCH /favorite нет поля favorite.
var ErrMissingFavorite = New(
	CodeValidationFailed,
	"validation",
	"missing field favorite",
	http.StatusBadRequest,
)

// --- Auth & Accounts ---

// ErrEmailAlreadyExists - email уже используется подтвержденным аккаунтом.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email is already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
// Одно и то же сообщение для неизвестного email и неверного пароля.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Email or password is wrong",
	http.StatusUnauthorized,
)

// ErrNotAuthorized - нет токена, токен невалиден, просрочен или уже отозван.
var ErrNotAuthorized = New(
	CodeInvalidToken,
	"auth",
	"Not authorized",
	http.StatusUnauthorized,
)

// ErrUserNotVerified - email не подтвержден.
var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email address",
	http.StatusForbidden,
)

// ErrAccountNotFound - пользователь не найден.
var ErrAccountNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// ErrVerificationNotFound - токен верификации не найден или уже использован.
var ErrVerificationNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// ErrAlreadyVerified - повторный запрос верификации для подтвержденного email.
var ErrAlreadyVerified = New(
	CodeInvalidOperation,
	"user",
	"Verification has already been passed",
	http.StatusBadRequest,
)

// ErrVerificationDisabled - верификация email выключена в конфигурации.
var ErrVerificationDisabled = New(
	CodeInvalidOperation,
	"user",
	"Email verification is disabled",
	http.StatusBadRequest,
)

// --- Uploads ---

// ErrAvatarUpload - любая ошибка чтения/ресайза/записи аватара.
// Детали причины только логируются.
var ErrAvatarUpload = New(
	CodeValidationFailed,
	"avatar",
	"Bad request",
	http.StatusBadRequest,
)

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"avatar",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// --- Rate limit ---

// ErrTooManyRequests - превышен лимит запросов.
var ErrTooManyRequests = New(
	CodeLimitExceeded,
	"rate_limit",
	"Too many requests",
	http.StatusTooManyRequests,
)
