package services

import (
	"contacts_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ContactService ContactService
	AccountService AccountService
	AvatarService  AvatarService
	EmailService   email.Provider
}
