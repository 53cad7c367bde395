package app

import (
	"context"

	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
)

// MockEmailProvider используется для тестов и локальной разработки.
// Письма не отправляются, ссылка подтверждения пишется в лог.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(ctx context.Context, email *email.Email) error {
	logger.CtxInfo(ctx, "Mock email", "to", email.To, "subject", email.Subject)
	return nil
}

func (m *MockEmailProvider) SendVerification(ctx context.Context, to string, link string) error {
	logger.CtxInfo(ctx, "Mock verification email", "to", to, "link", link)
	return nil
}

func (m *MockEmailProvider) Close() error { return nil }
