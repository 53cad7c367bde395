package email

import (
	"context"
	"fmt"

	"contacts_backend/internal/metrics"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) (*SMTPProvider, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = NewTemplateManager()
	}

	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}, nil
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.dialer.DialAndSend(p.buildMessage(email)); err != nil {
		metrics.MailSent.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send email: %w", err)
	}

	metrics.MailSent.WithLabelValues("ok").Inc()
	return nil
}

// SendVerification рендерит шаблон verification и отправляет его
func (p *SMTPProvider) SendVerification(ctx context.Context, to string, link string) error {
	htmlBody, err := p.renderer.Render(TemplateVerification, TemplateData{"Link": link})
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(ctx, &Email{
		To:       []string{to},
		Subject:  verificationSubject,
		Body:     "Verify your email: " + link,
		HTMLBody: htmlBody,
	})
}

// Close закрывает соединение (для SMTP обычно не требуется)
func (p *SMTPProvider) Close() error {
	return nil
}

// buildMessage собирает gomail сообщение. Если в письме не указан From, берется из конфига.
func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	return m
}

func validateConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is required")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", config.Port)
	}
	if config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}
