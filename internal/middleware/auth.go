package middleware

import (
	"context"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// Authenticator - проверка bearer токена (реализуется AccountService)
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

// AuthMiddleware - middleware проверки JWT и активной сессии
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperrors.HandleError(c, apperrors.ErrNotAuthorized)
			return
		}

		account, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Authorization failed", "path", c.Request.URL.Path, "ip", c.ClientIP())
			apperrors.HandleError(c, err)
			return
		}

		c.Set(contextkeys.AccountKey.String(), account)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), account.ID))
		c.Next()
	}
}

// GetAccount извлекает аккаунт, выставленный AuthMiddleware
func GetAccount(c *gin.Context) (*models.Account, bool) {
	val, exists := c.Get(contextkeys.AccountKey.String())
	if !exists {
		return nil, false
	}
	account, ok := val.(*models.Account)
	return account, ok && account != nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
