package dto

import "contacts_backend/internal/models"

// ContactRequest - тело POST/PUT контакта
type ContactRequest struct {
	Name     string `json:"name" validate:"required,min=3,contact-name"`
	Email    string `json:"email" validate:"required,email,email-tld"`
	Phone    string `json:"phone" validate:"required,min=3,phone"`
	Favorite *bool  `json:"favorite,omitempty"`
}

// FavoriteRequest - тело PATCH /:id/favorite
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

// ContactListQuery - ?page=&limit=&favorite=
type ContactListQuery struct {
	Page     int   `form:"page" json:"page" validate:"omitempty,min=1"`
	Limit    int   `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Favorite *bool `form:"favorite" json:"favorite"`
}

// Offset переводит номер страницы в смещение
func (q ContactListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// FieldChange - старое и новое значение измененного поля
type FieldChange struct {
	OldValue interface{} `json:"oldValue"`
	NewValue interface{} `json:"newValue"`
}

type ContactResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *models.Contact `json:"data,omitempty"`
}

type ContactUpdateResponse struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	UpdatedFields map[string]FieldChange `json:"updatedFields"`
}
