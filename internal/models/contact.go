package models

// Contact - запись телефонной книги. Owner == nil для "общих" контактов (/contacts),
// иначе контакт виден только владельцу (/users/contacts).
type Contact struct {
	BaseModel
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Email    string  `gorm:"type:varchar(255);not null" json:"email"`
	Phone    string  `gorm:"type:varchar(64);not null" json:"phone"`
	Favorite *bool   `json:"favorite,omitempty"`
	OwnerID  *string `gorm:"type:varchar(36);index" json:"owner,omitempty"`
}

// IsOwnedBy - owner == "" означает анонимную область (контакты без владельца)
func (c *Contact) IsOwnedBy(owner string) bool {
	if owner == "" {
		return c.OwnerID == nil
	}
	return c.OwnerID != nil && *c.OwnerID == owner
}

func (c *Contact) IsFavorite() bool {
	return c.Favorite != nil && *c.Favorite
}
