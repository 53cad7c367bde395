package models

type Account struct {
	BaseModel
	Email             string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string       `gorm:"not null"`
	AvatarURL         string       `gorm:"type:varchar(512)"`
	Subscription      Subscription `gorm:"type:varchar(20);default:'starter'"`
	Token             *string      `gorm:"type:text"`
	Verify            bool         `gorm:"default:false"`
	VerificationToken *string      `gorm:"type:varchar(64);index"`

	Contacts []Contact `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
