package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfirmationCode is a single-use email confirmation credential.
// Only the bcrypt hash of the code is stored; the plaintext goes out by mail.
type ConfirmationCode struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Consumed  bool      `gorm:"default:false;not null" json:"consumed"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (code *ConfirmationCode) BeforeCreate(tx *gorm.DB) (err error) {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	return
}

func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}
