package repository

import (
	"errors"
	"time"

	"reviewhub/internal/http-api/models"

	"gorm.io/gorm"
)

// ErrCodeConsumed is returned when a consume races with another request
// that already spent the code.
var ErrCodeConsumed = errors.New("confirmation code already consumed")

type ConfirmationCodeRepository interface {
	Create(code *models.ConfirmationCode) error
	LatestActive(userID string) (*models.ConfirmationCode, error)
	Consume(id string) error
	InvalidateForUser(userID string) error
	DeleteExpired() error
}

type confirmationCodeRepository struct {
	db *gorm.DB
}

func NewConfirmationCodeRepository(db *gorm.DB) ConfirmationCodeRepository {
	return &confirmationCodeRepository{db: db}
}

func (r *confirmationCodeRepository) Create(code *models.ConfirmationCode) error {
	return r.db.Create(code).Error
}

// LatestActive returns the newest unconsumed, unexpired code for the user.
func (r *confirmationCodeRepository) LatestActive(userID string) (*models.ConfirmationCode, error) {
	var code models.ConfirmationCode
	err := r.db.
		Where("user_id = ? AND consumed = ? AND expires_at > ?", userID, false, time.Now()).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Consume marks the code used. The guarded UPDATE is the atomic
// mark-and-check: of two concurrent verifications only one sees a row change.
func (r *confirmationCodeRepository) Consume(id string) error {
	result := r.db.Model(&models.ConfirmationCode{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCodeConsumed
	}
	return nil
}

// InvalidateForUser retires every outstanding code, so a fresh signup
// request leaves exactly one usable code in flight.
func (r *confirmationCodeRepository) InvalidateForUser(userID string) error {
	return r.db.Model(&models.ConfirmationCode{}).
		Where("user_id = ? AND consumed = ?", userID, false).
		Update("consumed", true).Error
}

func (r *confirmationCodeRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.ConfirmationCode{}).Error
}
