package repository

import (
	"errors"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a new refresh token record
func (r *TokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindByToken finds a refresh token record by its opaque token string,
// with the owning user resolved. The token column carries a unique index
// so at most one record can match.
func (r *TokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := r.db.Where("token = ?", token).
		Preload("User").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// MarkRevoked flips the revoked flag on a refresh token record. The update
// is conditional on revoked still being false, so when two refresh attempts
// race on the same record exactly one caller sees true.
func (r *TokenRepository) MarkRevoked(id uint) (bool, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", id, false).
		Update("revoked", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteByUserID removes all refresh token records owned by a user
func (r *TokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}
