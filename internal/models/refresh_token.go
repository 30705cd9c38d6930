package models

import "time"

// RefreshToken represents the refresh_tokens table.
// Token is an opaque random string, not a signed assertion; revocation is
// server-side state. AccessToken records the access token issued alongside
// for auditing only and plays no part in validation.
type RefreshToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Token       string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	AccessToken string    `gorm:"type:text" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	Revoked     bool      `gorm:"default:false" json:"revoked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Active reports whether the token can still be exchanged: not revoked
// and not past its expiry at the given instant. Expiry is checked against
// an explicit clock value so callers control the reference time.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
