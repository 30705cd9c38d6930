package models

import "time"

// Role constants for the users table
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile holds optional public profile fields, embedded into users
type Profile struct {
	Country   string  `gorm:"size:100" json:"country,omitempty"`
	City      string  `gorm:"size:100" json:"city,omitempty"`
	Picture   string  `gorm:"size:255" json:"picture,omitempty"`
	Website   string  `gorm:"size:255" json:"website,omitempty"`
	Facebook  string  `gorm:"size:255" json:"facebook,omitempty"`
	Instagram string  `gorm:"size:255" json:"instagram,omitempty"`
	Twitter   string  `gorm:"size:255" json:"twitter,omitempty"`
	Rating    float64 `gorm:"default:5" json:"rating"`
}

// User represents the users table
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null;size:100" json:"name"`
	Email           string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PhoneNumber     string    `gorm:"not null;size:30" json:"phone_number"`
	PasswordHash    string    `gorm:"not null;size:255" json:"-"`
	Role            string    `gorm:"type:enum('admin','user');default:'user'" json:"role"`
	Profile         Profile   `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsBanned        bool      `gorm:"default:false" json:"is_banned"`
	IsEmailVerified bool      `gorm:"default:false" json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
