package models

import "time"

// Product categories accepted by the API
const (
	CategoryElectronics = "electronics"
	CategoryFashion     = "fashion"
	CategoryHome        = "home"
	CategorySports      = "sports"
	CategoryBooks       = "books"
	CategoryOther       = "other"
)

// Product represents the products table
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Category    string    `gorm:"not null;size:50;index" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	InStock     bool      `gorm:"default:true" json:"in_stock"`
	Tags        string    `gorm:"size:500" json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}
