package repository

import (
	"errors"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows product listings
type ProductFilter struct {
	Category string
	InStock  *bool
	UserID   uint
	Sort     string
	Page     int
	Limit    int
}

// FindAll returns products matching the filter plus the total match count
func (r *ProductRepository) FindAll(filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := "created_at DESC"
	switch filter.Sort {
	case "price":
		sort = "price ASC"
	case "-price":
		sort = "price DESC"
	case "name":
		sort = "name ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := filter.Page * limit
	if offset < 0 {
		offset = 0
	}

	var products []models.Product
	err := query.Order(sort).
		Limit(limit).
		Offset(offset).
		Preload("User").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByID finds a product by primary key with the owner resolved
func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("User").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByUserID returns all products owned by a user
func (r *ProductRepository) FindByUserID(userID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create creates a new product
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists changed fields of an existing product
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product by primary key
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}
