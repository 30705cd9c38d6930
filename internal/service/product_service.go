package service

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("you do not own this product")
)

type ProductService struct {
	productRepo *repository.ProductRepository
}

func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Total    int64            `json:"total"`
}

// GetProducts returns a filtered, paginated product listing
func (s *ProductService) GetProducts(filter repository.ProductFilter) (*ProductPage, error) {
	products, total, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}

	return &ProductPage{
		Products: products,
		Page:     filter.Page,
		Limit:    limit,
		Total:    total,
	}, nil
}

// GetProduct returns a single product by ID
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProductInput carries the fields accepted when listing a product
type CreateProductInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int
	Image       string
	Tags        string
}

// CreateProduct lists a new product owned by the given user
func (s *ProductService) CreateProduct(userID uint, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		UserID:      userID,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Image:       input.Image,
		Tags:        input.Tags,
		InStock:     input.Quantity > 0,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct applies changes to a product. Only the owner or an admin may
// update a listing.
func (s *ProductService) UpdateProduct(id uint, actor *models.User, input CreateProductInput) (*models.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotProductOwner
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Quantity >= 0 {
		product.Quantity = input.Quantity
		product.InStock = input.Quantity > 0
	}
	if input.Image != "" {
		product.Image = input.Image
	}
	if input.Tags != "" {
		product.Tags = input.Tags
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product. Only the owner or an admin may delete.
func (s *ProductService) DeleteProduct(id uint, actor *models.User) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if product.UserID != actor.ID && !actor.IsAdmin() {
		return ErrNotProductOwner
	}

	return s.productRepo.Delete(id)
}
