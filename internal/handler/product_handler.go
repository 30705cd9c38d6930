package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Category    string  `json:"category" binding:"required,oneof=electronics fashion home sports books other"`
	Description string  `json:"description" binding:"omitempty"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"required,gte=0"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Tags        string  `json:"tags" binding:"omitempty,max=500"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=2,max=255"`
	Category    string  `json:"category" binding:"omitempty,oneof=electronics fashion home sports books other"`
	Description string  `json:"description" binding:"omitempty"`
	Price       float64 `json:"price" binding:"omitempty,gt=0"`
	Quantity    int     `json:"quantity" binding:"omitempty,gte=0"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Tags        string  `json:"tags" binding:"omitempty,max=500"`
}

// GetProducts returns a filtered, paginated product listing
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if v := c.Query("in_stock"); v != "" {
		inStock := v == "true"
		filter.InStock = &inStock
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	page, err := h.productService.GetProducts(filter)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Products fetched successfully.", page)
}

// GetProduct returns a single product by ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Product ID is invalid")
		return
	}

	product, err := h.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Product not found")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product fetched successfully.", gin.H{
		"product": product,
	})
}

// CreateProduct lists a new product owned by the authenticated user
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(user.ID, service.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Tags:        req.Tags,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "New product created successfully.", gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product owned by the authenticated user
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Product ID is invalid")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(uint(id), user, service.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Tags:        req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrNotProductOwner):
			utils.ErrorResponse(c, http.StatusForbidden, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product updated successfully.", gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product owned by the authenticated user
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Product ID is invalid")
		return
	}

	if err := h.productService.DeleteProduct(uint(id), user); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrNotProductOwner):
			utils.ErrorResponse(c, http.StatusForbidden, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product successfully deleted.", nil)
}
