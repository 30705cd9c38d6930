package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type UpdateProfileRequest struct {
	Name        string          `json:"name" binding:"omitempty,min=2,max=100"`
	PhoneNumber string          `json:"phone_number" binding:"omitempty,min=6,max=30"`
	Profile     *models.Profile `json:"profile" binding:"omitempty"`
}

// GetUsers returns all users (admin only)
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Successfully fetched users.", gin.H{
		"users": users,
	})
}

// GetAuthUser returns the authenticated user's profile with their products
func (h *UserHandler) GetAuthUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(user.ID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Successfully fetched user.", profile)
}

// GetUserProfile returns a user's public profile with their products
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "User ID is invalid")
		return
	}

	profile, err := h.userService.GetProfile(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Successfully fetched user profile.", profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, service.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Profile:     req.Profile,
	})
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Successfully updated user.", gin.H{
		"user": updated,
	})
}

// DeleteAccount deletes the authenticated user's account
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.userService.DeleteAccount(user.ID); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User successfully deleted.", nil)
}
