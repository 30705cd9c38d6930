package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAdminHandler(authService *service.AuthService, userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		userService: userService,
	}
}

// Login authenticates an admin account
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.LoginAdmin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNotAdmin) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	c.SetCookie(refreshCookieName, result.RefreshToken, int(service.RefreshTokenTTL.Seconds()), "/", "", false, true)

	utils.SuccessResponse(c, http.StatusOK, "Login successful.", gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// BanUser bans a user account by ID
func (h *AdminHandler) BanUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "User ID is invalid")
		return
	}

	if err := h.userService.BanUser(uint(userID), admin.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			utils.ErrorResponse(c, http.StatusBadRequest, "Unable to ban, user not found")
		case errors.Is(err, service.ErrCannotBanAdmin), errors.Is(err, service.ErrAlreadyBanned):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to ban user")
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User banned successfully.", nil)
}
