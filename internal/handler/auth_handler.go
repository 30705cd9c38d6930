package handler

import (
	"errors"
	"net/http"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=100"`
	Email       string          `json:"email" binding:"required,email"`
	PhoneNumber string          `json:"phone_number" binding:"required,min=6,max=30"`
	Password    string          `json:"password" binding:"required,min=6"`
	Profile     *models.Profile `json:"profile" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	}
	if req.Profile != nil {
		input.Profile = *req.Profile
	}

	user, err := h.authService.Register(input)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "New user successfully registered.", gin.H{
		"user": user,
	})
}

// Login handles user authentication and sets the refresh token cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserBanned) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "Login successful.", gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// RefreshToken rotates a refresh token presented via cookie or query param
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		token = c.Query("token")
	}
	if token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(token)
	if err != nil {
		if errors.Is(err, service.ErrTokenRevoked) || errors.Is(err, service.ErrInvalidToken) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "Successfully refreshed token.", gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// VerifyEmail confirms a user's email address from a signed token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Verification token is required")
		return
	}

	if err := h.authService.VerifyEmail(token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Email verification failed, invalid or expired token")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify email")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email verification successful.", nil)
}

// ResendVerificationEmail re-sends the email verification link
func (h *AuthHandler) ResendVerificationEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	alreadyVerified, err := h.authService.ResendVerificationEmail(req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to resend verification email")
		return
	}

	if alreadyVerified {
		utils.SuccessResponse(c, http.StatusOK, "This user is already verified.", nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Email verification link successfully re-sent.", nil)
}

// ForgotPassword queues a password reset email. Responds identically whether
// or not the address belongs to an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to send password reset email")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "A reset password link has been sent to your mail.", nil)
}

// ResetPassword sets a new password from a signed reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Reset token is required")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Invalid or expired token")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successful.", nil)
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie matching
// the token's 7-day lifetime
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(
		refreshCookieName,
		token,
		int(service.RefreshTokenTTL.Seconds()),
		"/",
		"",    // domain (empty means current domain)
		false, // secure (set to true in production with HTTPS)
		true,  // httpOnly
	)
}
