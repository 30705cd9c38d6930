package middleware

import (
	"errors"
	"net/http"
	"strings"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
	"marketplace-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key under which the authenticated user
// is stored
const ContextUserKey = "authUser"

// UserResolver resolves a user id from an access token to a live account
type UserResolver interface {
	FindByID(id uint) (*models.User, error)
}

// Authenticate validates the bearer access token and resolves it to a user.
// A missing or malformed header, a bad signature or an expired token all
// fail with 401. A structurally valid token whose account no longer exists
// fails with 403: that is a different condition from a bad credential.
func Authenticate(tokens *service.TokenService, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		// Exactly "Bearer <token>", two space-separated parts
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.ErrorResponse(c, http.StatusForbidden, "Account does not exist")
			} else {
				utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to resolve account")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin re-resolves the authenticated user's role and admits only
// admins. Must run after Authenticate.
func RequireAdmin(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		// Role comes from the store, not the token, so demotions take
		// effect before the access token expires
		fresh, err := users.FindByID(user.ID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusForbidden, "Account does not exist")
			c.Abort()
			return
		}

		if !fresh.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Authenticate
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
