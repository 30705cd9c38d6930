package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserResolver struct {
	users map[uint]*models.User
}

func (r *fakeUserResolver) FindByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func testTokenService(accessExpiry time.Duration) *service.TokenService {
	return service.NewTokenService(config.JWTConfig{
		AccessSecret:            "middleware-access-secret",
		EmailVerificationSecret: "middleware-email-secret",
		PasswordResetSecret:     "middleware-reset-secret",
		AccessTokenExpiry:       accessExpiry,
		EmailVerificationExpiry: 24 * time.Hour,
		PasswordResetExpiry:     15 * time.Minute,
	})
}

// setupRouter wires Authenticate (and optionally RequireAdmin) in front of a
// probe handler that records the resolved user
func setupRouter(tokens *service.TokenService, users UserResolver, adminOnly bool) (*gin.Engine, *models.User) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var seen models.User
	handlers := []gin.HandlerFunc{Authenticate(tokens, users)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin(users))
	}
	handlers = append(handlers, func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			seen = *user
		}
		c.Status(http.StatusOK)
	})

	r.GET("/protected", handlers...)
	return r, &seen
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	r, _ := setupRouter(tokens, &fakeUserResolver{}, false)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	r, _ := setupRouter(tokens, &fakeUserResolver{}, false)

	for _, header := range []string{
		"some-raw-token",
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer one two",
		"bearer lowercase-scheme",
	} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	user := &models.User{ID: 1, Email: "a@example.com"}
	r, _ := setupRouter(tokens, &fakeUserResolver{users: map[uint]*models.User{1: user}}, false)

	other := service.NewTokenService(config.JWTConfig{
		AccessSecret:      "a-completely-different-secret",
		AccessTokenExpiry: 15 * time.Minute,
	})
	forged, err := other.IssueAccessToken(user)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := testTokenService(-time.Second)
	user := &models.User{ID: 1, Email: "a@example.com"}
	r, _ := setupRouter(expired, &fakeUserResolver{users: map[uint]*models.User{1: user}}, false)

	token, err := expired.IssueAccessToken(user)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_DeletedAccountIsForbidden(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	// Token for a user the resolver no longer knows: structurally valid
	// credential, vanished account
	token, err := tokens.IssueAccessToken(&models.User{ID: 99, Email: "gone@example.com"})
	require.NoError(t, err)

	r, _ := setupRouter(tokens, &fakeUserResolver{users: map[uint]*models.User{}}, false)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticate_ResolvesUserIntoContext(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	user := &models.User{ID: 7, Email: "ctx@example.com", Role: models.RoleUser}
	r, seen := setupRouter(tokens, &fakeUserResolver{users: map[uint]*models.User{7: user}}, false)

	token, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, seen.ID)
	assert.Equal(t, user.Email, seen.Email)
}

func TestRequireAdmin(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	admin := &models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}
	regular := &models.User{ID: 2, Email: "user@example.com", Role: models.RoleUser}
	resolver := &fakeUserResolver{users: map[uint]*models.User{1: admin, 2: regular}}
	r, _ := setupRouter(tokens, resolver, true)

	adminToken, err := tokens.IssueAccessToken(admin)
	require.NoError(t, err)
	userToken, err := tokens.IssueAccessToken(regular)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+userToken).Code)
}

func TestRequireAdmin_RoleComesFromStoreNotToken(t *testing.T) {
	tokens := testTokenService(15 * time.Minute)
	user := &models.User{ID: 3, Email: "demoted@example.com", Role: models.RoleAdmin}
	resolver := &fakeUserResolver{users: map[uint]*models.User{3: user}}
	r, _ := setupRouter(tokens, resolver, true)

	token, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doRequest(r, "Bearer "+token).Code)

	// Demotion takes effect immediately, before the token expires
	user.Role = models.RoleUser
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+token).Code)
}
