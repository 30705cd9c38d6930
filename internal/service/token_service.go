package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RefreshTokenTTL is the fixed lifetime of a refresh token from issuance
const RefreshTokenTTL = 7 * 24 * time.Hour

var errInvalidClaims = errors.New("invalid token claims")

// Claims represents JWT custom claims shared by all signed token purposes
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies tokens. Access, email-verification and
// password-reset tokens are stateless signed assertions, each under its own
// secret. Refresh tokens are opaque random strings whose state lives in the
// database, which is what makes server-side revocation possible.
type TokenService struct {
	cfg config.JWTConfig
}

// NewTokenService creates a token service around an immutable JWT config.
// Secrets are read once at construction, never per call.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// IssueAccessToken generates a short-lived signed access token for a user
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	return s.sign(user, s.cfg.AccessSecret, s.cfg.AccessTokenExpiry)
}

// IssueEmailVerificationToken generates a signed email verification token,
// valid for 24 hours under its own secret
func (s *TokenService) IssueEmailVerificationToken(user *models.User) (string, error) {
	return s.sign(user, s.cfg.EmailVerificationSecret, s.cfg.EmailVerificationExpiry)
}

// IssuePasswordResetToken generates a short-lived signed password reset token
// under its own secret
func (s *TokenService) IssuePasswordResetToken(user *models.User) (string, error) {
	return s.sign(user, s.cfg.PasswordResetSecret, s.cfg.PasswordResetExpiry)
}

// IssueRefreshToken generates a cryptographically random opaque refresh token
// record for a user. The record is not persisted; the caller saves it. The
// access token issued alongside is recorded for auditing only.
func (s *TokenService) IssueRefreshToken(user *models.User, accessToken string) (*models.RefreshToken, error) {
	// 32 random bytes, hex-encoded: 256 bits of entropy
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.RefreshToken{
		UserID:      user.ID,
		Token:       hex.EncodeToString(buf),
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(RefreshTokenTTL),
	}, nil
}

// ValidateAccessToken validates and parses a signed access token
func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.AccessSecret)
}

// ValidateEmailVerificationToken validates and parses an email verification token
func (s *TokenService) ValidateEmailVerificationToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.EmailVerificationSecret)
}

// ValidatePasswordResetToken validates and parses a password reset token
func (s *TokenService) ValidatePasswordResetToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.PasswordResetSecret)
}

func (s *TokenService) sign(user *models.User, secret string, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is not configured")
	}

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) verify(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errInvalidClaims
}
