package service

import (
	"errors"
	"fmt"
	"time"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/utils"
)

// Sentinel errors surfaced by the auth flows. Handlers map these onto
// HTTP status codes with errors.Is.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserBanned         = errors.New("this account has been banned")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrNotAdmin           = errors.New("this user is not a registered admin")

	// ErrInvalidToken covers unknown and expired refresh tokens alike so a
	// caller probing with guessed tokens learns nothing extra. A revoked
	// token is reported distinctly: presenting one signals replay of an
	// already-rotated credential.
	ErrInvalidToken = errors.New("refresh token is invalid or expired")
	ErrTokenRevoked = errors.New("refresh token has been revoked")
)

// UserStore is the slice of user persistence the auth flows need
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
}

// TokenStore persists refresh token records
type TokenStore interface {
	Create(token *models.RefreshToken) error
	FindByToken(token string) (*models.RefreshToken, error)
	MarkRevoked(id uint) (bool, error)
}

// AuditStore records security-relevant events
type AuditStore interface {
	Create(userID *uint, action string, details string) error
}

// MailSender delivers account emails. Implementations may queue rather
// than send inline.
type MailSender interface {
	SendVerificationEmail(user *models.User) error
	SendPasswordResetEmail(user *models.User) error
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	audit  AuditStore
	issuer *TokenService
	mailer MailSender
}

func NewAuthService(users UserStore, tokens TokenStore, audit AuditStore, issuer *TokenService, mailer MailSender) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
		issuer: issuer,
		mailer: mailer,
	}
}

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Profile     models.Profile
}

// LoginResult bundles the authenticated user with a fresh token pair
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new user account and queues a verification email for
// regular users
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: passwordHash,
		Role:         role,
		Profile:      input.Profile,
		IsActive:     true,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.Role == models.RoleUser {
		if err := s.mailer.SendVerificationEmail(user); err != nil {
			return nil, fmt.Errorf("failed to send verification email: %w", err)
		}
	}

	userIDPtr := &user.ID
	_ = s.audit.Create(userIDPtr, "user_registration", fmt.Sprintf("User %s registered", user.Email))

	return user, nil
}

// Login authenticates a user by email and password and issues a token pair.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, ErrUserBanned
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	userIDPtr := &user.ID
	_ = s.audit.Create(userIDPtr, "user_login", fmt.Sprintf("User %s logged in", user.Email))

	return result, nil
}

// LoginAdmin authenticates like Login but only admits admin accounts
func (s *AuthService) LoginAdmin(email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, ErrNotAdmin
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	userIDPtr := &user.ID
	_ = s.audit.Create(userIDPtr, "admin_login", fmt.Sprintf("Admin %s logged in", user.Email))

	return result, nil
}

// Refresh exchanges a presented refresh token for a new access/refresh pair,
// revoking the presented token. Each record rotates at most once: when two
// calls race on the same token, the conditional revoke lets exactly one win
// and the loser fails with ErrTokenRevoked.
func (s *AuthService) Refresh(presentedToken string) (*LoginResult, error) {
	record, err := s.tokens.FindByToken(presentedToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if record.Revoked {
		// Replay of an already-rotated token; worth an audit trail entry
		userIDPtr := &record.UserID
		_ = s.audit.Create(userIDPtr, "refresh_token_reuse", "Revoked refresh token presented")
		return nil, ErrTokenRevoked
	}

	// Expiry is enforced here, against the clock, never via derived fields
	if !record.Active(time.Now()) {
		return nil, ErrInvalidToken
	}

	revoked, err := s.tokens.MarkRevoked(record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if !revoked {
		return nil, ErrTokenRevoked
	}

	return s.issuePair(&record.User)
}

// issuePair mints an access token and a persisted refresh token for a user
func (s *AuthService) issuePair(user *models.User) (*LoginResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user, accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// VerifyEmail marks the account referenced by a valid verification token as
// verified. Verifying an already-verified account is a no-op.
func (s *AuthService) VerifyEmail(tokenString string) error {
	claims, err := s.issuer.ValidateEmailVerificationToken(tokenString)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsEmailVerified {
		return nil
	}

	user.IsEmailVerified = true
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ResendVerificationEmail queues a fresh verification email. Returns
// ErrUserNotFound for unknown addresses and succeeds without sending when
// the account is already verified.
func (s *AuthService) ResendVerificationEmail(email string) (alreadyVerified bool, err error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	if user.IsEmailVerified {
		return true, nil
	}

	if err := s.mailer.SendVerificationEmail(user); err != nil {
		return false, fmt.Errorf("failed to send verification email: %w", err)
	}
	return false, nil
}

// ForgotPassword queues a password reset email when the address belongs to
// an account. Unknown addresses are not reported to the caller.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No account enumeration: pretend success
			return nil
		}
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(user); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the account referenced by a valid
// reset token
func (s *AuthService) ResetPassword(tokenString, newPassword string) error {
	claims, err := s.issuer.ValidatePasswordResetToken(tokenString)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	userIDPtr := &user.ID
	_ = s.audit.Create(userIDPtr, "password_reset", fmt.Sprintf("Password reset for %s", user.Email))

	return nil
}
