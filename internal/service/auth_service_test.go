package service

import (
	"testing"
	"time"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
	"marketplace-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeUserStore struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*models.User), nextID: 1}
}

func (s *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindByID(id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) Create(user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Update(user *models.User) error {
	s.users[user.ID] = user
	return nil
}

type fakeTokenStore struct {
	users   *fakeUserStore
	records map[uint]*models.RefreshToken
	nextID  uint

	// simulates losing the conditional revoke to a concurrent caller
	loseRevokeRace bool
}

func newFakeTokenStore(users *fakeUserStore) *fakeTokenStore {
	return &fakeTokenStore{users: users, records: make(map[uint]*models.RefreshToken), nextID: 1}
}

func (s *fakeTokenStore) Create(token *models.RefreshToken) error {
	token.ID = s.nextID
	s.nextID++
	s.records[token.ID] = token
	return nil
}

func (s *fakeTokenStore) FindByToken(token string) (*models.RefreshToken, error) {
	for _, r := range s.records {
		if r.Token == token {
			record := *r
			if u, ok := s.users.users[r.UserID]; ok {
				record.User = *u
			}
			return &record, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeTokenStore) MarkRevoked(id uint) (bool, error) {
	if s.loseRevokeRace {
		return false, nil
	}
	r, ok := s.records[id]
	if !ok || r.Revoked {
		return false, nil
	}
	r.Revoked = true
	return true, nil
}

type fakeAuditStore struct {
	actions []string
}

func (s *fakeAuditStore) Create(userID *uint, action string, details string) error {
	s.actions = append(s.actions, action)
	return nil
}

type fakeMailer struct {
	verificationsSentTo []string
	resetsSentTo        []string
}

func (m *fakeMailer) SendVerificationEmail(user *models.User) error {
	m.verificationsSentTo = append(m.verificationsSentTo, user.Email)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(user *models.User) error {
	m.resetsSentTo = append(m.resetsSentTo, user.Email)
	return nil
}

type authFixture struct {
	svc    *AuthService
	users  *fakeUserStore
	tokens *fakeTokenStore
	audit  *fakeAuditStore
	mailer *fakeMailer
	issuer *TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore(users)
	audit := &fakeAuditStore{}
	mailer := &fakeMailer{}
	issuer := NewTokenService(testJWTConfig())
	return &authFixture{
		svc:    NewAuthService(users, tokens, audit, issuer, mailer),
		users:  users,
		tokens: tokens,
		audit:  audit,
		mailer: mailer,
		issuer: issuer,
	}
}

func (f *authFixture) registerUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	user, err := f.svc.Register(RegisterInput{
		Name:        "Test User",
		Email:       email,
		PhoneNumber: "555-0100",
		Password:    password,
	})
	require.NoError(t, err)
	return user
}

// ---- registration and login ----

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "dup@example.com", "password1")

	_, err := f.svc.Register(RegisterInput{
		Name:        "Other",
		Email:       "dup@example.com",
		PhoneNumber: "555-0101",
		Password:    "password2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_SendsVerificationEmailForUsersOnly(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "user@example.com", "password1")
	assert.Equal(t, []string{"user@example.com"}, f.mailer.verificationsSentTo)

	_, err := f.svc.Register(RegisterInput{
		Name:        "Root",
		Email:       "admin@example.com",
		PhoneNumber: "555-0102",
		Password:    "password3",
		Role:        models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Len(t, f.mailer.verificationsSentTo, 1, "admins get no verification email")
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "known@example.com", "correct-password")

	_, errWrongPassword := f.svc.Login("known@example.com", "wrong-password")
	_, errUnknownEmail := f.svc.Login("unknown@example.com", "whatever")

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error(),
		"errors must not reveal whether the email exists")
}

func TestLogin_BannedAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "banned@example.com", "password1")
	user.IsBanned = true

	_, err := f.svc.Login("banned@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestLogin_IssuesUsableTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "login@example.com", "password1")

	result, err := f.svc.Login("login@example.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	claims, err := f.issuer.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The refresh token record was persisted and carries the access token
	record, err := f.tokens.FindByToken(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.AccessToken, record.AccessToken)
}

func TestLoginAdmin_RejectsNonAdmins(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "pleb@example.com", "password1")

	_, err := f.svc.LoginAdmin("pleb@example.com", "password1")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

// ---- refresh protocol ----

func TestRefresh_RotationScenario(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "rotate@example.com", "password1")

	login, err := f.svc.Login("rotate@example.com", "password1")
	require.NoError(t, err)
	r1 := login.RefreshToken

	// First rotation succeeds and yields a different token
	second, err := f.svc.Refresh(r1)
	require.NoError(t, err)
	r2 := second.RefreshToken
	require.NotEqual(t, r1, r2)

	// Replaying the rotated token fails with the distinct revoked error
	_, err = f.svc.Refresh(r1)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Contains(t, f.audit.actions, "refresh_token_reuse")

	// The successor still works
	_, err = f.svc.Refresh(r2)
	assert.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_ExpiredTokenDoesNotRotate(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "expired@example.com", "password1")

	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token-string",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.tokens.Create(record))

	_, err := f.svc.Refresh("expired-token-string")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// No rotation happened: record untouched, no successor minted
	assert.False(t, f.tokens.records[record.ID].Revoked)
	assert.Len(t, f.tokens.records, 1, "no successor record was created")
}

func TestRefresh_LosingConcurrentRotationRace(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "race@example.com", "password1")

	login, err := f.svc.Login("race@example.com", "password1")
	require.NoError(t, err)

	// The conditional update reports another caller already won
	f.tokens.loseRevokeRace = true
	_, err = f.svc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

// ---- email verification and password reset ----

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "verify@example.com", "password1")
	require.False(t, user.IsEmailVerified)

	token, err := f.issuer.IssueEmailVerificationToken(user)
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyEmail(token))
	assert.True(t, f.users.users[user.ID].IsEmailVerified)

	// Idempotent
	require.NoError(t, f.svc.VerifyEmail(token))
}

func TestVerifyEmail_RejectsOtherPurposes(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "purpose@example.com", "password1")

	accessToken, err := f.issuer.IssueAccessToken(user)
	require.NoError(t, err)

	err = f.svc.VerifyEmail(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, f.users.users[user.ID].IsEmailVerified)
}

func TestResendVerificationEmail(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "resend@example.com", "password1")

	already, err := f.svc.ResendVerificationEmail("resend@example.com")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Len(t, f.mailer.verificationsSentTo, 2)

	user.IsEmailVerified = true
	already, err = f.svc.ResendVerificationEmail("resend@example.com")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Len(t, f.mailer.verificationsSentTo, 2, "no email for verified accounts")

	_, err = f.svc.ResendVerificationEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestForgotPassword_UnknownEmailNotReported(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword("ghost@example.com")
	assert.NoError(t, err, "unknown addresses must look like success")
	assert.Empty(t, f.mailer.resetsSentTo)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.registerUser(t, "reset@example.com", "old-password")

	token, err := f.issuer.IssuePasswordResetToken(user)
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(token, "new-password"))
	assert.True(t, utils.ComparePassword(f.users.users[user.ID].PasswordHash, "new-password"))

	_, err = f.svc.Login("reset@example.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	f.registerUser(t, "noreset@example.com", "password1")

	err := f.svc.ResetPassword("garbage", "new-password")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
