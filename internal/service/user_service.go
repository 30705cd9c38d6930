package service

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/repository"
)

var (
	ErrCannotBanAdmin = errors.New("cannot ban an admin")
	ErrAlreadyBanned  = errors.New("user is already banned")
)

type UserService struct {
	userRepo    *repository.UserRepository
	productRepo *repository.ProductRepository
	tokenRepo   *repository.TokenRepository
	auditRepo   *repository.AuditRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	productRepo *repository.ProductRepository,
	tokenRepo *repository.TokenRepository,
	auditRepo *repository.AuditRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		tokenRepo:   tokenRepo,
		auditRepo:   auditRepo,
	}
}

// ProfileView bundles a user with their product listings
type ProfileView struct {
	User     *models.User     `json:"user"`
	Products []models.Product `json:"products"`
}

// GetUsers returns all registered users
func (s *UserService) GetUsers() ([]models.User, error) {
	return s.userRepo.FindAll()
}

// GetProfile returns a user's public profile with their products
func (s *UserService) GetProfile(userID uint) (*ProfileView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	products, err := s.productRepo.FindByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{User: user, Products: products}, nil
}

// UpdateProfileInput carries the mutable profile fields
type UpdateProfileInput struct {
	Name        string
	PhoneNumber string
	Profile     *models.Profile
}

// UpdateProfile applies profile changes for a user
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Profile != nil {
		user.Profile = *input.Profile
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes a user and their outstanding refresh tokens
func (s *UserService) DeleteAccount(userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.tokenRepo.DeleteByUserID(userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// BanUser flags a user account as banned. Admin accounts cannot be banned.
// Outstanding refresh tokens are left untouched; the ban is enforced at login.
func (s *UserService) BanUser(userID uint, adminID uint) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsAdmin() {
		return ErrCannotBanAdmin
	}
	if user.IsBanned {
		return ErrAlreadyBanned
	}

	user.IsBanned = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}

	adminIDPtr := &adminID
	_ = s.auditRepo.Create(adminIDPtr, "user_banned", fmt.Sprintf("User %d banned by admin %d", userID, adminID))

	return nil
}
