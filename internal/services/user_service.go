package services

import (
	"errors"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

// ErrInvalidCredentials is returned by Login when the email is unknown or
// the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService handles minimal user registration and login.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// Register saves a new user. The password is stored as received.
func (s *UserService) Register(user *models.User) error {
	return s.repo.Create(user)
}

// Login checks the given credentials and returns the matching user.
// Passwords are compared as plain text.
func (s *UserService) Login(email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}
