package repositories

import "katalog/internal/models"

// UserRepository defines the interface for user data access.
// Users have no update or delete surface.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
