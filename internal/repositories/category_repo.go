package repositories

import "katalog/internal/models"

// CategoryRepository defines the interface for category data access.
// Categories have no update or delete surface.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	Create(category *models.Category) error
}
