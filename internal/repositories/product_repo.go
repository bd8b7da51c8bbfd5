package repositories

import (
	"katalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// GetAll returns records in the underlying store's natural order; insertion
// order is not guaranteed.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
