package services

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/storage"
)

// EventPublisher publishes catalog lifecycle events. Satisfied by
// *rabbitmq.Client; a nil publisher disables publishing.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductService handles business logic related to products: assembling
// records from request fields plus stored image references, and the
// fallback-merge policy on partial updates.
type ProductService struct {
	repo   repositories.ProductRepository
	images *storage.ImageStore
	events EventPublisher
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images *storage.ImageStore, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		events: events,
	}
}

// ProductPatch is a partial field set for a product update. A field
// overwrites the stored value only when set to a non-zero value; zero
// values leave the stored value unchanged, so this endpoint cannot clear a
// field to empty. Images replace the stored sequence wholesale when
// non-empty, never append.
type ProductPatch struct {
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Price        float64  `json:"price"`
	Categories   string   `json:"categories"`
	Images       []string `json:"images"`
	MoreDetails  string   `json:"more_details"`
	Reviews      string   `json:"reviews"`
	ShippingTime string   `json:"shipping_time"`
	URL          string   `json:"url"`
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct stores each uploaded file, collects the resulting
// references into Images in upload order, and persists the assembled
// product. No field validation is applied; an empty record is accepted.
func (s *ProductService) CreateProduct(product *models.Product, uploads []*multipart.FileHeader) (*models.Product, error) {
	refs := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		f, err := upload.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", upload.Filename, err)
		}
		ref, err := s.images.Store(f, upload.Filename)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store upload %s: %w", upload.Filename, err)
		}
		refs = append(refs, ref)
	}
	product.Images = refs

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publish("product.created", product)
	return product, nil
}

// UpdateProduct merges a partial field set into the stored record. The
// target is looked up first; if absent, nothing is written. Merging is
// read-then-write with no transactional guard, so two concurrent updates
// to the same ID can lose the earlier write.
func (s *ProductService) UpdateProduct(id string, patch ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	applyPatch(product, patch)

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publish("product.updated", product)
	return product, nil
}

// DeleteProduct removes a product and returns its final state.
func (s *ProductService) DeleteProduct(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(id); err != nil {
		return nil, err
	}

	s.publish("product.deleted", product)
	return product, nil
}

// applyPatch implements the fallback merge: each incoming field wins only
// when it is non-zero, otherwise the stored value is kept.
func applyPatch(product *models.Product, patch ProductPatch) {
	if patch.Name != "" {
		product.Name = patch.Name
	}
	if patch.Code != "" {
		product.Code = patch.Code
	}
	if patch.Price != 0 {
		product.Price = patch.Price
	}
	if patch.Categories != "" {
		product.Categories = patch.Categories
	}
	if len(patch.Images) > 0 {
		product.Images = patch.Images
	}
	if patch.MoreDetails != "" {
		product.MoreDetails = patch.MoreDetails
	}
	if patch.Reviews != "" {
		product.Reviews = patch.Reviews
	}
	if patch.ShippingTime != "" {
		product.ShippingTime = patch.ShippingTime
	}
	if patch.URL != "" {
		product.URL = patch.URL
	}
}

// publish sends a lifecycle event best-effort. Failures are logged and do
// not affect the outcome of the operation that triggered them.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", eventType, product.ID, err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", eventType, product.ID, err)
	}
}
