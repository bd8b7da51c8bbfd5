package models

// Category groups products by name. Subcategories are plain labels; there
// is no referential link to Product.Categories, which stays free text.
type Category struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories" gorm:"serializer:json;type:text"`
}
