package models

// Product represents a catalog product. Every attribute besides ID is an
// optional free-form field supplied by the storefront client; Images holds
// store-relative file names produced by the image store at upload time.
type Product struct {
	ID           string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Price        float64  `json:"price"`
	Categories   string   `json:"categories"`
	Images       []string `json:"images" gorm:"serializer:json;type:text"`
	MoreDetails  string   `json:"more_details"`
	Reviews      string   `json:"reviews"`
	ShippingTime string   `json:"shipping_time"`
	URL          string   `json:"url"`
}
