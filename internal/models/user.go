package models

// User represents a storefront account. The password is stored exactly as
// received and compared as plain text at login.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Password string `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required"`
}
