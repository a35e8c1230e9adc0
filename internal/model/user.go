package model

import "time"

// Roles a user can hold. Stored as-is; no authorization logic reads these yet.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered shopper or administrator.
type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Fullname           string    `json:"fullname" gorm:"size:255;not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role               string    `json:"role" gorm:"size:50;not null;default:'USER'"`
	HasShippingAddress bool      `json:"has_shipping_address" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
