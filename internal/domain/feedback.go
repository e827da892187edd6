package domain

import "time"

// Feedback is a customer review attached to a product.
// UserName is denormalized from the users table for API responses.
type Feedback struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Rating    int32     `json:"rating"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
