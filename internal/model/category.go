package model

import "time"

// Category is a non-owning label. Items point at it through
// Item.CategoryID; Items here is a denormalized back-reference.
type Category struct {
	ID           string    `json:"id" db:"id"`
	CategoryName string    `json:"category_name" db:"category_name"`
	Items        IDList    `json:"items" db:"items"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
