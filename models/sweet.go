package models

import "time"

// Sweet is a catalog entry with a price and a stock count.
// Quantity never drops below zero; the sweets table enforces it with a CHECK.
type Sweet struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SweetPatch carries the fields of a partial update; nil fields are left as they are.
// ClearDescription removes the description and wins over Description.
type SweetPatch struct {
	Name             *string
	Category         *string
	Price            *float64
	Quantity         *int64
	Description      *string
	ClearDescription bool
}

// Empty reports whether the patch changes nothing.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil && p.Quantity == nil &&
		p.Description == nil && !p.ClearDescription
}

// SweetFilter narrows a catalog search. Zero-valued strings and nil bounds
// do not filter.
type SweetFilter struct {
	Name     string   // substring match
	Category string   // exact match
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
}
