package inventory

import "time"

// Ingredient is one entry in an account's inventory. Identity within a
// list is the case-insensitive name; ID is an opaque token assigned
// when the entry is first created.
type Ingredient struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit,omitempty"`
	ExpiryDate *string    `json:"expiryDate,omitempty"`
	AddedAt    *time.Time `json:"addedAt,omitempty"`
}

// Inventory is the single per-account container of ingredients.
// The list keeps insertion order.
type Inventory struct {
	ID          uint64       `json:"id"`
	AccountID   uint64       `json:"-"`
	Ingredients []Ingredient `json:"ingredients"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IngredientInput is the upsert payload. Nil pointer fields were not
// supplied and must be preserved when merging into an existing entry.
type IngredientInput struct {
	Name       string   `json:"name"`
	Quantity   *float64 `json:"quantity"`
	Unit       *string  `json:"unit"`
	ExpiryDate *string  `json:"expiryDate"`
}

const (
	defaultQuantity = 1
	defaultUnit     = "piece"
)
