package model

import "time"

// DefaultReorderLevel is the restock threshold applied when none is supplied.
const DefaultReorderLevel = 10

// Product represents a stock-keeping record in the inventory.
type Product struct {
	SKU          string
	Name         string  `validate:"required"`
	Category     string  `validate:"required"`
	Price        float64 `validate:"gte=0"`
	Quantity     int     `validate:"gte=0"`
	Description  string
	ReorderLevel int `validate:"gte=0"`
	Supplier     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock reports whether the quantity is at or below the reorder level.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// IsOutOfStock reports whether no units are left.
func (p Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// TotalValue returns price multiplied by quantity on hand.
func (p Product) TotalValue() float64 {
	return p.Price * float64(p.Quantity)
}

// NewProduct holds the input for creating a product.
type NewProduct struct {
	// SKU is optional; an empty value means one is generated.
	SKU         string
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
	// ReorderLevel defaults to DefaultReorderLevel when nil.
	ReorderLevel *int
	Supplier     string
}

// ProductUpdate holds a partial update. A nil field is left unchanged,
// a non-nil field is set to the pointed-to value (including "").
type ProductUpdate struct {
	Name         *string
	Category     *string
	Price        *float64
	Quantity     *int
	Description  *string
	ReorderLevel *int
	Supplier     *string
}

// Apply returns a copy of p with every set field of u applied.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.ReorderLevel != nil {
		p.ReorderLevel = *u.ReorderLevel
	}
	if u.Supplier != nil {
		p.Supplier = *u.Supplier
	}
	return p
}
