package service

import (
	"context"

	"inventory-manager/internal/model"
)

// InventoryService defines the operations available over the product collection.
// Mutations persist the whole collection before returning; a failed save leaves
// the in-memory state unchanged and returns a PERSISTENCE_ERROR.
type InventoryService interface {
	// Add creates a product, generating a SKU when none is supplied.
	Add(ctx context.Context, in model.NewProduct) (*model.Product, error)

	// Update applies the set fields of upd to the product identified by sku.
	Update(ctx context.Context, sku string, upd model.ProductUpdate) (*model.Product, error)

	// Delete removes a product and returns it.
	Delete(ctx context.Context, sku string) (*model.Product, error)

	// Get returns a copy of the product with the given SKU.
	Get(sku string) (*model.Product, bool)

	// List returns every product in insertion order.
	List() []model.Product

	// AddStock increases the quantity on hand.
	AddStock(ctx context.Context, sku string, quantity int) (*model.Product, error)

	// RemoveStock decreases the quantity on hand, never below zero.
	RemoveStock(ctx context.Context, sku string, quantity int) (*model.Product, error)

	// SearchByName matches a case-insensitive substring of the name.
	SearchByName(query string) []model.Product

	// SearchByCategory matches the category exactly, ignoring case.
	SearchByCategory(category string) []model.Product

	// SearchBySupplier matches a case-insensitive substring of the supplier.
	SearchBySupplier(supplier string) []model.Product

	// LowStock returns products whose quantity is at or below their reorder level.
	LowStock() []model.Product

	// OutOfStock returns products with zero quantity.
	OutOfStock() []model.Product

	// Categories returns the distinct categories in sorted order.
	Categories() []string

	// ProductCount returns the number of products.
	ProductCount() int

	// TotalStockCount returns the sum of all quantities.
	TotalStockCount() int

	// TotalValue returns the sum of price times quantity over all products.
	TotalValue() float64

	// ValueByCategory returns the total value per category.
	ValueByCategory() map[string]float64

	// Report renders a text summary of the inventory.
	Report() string

	// Backup copies the data file to its backup location.
	Backup(ctx context.Context) error

	// ClearAll removes every product.
	ClearAll(ctx context.Context) error
}

// SKUGenerator produces candidate SKUs for new products.
type SKUGenerator interface {
	NewSKU() string
}

// Observer is notified with the full collection after every persisted change.
type Observer interface {
	InventoryChanged(operation string, products []model.Product)
}
