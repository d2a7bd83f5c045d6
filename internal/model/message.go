package model

import "fmt"

// Success messages rendered by front-ends after an operation completes.

func AddedMessage(p Product) string {
	return fmt.Sprintf("Product '%s' added with SKU: %s", p.Name, p.SKU)
}

func UpdatedMessage(p Product) string {
	return fmt.Sprintf("Product '%s' updated successfully", p.SKU)
}

func DeletedMessage(p Product) string {
	return fmt.Sprintf("Product '%s' (SKU: %s) deleted", p.Name, p.SKU)
}

func StockAddedMessage(p Product, added int) string {
	return fmt.Sprintf("Added %d units to '%s'. New quantity: %d", added, p.Name, p.Quantity)
}

func StockRemovedMessage(p Product, removed int) string {
	return fmt.Sprintf("Removed %d units from '%s'. Remaining: %d", removed, p.Name, p.Quantity)
}

const (
	BackupCreatedMessage = "Backup created successfully"
	ClearedMessage       = "All products have been removed from inventory"
)
