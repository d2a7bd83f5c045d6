package repository

import (
	"context"

	"inventory-manager/internal/model"
)

// BackupSuffix is appended to the data file path to name its backup copy.
const BackupSuffix = ".backup"

// ProductStore defines the persistence contract for the product collection.
// The whole collection is read and written at once; there are no incremental writes.
type ProductStore interface {
	// Load reads every stored product in file order.
	// A missing, empty or unparsable file yields an empty collection; an error
	// is returned only when the store was configured for strict loading.
	Load(ctx context.Context) ([]model.Product, error)

	// Save replaces the stored collection with products, preserving their order.
	Save(ctx context.Context, products []model.Product) error

	// Backup copies the current data file to its sibling backup file.
	Backup(ctx context.Context) error

	// Exists reports whether the data file is present.
	Exists() bool

	// Path returns the data file location.
	Path() string
}

// BackupMirror ships a copy of a backup to a secondary location.
type BackupMirror interface {
	// Upload stores data under the given object name.
	Upload(ctx context.Context, name string, data []byte) error
}
