package repository

import (
	"errors"
	"fmt"
	"time"

	"inventory-manager/internal/model"
)

// timestampLayout is the ISO-8601 form written to the data file.
const timestampLayout = time.RFC3339Nano

// Layouts accepted when reading timestamps. Zone-less values are read in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// inventoryFile is the top-level document stored on disk.
type inventoryFile struct {
	Products []productRecord `json:"products"`
}

// productRecord is the on-disk form of a product. Pointer fields detect
// whether a value was present so defaults can be applied on load.
type productRecord struct {
	SKU          *string  `json:"sku"`
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Price        *float64 `json:"price"`
	Quantity     *int     `json:"quantity"`
	Description  *string  `json:"description"`
	ReorderLevel *int     `json:"reorder_level"`
	Supplier     *string  `json:"supplier"`
	CreatedAt    *string  `json:"created_at"`
	UpdatedAt    *string  `json:"updated_at"`
}

func newProductRecord(p model.Product) productRecord {
	createdAt := p.CreatedAt.Format(timestampLayout)
	updatedAt := p.UpdatedAt.Format(timestampLayout)
	return productRecord{
		SKU:          &p.SKU,
		Name:         &p.Name,
		Category:     &p.Category,
		Price:        &p.Price,
		Quantity:     &p.Quantity,
		Description:  &p.Description,
		ReorderLevel: &p.ReorderLevel,
		Supplier:     &p.Supplier,
		CreatedAt:    &createdAt,
		UpdatedAt:    &updatedAt,
	}
}

// toProduct converts a record, applying defaults for optional fields.
// now is used for absent timestamps.
func (r productRecord) toProduct(now time.Time) (model.Product, error) {
	switch {
	case r.SKU == nil || *r.SKU == "":
		return model.Product{}, errors.New("missing sku")
	case r.Name == nil:
		return model.Product{}, fmt.Errorf("product %s: missing name", *r.SKU)
	case r.Category == nil:
		return model.Product{}, fmt.Errorf("product %s: missing category", *r.SKU)
	case r.Price == nil:
		return model.Product{}, fmt.Errorf("product %s: missing price", *r.SKU)
	case r.Quantity == nil:
		return model.Product{}, fmt.Errorf("product %s: missing quantity", *r.SKU)
	}

	p := model.Product{
		SKU:          *r.SKU,
		Name:         *r.Name,
		Category:     *r.Category,
		Price:        *r.Price,
		Quantity:     *r.Quantity,
		ReorderLevel: model.DefaultReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	if r.Supplier != nil {
		p.Supplier = *r.Supplier
	}

	var err error
	if r.CreatedAt != nil {
		if p.CreatedAt, err = parseTimestamp(*r.CreatedAt); err != nil {
			return model.Product{}, fmt.Errorf("product %s: created_at: %w", p.SKU, err)
		}
	}
	if r.UpdatedAt != nil {
		if p.UpdatedAt, err = parseTimestamp(*r.UpdatedAt); err != nil {
			return model.Product{}, fmt.Errorf("product %s: updated_at: %w", p.SKU, err)
		}
	}

	return p, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
