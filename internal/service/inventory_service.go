package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-manager/internal/model"
	"inventory-manager/internal/repository"
	"inventory-manager/pkg/validator"

	"github.com/rs/zerolog"
)

// maxSKUAttempts bounds retries when a generated SKU collides with an existing one.
const maxSKUAttempts = 5

// Options holds the optional collaborators of the inventory service.
type Options struct {
	// SKUGenerator defaults to NewUUIDSKUGenerator.
	SKUGenerator SKUGenerator

	// Now defaults to time.Now.
	Now func() time.Time

	// Observer is notified after every persisted change. May be nil.
	Observer Observer
}

// inventoryService implements InventoryService over an in-memory collection
// loaded once from the store.
type inventoryService struct {
	store     repository.ProductStore
	skus      SKUGenerator
	now       func() time.Time
	observer  Observer
	validator validator.Validator
	logger    zerolog.Logger

	mu       sync.RWMutex
	order    []string
	products map[string]model.Product
}

// NewInventoryService creates the inventory service and loads the stored collection.
func NewInventoryService(ctx context.Context, store repository.ProductStore, opts Options, logger zerolog.Logger) (InventoryService, error) {
	if opts.SKUGenerator == nil {
		opts.SKUGenerator = NewUUIDSKUGenerator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &inventoryService{
		store:     store,
		skus:      opts.SKUGenerator,
		now:       opts.Now,
		observer:  opts.Observer,
		validator: validator.NewDefaultValidator(),
		logger:    logger.With().Str("service", "inventory").Logger(),
		products:  make(map[string]model.Product),
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	for _, p := range loaded {
		if _, exists := s.products[p.SKU]; !exists {
			s.order = append(s.order, p.SKU)
		}
		s.products[p.SKU] = p
	}

	s.logger.Info().
		Str("file", store.Path()).
		Int("count", len(s.order)).
		Msg("inventory loaded")

	return s, nil
}

// Add creates a product, generating a SKU when none is supplied.
func (s *inventoryService) Add(ctx context.Context, in model.NewProduct) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reorderLevel := model.DefaultReorderLevel
	if in.ReorderLevel != nil {
		reorderLevel = *in.ReorderLevel
	}

	now := s.now()
	p := model.Product{
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		Price:        in.Price,
		Quantity:     in.Quantity,
		Description:  in.Description,
		ReorderLevel: reorderLevel,
		Supplier:     in.Supplier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := validateProduct(s.validator, p); err != nil {
		s.logger.Debug().Err(err).Str("name", in.Name).Msg("product rejected")
		return nil, err
	}

	if p.SKU != "" {
		if _, exists := s.products[p.SKU]; exists {
			s.logger.Debug().Str("sku", p.SKU).Msg("duplicate SKU rejected")
			return nil, model.NewDuplicateKeyError(p.SKU)
		}
	} else {
		sku, err := s.generateSKU()
		if err != nil {
			return nil, err
		}
		p.SKU = sku
	}

	err := s.commit(ctx, "add",
		func() {
			s.products[p.SKU] = p
			s.order = append(s.order, p.SKU)
		},
		func() {
			delete(s.products, p.SKU)
			s.order = s.order[:len(s.order)-1]
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sku", p.SKU).Str("name", p.Name).Msg("product added")

	return &p, nil
}

// generateSKU asks the generator for a token not already in use.
func (s *inventoryService) generateSKU() (string, error) {
	for i := 0; i < maxSKUAttempts; i++ {
		sku := s.skus.NewSKU()
		if sku == "" {
			continue
		}
		if _, exists := s.products[sku]; !exists {
			return sku, nil
		}
		s.logger.Warn().Str("sku", sku).Msg("generated SKU already in use, retrying")
	}
	return "", model.NewDomainError(model.ErrCodeDuplicateKey, "Unable to generate a unique SKU")
}

// Update applies the set fields of upd. Nothing changes unless every set field is valid.
func (s *inventoryService) Update(ctx context.Context, sku string, upd model.ProductUpdate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[sku]
	if !ok {
		return nil, model.NewNotFoundError(sku)
	}

	candidate := upd.Apply(current)
	if err := validateProduct(s.validator, candidate); err != nil {
		s.logger.Debug().Err(err).Str("sku", sku).Msg("update rejected")
		return nil, err
	}
	candidate.UpdatedAt = s.now()

	err := s.commit(ctx, "update",
		func() { s.products[sku] = candidate },
		func() { s.products[sku] = current },
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sku", sku).Msg("product updated")

	return &candidate, nil
}

// Delete removes a product and returns it.
func (s *inventoryService) Delete(ctx context.Context, sku string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[sku]
	if !ok {
		return nil, model.NewNotFoundError(sku)
	}

	pos := s.position(sku)
	prevOrder := s.order

	err := s.commit(ctx, "delete",
		func() {
			delete(s.products, sku)
			order := make([]string, 0, len(prevOrder)-1)
			order = append(order, prevOrder[:pos]...)
			s.order = append(order, prevOrder[pos+1:]...)
		},
		func() {
			s.products[sku] = current
			s.order = prevOrder
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sku", sku).Str("name", current.Name).Msg("product deleted")

	return &current, nil
}

func (s *inventoryService) position(sku string) int {
	for i, candidate := range s.order {
		if candidate == sku {
			return i
		}
	}
	return -1
}

// Get returns a copy of the product with the given SKU.
func (s *inventoryService) Get(sku string) (*model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[sku]
	if !ok {
		return nil, false
	}
	return &p, true
}

// List returns every product in insertion order.
func (s *inventoryService) List() []model.Product {
	return s.filter(func(model.Product) bool { return true })
}

// AddStock increases the quantity on hand.
func (s *inventoryService) AddStock(ctx context.Context, sku string, quantity int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[sku]
	if !ok {
		return nil, model.NewNotFoundError(sku)
	}
	if quantity <= 0 {
		return nil, model.NewValidationError("Quantity to add must be positive")
	}
	if current.Quantity > math.MaxInt-quantity {
		return nil, model.NewValidationError("Quantity to add is too large")
	}

	updated := current
	updated.Quantity += quantity
	updated.UpdatedAt = s.now()

	if err := s.replace(ctx, "add_stock", current, updated); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sku", sku).
		Int("added", quantity).
		Int("quantity", updated.Quantity).
		Msg("stock added")

	return &updated, nil
}

// RemoveStock decreases the quantity on hand. A request larger than the
// available stock fails without deducting anything.
func (s *inventoryService) RemoveStock(ctx context.Context, sku string, quantity int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[sku]
	if !ok {
		return nil, model.NewNotFoundError(sku)
	}
	if quantity <= 0 {
		return nil, model.NewValidationError("Quantity to remove must be positive")
	}
	if quantity > current.Quantity {
		return nil, model.NewInsufficientStockError(current.Quantity, quantity)
	}

	updated := current
	updated.Quantity -= quantity
	updated.UpdatedAt = s.now()

	if err := s.replace(ctx, "remove_stock", current, updated); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sku", sku).
		Int("removed", quantity).
		Int("quantity", updated.Quantity).
		Msg("stock removed")

	if updated.IsLowStock() {
		s.logger.Warn().
			Str("sku", sku).
			Int("quantity", updated.Quantity).
			Int("reorder_level", updated.ReorderLevel).
			Msg("product at or below reorder level")
	}

	return &updated, nil
}

func (s *inventoryService) replace(ctx context.Context, op string, current, updated model.Product) error {
	return s.commit(ctx, op,
		func() { s.products[current.SKU] = updated },
		func() { s.products[current.SKU] = current },
	)
}

// SearchByName matches a case-insensitive substring of the name.
func (s *inventoryService) SearchByName(query string) []model.Product {
	query = strings.ToLower(query)
	return s.filter(func(p model.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query)
	})
}

// SearchByCategory matches the category exactly, ignoring case.
func (s *inventoryService) SearchByCategory(category string) []model.Product {
	category = strings.ToLower(category)
	return s.filter(func(p model.Product) bool {
		return strings.ToLower(p.Category) == category
	})
}

// SearchBySupplier matches a case-insensitive substring of the supplier.
func (s *inventoryService) SearchBySupplier(supplier string) []model.Product {
	supplier = strings.ToLower(supplier)
	return s.filter(func(p model.Product) bool {
		return strings.Contains(strings.ToLower(p.Supplier), supplier)
	})
}

// LowStock returns products whose quantity is at or below their reorder level.
func (s *inventoryService) LowStock() []model.Product {
	return s.filter(model.Product.IsLowStock)
}

// OutOfStock returns products with zero quantity.
func (s *inventoryService) OutOfStock() []model.Product {
	return s.filter(model.Product.IsOutOfStock)
}

// filter returns copies of the products matching keep, in insertion order.
func (s *inventoryService) filter(keep func(model.Product) bool) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, 0, len(s.order))
	for _, sku := range s.order {
		if p := s.products[sku]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (s *inventoryService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

// ProductCount returns the number of products.
func (s *inventoryService) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// TotalStockCount returns the sum of all quantities.
func (s *inventoryService) TotalStockCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, p := range s.products {
		total += p.Quantity
	}
	return total
}

// TotalValue returns the sum of price times quantity over all products.
func (s *inventoryService) TotalValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, sku := range s.order {
		total += s.products[sku].TotalValue()
	}
	return total
}

// ValueByCategory returns the total value per category.
func (s *inventoryService) ValueByCategory() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]float64)
	for _, sku := range s.order {
		p := s.products[sku]
		values[p.Category] += p.TotalValue()
	}
	return values
}

// Backup copies the data file to its backup location.
func (s *inventoryService) Backup(ctx context.Context) error {
	if err := s.store.Backup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("backup failed")
		return model.NewPersistenceError("Failed to create backup", err)
	}
	return nil
}

// ClearAll removes every product.
func (s *inventoryService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevOrder, prevProducts := s.order, s.products

	err := s.commit(ctx, "clear_all",
		func() {
			s.order = nil
			s.products = make(map[string]model.Product)
		},
		func() {
			s.order, s.products = prevOrder, prevProducts
		},
	)
	if err != nil {
		return err
	}

	s.logger.Warn().Int("removed", len(prevOrder)).Msg("inventory cleared")

	return nil
}

// commit applies a change, persists the whole collection and reverts the
// change if the save fails. Callers must hold the write lock.
func (s *inventoryService) commit(ctx context.Context, op string, apply, revert func()) error {
	apply()

	snapshot := s.snapshot()
	if err := s.store.Save(ctx, snapshot); err != nil {
		revert()
		s.logger.Error().Err(err).Str("operation", op).Msg("failed to persist inventory, change rolled back")
		return model.NewPersistenceError("Failed to save inventory data", err)
	}

	if s.observer != nil {
		s.observer.InventoryChanged(op, snapshot)
	}

	return nil
}

func (s *inventoryService) snapshot() []model.Product {
	out := make([]model.Product, 0, len(s.order))
	for _, sku := range s.order {
		out = append(out, s.products[sku])
	}
	return out
}
