package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"inventory-manager/internal/config"
	"inventory-manager/internal/model"
	"inventory-manager/internal/repository"
	"inventory-manager/internal/service"
	"inventory-manager/pkg/ptr"
)

// sampleProducts covers every report section: healthy stock, low stock and out of stock.
var sampleProducts = []model.NewProduct{
	{SKU: "ELEC0001", Name: "Laptop Pro 14", Category: "Electronics", Price: 1299.99, Quantity: 25, Supplier: "TechCorp", Description: "14-inch laptop"},
	{SKU: "ELEC0002", Name: "Wireless Mouse", Category: "Electronics", Price: 24.50, Quantity: 8, Supplier: "TechCorp"},
	{SKU: "ELEC0003", Name: "USB-C Cable", Category: "Electronics", Price: 9.99, Quantity: 0, Supplier: "CableWorks"},
	{SKU: "FURN0001", Name: "Office Chair", Category: "Furniture", Price: 189.00, Quantity: 12, Supplier: "FurniCo", ReorderLevel: ptr.New(5)},
	{SKU: "FURN0002", Name: "Standing Desk", Category: "Furniture", Price: 449.00, Quantity: 3, Supplier: "FurniCo", ReorderLevel: ptr.New(4)},
	{SKU: "OFFC0001", Name: "A4 Paper (500 sheets)", Category: "Office Supplies", Price: 6.75, Quantity: 140, Supplier: "PaperMill", ReorderLevel: ptr.New(50)},
	{SKU: "OFFC0002", Name: "Ballpoint Pens (12 pack)", Category: "Office Supplies", Price: 4.20, Quantity: 60, Supplier: "PaperMill", ReorderLevel: ptr.New(20)},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var reset bool
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.BoolVar(&reset, "reset", false, "Remove every product before seeding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if path := fs.Arg(0); path != "" {
		cfg.Storage.DataFile = path
	}

	logger := config.NewLogger(cfg.Logger, os.Stderr)
	ctx := context.Background()

	store := repository.NewFileStore(cfg.Storage.DataFile, repository.FileStoreOptions{Strict: true}, logger)
	svc, err := service.NewInventoryService(ctx, store, service.Options{}, logger)
	if err != nil {
		return fmt.Errorf("failed to open inventory: %w", err)
	}

	if reset {
		if err := svc.ClearAll(ctx); err != nil {
			return fmt.Errorf("failed to clear inventory: %w", err)
		}
		logger.Info().Str("file", store.Path()).Msg(model.ClearedMessage)
	}

	added := 0
	for _, in := range sampleProducts {
		_, err := svc.Add(ctx, in)
		switch {
		case errors.Is(err, model.ErrDuplicateKey):
			logger.Info().Str("sku", in.SKU).Msg("sample product already present, skipping")
		case err != nil:
			return fmt.Errorf("failed to add %s: %w", in.SKU, err)
		default:
			added++
		}
	}

	logger.Info().
		Str("file", store.Path()).
		Int("added", added).
		Int("total", svc.ProductCount()).
		Msg("sample inventory seeded")

	return nil
}
