package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"inventory-manager/internal/model"
	"inventory-manager/pkg/ptr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_Report(t *testing.T) {
	clock := newClock()
	svc, _ := newFileBackedService(t, Options{Now: clock.Now})
	mustAdd(t, svc, model.NewProduct{SKU: "LAP001", Name: "Laptop", Category: "Electronics", Price: 999.99, Quantity: 20})
	mustAdd(t, svc, model.NewProduct{SKU: "CHR001", Name: "Chair", Category: "Furniture", Price: 50, Quantity: 4, ReorderLevel: ptr.New(5)})
	mustAdd(t, svc, model.NewProduct{SKU: "CBL001", Name: "Cable", Category: "Electronics", Price: 5, Quantity: 0})

	rule := strings.Repeat("=", 60)
	expected := strings.Join([]string{
		rule,
		"INVENTORY REPORT",
		"Generated: 2026-10-15 12:00:00",
		rule,
		"",
		"Total Products: 3",
		"Total Stock Count: 24 units",
		"Total Inventory Value: $20199.80",
		"",
		"--- Value by Category ---",
		"  Electronics: $19999.80",
		"  Furniture: $200.00",
		"",
		"--- Low Stock Alert ---",
		"  2 product(s) at or below reorder level:",
		"    - Chair (SKU: CHR001): 4 units (reorder at 5)",
		"    - Cable (SKU: CBL001): 0 units (reorder at 10)",
		"",
		"--- Out of Stock ---",
		"  1 product(s) out of stock:",
		"    - Cable (SKU: CBL001)",
		"",
		rule,
	}, "\n")

	assert.Equal(t, expected, svc.Report())
}

func TestInventoryService_Report_OmitsEmptySections(t *testing.T) {
	clock := newClock()
	svc, _ := newFileBackedService(t, Options{Now: clock.Now})
	mustAdd(t, svc, model.NewProduct{SKU: "OK1", Name: "Plenty", Category: "Misc", Price: 1.5, Quantity: 100})

	report := svc.Report()

	assert.Contains(t, report, "Total Products: 1")
	assert.Contains(t, report, "  Misc: $150.00")
	assert.NotContains(t, report, "Low Stock Alert")
	assert.NotContains(t, report, "Out of Stock")
}

func TestInventoryService_Report_Empty(t *testing.T) {
	svc, _ := newFileBackedService(t, Options{Now: newClock().Now})

	report := svc.Report()

	assert.Contains(t, report, "Total Products: 0")
	assert.Contains(t, report, "Total Stock Count: 0 units")
	assert.Contains(t, report, "Total Inventory Value: $0.00")
	assert.True(t, strings.HasSuffix(report, "--- Value by Category ---\n\n"+strings.Repeat("=", 60)))
}

func TestInventoryService_Report_SectionsShareOneSnapshot(t *testing.T) {
	svc, _ := newFileBackedService(t, Options{Now: newClock().Now})
	mustAdd(t, svc, model.NewProduct{SKU: "U1", Name: "Unit", Category: "Misc", Price: 1, Quantity: 0})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := svc.AddStock(context.Background(), "U1", 1)
			assert.NoError(t, err)
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		report := svc.Report()

		var stock int
		var total, misc float64
		for _, line := range strings.Split(report, "\n") {
			switch {
			case strings.HasPrefix(line, "Total Stock Count:"):
				_, err := fmt.Sscanf(line, "Total Stock Count: %d units", &stock)
				require.NoError(t, err)
			case strings.HasPrefix(line, "Total Inventory Value:"):
				_, err := fmt.Sscanf(line, "Total Inventory Value: $%f", &total)
				require.NoError(t, err)
			case strings.HasPrefix(line, "  Misc:"):
				_, err := fmt.Sscanf(line, "  Misc: $%f", &misc)
				require.NoError(t, err)
			}
		}
		assert.Equal(t, float64(stock), total)
		assert.Equal(t, total, misc)
		assert.Equal(t, stock == 0, strings.Contains(report, "--- Out of Stock ---"))

		select {
		case <-done:
			return
		default:
		}
	}
}
