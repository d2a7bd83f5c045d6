package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inventory-manager/internal/model"
	"inventory-manager/internal/repository"
	"inventory-manager/internal/service"
	"inventory-manager/pkg/ptr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (service.InventoryService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	store := repository.NewFileStore(path, repository.FileStoreOptions{}, zerolog.Nop())
	svc, err := service.NewInventoryService(context.Background(), store, service.Options{}, zerolog.Nop())
	require.NoError(t, err)
	return svc, path
}

func runMenu(t *testing.T, svc service.InventoryService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	menu := NewMenu(svc, input, &out, zerolog.Nop())
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func seed(t *testing.T, svc service.InventoryService, in model.NewProduct) {
	t.Helper()
	_, err := svc.Add(context.Background(), in)
	require.NoError(t, err)
}

func TestMenu_AddProduct(t *testing.T) {
	svc, _ := newTestService(t)

	out := runMenu(t, svc,
		"1", "Widget", "Hardware", "9.99", "5", "Small widget", "", "Acme", "WID001",
		"12",
	)

	assert.Contains(t, out, "[✓] Product 'Widget' added with SKU: WID001")
	p, ok := svc.Get("WID001")
	require.True(t, ok)
	assert.Equal(t, 9.99, p.Price)
	assert.Equal(t, model.DefaultReorderLevel, p.ReorderLevel)
	assert.Equal(t, "Acme", p.Supplier)
	assert.Contains(t, out, "Goodbye!")
}

func TestMenu_AddProduct_RendersServiceFailure(t *testing.T) {
	svc, _ := newTestService(t)

	out := runMenu(t, svc,
		"1", "Widget", "Hardware", "-1", "5", "", "", "", "",
		"12",
	)

	assert.Contains(t, out, "[!] Price cannot be negative")
	assert.Zero(t, svc.ProductCount())
}

func TestMenu_AddProduct_InvalidNumber(t *testing.T) {
	svc, _ := newTestService(t)

	out := runMenu(t, svc, "1", "Widget", "Hardware", "cheap", "12")

	assert.Contains(t, out, "[!] Invalid number format.")
	assert.Zero(t, svc.ProductCount())
}

func TestMenu_UpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "UPD1", Name: "Original", Category: "C", Price: 10, Quantity: 3, Description: "desc", Supplier: "Acme"})

	out := runMenu(t, svc,
		"4", "UPD1", "Renamed", "", "12.5", "", "-", "", "",
		"12",
	)

	assert.Contains(t, out, "[✓] Product 'UPD1' updated successfully")
	p, _ := svc.Get("UPD1")
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, "C", p.Category)
	assert.Equal(t, 12.5, p.Price)
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "Acme", p.Supplier)
}

func TestMenu_DeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "DEL1", Name: "Doomed", Category: "C", Price: 1, Quantity: 1})
	seed(t, svc, model.NewProduct{SKU: "DEL2", Name: "Kept", Category: "C", Price: 1, Quantity: 1})

	out := runMenu(t, svc,
		"5", "DEL2", "n",
		"5", "DEL1", "y",
		"5", "NOPE",
		"12",
	)

	assert.Contains(t, out, "[i] Deletion cancelled.")
	assert.Contains(t, out, "[✓] Product 'Doomed' (SKU: DEL1) deleted")
	assert.Contains(t, out, "[!] Product with SKU 'NOPE' not found")
	assert.Equal(t, 1, svc.ProductCount())
}

func TestMenu_StockAdjustments(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "STK1", Name: "Widget", Category: "C", Price: 1, Quantity: 5, ReorderLevel: ptr.New(2)})

	out := runMenu(t, svc,
		"6", "STK1", "10",
		"7", "STK1", "100",
		"7", "STK1", "13",
		"12",
	)

	assert.Contains(t, out, "[✓] Added 10 units to 'Widget'. New quantity: 15")
	assert.Contains(t, out, "[!] Insufficient stock. Available: 15, Requested: 100")
	assert.Contains(t, out, "[✓] Removed 13 units from 'Widget'. Remaining: 2")
	assert.Contains(t, out, "[!] Warning: 'Widget' is at or below its reorder level (2).")
	p, _ := svc.Get("STK1")
	assert.Equal(t, 2, p.Quantity)
}

func TestMenu_ViewAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "LAP1", Name: "Laptop", Category: "Electronics", Price: 999, Quantity: 20, Supplier: "TechCorp"})
	seed(t, svc, model.NewProduct{SKU: "CHR1", Name: "Chair", Category: "Furniture", Price: 50, Quantity: 0})

	out := runMenu(t, svc,
		"2",
		"3", "LAP1",
		"8", "1", "lap",
		"8", "2", "furniture",
		"8", "3", "nobody",
		"8", "4",
		"9",
		"12",
	)

	assert.Contains(t, out, "--- All Products ---")
	assert.Contains(t, out, "Total: 2 product(s)")
	assert.Contains(t, out, "Price:         $999.00")
	assert.Contains(t, out, "Supplier:      TechCorp")
	assert.Contains(t, out, "--- Found 1 product(s) ---")
	assert.Contains(t, out, "Available categories: Electronics, Furniture")
	assert.Contains(t, out, "[!] No products found.")
	assert.Contains(t, out, "  - Electronics (1 products)")
	assert.Contains(t, out, "--- Low Stock Items ---")
	assert.Contains(t, out, "OUT")
}

func TestMenu_ReportAndBackup(t *testing.T) {
	svc, path := newTestService(t)

	out := runMenu(t, svc, "11", "12")
	assert.Contains(t, out, "[!] Failed to create backup")

	seed(t, svc, model.NewProduct{SKU: "R1", Name: "Thing", Category: "Misc", Price: 2, Quantity: 50})

	out = runMenu(t, svc, "10", "11", "12")
	assert.Contains(t, out, "INVENTORY REPORT")
	assert.Contains(t, out, "Total Inventory Value: $100.00")
	assert.Contains(t, out, "[✓] Backup created successfully")
	assert.FileExists(t, path+repository.BackupSuffix)
}

func TestMenu_InvalidChoiceAndEOF(t *testing.T) {
	svc, _ := newTestService(t)

	var out bytes.Buffer
	menu := NewMenu(svc, strings.NewReader("42\n"), &out, zerolog.Nop())

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "[!] Invalid choice. Please try again.")
}

func TestMenu_StopsOnCancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	menu := NewMenu(svc, strings.NewReader("2\n"), &bytes.Buffer{}, zerolog.Nop())

	assert.ErrorIs(t, menu.Run(ctx), context.Canceled)
}

func TestMenu_SKULookupIgnoresCase(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "AB12CD34", Name: "Gadget", Category: "C", Price: 2, Quantity: 5})

	out := runMenu(t, svc,
		"3", "ab12cd34",
		"6", "ab12cd34", "1",
		"4", "ab12cd34", "", "", "", "", "", "", "",
		"5", "ab12cd34", "y",
		"12",
	)

	assert.Contains(t, out, "SKU:           AB12CD34")
	assert.Contains(t, out, "[✓] Added 1 units to 'Gadget'. New quantity: 6")
	assert.Contains(t, out, "[✓] Product 'AB12CD34' updated successfully")
	assert.Contains(t, out, "[✓] Product 'Gadget' (SKU: AB12CD34) deleted")
	assert.NotContains(t, out, "not found")
	assert.Zero(t, svc.ProductCount())
}

// startMenu runs a menu over a pipe and returns the writer end and the
// channel receiving the result of Run.
func startMenu(t *testing.T, ctx context.Context, svc service.InventoryService) (*io.PipeWriter, <-chan error) {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	menu := NewMenu(svc, pr, io.Discard, zerolog.Nop())
	errc := make(chan error, 1)
	go func() { errc <- menu.Run(ctx) }()
	return pw, errc
}

func waitRun(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		require.FailNow(t, "menu did not return after cancellation")
		return nil
	}
}

func TestMenu_CancelInterruptsPendingPrompt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pw, errc := startMenu(t, ctx, svc)
	_, err := io.WriteString(pw, "9\n")
	require.NoError(t, err)

	cancel()

	assert.ErrorIs(t, waitRun(t, errc), context.Canceled)
}

func TestMenu_CancelDuringStockPromptSkipsChange(t *testing.T) {
	svc, path := newTestService(t)
	seed(t, svc, model.NewProduct{SKU: "STK1", Name: "Widget", Category: "C", Price: 1, Quantity: 5})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pw, errc := startMenu(t, ctx, svc)
	for _, line := range []string{"6\n", "STK1\n"} {
		_, err := io.WriteString(pw, line)
		require.NoError(t, err)
	}

	cancel()

	assert.ErrorIs(t, waitRun(t, errc), context.Canceled)
	p, ok := svc.Get("STK1")
	require.True(t, ok)
	assert.Equal(t, 5, p.Quantity)

	reloaded := repository.NewFileStore(path, repository.FileStoreOptions{Strict: true}, zerolog.Nop())
	products, err := reloaded.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 5, products[0].Quantity)
}
