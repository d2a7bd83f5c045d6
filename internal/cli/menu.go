package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"inventory-manager/internal/model"
	"inventory-manager/internal/service"

	"github.com/rs/zerolog"
)

// clearValue entered at an update prompt empties an optional text field.
const clearValue = "-"

// Menu is the interactive text front-end over the inventory service.
// It only prompts and renders; every rule lives in the service.
type Menu struct {
	svc    service.InventoryService
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger

	// lines carries scanned input while Run is active; closed at end of input.
	lines chan string
	ctx   context.Context
}

// NewMenu creates a menu reading commands from in and writing to out.
func NewMenu(svc service.InventoryService, in io.Reader, out io.Writer, logger zerolog.Logger) *Menu {
	return &Menu{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With().Str("component", "cli").Logger(),
	}
}

// Run shows the main menu until the user exits, input ends or ctx is
// cancelled. A cancelled ctx also interrupts a pending prompt.
func (m *Menu) Run(ctx context.Context) error {
	quit := make(chan struct{})
	defer close(quit)

	m.ctx = ctx
	m.lines = make(chan string)
	go m.readLines(quit)

	m.println("\n" + strings.Repeat("=", 50))
	m.println("  INVENTORY MANAGEMENT SYSTEM")
	m.println(strings.Repeat("=", 50))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.showMenu()
		choice, ok := m.prompt("\nEnter your choice (1-12): ")
		if err := ctx.Err(); err != nil {
			m.println("")
			return err
		}
		if !ok {
			m.println("")
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.addProduct(ctx)
		case "2":
			m.viewAll()
		case "3":
			m.viewProduct()
		case "4":
			m.updateProduct(ctx)
		case "5":
			m.deleteProduct(ctx)
		case "6":
			m.adjustStock(ctx, true)
		case "7":
			m.adjustStock(ctx, false)
		case "8":
			m.search()
		case "9":
			m.viewLowStock()
		case "10":
			m.println("\n" + m.svc.Report())
		case "11":
			m.backup(ctx)
		case "12":
			m.println("\nThank you for using the Inventory Management System!")
			m.println("Goodbye!\n")
			return nil
		default:
			m.println("\n[!] Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) showMenu() {
	m.println("\n" + strings.Repeat("-", 40))
	m.println("MAIN MENU")
	m.println(strings.Repeat("-", 40))
	m.println("1.  Add New Product")
	m.println("2.  View All Products")
	m.println("3.  View Product Details")
	m.println("4.  Update Product")
	m.println("5.  Delete Product")
	m.println("6.  Add Stock")
	m.println("7.  Remove Stock (Sale)")
	m.println("8.  Search Products")
	m.println("9.  View Low Stock Items")
	m.println("10. Generate Inventory Report")
	m.println("11. Backup Data")
	m.println("12. Exit")
	m.println(strings.Repeat("-", 40))
}

func (m *Menu) addProduct(ctx context.Context) {
	m.println("\n--- Add New Product ---")

	var in model.NewProduct
	var err error

	in.Name, _ = m.prompt("Product name: ")
	in.Category, _ = m.prompt("Category: ")

	price, _ := m.prompt("Price: $")
	if in.Price, err = strconv.ParseFloat(price, 64); err != nil {
		m.println("[!] Invalid number format.")
		return
	}
	quantity, _ := m.prompt("Initial quantity: ")
	if in.Quantity, err = strconv.Atoi(quantity); err != nil {
		m.println("[!] Invalid number format.")
		return
	}

	in.Description, _ = m.prompt("Description (optional): ")

	reorder, _ := m.prompt(fmt.Sprintf("Reorder level (default %d): ", model.DefaultReorderLevel))
	if reorder != "" {
		level, err := strconv.Atoi(reorder)
		if err != nil {
			m.println("[!] Invalid number format.")
			return
		}
		in.ReorderLevel = &level
	}

	in.Supplier, _ = m.prompt("Supplier (optional): ")
	in.SKU, _ = m.prompt("Custom SKU (leave blank for auto-generated): ")
	if m.interrupted() {
		return
	}

	p, err := m.svc.Add(ctx, in)
	if err != nil {
		m.failure(err)
		return
	}
	m.success(model.AddedMessage(*p))
}

func (m *Menu) viewAll() {
	products := m.svc.List()
	if len(products) == 0 {
		m.println("\n[!] No products in inventory.")
		return
	}
	m.println("\n--- All Products ---")
	m.printTable(products)
}

func (m *Menu) viewProduct() {
	m.println("\n--- View Product Details ---")
	sku := m.promptSKU("Enter SKU: ")

	p, ok := m.svc.Get(sku)
	if !ok {
		m.failure(model.NewNotFoundError(sku))
		return
	}

	status := "OK"
	if p.IsLowStock() {
		status = "LOW STOCK!"
	}

	m.println("\n" + strings.Repeat("-", 40))
	m.printf("SKU:           %s\n", p.SKU)
	m.printf("Name:          %s\n", p.Name)
	m.printf("Category:      %s\n", p.Category)
	m.printf("Price:         $%.2f\n", p.Price)
	m.printf("Quantity:      %d\n", p.Quantity)
	m.printf("Description:   %s\n", orNA(p.Description))
	m.printf("Reorder Level: %d\n", p.ReorderLevel)
	m.printf("Supplier:      %s\n", orNA(p.Supplier))
	m.printf("Created:       %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	m.printf("Last Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	m.printf("Total Value:   $%.2f\n", p.TotalValue())
	m.printf("Stock Status:  %s\n", status)
	m.println(strings.Repeat("-", 40))
}

func (m *Menu) updateProduct(ctx context.Context) {
	m.println("\n--- Update Product ---")
	sku := m.promptSKU("Enter SKU of product to update: ")

	p, ok := m.svc.Get(sku)
	if !ok {
		m.failure(model.NewNotFoundError(sku))
		return
	}

	m.printf("\nCurrent product: %s\n", p.Name)
	m.printf("(Press Enter to keep current value, %q to clear optional text)\n\n", clearValue)

	var upd model.ProductUpdate
	upd.Name = m.promptText(fmt.Sprintf("Name [%s]: ", p.Name), false)
	upd.Category = m.promptText(fmt.Sprintf("Category [%s]: ", p.Category), false)

	var err error
	if upd.Price, err = promptNumber(m, fmt.Sprintf("Price [%.2f]: ", p.Price), parseFloat); err != nil {
		m.println("\n[!] Invalid number format. Update cancelled.")
		return
	}
	if upd.Quantity, err = promptNumber(m, fmt.Sprintf("Quantity [%d]: ", p.Quantity), strconv.Atoi); err != nil {
		m.println("\n[!] Invalid number format. Update cancelled.")
		return
	}
	upd.Description = m.promptText(fmt.Sprintf("Description [%s]: ", orNA(p.Description)), true)
	if upd.ReorderLevel, err = promptNumber(m, fmt.Sprintf("Reorder level [%d]: ", p.ReorderLevel), strconv.Atoi); err != nil {
		m.println("\n[!] Invalid number format. Update cancelled.")
		return
	}
	upd.Supplier = m.promptText(fmt.Sprintf("Supplier [%s]: ", orNA(p.Supplier)), true)
	if m.interrupted() {
		return
	}

	updated, err := m.svc.Update(ctx, sku, upd)
	if err != nil {
		m.failure(err)
		return
	}
	m.success(model.UpdatedMessage(*updated))
}

func (m *Menu) deleteProduct(ctx context.Context) {
	m.println("\n--- Delete Product ---")
	sku := m.promptSKU("Enter SKU of product to delete: ")

	p, ok := m.svc.Get(sku)
	if !ok {
		m.failure(model.NewNotFoundError(sku))
		return
	}

	confirm, ok := m.prompt(fmt.Sprintf("Are you sure you want to delete '%s'? (y/n): ", p.Name))
	if !ok {
		return
	}
	if strings.ToLower(confirm) != "y" {
		m.println("\n[i] Deletion cancelled.")
		return
	}

	deleted, err := m.svc.Delete(ctx, sku)
	if err != nil {
		m.failure(err)
		return
	}
	m.success(model.DeletedMessage(*deleted))
}

func (m *Menu) adjustStock(ctx context.Context, add bool) {
	if add {
		m.println("\n--- Add Stock ---")
	} else {
		m.println("\n--- Remove Stock (Sale) ---")
	}

	sku := m.promptSKU("Enter SKU: ")
	p, ok := m.svc.Get(sku)
	if !ok {
		m.failure(model.NewNotFoundError(sku))
		return
	}
	m.printf("Current stock for '%s': %d\n", p.Name, p.Quantity)

	raw, ok := m.prompt("Quantity: ")
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		m.println("[!] Invalid number format.")
		return
	}

	if add {
		updated, err := m.svc.AddStock(ctx, sku, quantity)
		if err != nil {
			m.failure(err)
			return
		}
		m.success(model.StockAddedMessage(*updated, quantity))
		return
	}

	updated, err := m.svc.RemoveStock(ctx, sku, quantity)
	if err != nil {
		m.failure(err)
		return
	}
	m.success(model.StockRemovedMessage(*updated, quantity))
	if updated.IsLowStock() {
		m.printf("[!] Warning: '%s' is at or below its reorder level (%d).\n", updated.Name, updated.ReorderLevel)
	}
}

func (m *Menu) search() {
	m.println("\n--- Search Products ---")
	m.println("1. Search by name")
	m.println("2. Search by category")
	m.println("3. Search by supplier")
	m.println("4. List all categories")
	choice, _ := m.prompt("Enter choice (1-4): ")

	var results []model.Product
	switch choice {
	case "1":
		query, _ := m.prompt("Enter name to search: ")
		results = m.svc.SearchByName(query)
	case "2":
		categories := m.svc.Categories()
		if len(categories) > 0 {
			m.printf("Available categories: %s\n", strings.Join(categories, ", "))
		}
		query, _ := m.prompt("Enter category: ")
		results = m.svc.SearchByCategory(query)
	case "3":
		query, _ := m.prompt("Enter supplier name: ")
		results = m.svc.SearchBySupplier(query)
	case "4":
		categories := m.svc.Categories()
		if len(categories) == 0 {
			m.println("\n[!] No categories found.")
			return
		}
		m.println("\n--- Categories ---")
		for _, category := range categories {
			m.printf("  - %s (%d products)\n", category, len(m.svc.SearchByCategory(category)))
		}
		return
	default:
		m.println("[!] Invalid choice.")
		return
	}

	if len(results) == 0 {
		m.println("\n[!] No products found.")
		return
	}
	m.printf("\n--- Found %d product(s) ---\n", len(results))
	m.printTable(results)
}

func (m *Menu) viewLowStock() {
	low := m.svc.LowStock()
	if len(low) == 0 {
		m.println("\n[✓] All products are adequately stocked.")
		return
	}
	m.println("\n--- Low Stock Items ---")
	m.printTable(low)
}

func (m *Menu) backup(ctx context.Context) {
	if err := m.svc.Backup(ctx); err != nil {
		m.failure(err)
		return
	}
	m.success(model.BackupCreatedMessage)
}

func (m *Menu) printTable(products []model.Product) {
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tNAME\tCATEGORY\tPRICE\tQTY\tSTATUS")
	for _, p := range products {
		status := "OK"
		switch {
		case p.IsOutOfStock():
			status = "OUT"
		case p.IsLowStock():
			status = "LOW"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%d\t%s\n", p.SKU, p.Name, p.Category, p.Price, p.Quantity, status)
	}
	if err := w.Flush(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to render product table")
	}
	m.printf("\nTotal: %d product(s)\n", len(products))
}

func (m *Menu) success(msg string) {
	m.printf("\n[✓] %s\n", msg)
}

// failure renders the error message verbatim.
func (m *Menu) failure(err error) {
	m.printf("\n[!] %s\n", err.Error())
}

// readLines feeds m.lines until input ends or quit is closed.
func (m *Menu) readLines(quit <-chan struct{}) {
	defer close(m.lines)
	for m.in.Scan() {
		select {
		case m.lines <- m.in.Text():
		case <-quit:
			return
		}
	}
}

// prompt writes label and reads one trimmed line. ok is false at end of
// input or once the Run context is cancelled.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	select {
	case <-m.ctx.Done():
		return "", false
	case line, ok := <-m.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// promptSKU reads a SKU for lookup. Generated SKUs are upper case.
func (m *Menu) promptSKU(label string) string {
	sku, _ := m.prompt(label)
	return strings.ToUpper(sku)
}

// interrupted reports whether Run was cancelled, in which case no further
// changes are submitted.
func (m *Menu) interrupted() bool {
	return m.ctx.Err() != nil
}

// promptText returns nil for a blank answer. When clearable, clearValue yields "".
func (m *Menu) promptText(label string, clearable bool) *string {
	value, _ := m.prompt(label)
	switch {
	case value == "":
		return nil
	case clearable && value == clearValue:
		empty := ""
		return &empty
	}
	return &value
}

// promptNumber returns nil for a blank answer.
func promptNumber[T any](m *Menu, label string, parse func(string) (T, error)) (*T, error) {
	value, _ := m.prompt(label)
	if value == "" {
		return nil, nil
	}
	n, err := parse(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
