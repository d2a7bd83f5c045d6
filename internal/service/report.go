package service

import (
	"fmt"
	"sort"
	"strings"

	"inventory-manager/internal/model"
)

const (
	reportRuleWidth  = 60
	reportTimeLayout = "2006-01-02 15:04:05"
)

// Report renders a text summary of the inventory. Apart from the generation
// time, the output depends only on the collection. Every section is derived
// from one snapshot.
func (s *inventoryService) Report() string {
	s.mu.RLock()
	products := s.snapshot()
	s.mu.RUnlock()

	var low, out []model.Product
	values := make(map[string]float64)
	stock := 0
	total := 0.0
	for _, p := range products {
		stock += p.Quantity
		total += p.TotalValue()
		values[p.Category] += p.TotalValue()
		if p.IsLowStock() {
			low = append(low, p)
		}
		if p.IsOutOfStock() {
			out = append(out, p)
		}
	}

	rule := strings.Repeat("=", reportRuleWidth)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(rule)
	line("INVENTORY REPORT")
	line("Generated: %s", s.now().Format(reportTimeLayout))
	line(rule)
	line("")
	line("Total Products: %d", len(products))
	line("Total Stock Count: %d units", stock)
	line("Total Inventory Value: $%.2f", total)
	line("")
	line("--- Value by Category ---")

	categories := make([]string, 0, len(values))
	for category := range values {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		line("  %s: $%.2f", category, values[category])
	}

	if len(low) > 0 {
		line("")
		line("--- Low Stock Alert ---")
		line("  %d product(s) at or below reorder level:", len(low))
		for _, p := range low {
			line("    - %s (SKU: %s): %d units (reorder at %d)", p.Name, p.SKU, p.Quantity, p.ReorderLevel)
		}
	}

	if len(out) > 0 {
		line("")
		line("--- Out of Stock ---")
		line("  %d product(s) out of stock:", len(out))
		for _, p := range out {
			line("    - %s (SKU: %s)", p.Name, p.SKU)
		}
	}

	line("")
	b.WriteString(rule)

	return b.String()
}
