package metrics

import (
	"inventory-manager/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	namespace     = "inventory"
	labelCategory = "category"
	labelOp       = "operation"
)

// Recorder keeps Prometheus gauges in line with the inventory and, when a
// textfile path is configured, writes them out for the node exporter's
// textfile collector after every change.
type Recorder struct {
	registry *prometheus.Registry
	textfile string
	logger   zerolog.Logger

	Products      prometheus.Gauge
	StockUnits    prometheus.Gauge
	Value         prometheus.Gauge
	LowStock      prometheus.Gauge
	OutOfStock    prometheus.Gauge
	CategoryValue *prometheus.GaugeVec
	Changes       *prometheus.CounterVec
}

// NewRecorder registers the inventory metrics on a fresh registry.
// An empty textfile disables writing.
func NewRecorder(textfile string, logger zerolog.Logger) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		logger:   logger.With().Str("component", "metrics").Logger(),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products",
			Help:      "Number of products in the inventory",
		}),
		StockUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_units",
			Help:      "Total units on hand across all products",
		}),
		Value: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "value",
			Help:      "Total inventory value (price times quantity)",
		}),
		LowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_products",
			Help:      "Products at or below their reorder level",
		}),
		OutOfStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "out_of_stock_products",
			Help:      "Products with zero quantity",
		}),
		CategoryValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "category_value",
				Help:      "Inventory value per category",
			},
			[]string{labelCategory},
		),
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changes_total",
				Help:      "Persisted inventory changes by operation",
			},
			[]string{labelOp},
		),
	}

	r.registry.MustRegister(r.Products, r.StockUnits, r.Value, r.LowStock, r.OutOfStock, r.CategoryValue, r.Changes)
	return r
}

// Observe sets the gauges from products without counting a change.
func (r *Recorder) Observe(products []model.Product) {
	var units, low, out int
	var total float64
	byCategory := make(map[string]float64)

	for _, p := range products {
		units += p.Quantity
		total += p.TotalValue()
		byCategory[p.Category] += p.TotalValue()
		if p.IsLowStock() {
			low++
		}
		if p.IsOutOfStock() {
			out++
		}
	}

	r.Products.Set(float64(len(products)))
	r.StockUnits.Set(float64(units))
	r.Value.Set(total)
	r.LowStock.Set(float64(low))
	r.OutOfStock.Set(float64(out))

	r.CategoryValue.Reset()
	for category, value := range byCategory {
		r.CategoryValue.WithLabelValues(category).Set(value)
	}

	r.flush()
}

// InventoryChanged counts the operation and refreshes the gauges.
func (r *Recorder) InventoryChanged(operation string, products []model.Product) {
	r.Changes.WithLabelValues(operation).Inc()
	r.Observe(products)
}

func (r *Recorder) flush() {
	if r.textfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		r.logger.Warn().Err(err).Str("file", r.textfile).Msg("failed to write metrics textfile")
	}
}
