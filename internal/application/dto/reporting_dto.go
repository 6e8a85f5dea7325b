package dto

import "github.com/shopspring/decimal"

// Severidades de alerta de stock.
const (
	AlertLowStock   = "LOW_STOCK"
	AlertOutOfStock = "OUT_OF_STOCK"
)

// ValuationLine valorización de una línea de stock (cantidad × precio unitario).
type ValuationLine struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	LocationType string          `json:"location_type"`
	LocationID   string          `json:"location_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Value        decimal.Decimal `json:"value"`
}

// ValuationReport reporte de valorización de la organización.
type ValuationReport struct {
	Lines      []ValuationLine `json:"lines"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// StockAlert producto agotado o por debajo de su umbral mínimo.
type StockAlert struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"product_name"`
	LocationType   string          `json:"location_type"`
	LocationID     string          `json:"location_id"`
	Quantity       int64           `json:"quantity"`
	MinStock       int64           `json:"min_stock"`
	MaxStock       int64           `json:"max_stock"`
	PercentageLeft decimal.Decimal `json:"percentage_left"`
	Severity       string          `json:"severity"`
}
