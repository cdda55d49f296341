package pcprice

import "strings"

// StockStatus is a coarse inventory level derived from a product's raw stock text.
type StockStatus int

const (
	StockUnknown StockStatus = iota
	StockHigh
	StockMedium
	StockLow
	StockOutOfStock
)

// ParseStockStatus maps the raw stock string to a status. Matching ignores
// case; anything unrecognized, including the empty string, is StockUnknown.
func ParseStockStatus(raw string) StockStatus {
	switch strings.ToLower(raw) {
	case "high":
		return StockHigh
	case "medium":
		return StockMedium
	case "low":
		return StockLow
	case "out_of_stock":
		return StockOutOfStock
	default:
		return StockUnknown
	}
}

// Label returns the customer-facing (es-PE) text for the status.
func (s StockStatus) Label() string {
	switch s {
	case StockHigh:
		return "En Stock"
	case StockMedium:
		return "Stock Limitado"
	case StockLow:
		return "Últimas Unidades"
	case StockOutOfStock:
		return "Agotado"
	default:
		return "Consultar"
	}
}

// Color returns the color tag used when rendering the status.
func (s StockStatus) Color() string {
	switch s {
	case StockHigh:
		return "green"
	case StockMedium:
		return "orange"
	case StockLow:
		return "red"
	case StockOutOfStock:
		return "gray"
	default:
		return "blue"
	}
}

func (s StockStatus) String() string {
	switch s {
	case StockHigh:
		return "high"
	case StockMedium:
		return "medium"
	case StockLow:
		return "low"
	case StockOutOfStock:
		return "out_of_stock"
	default:
		return "unknown"
	}
}
