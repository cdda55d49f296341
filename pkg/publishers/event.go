package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
)

// Event represents a deal published downstream.
type Event struct {
	EventID       string          `json:"event_id"`
	WatchID       string          `json:"watch_id"`
	WatchName     string          `json:"watch_name"`
	ComponentType string          `json:"component_type"`
	Product       pcprice.Product `json:"product"`
	DisplayPrice  string          `json:"display_price"`
	StockLabel    string          `json:"stock_label"`
	DetectedAt    time.Time       `json:"detected_at"`
}

// NewEvent constructs an Event for a product matched by the given watch.
func NewEvent(watchID, watchName, componentType string, product pcprice.Product) Event {
	return Event{
		EventID:       uuid.NewString(),
		WatchID:       watchID,
		WatchName:     watchName,
		ComponentType: componentType,
		Product:       product,
		DisplayPrice:  product.DisplayPrice(),
		StockLabel:    product.StockStatus().Label(),
		DetectedAt:    time.Now().UTC(),
	}
}

// Attributes are the message attributes set by queue and topic publishers.
func (e Event) Attributes() map[string]string {
	return map[string]string{"watch_id": e.WatchID}
}
