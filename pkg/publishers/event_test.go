package publishers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewEventDerivesDisplayFields(t *testing.T) {
	evt := testEvent()

	if _, err := uuid.Parse(evt.EventID); err != nil {
		t.Fatalf("event id is not a uuid: %q", evt.EventID)
	}
	if evt.DisplayPrice != "$812.50 / S/3047.25" {
		t.Fatalf("unexpected display price %q", evt.DisplayPrice)
	}
	if evt.StockLabel != "En Stock" {
		t.Fatalf("unexpected stock label %q", evt.StockLabel)
	}
	if evt.DetectedAt.IsZero() || evt.DetectedAt.Location().String() != "UTC" {
		t.Fatalf("detected_at should be set in UTC, got %v", evt.DetectedAt)
	}
	if other := testEvent(); other.EventID == evt.EventID {
		t.Fatalf("event ids must be unique")
	}
}

func TestEventPayloadShape(t *testing.T) {
	raw, err := json.Marshal(testEvent())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"event_id", "watch_id", "watch_name", "component_type", "product", "display_price", "stock_label", "detected_at"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("payload missing %q: %s", key, raw)
		}
	}
	product, _ := doc["product"].(map[string]any)
	if product["store"] != "sercoplus" {
		t.Fatalf("unexpected product payload: %v", product)
	}
}
