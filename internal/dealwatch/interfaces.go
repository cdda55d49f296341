package dealwatch

import (
	"context"

	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
	"github.com/Adda-Baaj/pcprice/pkg/publishers"
)

// DealSource returns the current best deals. *pcprice.Client satisfies it.
type DealSource interface {
	BestDeals(ctx context.Context, p pcprice.DealsParams) (*pcprice.ProductResponse, error)
}

// EventPublisher publishes deal events downstream and reports how many sinks
// accepted the event. *publishers.Fanout satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers deals that were already published.
type Deduper interface {
	Seen(key string) (bool, error)
	Mark(key string) error
}
