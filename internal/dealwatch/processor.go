package dealwatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Adda-Baaj/pcprice/internal/logger"
	"github.com/Adda-Baaj/pcprice/internal/watchlist"
	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
	"github.com/Adda-Baaj/pcprice/pkg/publishers"
)

// Result summarizes one watch pass.
type Result struct {
	WatchID   string
	Fetched   int
	Matched   int
	Fresh     int
	Published int
}

// WatchProcessor polls and publishes deals for a single watch.
type WatchProcessor struct {
	source    DealSource
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

// NewWatchProcessor builds a processor. A nil deduper publishes every match.
func NewWatchProcessor(source DealSource, publisher EventPublisher, log logger.Logger, deduper Deduper) *WatchProcessor {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &WatchProcessor{
		source:    source,
		publisher: publisher,
		log:       log,
		deduper:   deduper,
	}
}

// Process fetches the watch's best deals, publishes the fresh matches and
// marks every deal at least one publisher accepted.
func (p *WatchProcessor) Process(ctx context.Context, w watchlist.Watch) (Result, error) {
	res := Result{WatchID: w.ID}
	if p == nil || p.source == nil {
		return res, fmt.Errorf("watch processor is not initialized")
	}

	resp, err := p.source.BestDeals(ctx, pcprice.DealsParams{
		Limit:         w.Limit,
		ComponentType: w.ComponentType,
	})
	if err != nil {
		return res, fmt.Errorf("fetch best deals for watch %s: %w", w.ID, err)
	}
	res.Fetched = len(resp.Products)

	matches := filterMatches(w, resp.Products)
	res.Matched = len(matches)

	fresh := p.filterNewDeals(w, matches)
	res.Fresh = len(fresh)

	var errs []error
	for _, product := range fresh {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		published, err := p.publish(ctx, w, product)
		if published {
			res.Published++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	p.log.InfoObj("watch pass completed", "watch_result", map[string]any{
		"watch_id":  w.ID,
		"fetched":   res.Fetched,
		"matched":   res.Matched,
		"fresh":     res.Fresh,
		"published": res.Published,
	})
	return res, errors.Join(errs...)
}

func (p *WatchProcessor) publish(ctx context.Context, w watchlist.Watch, product pcprice.Product) (bool, error) {
	if p.publisher == nil {
		return false, nil
	}

	evt := publishers.NewEvent(w.ID, w.Name, w.ComponentType, product)
	count, err := p.publisher.Publish(ctx, evt)
	if count == 0 {
		if err == nil {
			return false, nil
		}
		return false, fmt.Errorf("publish product %d for watch %s: %w", product.ID, w.ID, err)
	}
	if err != nil {
		// partial delivery still counts as published
		p.log.WarnObj("deal partially published", "publish_error", map[string]any{
			"watch_id":   w.ID,
			"product_id": product.ID,
			"event_id":   evt.EventID,
			"error":      err.Error(),
		})
	}

	if p.deduper != nil {
		if err := p.deduper.Mark(DealKey(w.ID, product)); err != nil {
			p.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
				"watch_id":   w.ID,
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}
	}

	fields := map[string]any{
		"watch_id":      w.ID,
		"product_id":    product.ID,
		"store":         product.Store,
		"display_price": evt.DisplayPrice,
		"publishers":    count,
	}
	if w.HasCeiling() {
		fields["savings_usd"] = Savings(w, product).StringFixed(2)
	}
	p.log.InfoObj("deal published", "deal", fields)
	return true, nil
}

// filterNewDeals drops deals already published at the same price. Lookup
// failures keep the deal.
func (p *WatchProcessor) filterNewDeals(w watchlist.Watch, products []pcprice.Product) []pcprice.Product {
	if p.deduper == nil {
		return products
	}
	out := make([]pcprice.Product, 0, len(products))
	for _, product := range products {
		seen, err := p.deduper.Seen(DealKey(w.ID, product))
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"watch_id":   w.ID,
				"product_id": product.ID,
				"error":      err.Error(),
			})
		}
		if seen {
			continue
		}
		out = append(out, product)
	}
	return out
}

// filterMatches keeps products under the watch's price ceiling sold by an
// accepted store.
func filterMatches(w watchlist.Watch, products []pcprice.Product) []pcprice.Product {
	out := make([]pcprice.Product, 0, len(products))
	for _, product := range products {
		if !w.AcceptsStore(product.Store) {
			continue
		}
		if w.HasCeiling() && Savings(w, product).IsNegative() {
			continue
		}
		out = append(out, product)
	}
	return out
}

// Savings is the watch ceiling minus the product price, in exact cents.
func Savings(w watchlist.Watch, product pcprice.Product) decimal.Decimal {
	ceiling := decimal.NewFromFloat(w.MaxPriceUSD).Round(2)
	price := decimal.NewFromFloat(product.PriceUSD).Round(2)
	return ceiling.Sub(price)
}

// DealKey identifies a deal for de-duplication: the same product seen again
// at a different price is a new deal.
func DealKey(watchID string, product pcprice.Product) string {
	price := decimal.NewFromFloat(product.PriceUSD).StringFixed(2)
	return watchID + "/" + strconv.FormatInt(product.ID, 10) + "/" + price
}
