package pcprice

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

const defaultCatalogLimit = 50

// KnownStores are the stores the service has dedicated endpoints for.
var KnownStores = []string{"sercoplus", "pcimpacto", "cyccomputer", "computershop"}

// CatalogProduct is a full product row as served by the catalog endpoints.
type CatalogProduct struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	NormalizedName *string  `json:"normalized_name"`
	ComponentType  *string  `json:"component_type"`
	Brand          *string  `json:"brand"`
	SKU            *string  `json:"sku"`
	PriceUSD       float64  `json:"price_usd"`
	PriceLocal     *float64 `json:"price_local"`
	Currency       *string  `json:"currency"`
	Stock          *string  `json:"stock"`
	Store          string   `json:"store"`
	SourceURL      *string  `json:"source_url"`
	ImageURL       *string  `json:"image_url"`
	LastScraped    *string  `json:"last_scraped"`
	CreatedAt      *string  `json:"created_at"`
	IsActive       *int     `json:"is_active"`
}

func (p *CatalogProduct) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "catalog product", "id", "name", "price_usd", "store"); err != nil {
		return err
	}
	type plain CatalogProduct
	return json.Unmarshal(data, (*plain)(p))
}

// DisplayPrice renders the row price like Product.DisplayPrice.
func (p CatalogProduct) DisplayPrice() string {
	return formatPrice(p.PriceUSD, p.PriceLocal)
}

// StockStatus classifies the row's stock text; a missing value is StockUnknown.
func (p CatalogProduct) StockStatus() StockStatus {
	if p.Stock == nil {
		return StockUnknown
	}
	return ParseStockStatus(*p.Stock)
}

// CatalogPage is one page of catalog rows. Store is set only by StoreProducts.
type CatalogPage struct {
	Store    *string          `json:"store,omitempty"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
	Count    int              `json:"count"`
	Products []CatalogProduct `json:"products"`
}

func (p *CatalogPage) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "catalog page", "total", "skip", "limit", "count", "products"); err != nil {
		return err
	}
	type plain CatalogPage
	return json.Unmarshal(data, (*plain)(p))
}

// ProductFilter narrows ListProducts and StoreProducts. A zero Limit means 50.
type ProductFilter struct {
	Skip          int
	Limit         int
	ComponentType string
	Brand         string
	Store         string
}

func (f ProductFilter) query() query {
	q := query{}
	if f.Skip > 0 {
		q = q.addInt("skip", f.Skip)
	}
	return q.
		addInt("limit", limitOr(f.Limit, defaultCatalogLimit)).
		addOptional("component_type", f.ComponentType).
		addOptional("brand", f.Brand).
		addOptional("store", f.Store)
}

// StoreList lists every store with products.
type StoreList struct {
	Total  int      `json:"total"`
	Stores []string `json:"stores"`
}

func (l *StoreList) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "store list", "total", "stores"); err != nil {
		return err
	}
	type plain StoreList
	return json.Unmarshal(data, (*plain)(l))
}

// BrandList lists every known brand.
type BrandList struct {
	Total  int      `json:"total"`
	Brands []string `json:"brands"`
}

func (l *BrandList) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "brand list", "total", "brands"); err != nil {
		return err
	}
	type plain BrandList
	return json.Unmarshal(data, (*plain)(l))
}

// TypeList lists every component type.
type TypeList struct {
	Total int      `json:"total"`
	Types []string `json:"types"`
}

func (l *TypeList) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "type list", "total", "types"); err != nil {
		return err
	}
	type plain TypeList
	return json.Unmarshal(data, (*plain)(l))
}

// StoreStats summarizes one store's active catalog.
type StoreStats struct {
	Store         string         `json:"store"`
	TotalProducts int            `json:"total_products"`
	Categories    map[string]int `json:"categories"`
	AvgPriceUSD   float64        `json:"avg_price_usd"`
	LastUpdate    *string        `json:"last_update"`
}

func (s *StoreStats) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "store stats", "store", "total_products", "categories", "avg_price_usd"); err != nil {
		return err
	}
	type plain StoreStats
	return json.Unmarshal(data, (*plain)(s))
}

// Statistics are the service-wide catalog numbers.
type Statistics struct {
	TotalProducts   int          `json:"total_products"`
	ProductsByType  []TypeCount  `json:"products_by_type"`
	ProductsByStore []StoreCount `json:"products_by_store"`
	PriceStatistics PriceStats   `json:"price_statistics"`
}

func (s *Statistics) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "statistics", "total_products", "products_by_type", "products_by_store", "price_statistics"); err != nil {
		return err
	}
	type plain Statistics
	return json.Unmarshal(data, (*plain)(s))
}

type TypeCount struct {
	Type  *string `json:"type"`
	Count int     `json:"count"`
}

type StoreCount struct {
	Store string `json:"store"`
	Count int    `json:"count"`
}

type PriceStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// StoreComparison holds the stats of every known store side by side.
type StoreComparison struct {
	Stores    map[string]StoreAvailability `json:"stores"`
	Timestamp string                       `json:"timestamp"`
}

func (c *StoreComparison) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "store comparison", "stores", "timestamp"); err != nil {
		return err
	}
	type plain StoreComparison
	return json.Unmarshal(data, (*plain)(c))
}

// StoreAvailability is one entry of a StoreComparison: either the store's
// stats or the reason the service could not compute them.
type StoreAvailability struct {
	Stats *StoreStats
	Error string
}

func (a *StoreAvailability) UnmarshalJSON(data []byte) error {
	var marker struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &marker); err != nil {
		return err
	}
	if marker.Error != nil {
		*a = StoreAvailability{Error: *marker.Error}
		return nil
	}
	var stats StoreStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	*a = StoreAvailability{Stats: &stats}
	return nil
}

func (a StoreAvailability) MarshalJSON() ([]byte, error) {
	if a.Stats == nil {
		return json.Marshal(map[string]string{"error": a.Error})
	}
	return json.Marshal(a.Stats)
}

// Available reports whether stats were returned for the store.
func (a StoreAvailability) Available() bool { return a.Stats != nil }

// ServiceConfig is the service's runtime configuration as exposed by /config.
// Settings is free-form; its keys belong to the server.
type ServiceConfig struct {
	Status   string         `json:"status"`
	Settings map[string]any `json:"config"`
	Stores   []string       `json:"stores"`
}

func (s *ServiceConfig) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "service config", "status", "config", "stores"); err != nil {
		return err
	}
	type plain ServiceConfig
	return json.Unmarshal(data, (*plain)(s))
}

// ListProducts pages through the whole catalog.
func (c *Client) ListProducts(ctx context.Context, f ProductFilter) (*CatalogPage, error) {
	return getJSON[CatalogPage](ctx, c, c.endpoint(f.query(), "products"))
}

// GetProduct fetches one catalog row.
func (c *Client) GetProduct(ctx context.Context, id int64) (*CatalogProduct, error) {
	if id <= 0 {
		return nil, errors.Errorf("get product: invalid product id %d", id)
	}
	return getJSON[CatalogProduct](ctx, c, c.endpoint(nil, "products", strconv.FormatInt(id, 10)))
}

// Stores lists every store present in the catalog.
func (c *Client) Stores(ctx context.Context) (*StoreList, error) {
	return getJSON[StoreList](ctx, c, c.endpoint(nil, "stores"))
}

// StoreProducts pages through one store's catalog. f.Store is ignored.
func (c *Client) StoreProducts(ctx context.Context, store string, f ProductFilter) (*CatalogPage, error) {
	name, err := normalizeStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "store products")
	}
	f.Store = ""
	return getJSON[CatalogPage](ctx, c, c.endpoint(f.query(), "stores", name, "products"))
}

// StoreStats returns the catalog summary of one store.
func (c *Client) StoreStats(ctx context.Context, store string) (*StoreStats, error) {
	name, err := normalizeStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "store stats")
	}
	return getJSON[StoreStats](ctx, c, c.endpoint(nil, "stores", name, "stats"))
}

// CompareAllStores returns the stats of every known store in one call.
// Stores the service failed to summarize carry an Error instead of Stats.
func (c *Client) CompareAllStores(ctx context.Context) (*StoreComparison, error) {
	return getJSON[StoreComparison](ctx, c, c.endpoint(nil, "stores", "compare-all"))
}

// ServiceConfig fetches the service's scraping configuration and store list.
func (c *Client) ServiceConfig(ctx context.Context) (*ServiceConfig, error) {
	return getJSON[ServiceConfig](ctx, c, c.endpoint(nil, "config"))
}

// Statistics returns service-wide catalog statistics.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	return getJSON[Statistics](ctx, c, c.endpoint(nil, "stats"))
}

// Brands lists every brand in the catalog.
func (c *Client) Brands(ctx context.Context) (*BrandList, error) {
	return getJSON[BrandList](ctx, c, c.endpoint(nil, "brands"))
}

// ComponentTypes lists every component type in the catalog.
func (c *Client) ComponentTypes(ctx context.Context) (*TypeList, error) {
	return getJSON[TypeList](ctx, c, c.endpoint(nil, "types"))
}

func normalizeStore(store string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(store))
	for _, known := range KnownStores {
		if name == known {
			return name, nil
		}
	}
	return "", errors.Errorf("unknown store %q (want one of %s)", store, strings.Join(KnownStores, ", "))
}
