package pcprice

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

const (
	defaultLatestLimit = 20
	defaultDealsLimit  = 10
	defaultSearchLimit = 20
)

// LatestParams filters LatestProducts. A zero Limit means 20.
type LatestParams struct {
	Limit         int
	ComponentType string
}

// DealsParams filters BestDeals. A zero Limit means 10.
type DealsParams struct {
	Limit         int
	ComponentType string
}

// SearchParams drives Search. Query is required; a zero Limit means 20.
type SearchParams struct {
	Query string
	Limit int
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// LatestProductsURL builds the request URL for LatestProducts.
func (c *Client) LatestProductsURL(p LatestParams) string {
	q := query{}.
		addInt("limit", limitOr(p.Limit, defaultLatestLimit)).
		addOptional("component_type", p.ComponentType)
	return c.endpoint(q, "mobile", "latest")
}

// LatestProducts returns the most recently updated products.
func (c *Client) LatestProducts(ctx context.Context, p LatestParams) (*ProductResponse, error) {
	return getJSON[ProductResponse](ctx, c, c.LatestProductsURL(p))
}

// BestDealsURL builds the request URL for BestDeals.
func (c *Client) BestDealsURL(p DealsParams) string {
	q := query{}.
		addInt("limit", limitOr(p.Limit, defaultDealsLimit)).
		addOptional("component_type", p.ComponentType)
	return c.endpoint(q, "mobile", "best-deals")
}

// BestDeals returns the cheapest current listings.
func (c *Client) BestDeals(ctx context.Context, p DealsParams) (*ProductResponse, error) {
	return getJSON[ProductResponse](ctx, c, c.BestDealsURL(p))
}

// CompareProductURL builds the request URL for CompareProduct. name must not
// be pre-encoded.
func (c *Client) CompareProductURL(name, componentType string) string {
	q := query{}.addOptional("component_type", componentType)
	return c.endpoint(q, "compare", name)
}

// CompareProduct compares one product name across every store.
func (c *Client) CompareProduct(ctx context.Context, name, componentType string) (*ComparisonResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("compare product: name is empty")
	}
	return getJSON[ComparisonResponse](ctx, c, c.CompareProductURL(name, componentType))
}

// QuickCompareURL builds the request URL for QuickCompare.
func (c *Client) QuickCompareURL(id int64) string {
	return c.endpoint(nil, "mobile", "compare-quick", strconv.FormatInt(id, 10))
}

// QuickCompare lists alternatives for the product with the given id.
func (c *Client) QuickCompare(ctx context.Context, id int64) (*QuickComparison, error) {
	if id <= 0 {
		return nil, errors.Errorf("quick compare: invalid product id %d", id)
	}
	return getJSON[QuickComparison](ctx, c, c.QuickCompareURL(id))
}

// SearchURL builds the request URL for Search.
func (c *Client) SearchURL(p SearchParams) string {
	q := query{}.
		add("query", p.Query).
		addInt("limit", limitOr(p.Limit, defaultSearchLimit))
	return c.endpoint(q, "search")
}

// Search finds products by name.
func (c *Client) Search(ctx context.Context, p SearchParams) (*ProductResponse, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, errors.New("search: query is empty")
	}
	return getJSON[ProductResponse](ctx, c, c.SearchURL(p))
}

// HealthCheck returns the service health document as a loosely typed
// object. An empty, null or non-object body yields an empty map.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	rawURL := c.endpoint(nil, "health")
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	out, err := decodeLoose(body)
	if err != nil {
		return nil, &DecodeError{URL: rawURL, Body: body, Err: err}
	}
	return out, nil
}
