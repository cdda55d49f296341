package pcprice

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a single store listing as returned by the mobile endpoints.
type Product struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand"`
	Type       string   `json:"type"`
	PriceUSD   float64  `json:"price_usd"`
	PriceLocal *float64 `json:"price_pen"`
	Stock      string   `json:"stock"`
	Store      string   `json:"store"`
	URL        *string  `json:"url"`
	Updated    *string  `json:"updated"`
}

var productRequired = []string{"id", "name", "brand", "type", "price_usd", "stock", "store"}

func (p *Product) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "product", productRequired...); err != nil {
		return err
	}
	type plain Product
	return json.Unmarshal(data, (*plain)(p))
}

// DisplayPrice renders the USD price and, when known, the local (PEN) price.
func (p Product) DisplayPrice() string {
	return formatPrice(p.PriceUSD, p.PriceLocal)
}

// StockStatus classifies the raw stock string.
func (p Product) StockStatus() StockStatus {
	return ParseStockStatus(p.Stock)
}

// updatedLayouts covers the timestamp shapes the service has been seen to emit.
var updatedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// UpdatedAt parses the last-scraped timestamp. The second return value is
// false when the field is absent or in an unknown format.
func (p Product) UpdatedAt() (time.Time, bool) {
	if p.Updated == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(*p.Updated)
	for _, layout := range updatedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProductResponse is the result of the list endpoints.
type ProductResponse struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

func (r *ProductResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "product response", "count", "products"); err != nil {
		return err
	}
	type plain ProductResponse
	return json.Unmarshal(data, (*plain)(r))
}

// ComparisonResponse is the result of comparing a product name across stores.
type ComparisonResponse struct {
	ProductName        string         `json:"product_name"`
	TotalStores        int            `json:"total_stores"`
	Matches            []ProductMatch `json:"matches"`
	LowestPrice        PriceDetail    `json:"lowest_price"`
	HighestPrice       PriceDetail    `json:"highest_price"`
	PriceDifferenceUSD float64        `json:"price_difference_usd"`
	SavingsPercentage  float64        `json:"savings_percentage"`
}

var comparisonRequired = []string{
	"product_name", "total_stores", "matches", "lowest_price",
	"highest_price", "price_difference_usd", "savings_percentage",
}

func (c *ComparisonResponse) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "comparison", comparisonRequired...); err != nil {
		return err
	}
	type plain ComparisonResponse
	return json.Unmarshal(data, (*plain)(c))
}

// ProductMatch is a listing the service considers the same product as the
// one being compared. MatchConfidence is server-defined and not validated.
type ProductMatch struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	PriceUSD        float64  `json:"price_usd"`
	PriceLocal      *float64 `json:"price_local"`
	Stock           string   `json:"stock"`
	Store           string   `json:"store"`
	SourceURL       *string  `json:"source_url"`
	MatchConfidence float64  `json:"match_confidence"`
}

var matchRequired = []string{"id", "name", "brand", "price_usd", "stock", "store", "match_confidence"}

func (m *ProductMatch) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "product match", matchRequired...); err != nil {
		return err
	}
	type plain ProductMatch
	return json.Unmarshal(data, (*plain)(m))
}

func (m ProductMatch) DisplayPrice() string {
	return formatPrice(m.PriceUSD, m.PriceLocal)
}

// PriceDetail summarizes one side (lowest or highest) of a comparison.
type PriceDetail struct {
	Store      string   `json:"store"`
	PriceUSD   float64  `json:"price_usd"`
	PriceLocal *float64 `json:"price_local"`
	URL        *string  `json:"url"`
	Stock      *string  `json:"stock"`
}

func (d *PriceDetail) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "price detail", "store", "price_usd"); err != nil {
		return err
	}
	type plain PriceDetail
	return json.Unmarshal(data, (*plain)(d))
}

// DisplayPrice renders the detail the same way as Product.DisplayPrice.
func (d PriceDetail) DisplayPrice() string {
	return formatPrice(d.PriceUSD, d.PriceLocal)
}

// QuickComparison lists cheaper and pricier alternatives for one product id.
type QuickComparison struct {
	Product      ProductSummary `json:"product"`
	Alternatives []Alternative  `json:"alternatives"`
}

func (q *QuickComparison) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "quick comparison", "product", "alternatives"); err != nil {
		return err
	}
	type plain QuickComparison
	return json.Unmarshal(data, (*plain)(q))
}

// ProductSummary identifies the product a quick comparison started from.
type ProductSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
	Store    string  `json:"store"`
}

func (s *ProductSummary) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "product summary", "id", "name", "price_usd", "store"); err != nil {
		return err
	}
	type plain ProductSummary
	return json.Unmarshal(data, (*plain)(s))
}

// Alternative is a matching listing in another store. PriceDiff is signed:
// negative means cheaper than the original product.
type Alternative struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	PriceUSD   float64 `json:"price_usd"`
	PriceDiff  float64 `json:"price_diff"`
	Store      string  `json:"store"`
	URL        *string `json:"url"`
	Confidence float64 `json:"confidence"`
}

var alternativeRequired = []string{"id", "name", "price_usd", "price_diff", "store", "confidence"}

func (a *Alternative) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "alternative", alternativeRequired...); err != nil {
		return err
	}
	type plain Alternative
	return json.Unmarshal(data, (*plain)(a))
}

// Cheaper reports whether the alternative costs less than the original.
func (a Alternative) Cheaper() bool { return a.PriceDiff < 0 }

// formatPrice rounds each amount to cents, halves away from zero, using the
// shortest decimal form of the float (2.675 renders as 2.68).
func formatPrice(usd float64, local *float64) string {
	out := "$" + decimal.NewFromFloat(usd).StringFixed(2)
	if local != nil {
		out += " / S/" + decimal.NewFromFloat(*local).StringFixed(2)
	}
	return out
}
