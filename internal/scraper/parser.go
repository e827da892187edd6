package scraper

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder values used when a feed record omits the field.
const (
	DefaultProductName  = "No Name"
	DefaultCategoryName = "Uncategorized"
)

// FeedRecord is one product entry extracted from the upstream feed.
// Only the fields the importer persists survive; the rest of the feed
// document is discarded.
type FeedRecord struct {
	Title         string
	CategoryLabel string
	BodyHTML      string
	Price         decimal.Decimal
	ImageURL      *string
}

// Wire shapes of the upstream feed. Variant prices arrive as either a
// JSON string or a bare number depending on the record, so the price
// is captured raw and parsed leniently.
type feedVariant struct {
	Price json.RawMessage `json:"price"`
}

type feedImage struct {
	Src string `json:"src"`
}

type feedProduct struct {
	Title       string        `json:"title"`
	ProductType string        `json:"product_type"`
	BodyHTML    string        `json:"body_html"`
	Variants    []feedVariant `json:"variants"`
	Images      []feedImage   `json:"images"`
}

// The pointer distinguishes an absent products key (format error) from
// a present-but-empty list (valid, nothing to import).
type feedPayload struct {
	Products *[]feedProduct `json:"products"`
}

// ParseFeed decodes the raw feed body and extracts the product
// records in feed order. A body that is not JSON, or that lacks the
// products list, yields a FormatError; an empty list yields an empty
// slice and no error.
func ParseFeed(payload []byte) ([]FeedRecord, error) {
	var feed feedPayload
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, &FormatError{Reason: "not valid JSON", Err: err}
	}
	if feed.Products == nil {
		return nil, &FormatError{Reason: "missing products list"}
	}

	records := make([]FeedRecord, 0, len(*feed.Products))
	for _, p := range *feed.Products {
		rec := FeedRecord{
			Title:         strings.TrimSpace(p.Title),
			CategoryLabel: strings.TrimSpace(p.ProductType),
			BodyHTML:      p.BodyHTML,
		}
		if rec.Title == "" {
			rec.Title = DefaultProductName
		}
		if rec.CategoryLabel == "" {
			rec.CategoryLabel = DefaultCategoryName
		}
		if len(p.Variants) > 0 {
			rec.Price = parsePrice(p.Variants[0].Price)
		}
		if len(p.Images) > 0 && p.Images[0].Src != "" {
			src := p.Images[0].Src
			rec.ImageURL = &src
		}
		records = append(records, rec)
	}
	return records, nil
}

// parsePrice accepts "19.99", 19.99 or null; anything unparseable is
// treated as zero rather than failing the whole import.
func parsePrice(raw json.RawMessage) decimal.Decimal {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return price
}
