package mbsdk

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/tidwall/gjson"
)

// ListPackages returns the pricing catalog for a package type ("standard", "premium").
func (c *Client) ListPackages(ctx context.Context, packageType string) ([]Package, error) {
	q := url.Values{"type": {packageType}}
	body, err := c.getWithRetry(ctx, PathPackagesByType+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	doc := decodeDocument(body)
	if apiErr := rejection(200, doc); apiErr != nil {
		return nil, apiErr
	}

	items, ok := packageItems(doc)
	if !ok {
		return nil, fmt.Errorf("%w: no package list in response", ErrUnexpectedResponse)
	}

	out := make([]Package, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		out = append(out, Package{
			ID:          firstString(item, "_id", "id"),
			Name:        firstString(item, "name"),
			Price:       roundAmount(item.Get("price")),
			Duration:    item.Get("duration").Int(),
			Description: firstString(item, "description"),
			Type:        firstString(item, "type"),
		})
	}
	return out, nil
}

func packageItems(doc gjson.Result) ([]gjson.Result, bool) {
	if doc.IsArray() {
		return doc.Array(), true
	}
	for _, path := range []string{"data.items", "items", "data"} {
		if v := doc.Get(path); v.IsArray() {
			return v.Array(), true
		}
	}
	return nil, false
}

// roundAmount reads a number or numeric string, rounds it and clamps it at zero.
func roundAmount(v gjson.Result) int64 {
	f := v.Float()
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	return int64(math.Round(f))
}
