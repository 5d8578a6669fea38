package api

import (
	"context"
	"net/http"
	"net/url"
)

// Product as returned by GET /products/. Price arrives as a decimal
// string; the products package parses it.
type Product struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Products lists the catalog, optionally filtered by a category slug.
func (c *Client) Products(ctx context.Context, category string) ([]Product, error) {
	path := "/products/"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	var products []Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
