// Package products adapts the catalog API to the storefront views:
// decimal price strings are parsed into cents and the home view's
// category shortcuts live here.
package products

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/virtualpet/storefront/api"
)

// Product is a catalog entry with its price parsed.
type Product struct {
	ID          int64
	Title       string
	PriceCents  int64
	Category    string
	Image       string
	Description string
}

// Category is a storefront browsing shortcut; the slug is what the
// products endpoint filters on.
type Category struct {
	Name string
	Slug string
}

// Categories are the home view's fixed browsing shortcuts.
var Categories = []Category{
	{Name: "Alimentos", Slug: "alimento"},
	{Name: "Juguetes", Slug: "juguete"},
	{Name: "Mobiliario", Slug: "mobiliario"},
	{Name: "Productos Veterinarios", Slug: "veterinaria"},
}

// ParsePriceCents parses a decimal price string ("29.99", "30") into
// cents without going through floating point.
func ParsePriceCents(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty price")
	}

	// The sign is taken off the string up front: "-0.99" has a zero
	// whole part that would otherwise lose it.
	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign, s = -1, s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, errors.Wrapf(err, "price %q", raw)
	}
	cents, err := strconv.ParseUint(frac, 10, 63)
	if err != nil {
		return 0, errors.Wrapf(err, "price %q", raw)
	}
	return sign * (int64(units)*100 + int64(cents)), nil
}

// FormatCents renders cents as a display price ("29.99").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FromAPI converts an API product, parsing its price.
func FromAPI(p api.Product) (Product, error) {
	cents, err := ParsePriceCents(p.Price)
	if err != nil {
		return Product{}, errors.Wrapf(err, "[products.FromAPI] product %d", p.ID)
	}
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		PriceCents:  cents,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
	}, nil
}
