package catalog

import (
	"fmt"
	"math"
)

// PlaceholderImageURL is shown when a product carries no image.
const PlaceholderImageURL = "https://via.placeholder.com/300x300?text=No+Image"

// Image as delivered by the catalog API.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Product as delivered by the catalog API. Treated as immutable.
type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Gender          string   `json:"gender,omitempty"`
	Sizes           []string `json:"sizes,omitempty"`
	BaseColor       string   `json:"baseColor,omitempty"`
	Price           float64  `json:"price"`
	DiscountedPrice float64  `json:"discountedPrice"`
	OnSale          bool     `json:"onSale"`
	Image           *Image   `json:"image,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// PriceOf returns the price a customer pays right now: the discounted
// price while the product is on sale, the base price otherwise.
func PriceOf(p Product) float64 {
	if p.OnSale {
		return p.DiscountedPrice
	}
	return p.Price
}

// FormatPrice renders a price for display, e.g. "$19.99".
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// ImageURLOf returns the product image URL, falling back to a placeholder.
func ImageURLOf(p Product) string {
	if p.Image == nil || p.Image.URL == "" {
		return PlaceholderImageURL
	}
	return p.Image.URL
}

// DiscountPercent returns the rounded percentage off while on sale.
// The API does not guarantee discountedPrice <= price; a violated sale
// price clamps to 0 here so the badge never shows a negative discount.
// The amount charged is still PriceOf, unmodified.
func (p Product) DiscountPercent() int {
	if !p.OnSale || p.Price <= 0 {
		return 0
	}
	pct := int(math.Round((1 - p.DiscountedPrice/p.Price) * 100))
	if pct < 0 {
		return 0
	}
	return pct
}

// RelatedProducts picks up to n products sharing a gender or tag with
// current, preserving catalog order. current itself is excluded.
func RelatedProducts(all []Product, current Product, n int) []Product {
	if n <= 0 {
		return nil
	}
	tags := make(map[string]bool, len(current.Tags))
	for _, t := range current.Tags {
		tags[t] = true
	}

	var related []Product
	for _, p := range all {
		if len(related) >= n {
			break
		}
		if p.ID == current.ID {
			continue
		}
		match := current.Gender != "" && p.Gender == current.Gender
		for _, t := range p.Tags {
			if tags[t] {
				match = true
				break
			}
		}
		if match {
			related = append(related, p)
		}
	}
	return related
}
