package domain

import (
	"github.com/shopspring/decimal"
)

// Rating is the aggregate review score reported by the remote source.
// It is carried through untouched.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is one record of the remote catalog. Field names and JSON tags
// match the remote source's wire shape.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// WithPrice returns a copy of p carrying the given price.
func (p Product) WithPrice(price decimal.Decimal) Product {
	p.Price = price
	return p
}
