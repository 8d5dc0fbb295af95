// Package display projects remote catalog records into rendering-ready view
// models. All functions are pure.
package display

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is the view model for one catalog row.
type Product struct {
	ID     int
	Title  string
	Image  string
	Price  string
	Status string
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price with exactly two fraction digits, banker's
// rounding and thousands grouping, e.g. 1000 -> "1,000.00".
func FormatPrice(price decimal.Decimal) string {
	f, _ := price.RoundBank(2).Float64()
	return pricePrinter.Sprintf("%.2f", f)
}

// ToProduct builds the view model for one record. Status is derived, never
// stored: active iff the source price is strictly positive.
func ToProduct(p domain.Product) Product {
	status := StatusInactive
	if p.Price.IsPositive() {
		status = StatusActive
	}
	return Product{
		ID:     p.ID,
		Title:  p.Title,
		Image:  p.Image,
		Price:  FormatPrice(p.Price),
		Status: status,
	}
}

// ToProductList maps a catalog sequence in order.
func ToProductList(products []domain.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = ToProduct(p)
	}
	return out
}
