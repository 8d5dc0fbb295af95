package display

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10", "10.00"},
		{"55.99", "55.99"},
		{"0", "0.00"},
		{"1000", "1,000.00"},
		{"1234567.89", "1,234,567.89"},
		{"0.1", "0.10"},
		// banker's rounding: half goes to the even cent
		{"2.675", "2.68"},
		{"2.665", "2.66"},
	}

	for _, tc := range tests {
		got := FormatPrice(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatPrice(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToProduct_StatusLaw(t *testing.T) {
	p := domain.Product{ID: 1, Title: "Jacket", Price: decimal.RequireFromString("55.99")}
	if got := ToProduct(p).Status; got != StatusActive {
		t.Fatalf("status = %q, want %q", got, StatusActive)
	}

	p.Price = decimal.Zero
	if got := ToProduct(p).Status; got != StatusInactive {
		t.Fatalf("status for zero price = %q, want %q", got, StatusInactive)
	}

	p.Price = decimal.RequireFromString("0.01")
	if got := ToProduct(p).Status; got != StatusActive {
		t.Fatalf("status for 0.01 = %q, want %q", got, StatusActive)
	}
}

func TestToProduct_Pure(t *testing.T) {
	p := domain.Product{
		ID:    7,
		Title: "Jacket",
		Image: "https://example.com/jacket.jpg",
		Price: decimal.RequireFromString("1000"),
	}

	first := ToProduct(p)
	second := ToProduct(p)
	if first != second {
		t.Fatalf("repeated mapping differs: %+v vs %+v", first, second)
	}
	if first.Price != "1,000.00" {
		t.Fatalf("price = %q, want %q", first.Price, "1,000.00")
	}
}

func TestToProductList_KeepsOrder(t *testing.T) {
	in := []domain.Product{
		{ID: 2, Title: "b", Price: decimal.RequireFromString("20")},
		{ID: 1, Title: "a", Price: decimal.RequireFromString("10")},
	}

	out := ToProductList(in)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("order not preserved: %+v", out)
	}
}
