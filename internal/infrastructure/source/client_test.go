package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	tnoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

const catalogJSON = `[
  {
    "id": 1,
    "title": "Mens Cotton Jacket",
    "price": 55.99,
    "description": "great outerwear jackets",
    "category": "men's clothing",
    "image": "https://fakestoreapi.com/img/71li-ujtlUL._AC_UX679_.jpg",
    "rating": {"rate": 4.7, "count": 500}
  },
  {"id": 2, "title": "Backpack", "price": 109.95, "rating": {"rate": 3.9, "count": 120}}
]`

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	tracer := tnoop.NewTracerProvider().Tracer("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, srv.Client(), 0, tracer, logger)
}

func TestFetchAll_DecodesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	products, err := newTestClient(t, srv).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}
	if products[0].Title != "Mens Cotton Jacket" {
		t.Fatalf("title = %q", products[0].Title)
	}
	if !products[0].Price.Equal(decimal.RequireFromString("55.99")) {
		t.Fatalf("price = %s, want 55.99", products[0].Price)
	}
	if products[0].Rating.Count != 500 {
		t.Fatalf("rating.count = %d, want 500", products[0].Rating.Count)
	}
}

func TestFetchAll_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchAll(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchAll_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchAll(context.Background())
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestPush_SendsFullRecordAndMergesAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var got domain.Product
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if !got.Price.Equal(decimal.RequireFromString("10")) {
			t.Errorf("sent price = %s, want 10", got.Price)
		}
		// the remote echoes only the id, like public fake stores do
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	sent := domain.Product{
		ID:    1,
		Title: "Mens Cotton Jacket",
		Price: decimal.RequireFromString("10"),
		Image: "https://fakestoreapi.com/img/71li-ujtlUL._AC_UX679_.jpg",
	}

	ack, err := newTestClient(t, srv).Push(context.Background(), sent)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if ack.ID != 1 || ack.Title != "Mens Cotton Jacket" {
		t.Fatalf("ack not backfilled: %+v", ack)
	}
	if !ack.Price.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("ack price = %s, want 10", ack.Price)
	}
}

func TestPush_SourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Push(context.Background(), domain.Product{ID: 1})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}
