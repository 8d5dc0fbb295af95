package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	mnoop "go.opentelemetry.io/otel/metric/noop"
	tnoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/storeops-br/catalog-admin-api/internal/app/catalog"
	"github.com/storeops-br/catalog-admin-api/internal/app/session"
	"github.com/storeops-br/catalog-admin-api/internal/app/workflow"
	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

type fakeSource struct {
	fetchCalls int32
	products   []domain.Product
	pushErr    error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]domain.Product, error) {
	atomic.AddInt32(&f.fetchCalls, 1)
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeSource) Push(ctx context.Context, p domain.Product) (domain.Product, error) {
	if f.pushErr != nil {
		return domain.Product{}, f.pushErr
	}
	return p, nil
}

func setupStore(t *testing.T, src domain.ProductSource) *StoreService {
	t.Helper()
	tracer := tnoop.NewTracerProvider().Tracer("test")
	meter := mnoop.NewMeterProvider().Meter("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.NewClient(src, tracer, meter, logger)
	return NewStoreService(cat, session.NewRegistry(), tracer, meter, logger)
}

func catalogFixture() *fakeSource {
	return &fakeSource{products: []domain.Product{
		{ID: 1, Title: "Mens Cotton Jacket", Price: decimal.RequireFromString("55.99")},
		{ID: 2, Title: "Backpack", Price: decimal.RequireFromString("109.95")},
		{ID: 3, Title: "Discontinued Mug", Price: decimal.Zero},
	}}
}

func TestListProducts_ServedFromCache(t *testing.T) {
	src := catalogFixture()
	s := setupStore(t, src)
	ctx := context.Background()

	first, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("len = %d, want 3", len(first))
	}
	if first[0].Price != "55.99" || first[0].Status != "active" {
		t.Fatalf("row = %+v", first[0])
	}
	if first[2].Status != "inactive" {
		t.Fatalf("zero-priced product status = %q, want inactive", first[2].Status)
	}

	if _, err := s.ListProducts(ctx); err != nil {
		t.Fatalf("second ListProducts: %v", err)
	}
	if n := atomic.LoadInt32(&src.fetchCalls); n != 1 {
		t.Fatalf("source fetched %d times, want 1", n)
	}
}

func TestSwitchIdentity(t *testing.T) {
	s := setupStore(t, catalogFixture())
	ctx := context.Background()

	sess := s.Identity(ctx, "")
	if sess.Identity != string(domain.IdentityAdmin) || !sess.CanEditPrice {
		t.Fatalf("fresh session = %+v", sess)
	}

	switched, err := s.SwitchIdentity(ctx, sess.SessionID, "non-admin")
	if err != nil {
		t.Fatalf("SwitchIdentity: %v", err)
	}
	if switched.CanEditPrice {
		t.Fatalf("non-admin can edit price")
	}

	if _, err := s.SwitchIdentity(ctx, sess.SessionID, "root"); !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("err = %v, want ErrInvalidIdentity", err)
	}
}

func TestEditFlow_AdminCommit(t *testing.T) {
	src := catalogFixture()
	s := setupStore(t, src)
	ctx := context.Background()

	sess := s.Identity(ctx, "")

	editor, err := s.OpenEditor(ctx, sess.SessionID, 1)
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if !editor.Authorized || editor.Message != "" {
		t.Fatalf("editor = %+v", editor)
	}

	editor, err = s.SetDraft(ctx, sess.SessionID, 1, "10")
	if err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if !editor.DraftValid {
		t.Fatalf("draft rejected: %q", editor.Message)
	}

	result, err := s.Submit(ctx, sess.SessionID, 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if want := "Price 10 for 'Mens Cotton Jacket' updated"; result.Notification != want {
		t.Fatalf("notification = %q, want %q", result.Notification, want)
	}
	if result.Product.Price != "10.00" || result.Product.Status != "active" {
		t.Fatalf("product = %+v", result.Product)
	}

	// write-through: the list reflects the committed price without refetching
	rows, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if rows[0].Price != "10.00" {
		t.Fatalf("list price = %q, want 10.00", rows[0].Price)
	}
	if n := atomic.LoadInt32(&src.fetchCalls); n != 1 {
		t.Fatalf("source fetched %d times, want 1", n)
	}

	// the editor is gone once the commit closed it
	if _, err := s.Submit(ctx, sess.SessionID, 1); !errors.Is(err, domain.ErrNoEditor) {
		t.Fatalf("err = %v, want ErrNoEditor", err)
	}
}

func TestEditFlow_NonAdmin(t *testing.T) {
	s := setupStore(t, catalogFixture())
	ctx := context.Background()

	sess := s.Identity(ctx, "")
	if _, err := s.SwitchIdentity(ctx, sess.SessionID, "non-admin"); err != nil {
		t.Fatalf("SwitchIdentity: %v", err)
	}

	editor, err := s.OpenEditor(ctx, sess.SessionID, 1)
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if editor.Authorized {
		t.Fatalf("non-admin editor authorized")
	}
	if editor.Message != workflow.MsgUnauthorized {
		t.Fatalf("message = %q, want %q", editor.Message, workflow.MsgUnauthorized)
	}

	if _, err := s.SetDraft(ctx, sess.SessionID, 1, "10"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("SetDraft err = %v, want ErrUnauthorized", err)
	}
	if _, err := s.Submit(ctx, sess.SessionID, 1); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Submit err = %v, want ErrUnauthorized", err)
	}
}

func TestEditFlow_SourceFailureAllowsRetry(t *testing.T) {
	src := catalogFixture()
	s := setupStore(t, src)
	ctx := context.Background()

	sess := s.Identity(ctx, "")
	if _, err := s.OpenEditor(ctx, sess.SessionID, 1); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if _, err := s.SetDraft(ctx, sess.SessionID, 1, "10"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}

	src.pushErr = domain.ErrSourceUnavailable
	if _, err := s.Submit(ctx, sess.SessionID, 1); !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}

	src.pushErr = nil
	if _, err := s.Submit(ctx, sess.SessionID, 1); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
}

func TestOpenEditor_UnknownProduct(t *testing.T) {
	s := setupStore(t, catalogFixture())
	sess := s.Identity(context.Background(), "")

	_, err := s.OpenEditor(context.Background(), sess.SessionID, 404)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestCancelEdit(t *testing.T) {
	s := setupStore(t, catalogFixture())
	ctx := context.Background()
	sess := s.Identity(ctx, "")

	if _, err := s.OpenEditor(ctx, sess.SessionID, 1); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := s.CancelEdit(ctx, sess.SessionID, 1); err != nil {
		t.Fatalf("CancelEdit: %v", err)
	}
	if err := s.CancelEdit(ctx, sess.SessionID, 1); !errors.Is(err, domain.ErrNoEditor) {
		t.Fatalf("err = %v, want ErrNoEditor", err)
	}
}
