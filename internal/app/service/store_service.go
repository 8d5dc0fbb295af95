package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/storeops-br/catalog-admin-api/internal/app/catalog"
	"github.com/storeops-br/catalog-admin-api/internal/app/display"
	"github.com/storeops-br/catalog-admin-api/internal/app/dto"
	"github.com/storeops-br/catalog-admin-api/internal/app/session"
	"github.com/storeops-br/catalog-admin-api/internal/app/workflow"
	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

// StoreService composes the catalog client, the session registry and the
// price-edit workflow behind the HTTP surface.
type StoreService struct {
	catalog  *catalog.Client
	sessions *session.Registry
	tracer   trace.Tracer
	logger   *slog.Logger

	storeOperations     metric.Int64Counter
	priceUpdatesCounter metric.Int64Counter
}

// NewStoreService creates the service facade.
func NewStoreService(
	cat *catalog.Client,
	sessions *session.Registry,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *StoreService {
	storeOperations, _ := meter.Int64Counter(
		"store.operations",
		metric.WithDescription("Total number of store operations"),
	)
	priceUpdatesCounter, _ := meter.Int64Counter(
		"store.price_updates.total",
		metric.WithDescription("Total number of committed price updates"),
	)

	return &StoreService{
		catalog:             cat,
		sessions:            sessions,
		tracer:              tracer,
		logger:              logger,
		storeOperations:     storeOperations,
		priceUpdatesCounter: priceUpdatesCounter,
	}
}

func (s *StoreService) count(ctx context.Context, op, result string) {
	s.storeOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", result),
	))
}

// ListProducts returns the catalog as display rows.
func (s *StoreService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListProducts")
	defer span.End()

	products, err := s.catalog.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve catalog")
		s.count(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.count(ctx, "list", "success")
	span.SetStatus(codes.Ok, "Catalog listed")
	return dto.ToProductResponseList(display.ToProductList(products)), nil
}

// Identity returns the identity readout for the given session, creating the
// session when needed.
func (s *StoreService) Identity(ctx context.Context, sessionID string) *dto.SessionResponse {
	_, span := s.tracer.Start(ctx, "StoreService.Identity")
	defer span.End()

	sess := s.sessions.Get(sessionID)
	span.SetStatus(codes.Ok, "Identity read")
	return &dto.SessionResponse{
		SessionID:    sess.ID(),
		Identity:     string(sess.Current()),
		CanEditPrice: sess.CanEditPrice(),
	}
}

// SwitchIdentity performs the local identity switch for one session.
func (s *StoreService) SwitchIdentity(ctx context.Context, sessionID, identity string) (*dto.SessionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.SwitchIdentity")
	defer span.End()

	id, err := domain.ParseIdentity(identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown identity")
		s.count(ctx, "switch_identity", "failure")
		return nil, err
	}

	sess := s.sessions.Get(sessionID)
	sess.SwitchTo(id)

	s.logger.InfoContext(ctx, "Identity switched",
		slog.String("session_id", sess.ID()),
		slog.String("identity", string(id)),
	)
	s.count(ctx, "switch_identity", "success")
	span.SetStatus(codes.Ok, "Identity switched")
	return &dto.SessionResponse{
		SessionID:    sess.ID(),
		Identity:     string(sess.Current()),
		CanEditPrice: sess.CanEditPrice(),
	}, nil
}

// OpenEditor opens the price-edit workflow for one product. A non-admin
// session still gets an editor, but it is locked to the authorization
// message and accepts no input.
func (s *StoreService) OpenEditor(ctx context.Context, sessionID string, productID int) (*dto.EditorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.OpenEditor")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", productID))

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product lookup failed")
		s.count(ctx, "open_editor", "failure")
		return nil, err
	}

	sess := s.sessions.Get(sessionID)
	editor := workflow.Open(product, sess.CanEditPrice(), s.catalog)
	sess.SetEditor(productID, editor)

	s.logger.InfoContext(ctx, "Price editor opened",
		slog.String("session_id", sess.ID()),
		slog.Int("product_id", productID),
		slog.Bool("authorized", editor.Authorized()),
	)
	s.count(ctx, "open_editor", "success")
	span.SetStatus(codes.Ok, "Editor opened")
	return dto.ToEditorResponse(sess.ID(), productID, editor), nil
}

// SetDraft records the raw price text and echoes the validation outcome.
func (s *StoreService) SetDraft(ctx context.Context, sessionID string, productID int, text string) (*dto.EditorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.SetDraft")
	defer span.End()

	sess := s.sessions.Get(sessionID)
	editor, ok := sess.Editor(productID)
	if !ok {
		span.SetStatus(codes.Error, "No open editor")
		s.count(ctx, "set_draft", "failure")
		return nil, domain.ErrNoEditor
	}

	if _, err := editor.SetDraft(text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Draft rejected")
		s.count(ctx, "set_draft", "failure")
		return nil, err
	}

	s.count(ctx, "set_draft", "success")
	span.SetStatus(codes.Ok, "Draft set")
	return dto.ToEditorResponse(sess.ID(), productID, editor), nil
}

// Submit commits the session's draft for one product.
func (s *StoreService) Submit(ctx context.Context, sessionID string, productID int) (*dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.Submit")
	defer span.End()

	sess := s.sessions.Get(sessionID)
	editor, ok := sess.Editor(productID)
	if !ok {
		span.SetStatus(codes.Error, "No open editor")
		s.count(ctx, "submit", "failure")
		return nil, domain.ErrNoEditor
	}

	note, err := editor.Submit(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Submit failed")
		s.logger.WarnContext(ctx, "Price update not committed",
			slog.String("session_id", sess.ID()),
			slog.Int("product_id", productID),
			slog.String("error", err.Error()),
		)
		s.count(ctx, "submit", "failure")
		return nil, err
	}

	sess.ClearEditor()
	s.priceUpdatesCounter.Add(ctx, 1)
	s.count(ctx, "submit", "success")

	s.logger.InfoContext(ctx, "Price update committed",
		slog.String("session_id", sess.ID()),
		slog.Int("product_id", productID),
		slog.String("price", note.Product.Price.String()),
	)

	span.SetStatus(codes.Ok, "Price update committed")
	return &dto.SubmitResponse{
		SessionID:    sess.ID(),
		Notification: note.Text,
		Product:      dto.ToProductResponse(display.ToProduct(note.Product)),
	}, nil
}

// CancelEdit closes the session's editor without any network effect.
func (s *StoreService) CancelEdit(ctx context.Context, sessionID string, productID int) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.CancelEdit")
	defer span.End()

	sess := s.sessions.Get(sessionID)
	editor, ok := sess.Editor(productID)
	if !ok {
		span.SetStatus(codes.Error, "No open editor")
		s.count(ctx, "cancel", "failure")
		return domain.ErrNoEditor
	}

	editor.Cancel()
	sess.ClearEditor()
	s.count(ctx, "cancel", "success")
	span.SetStatus(codes.Ok, "Edit cancelled")
	return nil
}

func (s *StoreService) findProduct(ctx context.Context, id int) (domain.Product, error) {
	products, err := s.catalog.GetAll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}
