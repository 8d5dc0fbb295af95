// Package source implements the HTTP client for the remote product source.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

// Client talks to the remote product source over HTTP. Outbound calls are
// rate limited; transport failures, non-2xx responses and malformed payloads
// all map to domain.ErrSourceUnavailable.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewClient creates a source client against baseURL. rps bounds the outbound
// request rate; a zero or negative value disables the limit.
func NewClient(
	baseURL string,
	httpc *http.Client,
	rps float64,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Client {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		if rps > 1 {
			burst = int(rps)
		}
	}
	return &Client{
		baseURL: baseURL,
		httpc:   httpc,
		limiter: rate.NewLimiter(limit, burst),
		tracer:  tracer,
		logger:  logger,
	}
}

// FetchAll retrieves the full catalog via GET {base}/products.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "SourceClient.FetchAll")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog request failed")
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		err = fmt.Errorf("%w: malformed catalog payload: %v", domain.ErrSourceUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Malformed catalog payload")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Catalog fetched")
	return products, nil
}

// Push sends the full record via POST {base}/products/{id} and returns the
// acknowledged record. Fields the remote echoes as zero values are backfilled
// from the sent record.
func (c *Client) Push(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "SourceClient.Push")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", product.ID))

	payload, err := json.Marshal(product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("encode product %d: %w", product.ID, err)
	}

	url := fmt.Sprintf("%s/products/%d", c.baseURL, product.ID)
	body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update request failed")
		return domain.Product{}, err
	}

	var ack domain.Product
	if err := json.Unmarshal(body, &ack); err != nil {
		err = fmt.Errorf("%w: malformed update acknowledgement: %v", domain.ErrSourceUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Malformed acknowledgement")
		return domain.Product{}, err
	}

	span.SetStatus(codes.Ok, "Product pushed")
	return mergeAck(product, ack), nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Source request failed",
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "Source returned non-2xx status",
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrSourceUnavailable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return body, nil
}

// mergeAck trusts the sent record over zero values in the acknowledgement;
// public fake stores tend to echo only the fields they feel like.
func mergeAck(sent, ack domain.Product) domain.Product {
	if ack.ID == 0 {
		ack.ID = sent.ID
	}
	if ack.Title == "" {
		ack.Title = sent.Title
	}
	if ack.Price.IsZero() && !sent.Price.IsZero() {
		ack.Price = sent.Price
	}
	if ack.Description == "" {
		ack.Description = sent.Description
	}
	if ack.Category == "" {
		ack.Category = sent.Category
	}
	if ack.Image == "" {
		ack.Image = sent.Image
	}
	if ack.Rating == (domain.Rating{}) {
		ack.Rating = sent.Rating
	}
	return ack
}
