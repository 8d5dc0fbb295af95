// Package catalog implements the cache-aside client over the remote product
// source.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

// Client serves catalog reads from a one-time cache and forwards updates to
// the remote source.
//
// The first successful GetAll issues the only remote fetch this instance will
// ever make; the gate is an explicit flag, so an empty catalog is still a
// fetched catalog. A failed fetch leaves the gate open and is surfaced as
// domain.ErrSourceUnavailable without retrying.
type Client struct {
	source domain.ProductSource
	tracer trace.Tracer
	logger *slog.Logger

	mu      sync.Mutex
	fetched bool
	cache   []domain.Product

	fetchCounter metric.Int64Counter
	operations   metric.Int64Counter
}

// NewClient creates a catalog client over the given source.
func NewClient(
	source domain.ProductSource,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *Client {
	fetchCounter, _ := meter.Int64Counter(
		"catalog.fetches.total",
		metric.WithDescription("Remote catalog fetches issued"),
	)
	operations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Catalog client operations"),
	)

	return &Client{
		source:       source,
		tracer:       tracer,
		logger:       logger,
		fetchCounter: fetchCounter,
		operations:   operations,
	}
}

// GetAll returns the catalog, fetching it from the remote source on first
// use only. The lock is held across the fetch so concurrent first readers
// still produce a single remote call.
func (c *Client) GetAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.GetAll")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetched {
		span.SetAttributes(
			attribute.Bool("catalog.cache_hit", true),
			attribute.Int("product.count", len(c.cache)),
		)
		c.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "get_all"),
			attribute.String("result", "cache_hit"),
		))
		span.SetStatus(codes.Ok, "Catalog served from cache")
		return c.snapshot(), nil
	}

	products, err := c.source.FetchAll(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		c.logger.ErrorContext(ctx, "Catalog fetch failed",
			slog.String("error", err.Error()),
		)
		c.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "get_all"),
			attribute.String("result", "failure"),
		))
		return nil, err
	}

	c.cache = products
	c.fetched = true
	c.fetchCounter.Add(ctx, 1)
	c.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_all"),
		attribute.String("result", "fetched"),
	))

	span.SetAttributes(
		attribute.Bool("catalog.cache_hit", false),
		attribute.Int("product.count", len(products)),
	)
	c.logger.InfoContext(ctx, "Catalog fetched from remote source",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Catalog fetched")
	return c.snapshot(), nil
}

// Update pushes the given record to the remote source and returns its
// acknowledgement. On success the matching cache entry is replaced
// (write-through), so subsequent GetAll calls reflect the committed price.
func (c *Client) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.Update")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", product.ID))

	ack, err := c.source.Push(ctx, product)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product update failed")
		c.logger.ErrorContext(ctx, "Product update failed",
			slog.Int("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		c.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "update"),
			attribute.String("result", "failure"),
		))
		return domain.Product{}, err
	}

	c.mu.Lock()
	if c.fetched {
		for i := range c.cache {
			if c.cache[i].ID == ack.ID {
				c.cache[i] = ack
				break
			}
		}
	}
	c.mu.Unlock()

	c.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update"),
		attribute.String("result", "success"),
	))
	c.logger.InfoContext(ctx, "Product updated at remote source",
		slog.Int("product_id", ack.ID),
		slog.String("price", ack.Price.String()),
	)

	span.SetStatus(codes.Ok, "Product updated")
	return ack, nil
}

// snapshot copies the cache so callers cannot mutate it. Caller holds c.mu.
func (c *Client) snapshot() []domain.Product {
	out := make([]domain.Product, len(c.cache))
	copy(out, c.cache)
	return out
}
