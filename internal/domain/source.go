package domain

import "context"

// ProductSource defines the contract with the remote catalog endpoint.
type ProductSource interface {
	// FetchAll retrieves the full catalog.
	FetchAll(ctx context.Context) ([]Product, error)
	// Push sends an updated record to the source and returns its
	// acknowledgement.
	Push(ctx context.Context, product Product) (Product, error)
}
