package provider

import (
	"context"
	"errors"

	"github.com/flipradar/flipradar/internal/model"
)

// ErrNotConfigured marks an adapter whose credentials are absent. Adapters
// report it without making network calls; the resolution chain treats it as
// "no data" rather than a failure.
var ErrNotConfigured = errors.New("provider not configured")

// Provider is the capability every upstream product-data source implements.
// A nil product with a nil error means the provider had no data; errors are
// reserved for transport failures that survived the retry policy.
type Provider interface {
	// Available reports whether the provider has credentials and may be
	// queried.
	Available() bool

	// Name identifies the provider in logs.
	Name() string

	// GetByASIN looks a product up by its marketplace identifier.
	GetByASIN(ctx context.Context, asin string, marketplace model.Marketplace) (*model.NormalizedProduct, error)

	// SearchByBarcode looks a product up by UPC or EAN.
	SearchByBarcode(ctx context.Context, code string, barcodeType model.BarcodeType, marketplace model.Marketplace) (*model.NormalizedProduct, error)
}
