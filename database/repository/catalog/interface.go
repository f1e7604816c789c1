package catalogRepo

import (
	"context"
	"errors"

	"tradewinds/models"
)

// ErrNotFound is returned when a resort or option id is not in the catalog.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogRepository is read-only access to resorts and wizard options.
// ListResorts returns resorts in catalog insertion order.
type CatalogRepository interface {
	GetResort(ctx context.Context, id string) (*models.Resort, error)
	ListResorts(ctx context.Context) ([]models.Resort, error)
	GetOption(ctx context.Context, kind models.OptionKind, id string) (*models.Option, error)
	ListOptions(ctx context.Context, kind models.OptionKind) ([]models.Option, error)
}
