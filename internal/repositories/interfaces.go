package repositories

import (
	"context"

	"github.com/chrisdamba/foodreview/internal/models"
)

// OrderProvider fetches the raw order list stored under a provider key such as
// "swiggy". ok is false when nothing is stored under the key.
type OrderProvider interface {
	Fetch(ctx context.Context, providerKey string) (orders []models.Order, ok bool, err error)
}

type OrderRepository interface {
	OrderProvider
	BulkCreate(ctx context.Context, providerKey string, orders []models.Order) error
	Count(ctx context.Context, providerKey string) (int, error)
	DeleteAll(ctx context.Context, providerKey string) error
}

// OrderWriter appends orders under a provider key.
type OrderWriter interface {
	BulkCreate(ctx context.Context, providerKey string, orders []models.Order) error
}
