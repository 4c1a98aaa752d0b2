package repositories

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/chrisdamba/foodreview/internal/repositories/file"
	"github.com/chrisdamba/foodreview/internal/repositories/objectstore"
	"github.com/chrisdamba/foodreview/internal/repositories/postgres"
)

// NewOrderProvider opens the order source named by cfg.Source. The returned
// close func releases any connection it holds.
func NewOrderProvider(ctx context.Context, cfg *models.Config) (OrderProvider, func(), error) {
	switch cfg.Source {
	case "", "file":
		return file.NewOrderRepository(cfg.InputFile), func() {}, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewOrderRepository(pool), pool.Close, nil
	case "s3":
		repo, err := objectstore.NewS3OrderRepository(ctx, cfg.CloudStorage)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported order source: %s", cfg.Source)
	}
}

// NewOrderWriter opens the sink generated orders are stored in. Postgres
// targets get their table created first.
func NewOrderWriter(ctx context.Context, cfg *models.Config) (OrderWriter, func(), error) {
	switch cfg.Source {
	case "", "file":
		return file.NewOrderRepository(cfg.InputFile), func() {}, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewOrderRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to create orders table: %w", err)
		}
		return repo, pool.Close, nil
	case "s3":
		repo, err := objectstore.NewS3OrderRepository(ctx, cfg.CloudStorage)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported order sink: %s", cfg.Source)
	}
}
