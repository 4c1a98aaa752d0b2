package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// undefinedTable is the SQLSTATE Postgres reports for a missing relation.
const undefinedTable = "42P01"

const ordersSchema = `
	CREATE TABLE IF NOT EXISTS orders (
		id                   BIGSERIAL PRIMARY KEY,
		provider             TEXT NOT NULL,
		order_id             TEXT NOT NULL DEFAULT '',
		year                 INT,
		month                INT,
		time_slot            INT,
		order_total          DOUBLE PRECISION NOT NULL,
		dishes               TEXT[] NOT NULL DEFAULT '{}',
		restaurant_name      TEXT NOT NULL DEFAULT '',
		restaurant_city_name TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS orders_provider_idx ON orders (provider, id);
`

var orderColumns = []string{
	"provider", "order_id", "year", "month", "time_slot",
	"order_total", "dishes", "restaurant_name", "restaurant_city_name",
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Connect opens a pool against the given database URL and checks it is reachable.
func Connect(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is not set")
	}

	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

func (r *OrderRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, ordersSchema)
	return err
}

// Fetch returns the provider's orders in insertion order. A database where the
// orders table was never created holds no orders.
func (r *OrderRepository) Fetch(ctx context.Context, providerKey string) ([]models.Order, bool, error) {
	query := `
        SELECT
            order_id, year, month, time_slot, order_total, dishes,
            restaurant_name, restaurant_city_name
        FROM orders
        WHERE provider = $1
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, providerKey)
	if isUndefinedTable(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var year, month, timeSlot *int
		order := models.Order{}
		err := rows.Scan(
			&order.ID,
			&year,
			&month,
			&timeSlot,
			&order.OrderTotal,
			&order.Dishes,
			&order.RestaurantName,
			&order.RestaurantCityName,
		)
		if err != nil {
			return nil, false, err
		}
		if year != nil && month != nil && timeSlot != nil {
			order.OrderDate = &models.OrderDate{Year: *year, Month: *month, TimeSlot: *timeSlot}
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return orders, len(orders) > 0, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

func (r *OrderRepository) BulkCreate(ctx context.Context, providerKey string, orders []models.Order) error {
	rows := make([][]any, 0, len(orders))
	for _, order := range orders {
		var year, month, timeSlot *int
		if d := order.OrderDate; d != nil {
			year, month, timeSlot = &d.Year, &d.Month, &d.TimeSlot
		}
		dishes := order.Dishes
		if dishes == nil {
			dishes = []string{}
		}
		rows = append(rows, []any{
			providerKey,
			order.ID,
			year,
			month,
			timeSlot,
			order.OrderTotal,
			dishes,
			order.RestaurantName,
			order.RestaurantCityName,
		})
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"orders"}, orderColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to copy orders: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) Count(ctx context.Context, providerKey string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE provider = $1", providerKey).Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context, providerKey string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM orders WHERE provider = $1", providerKey)
	return err
}
