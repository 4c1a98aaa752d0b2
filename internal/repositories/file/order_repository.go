// Package file keeps orders in a JSON document shaped like the browser
// extension's local storage: one top-level key per delivery platform.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog/log"
)

type OrderRepository struct {
	path string
	mu   sync.Mutex
}

func NewOrderRepository(path string) *OrderRepository {
	return &OrderRepository{path: path}
}

func (r *OrderRepository) Fetch(ctx context.Context, providerKey string) ([]models.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets, err := r.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := buckets[providerKey]
	if !ok || string(raw) == "null" {
		return nil, false, nil
	}

	orders, skipped, err := models.DecodeOrders(raw)
	if err != nil {
		return nil, false, fmt.Errorf("bucket %s in %s: %w", providerKey, r.path, err)
	}
	if skipped > 0 {
		log.Warn().
			Str("provider", providerKey).
			Str("path", r.path).
			Int("skipped", skipped).
			Msg("skipped undecodable order records")
	}
	return orders, true, nil
}

// BulkCreate appends orders to the provider's bucket, creating the file if needed.
func (r *OrderRepository) BulkCreate(ctx context.Context, providerKey string, orders []models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets, err := r.load()
	if err != nil {
		return err
	}

	data, err := models.AppendOrders(buckets[providerKey], orders)
	if err != nil {
		return fmt.Errorf("bucket %s in %s: %w", providerKey, r.path, err)
	}
	buckets[providerKey] = data
	return r.save(buckets)
}

func (r *OrderRepository) Count(ctx context.Context, providerKey string) (int, error) {
	orders, _, err := r.Fetch(ctx, providerKey)
	return len(orders), err
}

func (r *OrderRepository) DeleteAll(ctx context.Context, providerKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets, err := r.load()
	if err != nil {
		return err
	}
	delete(buckets, providerKey)
	return r.save(buckets)
}

// load returns an empty document when the file does not exist yet.
func (r *OrderRepository) load() (map[string]json.RawMessage, error) {
	buckets := make(map[string]json.RawMessage)

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return buckets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return buckets, nil
	}
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	return buckets, nil
}

func (r *OrderRepository) save(buckets map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(buckets, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return os.Rename(tmp, r.path)
}
