// Package objectstore reads and writes provider order exports kept in S3, one
// JSON array per provider at <prefix>/<provider>.json.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog/log"
)

// ObjectAPI is the part of the S3 client the repository uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type OrderRepository struct {
	client ObjectAPI
	bucket string
	prefix string
}

func NewOrderRepository(client ObjectAPI, bucket, prefix string) *OrderRepository {
	return &OrderRepository{client: client, bucket: bucket, prefix: prefix}
}

// NewS3OrderRepository builds a repository on the default AWS credential chain.
func NewS3OrderRepository(ctx context.Context, cfg models.CloudStorageConfig) (*OrderRepository, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("cloud storage bucket name is not set")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewOrderRepository(s3.NewFromConfig(awsCfg), cfg.BucketName, cfg.Prefix), nil
}

func (r *OrderRepository) objectKey(providerKey string) string {
	return path.Join(r.prefix, providerKey+".json")
}

// get returns the raw object; ok is false when it does not exist.
func (r *OrderRepository) get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("unable to get s3://%s/%s: %w", r.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("unable to read s3://%s/%s: %w", r.bucket, key, err)
	}
	return data, true, nil
}

func (r *OrderRepository) put(ctx context.Context, key string, data []byte) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("unable to upload s3://%s/%s: %w", r.bucket, key, err)
	}
	return nil
}

func (r *OrderRepository) Fetch(ctx context.Context, providerKey string) ([]models.Order, bool, error) {
	key := r.objectKey(providerKey)
	data, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	orders, skipped, err := models.DecodeOrders(data)
	if err != nil {
		return nil, false, fmt.Errorf("s3://%s/%s: %w", r.bucket, key, err)
	}
	if skipped > 0 {
		log.Warn().Str("provider", providerKey).Str("key", key).Int("skipped", skipped).Msg("skipped undecodable order records")
	}
	return orders, true, nil
}

// Put replaces the provider's export with orders.
func (r *OrderRepository) Put(ctx context.Context, providerKey string, orders []models.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return r.put(ctx, r.objectKey(providerKey), data)
}

// BulkCreate appends orders to the provider's export, creating it if absent.
// Existing records, undecodable ones included, are carried over unchanged.
func (r *OrderRepository) BulkCreate(ctx context.Context, providerKey string, orders []models.Order) error {
	key := r.objectKey(providerKey)
	existing, _, err := r.get(ctx, key)
	if err != nil {
		return err
	}
	data, err := models.AppendOrders(existing, orders)
	if err != nil {
		return fmt.Errorf("s3://%s/%s: %w", r.bucket, key, err)
	}
	return r.put(ctx, key, data)
}
