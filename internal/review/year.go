package review

import (
	"fmt"
	"slices"
	"sort"

	"github.com/chrisdamba/foodreview/internal/models"
)

// YearBuckets partitions orders by year. Keys are zero padded to four digits so
// that the descending string order they are read in matches numeric order.
type YearBuckets struct {
	keys    []string
	years   map[string]int
	buckets map[string][]models.Order

	// Undated holds orders without a usable year.
	Undated []models.Order
}

func YearKey(year int) string {
	return fmt.Sprintf("%04d", year)
}

func GroupByYear(orders []models.Order) *YearBuckets {
	b := &YearBuckets{
		years:   make(map[string]int),
		buckets: make(map[string][]models.Order),
	}

	for _, order := range orders {
		year := order.Year()
		if year <= 0 {
			b.Undated = append(b.Undated, order)
			continue
		}
		key := YearKey(year)
		if _, ok := b.buckets[key]; !ok {
			b.keys = append(b.keys, key)
			b.years[key] = year
		}
		b.buckets[key] = append(b.buckets[key], order)
	}

	sort.Slice(b.keys, func(i, j int) bool {
		return b.keys[i] > b.keys[j]
	})
	return b
}

// Keys returns the year keys, most recent first.
func (b *YearBuckets) Keys() []string {
	return slices.Clone(b.keys)
}

func (b *YearBuckets) Bucket(key string) []models.Order {
	return slices.Clone(b.buckets[key])
}

// Year returns the numeric year of key, or 0 when key is not a bucket.
func (b *YearBuckets) Year(key string) int {
	return b.years[key]
}

func (b *YearBuckets) Len() int {
	return len(b.keys)
}

// Select returns the bucket for year, or the most recent bucket when year is 0.
func (b *YearBuckets) Select(year int) (int, []models.Order, bool) {
	if year == 0 {
		if len(b.keys) == 0 {
			return 0, nil, false
		}
		return b.years[b.keys[0]], b.Bucket(b.keys[0]), true
	}
	key := YearKey(year)
	if _, ok := b.buckets[key]; !ok {
		return year, nil, false
	}
	return year, b.Bucket(key), true
}
