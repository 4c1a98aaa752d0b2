package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidMonth = errors.New("invalid month")

// MonthBuckets holds one year's orders by month, index 0 being January.
type MonthBuckets [12][]models.Order

type MonthTotal struct {
	Month  time.Month
	Orders int
	Spent  float64
}

// GroupByMonth splits orders into 12 month buckets. Any order whose month is
// outside 1-12 fails the whole call; nothing is clamped or dropped.
func GroupByMonth(orders []models.Order) (MonthBuckets, error) {
	var buckets MonthBuckets
	for i := range buckets {
		buckets[i] = []models.Order{}
	}

	for i, order := range orders {
		if order.OrderDate == nil {
			return MonthBuckets{}, fmt.Errorf("order %d has no date: %w", i, ErrInvalidMonth)
		}
		month := order.OrderDate.Month
		if month < 1 || month > 12 {
			return MonthBuckets{}, fmt.Errorf("order %d: month %d not in 1-12: %w", i, month, ErrInvalidMonth)
		}
		buckets[month-1] = append(buckets[month-1], order)
	}

	return buckets, nil
}

func (b MonthBuckets) Len() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket)
	}
	return n
}

// Totals reports order count and spend per month, rounded to 2 decimals.
func (b MonthBuckets) Totals() []MonthTotal {
	totals := make([]MonthTotal, 0, len(b))
	for i, bucket := range b {
		spent := decimal.Zero
		for _, order := range bucket {
			spent = spent.Add(decimal.NewFromFloat(order.OrderTotal))
		}
		totals = append(totals, MonthTotal{
			Month:  time.Month(i + 1),
			Orders: len(bucket),
			Spent:  spent.Round(2).InexactFloat64(),
		})
	}
	return totals
}
