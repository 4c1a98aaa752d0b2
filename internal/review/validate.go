package review

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrisdamba/foodreview/internal/models"
)

var ErrMalformedOrder = errors.New("malformed order")

// Rejection records an order left out of the aggregates and why.
type Rejection struct {
	Index int
	Order models.Order
	Err   error
}

func Validate(order models.Order) error {
	date := order.OrderDate
	switch {
	case date == nil:
		return fmt.Errorf("%w: missing order date", ErrMalformedOrder)
	case date.Year <= 0:
		return fmt.Errorf("%w: year %d", ErrMalformedOrder, date.Year)
	case date.Month < 1 || date.Month > 12:
		return fmt.Errorf("%w: month %d", ErrMalformedOrder, date.Month)
	case date.TimeSlot < 0 || date.TimeSlot > 23:
		return fmt.Errorf("%w: time slot %d", ErrMalformedOrder, date.TimeSlot)
	case math.IsNaN(order.OrderTotal) || math.IsInf(order.OrderTotal, 0):
		return fmt.Errorf("%w: order total is not a number", ErrMalformedOrder)
	case order.OrderTotal < 0:
		return fmt.Errorf("%w: negative order total %.2f", ErrMalformedOrder, order.OrderTotal)
	}
	return nil
}

// Sanitize splits orders into the ones safe to aggregate and the rejected rest.
// The input slice is not modified.
func Sanitize(orders []models.Order) ([]models.Order, []Rejection) {
	valid := make([]models.Order, 0, len(orders))
	var rejected []Rejection
	for i, order := range orders {
		if err := Validate(order); err != nil {
			rejected = append(rejected, Rejection{Index: i, Order: order, Err: err})
			continue
		}
		valid = append(valid, order)
	}
	return valid, rejected
}
