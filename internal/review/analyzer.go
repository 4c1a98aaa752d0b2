// Package review turns a user's order history into yearly review statistics.
package review

import (
	"context"
	"strings"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Analyzer builds yearly reviews. The zero value is ready to use; Logger is an
// optional sink for per-review diagnostics.
type Analyzer struct {
	Logger *zerolog.Logger
}

// AnalyzeYear reviews one year's orders. It returns nil when no valid order is left.
func AnalyzeYear(orders []models.Order) *models.AnalyticsResult {
	result, _ := (&Analyzer{}).Analyze(orders)
	return result
}

// Analyze reviews one year's orders. skipped counts the rejected orders and is
// reported even when the result is nil because nothing valid was left.
func (a *Analyzer) Analyze(orders []models.Order) (result *models.AnalyticsResult, skipped int) {
	valid, rejected := Sanitize(orders)
	a.logRejections(rejected)
	if len(valid) == 0 {
		return nil, len(rejected)
	}

	result = summarize(valid)
	result.SkippedOrders = len(rejected)
	a.logResult(result)
	return result, len(rejected)
}

// AnalyzeAll reviews every year present in orders, most recent year first.
// Years are summarized concurrently. unattributed counts the rejected orders
// that belong to no returned review: undated ones and those of years where
// nothing valid was left.
func (a *Analyzer) AnalyzeAll(ctx context.Context, orders []models.Order) (results []*models.AnalyticsResult, unattributed int, err error) {
	valid, rejected := Sanitize(orders)
	a.logRejections(rejected)

	skippedByYear := make(map[int]int)
	for _, r := range rejected {
		skippedByYear[r.Order.Year()]++
	}

	years := GroupByYear(valid)
	keys := years.Keys()
	results = make([]*models.AnalyticsResult, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			year := years.Year(key)
			result := summarize(years.Bucket(key))
			result.Year = year
			result.SkippedOrders = skippedByYear[year]
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	unattributed = len(rejected)
	for _, result := range results {
		unattributed -= result.SkippedOrders
		a.logResult(result)
	}
	if unattributed > 0 {
		a.logger().Warn().Int("skipped", unattributed).Msg("rejected orders not attributed to any year")
	}
	return results, unattributed, nil
}

// summarize expects a non-empty slice of validated orders.
func summarize(orders []models.Order) *models.AnalyticsResult {
	total := decimal.Zero
	var most, least models.ExtremalOrder

	dishes := newCounter[string]()
	restaurants := newCounter[string]()
	cities := newCounter[string]()
	timeSlots := newCounter[int]()

	for i, order := range orders {
		cost := order.OrderTotal
		total = total.Add(decimal.NewFromFloat(cost))

		if i == 0 {
			most = models.ExtremalOrder{Order: order, Cost: cost}
			least = most
		} else {
			if cost > most.Cost {
				most = models.ExtremalOrder{Order: order, Cost: cost}
			}
			if cost < least.Cost {
				least = models.ExtremalOrder{Order: order, Cost: cost}
			}
		}

		for _, dish := range order.Dishes {
			if strings.TrimSpace(dish) == "" {
				continue
			}
			dishes.add(dish)
		}
		restaurants.add(order.RestaurantName)
		cities.add(order.RestaurantCityName)
		timeSlots.add(order.OrderDate.TimeSlot)
	}

	count := decimal.NewFromInt(int64(len(orders)))

	return &models.AnalyticsResult{
		TotalOrders:         len(orders),
		TotalCostSpent:      total.Round(2).InexactFloat64(),
		MostExpensiveOrder:  most,
		LeastExpensiveOrder: least,
		AverageOrderCost:    total.Div(count).StringFixed(2),
		TopDishes:           rankNames(dishes),
		TopRestaurants:      rankNames(restaurants),
		TopCities:           rankNames(cities),
		AllCities: lo.Uniq(lo.Map(orders, func(o models.Order, _ int) string {
			return o.RestaurantCityName
		})),
		TotalRestaurants: restaurants.len(),
		Top10TimeSlots: lo.Map(timeSlots.top(TopN), func(r rankedKey[int], _ int) models.TimeSlotCount {
			return models.TimeSlotCount{Hour: r.key, Count: r.count}
		}),
	}
}

func rankNames(c *counter[string]) []models.RankedEntry {
	return lo.Map(c.top(TopN), func(r rankedKey[string], _ int) models.RankedEntry {
		return models.RankedEntry{Name: r.key, Count: r.count}
	})
}

func (a *Analyzer) logger() *zerolog.Logger {
	if a.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return a.Logger
}

func (a *Analyzer) logRejections(rejected []Rejection) {
	if len(rejected) == 0 {
		return
	}
	logger := a.logger()
	for _, r := range rejected {
		logger.Warn().
			Int("index", r.Index).
			Str("order_id", r.Order.ID).
			Err(r.Err).
			Msg("skipping malformed order")
	}
	logger.Warn().Int("skipped", len(rejected)).Msg("orders left out of review")
}

func (a *Analyzer) logResult(result *models.AnalyticsResult) {
	a.logger().Debug().
		Int("year", result.Year).
		Int("total_orders", result.TotalOrders).
		Float64("total_cost_spent", result.TotalCostSpent).
		Str("average_order_cost", result.AverageOrderCost).
		Int("total_restaurants", result.TotalRestaurants).
		Int("cities", len(result.AllCities)).
		Int("skipped_orders", result.SkippedOrders).
		Msg("yearly review generated")
}
