package output

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/chrisdamba/foodreview/internal/review"
)

const (
	SummaryTopic = "year_summaries"
	RankingTopic = "ranking_entries"
)

const (
	DimensionDishes      = "dishes"
	DimensionRestaurants = "restaurants"
	DimensionCities      = "cities"
	DimensionTimeSlots   = "time_slots"
)

// SummaryRow is the flat form of one yearly review
type SummaryRow struct {
	Provider                 string  `json:"provider" parquet:"name=provider,type=BYTE_ARRAY,convertedtype=UTF8"`
	Year                     int32   `json:"year" parquet:"name=year,type=INT32"`
	TotalOrders              int32   `json:"total_orders" parquet:"name=total_orders,type=INT32"`
	TotalCostSpent           float64 `json:"total_cost_spent" parquet:"name=total_cost_spent,type=DOUBLE"`
	AverageOrderCost         string  `json:"average_order_cost" parquet:"name=average_order_cost,type=BYTE_ARRAY,convertedtype=UTF8"`
	MostExpensiveCost        float64 `json:"most_expensive_cost" parquet:"name=most_expensive_cost,type=DOUBLE"`
	MostExpensiveRestaurant  string  `json:"most_expensive_restaurant" parquet:"name=most_expensive_restaurant,type=BYTE_ARRAY,convertedtype=UTF8"`
	LeastExpensiveCost       float64 `json:"least_expensive_cost" parquet:"name=least_expensive_cost,type=DOUBLE"`
	LeastExpensiveRestaurant string  `json:"least_expensive_restaurant" parquet:"name=least_expensive_restaurant,type=BYTE_ARRAY,convertedtype=UTF8"`
	TotalRestaurants         int32   `json:"total_restaurants" parquet:"name=total_restaurants,type=INT32"`
	AllCities                string  `json:"all_cities" parquet:"name=all_cities,type=BYTE_ARRAY,convertedtype=UTF8"`
	SkippedOrders            int32   `json:"skipped_orders" parquet:"name=skipped_orders,type=INT32"`
	GeneratedAt              int64   `json:"generated_at" parquet:"name=generated_at,type=INT64"`
}

// RankingRow is one entry of a top-10 list. Hour is only set for time slots.
type RankingRow struct {
	Provider  string `json:"provider" parquet:"name=provider,type=BYTE_ARRAY,convertedtype=UTF8"`
	Year      int32  `json:"year" parquet:"name=year,type=INT32"`
	Dimension string `json:"dimension" parquet:"name=dimension,type=BYTE_ARRAY,convertedtype=UTF8"`
	Rank      int32  `json:"rank" parquet:"name=rank,type=INT32"`
	Name      string `json:"name" parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Hour      *int32 `json:"hour,omitempty" parquet:"name=hour,type=INT32,repetitiontype=OPTIONAL"`
	Count     int32  `json:"count" parquet:"name=count,type=INT32"`
}

// topicColumns lists the JSON field names of a topic's row type in declaration
// order, optional ones included. It returns nil for unknown topics.
func topicColumns(topic string) []string {
	var t reflect.Type
	switch topic {
	case SummaryTopic:
		t = reflect.TypeOf(SummaryRow{})
	case RankingTopic:
		t = reflect.TypeOf(RankingRow{})
	default:
		return nil
	}
	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

func NewSummaryRow(provider string, result *models.AnalyticsResult, generatedAt time.Time) SummaryRow {
	return SummaryRow{
		Provider:                 provider,
		Year:                     int32(result.Year),
		TotalOrders:              int32(result.TotalOrders),
		TotalCostSpent:           result.TotalCostSpent,
		AverageOrderCost:         result.AverageOrderCost,
		MostExpensiveCost:        result.MostExpensiveOrder.Cost,
		MostExpensiveRestaurant:  result.MostExpensiveOrder.Order.RestaurantName,
		LeastExpensiveCost:       result.LeastExpensiveOrder.Cost,
		LeastExpensiveRestaurant: result.LeastExpensiveOrder.Order.RestaurantName,
		TotalRestaurants:         int32(result.TotalRestaurants),
		AllCities:                strings.Join(result.AllCities, ", "),
		SkippedOrders:            int32(result.SkippedOrders),
		GeneratedAt:              generatedAt.Unix(),
	}
}

func NewRankingRows(provider string, result *models.AnalyticsResult) []RankingRow {
	var rows []RankingRow
	add := func(dimension string, entries []models.RankedEntry) {
		for i, e := range entries {
			rows = append(rows, RankingRow{
				Provider:  provider,
				Year:      int32(result.Year),
				Dimension: dimension,
				Rank:      int32(i + 1),
				Name:      e.Name,
				Count:     int32(e.Count),
			})
		}
	}
	add(DimensionDishes, result.TopDishes)
	add(DimensionRestaurants, result.TopRestaurants)
	add(DimensionCities, result.TopCities)

	for i, slot := range result.Top10TimeSlots {
		hour := int32(slot.Hour)
		label, _ := review.FormatTimeSlot(slot.Hour)
		rows = append(rows, RankingRow{
			Provider:  provider,
			Year:      int32(result.Year),
			Dimension: DimensionTimeSlots,
			Rank:      int32(i + 1),
			Name:      label,
			Hour:      &hour,
			Count:     int32(slot.Count),
		})
	}
	return rows
}

// Publisher flattens reviews into rows and writes them to a destination.
type Publisher struct {
	dest     Destination
	provider string
	now      func() time.Time
}

func NewPublisher(dest Destination, provider string) *Publisher {
	return &Publisher{dest: dest, provider: provider, now: time.Now}
}

func (p *Publisher) Publish(results ...*models.AnalyticsResult) error {
	generatedAt := p.now()
	for _, result := range results {
		if result == nil {
			continue
		}
		if err := p.write(SummaryTopic, NewSummaryRow(p.provider, result, generatedAt)); err != nil {
			return err
		}
		for _, row := range NewRankingRows(p.provider, result) {
			if err := p.write(RankingTopic, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Publisher) write(topic string, row any) error {
	msg, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal %s row: %w", topic, err)
	}
	if err := p.dest.WriteMessage(topic, msg); err != nil {
		return fmt.Errorf("failed to write %s row: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.dest.Close()
}
