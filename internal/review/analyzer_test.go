package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/rs/zerolog"
)

func TestAnalyzeYearScenario(t *testing.T) {
	buckets := GroupByYear(scenarioOrders())
	result := AnalyzeYear(buckets.Bucket("2023"))
	if result == nil {
		t.Fatal("AnalyzeYear() = nil, want a review")
	}

	if result.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", result.TotalOrders)
	}
	if result.TotalCostSpent != 150 {
		t.Errorf("TotalCostSpent = %v, want 150", result.TotalCostSpent)
	}
	if result.MostExpensiveOrder.Cost != 100 {
		t.Errorf("MostExpensiveOrder.Cost = %v, want 100", result.MostExpensiveOrder.Cost)
	}
	if result.LeastExpensiveOrder.Cost != 50 {
		t.Errorf("LeastExpensiveOrder.Cost = %v, want 50", result.LeastExpensiveOrder.Cost)
	}
	if result.AverageOrderCost != "75.00" {
		t.Errorf("AverageOrderCost = %q, want %q", result.AverageOrderCost, "75.00")
	}
	wantDishes := []models.RankedEntry{{Name: "A", Count: 2}, {Name: "B", Count: 1}}
	if !reflect.DeepEqual(result.TopDishes, wantDishes) {
		t.Errorf("TopDishes = %v, want %v", result.TopDishes, wantDishes)
	}
	if result.TotalRestaurants != 1 {
		t.Errorf("TotalRestaurants = %d, want 1", result.TotalRestaurants)
	}
	if want := []models.RankedEntry{{Name: "R1", Count: 2}}; !reflect.DeepEqual(result.TopRestaurants, want) {
		t.Errorf("TopRestaurants = %v, want %v", result.TopRestaurants, want)
	}
	if want := []models.RankedEntry{{Name: "C1", Count: 2}}; !reflect.DeepEqual(result.TopCities, want) {
		t.Errorf("TopCities = %v, want %v", result.TopCities, want)
	}
	if want := []string{"C1"}; !reflect.DeepEqual(result.AllCities, want) {
		t.Errorf("AllCities = %v, want %v", result.AllCities, want)
	}
	if want := []models.TimeSlotCount{{Hour: 10, Count: 2}}; !reflect.DeepEqual(result.Top10TimeSlots, want) {
		t.Errorf("Top10TimeSlots = %v, want %v", result.Top10TimeSlots, want)
	}
}

func TestAnalyzeYearNoData(t *testing.T) {
	tests := []struct {
		name   string
		orders []models.Order
	}{
		{"Nil", nil},
		{"Empty", []models.Order{}},
		{"AllMalformed", []models.Order{{OrderTotal: 10}, order(2023, 1, 1, -5, "R", "C")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeYear(tt.orders); got != nil {
				t.Errorf("AnalyzeYear() = %+v, want nil", got)
			}
		})
	}
}

func TestAnalyzeYearExtremes(t *testing.T) {
	tests := []struct {
		name      string
		totals    []float64
		wantMost  int // index into totals
		wantLeast int
	}{
		{"Ascending", []float64{10, 20, 30}, 2, 0},
		{"TiesKeepFirst", []float64{20, 5, 20, 5}, 0, 1},
		{"AllZero", []float64{0, 0, 0}, 0, 0},
		{"ZeroAfterNonZero", []float64{12, 0, 7, 0}, 0, 1},
		{"Single", []float64{42}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := make([]models.Order, len(tt.totals))
			for i, total := range tt.totals {
				orders[i] = order(2023, 1, 1, total, "R", "C")
				orders[i].ID = fmt.Sprintf("o%d", i)
			}

			result := AnalyzeYear(orders)
			if got, want := result.MostExpensiveOrder.Order.ID, fmt.Sprintf("o%d", tt.wantMost); got != want {
				t.Errorf("MostExpensiveOrder = %s, want %s", got, want)
			}
			if got, want := result.LeastExpensiveOrder.Order.ID, fmt.Sprintf("o%d", tt.wantLeast); got != want {
				t.Errorf("LeastExpensiveOrder = %s, want %s", got, want)
			}
			if result.MostExpensiveOrder.Cost < result.LeastExpensiveOrder.Cost {
				t.Errorf("most %v < least %v", result.MostExpensiveOrder.Cost, result.LeastExpensiveOrder.Cost)
			}
		})
	}
}

func TestAnalyzeYearRounding(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 1, 0.1, "R", "C"),
		order(2023, 1, 1, 0.2, "R", "C"),
		order(2023, 1, 1, 10.005, "R", "C"),
	}

	result := AnalyzeYear(orders)
	if result.TotalCostSpent != 10.31 {
		t.Errorf("TotalCostSpent = %v, want 10.31", result.TotalCostSpent)
	}
	if result.AverageOrderCost != "3.44" {
		t.Errorf("AverageOrderCost = %q, want %q", result.AverageOrderCost, "3.44")
	}
}

func TestAnalyzeYearDishFiltering(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 1, 1, "R", "C", "Dosa", "", "   ", "Dosa"),
		order(2023, 1, 1, 1, "R", "C", "\t", "Idli"),
		order(2023, 1, 1, 1, "R", "C"),
	}

	result := AnalyzeYear(orders)
	want := []models.RankedEntry{{Name: "Dosa", Count: 2}, {Name: "Idli", Count: 1}}
	if !reflect.DeepEqual(result.TopDishes, want) {
		t.Errorf("TopDishes = %v, want %v", result.TopDishes, want)
	}
}

func TestAnalyzeYearTopN(t *testing.T) {
	var orders []models.Order
	// 12 restaurants in 12 cities; restaurant k is ordered from k+1 times,
	// except r00 and r01 which tie with r02.
	for k := 0; k < 12; k++ {
		n := k + 1
		if k < 2 {
			n = 3
		}
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("r%02d", k)
			orders = append(orders, order(2023, 1, k, 1, name, "city-"+name, "dish-"+name))
		}
	}

	result := AnalyzeYear(orders)

	for _, ranking := range [][]models.RankedEntry{result.TopDishes, result.TopRestaurants, result.TopCities} {
		if len(ranking) != TopN {
			t.Fatalf("len(ranking) = %d, want %d", len(ranking), TopN)
		}
		for i := 1; i < len(ranking); i++ {
			if ranking[i-1].Count < ranking[i].Count {
				t.Fatalf("ranking not sorted: %v", ranking)
			}
		}
	}

	// r00, r01 and r02 tie for the last slot; the first seen takes it.
	if got := result.TopRestaurants[8].Name; got != "r03" {
		t.Errorf("TopRestaurants[8] = %s, want r03", got)
	}
	if got := result.TopRestaurants[9]; got != (models.RankedEntry{Name: "r00", Count: 3}) {
		t.Errorf("TopRestaurants[9] = %+v, want r00 x3", got)
	}
	if result.TopRestaurants[0].Name != "r11" || result.TopRestaurants[0].Count != 12 {
		t.Errorf("TopRestaurants[0] = %+v, want r11 x12", result.TopRestaurants[0])
	}
	if result.TotalRestaurants != 12 {
		t.Errorf("TotalRestaurants = %d, want 12", result.TotalRestaurants)
	}
	if len(result.AllCities) != 12 || result.AllCities[0] != "city-r00" {
		t.Errorf("AllCities = %v, want 12 cities in first-seen order", result.AllCities)
	}
	if len(result.Top10TimeSlots) != TopN || result.Top10TimeSlots[0].Hour != 11 {
		t.Errorf("Top10TimeSlots = %v", result.Top10TimeSlots)
	}
}

func TestAnalyzeYearTimeSlotTies(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 20, 1, "R", "C"),
		order(2023, 1, 3, 1, "R", "C"),
		order(2023, 1, 3, 1, "R", "C"),
		order(2023, 1, 20, 1, "R", "C"),
		order(2023, 1, 9, 1, "R", "C"),
	}

	result := AnalyzeYear(orders)
	want := []models.TimeSlotCount{{Hour: 20, Count: 2}, {Hour: 3, Count: 2}, {Hour: 9, Count: 1}}
	if !reflect.DeepEqual(result.Top10TimeSlots, want) {
		t.Errorf("Top10TimeSlots = %v, want %v", result.Top10TimeSlots, want)
	}
}

func TestAnalyzeYearSkipsMalformed(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 1, 10, "R", "C", "A"),
		{OrderTotal: 1000, RestaurantName: "ghost"},
		order(2023, 1, 1, math.NaN(), "R", "C"),
		order(2023, 1, 1, -3, "R", "C"),
		order(2023, 1, 1, 20, "R", "C", "A"),
	}

	result := AnalyzeYear(orders)
	if result.TotalOrders != 2 || result.TotalCostSpent != 30 {
		t.Errorf("got %d orders / %v spent, want 2 / 30", result.TotalOrders, result.TotalCostSpent)
	}
	if result.SkippedOrders != 3 {
		t.Errorf("SkippedOrders = %d, want 3", result.SkippedOrders)
	}
}

func TestAnalyzeYearIdempotent(t *testing.T) {
	orders := scenarioOrders()
	snapshot := make([]models.Order, len(orders))
	copy(snapshot, orders)

	first := AnalyzeYear(orders)
	second := AnalyzeYear(orders)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between calls:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(orders, snapshot) {
		t.Error("AnalyzeYear mutated its input")
	}
}

func TestAnalyzeYearDishCountBound(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 1, 1, "R", "C", "a", "b", "c", "d", "e", "f"),
		order(2023, 1, 1, 1, "R", "C", "g", "h", "i", "j", "k", "l", " "),
		order(2023, 1, 1, 1, "R", "C", "a", "a", "b"),
	}

	result := AnalyzeYear(orders)
	sum := 0
	for _, d := range result.TopDishes {
		sum += d.Count
	}
	if sum > 15 {
		t.Errorf("sum of top dish counts = %d, exceeds 15 non-blank dishes", sum)
	}
	if result.TopDishes[0] != (models.RankedEntry{Name: "a", Count: 3}) {
		t.Errorf("TopDishes[0] = %+v, want a x3", result.TopDishes[0])
	}
}

func TestAnalyzerLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	analyzer := &Analyzer{Logger: &logger}

	orders := append(scenarioOrders(), models.Order{ID: "broken"})
	result, skipped := analyzer.Analyze(orders)
	if result == nil {
		t.Fatal("Analyze() = nil")
	}
	if skipped != 1 || result.SkippedOrders != 1 {
		t.Errorf("skipped = %d, SkippedOrders = %d; want 1", skipped, result.SkippedOrders)
	}

	out := buf.String()
	if !strings.Contains(out, "skipping malformed order") || !strings.Contains(out, `"order_id":"broken"`) {
		t.Errorf("missing rejection log in %s", out)
	}
	if !strings.Contains(out, "yearly review generated") {
		t.Errorf("missing summary log in %s", out)
	}
	if !reflect.DeepEqual(result.TopDishes, AnalyzeYear(orders).TopDishes) {
		t.Error("logger changed the result")
	}
}

func TestAnalyzeAll(t *testing.T) {
	orders := append(scenarioOrders(), order(2022, 1, 1, -1, "R", "C"))

	results, unattributed, err := (&Analyzer{}).AnalyzeAll(context.Background(), orders)
	if err != nil {
		t.Fatalf("AnalyzeAll() error = %v", err)
	}
	if unattributed != 0 {
		t.Errorf("unattributed = %d, want 0", unattributed)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Year != 2023 || results[1].Year != 2022 {
		t.Errorf("years = %d, %d; want 2023, 2022", results[0].Year, results[1].Year)
	}
	if results[0].TotalOrders != 2 || results[1].TotalOrders != 1 {
		t.Errorf("orders = %d, %d; want 2, 1", results[0].TotalOrders, results[1].TotalOrders)
	}
	if results[1].SkippedOrders != 1 {
		t.Errorf("2022 SkippedOrders = %d, want 1", results[1].SkippedOrders)
	}

	single := AnalyzeYear(GroupByYear(scenarioOrders()).Bucket("2023"))
	single.Year = 2023
	if !reflect.DeepEqual(results[0], single) {
		t.Errorf("AnalyzeAll 2023 differs from AnalyzeYear:\n%+v\n%+v", results[0], single)
	}
}

func TestAnalyzeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := (&Analyzer{}).AnalyzeAll(ctx, scenarioOrders())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("AnalyzeAll() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzeReportsSkippedWithoutResult(t *testing.T) {
	orders := []models.Order{
		order(2023, 1, 1, -5, "R", "C"),
		{ID: "undated", OrderTotal: 10, RestaurantName: "R"},
	}

	result, skipped := (&Analyzer{}).Analyze(orders)
	if result != nil {
		t.Fatalf("Analyze() = %+v, want nil", result)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

func TestAnalyzeAllUnattributedRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	orders := append(scenarioOrders(),
		models.Order{ID: "undated", OrderTotal: 10, RestaurantName: "R"},
		order(2019, 1, 1, -1, "R", "C"),
		order(2023, 1, 1, -1, "R", "C"),
	)

	results, unattributed, err := (&Analyzer{Logger: &logger}).AnalyzeAll(context.Background(), orders)
	if err != nil {
		t.Fatalf("AnalyzeAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].SkippedOrders != 1 {
		t.Errorf("2023 SkippedOrders = %d, want 1", results[0].SkippedOrders)
	}
	if unattributed != 2 {
		t.Errorf("unattributed = %d, want 2", unattributed)
	}
	if !strings.Contains(buf.String(), "rejected orders not attributed to any year") {
		t.Errorf("missing unattributed log in %s", buf.String())
	}
}
