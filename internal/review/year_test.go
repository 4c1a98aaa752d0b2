package review

import (
	"reflect"
	"testing"

	"github.com/chrisdamba/foodreview/internal/models"
)

func TestGroupByYear(t *testing.T) {
	buckets := GroupByYear(scenarioOrders())

	if got, want := buckets.Keys(), []string{"2023", "2022"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if got := len(buckets.Bucket("2023")); got != 2 {
		t.Errorf("len(2023) = %d, want 2", got)
	}
	if got := len(buckets.Bucket("2022")); got != 1 {
		t.Errorf("len(2022) = %d, want 1", got)
	}
	if first := buckets.Bucket("2023")[0]; first.OrderTotal != 100 {
		t.Errorf("2023 bucket lost insertion order, first total = %v", first.OrderTotal)
	}
}

func TestGroupByYearPartition(t *testing.T) {
	orders := []models.Order{
		order(2019, 1, 1, 1, "a", "x"),
		order(2021, 1, 1, 2, "a", "x"),
		order(2019, 1, 1, 3, "a", "x"),
		{OrderTotal: 4},
		order(2020, 1, 1, 5, "a", "x"),
		order(999, 1, 1, 6, "a", "x"),
	}

	buckets := GroupByYear(orders)
	keys := buckets.Keys()

	for i := 1; i < len(keys); i++ {
		if keys[i-1] <= keys[i] {
			t.Fatalf("keys not strictly descending: %v", keys)
		}
	}
	if got, want := keys, []string{"2021", "2020", "2019", "0999"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	seen := make(map[float64]int)
	for _, key := range keys {
		for _, o := range buckets.Bucket(key) {
			seen[o.OrderTotal]++
		}
	}
	for _, o := range buckets.Undated {
		seen[o.OrderTotal]++
	}
	for _, o := range orders {
		if seen[o.OrderTotal] != 1 {
			t.Errorf("order %v seen %d times, want 1", o.OrderTotal, seen[o.OrderTotal])
		}
	}
	if len(buckets.Undated) != 1 {
		t.Errorf("len(Undated) = %d, want 1", len(buckets.Undated))
	}
}

func TestGroupByYearEmpty(t *testing.T) {
	buckets := GroupByYear(nil)
	if buckets.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buckets.Len())
	}
	if _, _, ok := buckets.Select(0); ok {
		t.Error("Select(0) on empty buckets should report no data")
	}
}

func TestYearBucketsSelect(t *testing.T) {
	buckets := GroupByYear(scenarioOrders())

	tests := []struct {
		name     string
		year     int
		wantYear int
		wantLen  int
		wantOK   bool
	}{
		{"Latest", 0, 2023, 2, true},
		{"Explicit", 2022, 2022, 1, true},
		{"Missing", 2010, 2010, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, orders, ok := buckets.Select(tt.year)
			if year != tt.wantYear || len(orders) != tt.wantLen || ok != tt.wantOK {
				t.Errorf("Select(%d) = (%d, %d orders, %v), want (%d, %d, %v)",
					tt.year, year, len(orders), ok, tt.wantYear, tt.wantLen, tt.wantOK)
			}
		})
	}
}

func TestYearBucketsYear(t *testing.T) {
	buckets := GroupByYear([]models.Order{
		order(999, 1, 1, 1, "a", "x"),
		order(2023, 1, 1, 2, "a", "x"),
	})

	tests := []struct {
		key  string
		want int
	}{
		{"2023", 2023},
		{"0999", 999},
		{"2010", 0},
	}
	for _, tt := range tests {
		if got := buckets.Year(tt.key); got != tt.want {
			t.Errorf("Year(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}

	year, orders, ok := buckets.Select(0)
	if !ok || year != 2023 || len(orders) != 1 {
		t.Errorf("Select(0) = (%d, %d orders, %v), want (2023, 1, true)", year, len(orders), ok)
	}
}

func TestYearBucketsReturnCopies(t *testing.T) {
	buckets := GroupByYear(scenarioOrders())

	keys := buckets.Keys()
	keys[0] = "mutated"
	bucket := buckets.Bucket("2023")
	bucket[0].OrderTotal = -1

	if buckets.Keys()[0] != "2023" {
		t.Error("Keys() exposed internal state")
	}
	if buckets.Bucket("2023")[0].OrderTotal != 100 {
		t.Error("Bucket() exposed internal state")
	}
}
