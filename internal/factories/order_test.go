package factories

import (
	"testing"
	"time"

	"github.com/chrisdamba/foodreview/internal/models"
)

func testConfig() *models.Config {
	return &models.Config{
		Seed:      7,
		StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		CityNames: []string{"Bengaluru", "Mumbai"},
		MinOrder:  80,
		MaxOrder:  1500,
	}
}

func TestCreateOrders(t *testing.T) {
	cfg := testConfig()
	calls := 0
	orders := NewOrderFactory(cfg).CreateOrders(200, func() { calls++ })

	if len(orders) != 200 || calls != 200 {
		t.Fatalf("got %d orders and %d progress calls, want 200", len(orders), calls)
	}

	ids := make(map[string]bool)
	for _, o := range orders {
		if o.OrderDate == nil {
			t.Fatal("generated order without a date")
		}
		d := o.OrderDate
		if d.Year < 2022 || d.Year > 2023 {
			t.Errorf("year %d outside range", d.Year)
		}
		if d.Month < 1 || d.Month > 12 || d.TimeSlot < 0 || d.TimeSlot > 23 {
			t.Errorf("invalid date %+v", *d)
		}
		if o.OrderTotal < cfg.MinOrder || o.OrderTotal > cfg.MaxOrder {
			t.Errorf("total %.2f outside range", o.OrderTotal)
		}
		if len(o.Dishes) < 1 || len(o.Dishes) > 4 {
			t.Errorf("got %d dishes", len(o.Dishes))
		}
		if o.RestaurantCityName != "Bengaluru" && o.RestaurantCityName != "Mumbai" {
			t.Errorf("unexpected city %q", o.RestaurantCityName)
		}
		if ids[o.ID] {
			t.Errorf("duplicate id %s", o.ID)
		}
		ids[o.ID] = true
	}
}

func TestCreateOrdersIsReproducible(t *testing.T) {
	a := NewOrderFactory(testConfig()).CreateOrders(20, nil)
	b := NewOrderFactory(testConfig()).CreateOrders(20, nil)

	for i := range a {
		if a[i].RestaurantName != b[i].RestaurantName || a[i].OrderTotal != b[i].OrderTotal || *a[i].OrderDate != *b[i].OrderDate {
			t.Fatalf("order %d differs between runs with the same seed", i)
		}
	}
}

func TestMenuCatalogue(t *testing.T) {
	cfg := testConfig()
	cfg.MenuDishes = []models.MenuDish{{Name: "Masala Dosa"}, {Name: ""}, {Name: "Masala Dosa"}}

	for _, o := range NewOrderFactory(cfg).CreateOrders(50, nil) {
		for _, dish := range o.Dishes {
			if dish != "Masala Dosa" {
				t.Fatalf("dish %q not from catalogue", dish)
			}
		}
	}
}

func TestRestaurantNamesAreUnique(t *testing.T) {
	of := NewOrderFactory(testConfig())
	seen := make(map[string]bool)
	for _, r := range of.restaurants {
		if seen[r.Name] {
			t.Errorf("duplicate restaurant %q", r.Name)
		}
		seen[r.Name] = true
	}
}
