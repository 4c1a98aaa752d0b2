package factories

import (
	"math/rand"

	"github.com/chrisdamba/foodreview/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/samber/lo"
)

const defaultRestaurantCount = 25

// lunch and dinner peaks
var peakHours = []int{12, 13, 19, 20, 21}

// OrderFactory generates synthetic order histories. Output is reproducible for
// a given seed, apart from the cuid order ids.
type OrderFactory struct {
	fake        faker.Faker
	config      *models.Config
	restaurants []Restaurant
	menu        *MenuFactory
}

func NewOrderFactory(config *models.Config) *OrderFactory {
	fake := faker.NewWithSeed(rand.NewSource(config.Seed))

	rf := NewRestaurantFactory(fake)
	restaurants := make([]Restaurant, defaultRestaurantCount)
	for i := range restaurants {
		restaurants[i] = rf.CreateRestaurant(config.CityNames)
	}

	catalogue := lo.Map(config.MenuDishes, func(d models.MenuDish, _ int) string { return d.Name })

	return &OrderFactory{
		fake:        fake,
		config:      config,
		restaurants: restaurants,
		menu:        NewMenuFactory(fake, catalogue),
	}
}

func (of *OrderFactory) CreateOrder() models.Order {
	restaurant := of.restaurants[of.fake.IntBetween(0, len(of.restaurants)-1)]
	placed := of.fake.Time().TimeBetween(of.config.StartDate, of.config.EndDate).In(of.config.StartDate.Location())

	hour := placed.Hour()
	if of.fake.IntBetween(1, 10) <= 6 {
		hour = peakHours[of.fake.IntBetween(0, len(peakHours)-1)]
	}

	return models.Order{
		ID: cuid.New(),
		OrderDate: &models.OrderDate{
			Year:     placed.Year(),
			Month:    int(placed.Month()),
			TimeSlot: hour,
		},
		OrderTotal:         of.orderTotal(),
		Dishes:             of.menu.CreateDishes(restaurant),
		RestaurantName:     restaurant.Name,
		RestaurantCityName: restaurant.City,
	}
}

// CreateOrders calls progress once per generated order when it is non-nil.
func (of *OrderFactory) CreateOrders(n int, progress func()) []models.Order {
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, of.CreateOrder())
		if progress != nil {
			progress()
		}
	}
	return orders
}

func (of *OrderFactory) orderTotal() float64 {
	low, high := int(of.config.MinOrder), int(of.config.MaxOrder)
	if high <= low {
		return float64(low)
	}
	return of.fake.Float64(2, low, high)
}
