package review

import (
	"github.com/chrisdamba/foodreview/internal/models"
)

func order(year, month, hour int, total float64, restaurant, city string, dishes ...string) models.Order {
	return models.Order{
		OrderDate:          &models.OrderDate{Year: year, Month: month, TimeSlot: hour},
		OrderTotal:         total,
		Dishes:             dishes,
		RestaurantName:     restaurant,
		RestaurantCityName: city,
	}
}

// scenarioOrders is the three-order history used across the package tests.
func scenarioOrders() []models.Order {
	return []models.Order{
		order(2023, 1, 10, 100, "R1", "C1", "A", "B"),
		order(2023, 2, 10, 50, "R1", "C1", "A"),
		order(2022, 3, 5, 30, "R2", "C2"),
	}
}
