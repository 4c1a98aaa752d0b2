package models

// OrderDate is the parsed placement date of an order as scraped by the extension.
type OrderDate struct {
	Year     int `json:"year"`
	Month    int `json:"month"`    // 1-12
	TimeSlot int `json:"timeSlot"` // hour of day, 0-23
}

type Order struct {
	ID                 string     `json:"order_id,omitempty"`
	OrderDate          *OrderDate `json:"orderDate"`
	OrderTotal         float64    `json:"order_total"`
	Dishes             []string   `json:"dishes"`
	RestaurantName     string     `json:"restaurant_name"`
	RestaurantCityName string     `json:"restaurant_city_name"`
}

// Year returns the order year, or 0 when the date is missing.
func (o Order) Year() int {
	if o.OrderDate == nil {
		return 0
	}
	return o.OrderDate.Year
}
