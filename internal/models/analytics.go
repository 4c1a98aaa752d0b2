package models

// ExtremalOrder pairs an order with the cost it was selected on.
type ExtremalOrder struct {
	Order Order   `json:"order"`
	Cost  float64 `json:"cost"`
}

// RankedEntry is one row of a top-N frequency ranking.
type RankedEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TimeSlotCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// AnalyticsResult is the yearly review rendered by the presentation layer.
type AnalyticsResult struct {
	Year                int             `json:"year,omitempty"`
	TotalOrders         int             `json:"total_orders"`
	TotalCostSpent      float64         `json:"total_cost_spent"`
	MostExpensiveOrder  ExtremalOrder   `json:"most_expensive_order"`
	LeastExpensiveOrder ExtremalOrder   `json:"least_expensive_order"`
	AverageOrderCost    string          `json:"average_order_cost"`
	TopDishes           []RankedEntry   `json:"top_dishes"`
	TopRestaurants      []RankedEntry   `json:"top_restaurants"`
	TopCities           []RankedEntry   `json:"top_cities"`
	AllCities           []string        `json:"all_cities"`
	TotalRestaurants    int             `json:"total_restaurants"`
	Top10TimeSlots      []TimeSlotCount `json:"top_10_time"`
	SkippedOrders       int             `json:"skipped_orders,omitempty"`
}
