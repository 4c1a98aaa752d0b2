package factories

import (
	"github.com/jaswdr/faker"
	"github.com/samber/lo"
)

var allCuisines = []string{
	"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese",
	"Thai", "Greek", "French", "Mediterranean", "Burgers", "Pizza",
}

var dishesByCuisine = map[string][]string{
	"Pizza":         {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
	"Burgers":       {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Tiramisu"},
	"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Naan Bread", "Biryani"},
	"American":      {"Cheeseburger", "Hot Dog", "BBQ Ribs", "Apple Pie"},
	"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
	"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
	"Greek":         {"Gyros", "Greek Salad", "Moussaka", "Baklava"},
	"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Crème Brûlée"},
	"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
}

// MenuFactory picks dish names for an order. A configured catalogue replaces
// the built-in per-cuisine menus.
type MenuFactory struct {
	fake      faker.Faker
	catalogue []string
}

func NewMenuFactory(fake faker.Faker, catalogue []string) *MenuFactory {
	return &MenuFactory{
		fake:      fake,
		catalogue: lo.Uniq(lo.Compact(catalogue)),
	}
}

func (mf *MenuFactory) CreateDishes(restaurant Restaurant) []string {
	count := mf.fake.IntBetween(1, 4)
	dishes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		dishes = append(dishes, mf.pick(restaurant.Cuisines))
	}
	return dishes
}

func (mf *MenuFactory) pick(cuisines []string) string {
	if len(mf.catalogue) > 0 {
		return mf.fake.RandomStringElement(mf.catalogue)
	}
	if len(cuisines) == 0 {
		return "Special of the Day"
	}
	items, ok := dishesByCuisine[mf.fake.RandomStringElement(cuisines)]
	if !ok {
		return "Special of the Day"
	}
	return mf.fake.RandomStringElement(items)
}
