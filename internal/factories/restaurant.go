package factories

import (
	"fmt"

	"github.com/jaswdr/faker"
)

// Restaurant is a generated outlet that orders are placed against.
type Restaurant struct {
	Name     string
	City     string
	Cuisines []string
}

type RestaurantFactory struct {
	fake  faker.Faker
	names map[string]bool
}

func NewRestaurantFactory(fake faker.Faker) *RestaurantFactory {
	return &RestaurantFactory{fake: fake, names: make(map[string]bool)}
}

// CreateRestaurant picks the city from cities when given, otherwise a fake one.
func (rf *RestaurantFactory) CreateRestaurant(cities []string) Restaurant {
	city := rf.fake.Address().City()
	if len(cities) > 0 {
		city = rf.fake.RandomStringElement(cities)
	}

	return Restaurant{
		Name:     rf.uniqueName(rf.fake.Company().Name()),
		City:     city,
		Cuisines: rf.randomCuisines(),
	}
}

func (rf *RestaurantFactory) uniqueName(base string) string {
	name := base
	counter := 1
	for rf.names[name] {
		name = fmt.Sprintf("%s %d", base, counter)
		counter++
	}
	rf.names[name] = true
	return name
}

func (rf *RestaurantFactory) randomCuisines() []string {
	count := rf.fake.IntBetween(1, 3)
	cuisines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		cuisines = append(cuisines, rf.fake.RandomStringElement(allCuisines))
	}
	return cuisines
}
