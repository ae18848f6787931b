package factories

import (
	"encoding/json"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/paykiosk/paykiosk/internal/models"
)

var fake = faker.New()

type CatalogFactory struct{}

// CreateCatalog generates a demo menu of the given size with resolved
// attributes, the way items come off the inventory API after normalization.
func (cf *CatalogFactory) CreateCatalog(size int) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, size)
	for i := 0; i < size; i++ {
		items = append(items, cf.CreateItem())
	}
	return items
}

func (cf *CatalogFactory) CreateItem() models.CatalogItem {
	category := generateRandomCategory()

	attrs := models.RestaurantAttributes{
		ModifierGroups: generateRandomModifierGroups(),
		DietaryTags:    generateRandomDietaryTags(),
		PrepTime:       generateRandomPrepTime(),
		Calories:       fake.IntBetween(150, 1200),
	}
	payload, _ := json.Marshal(struct {
		Type string                      `json:"type"`
		Data models.RestaurantAttributes `json:"data"`
	}{Type: "restaurant", Data: attrs})

	item := models.CatalogItem{
		ID:          cuid.New(),
		Name:        generateRandomItemName(category),
		Description: fake.Lorem().Sentence(8),
		Price:       fake.Float64(2, 5, 30),
		Category:    category,
		Tags:        generateRandomTags(),
		Attributes:  payload,
	}
	item.ResolveAttributes()
	return item
}

func generateRandomCategory() string {
	categories := []string{"Burgers", "Pizza", "Salads", "Sides", "Drinks", "Desserts"}
	return categories[rand.Intn(len(categories))]
}

func generateRandomItemName(category string) string {
	names := map[string][]string{
		"Burgers":  {"Classic Cheeseburger", "BBQ Bacon Burger", "Veggie Burger", "Mushroom Swiss Burger"},
		"Pizza":    {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
		"Salads":   {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
		"Sides":    {"French Fries", "Onion Rings", "Mozzarella Sticks", "Garlic Bread"},
		"Drinks":   {"Fresh Lemonade", "Iced Tea", "Chocolate Shake", "Cold Brew"},
		"Desserts": {"Apple Pie", "Brownie Sundae", "Cheesecake", "Churros"},
	}
	if items, ok := names[category]; ok {
		return items[rand.Intn(len(items))]
	}
	return "Special of the Day"
}

func generateRandomModifierGroups() []models.ModifierGroup {
	groups := []models.ModifierGroup{
		{
			ID:            cuid.New(),
			Name:          "Size",
			Required:      true,
			SelectionType: models.SelectionSingle,
			SortOrder:     1,
			Modifiers: []models.Modifier{
				{ID: cuid.New(), Name: "Small", PriceAdjustment: 0, Default: true, SortOrder: 1},
				{ID: cuid.New(), Name: "Medium", PriceAdjustment: 1.50, SortOrder: 2},
				{ID: cuid.New(), Name: "Large", PriceAdjustment: 3.00, SortOrder: 3},
			},
		},
	}

	if rand.Float64() < 0.7 {
		groups = append(groups, models.ModifierGroup{
			ID:            cuid.New(),
			Name:          "Toppings",
			SelectionType: models.SelectionMultiple,
			MaxSelect:     3,
			SortOrder:     2,
			Modifiers: []models.Modifier{
				{ID: cuid.New(), Name: "Extra Cheese", PriceAdjustment: 1.00, SortOrder: 1},
				{ID: cuid.New(), Name: "Bacon", PriceAdjustment: 1.50, SortOrder: 2},
				{ID: cuid.New(), Name: "Avocado", PriceAdjustment: 2.00, SortOrder: 3},
				{ID: cuid.New(), Name: "Jalapenos", PriceAdjustment: 0.50, SortOrder: 4},
			},
		})
	}

	if rand.Float64() < 0.4 {
		groups = append(groups, models.ModifierGroup{
			ID:            cuid.New(),
			Name:          "Extras",
			SelectionType: models.SelectionQuantity,
			SortOrder:     3,
			Modifiers: []models.Modifier{
				{ID: cuid.New(), Name: "Dipping Sauce", PriceAdjustment: 0.75, SortOrder: 1},
				{ID: cuid.New(), Name: "Extra Patty", PriceAdjustment: 2.50, SortOrder: 2},
			},
		})
	}

	return groups
}

func generateRandomDietaryTags() []string {
	allTags := []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "spicy"}
	tagCount := rand.Intn(3)
	tags := make([]string, 0, tagCount)
	for i := 0; i < tagCount; i++ {
		tags = append(tags, allTags[rand.Intn(len(allTags))])
	}
	return tags
}

func generateRandomTags() []string {
	allTags := []string{"popular", "new", "chef-special", "value", "limited"}
	tagCount := rand.Intn(3)
	tags := make([]string, 0, tagCount)
	for i := 0; i < tagCount; i++ {
		tags = append(tags, allTags[rand.Intn(len(allTags))])
	}
	return tags
}

func generateRandomPrepTime() string {
	prepTimes := []string{"5 min", "10 min", "15 min", "20 min"}
	return prepTimes[rand.Intn(len(prepTimes))]
}
