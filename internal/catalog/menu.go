package catalog

import "github.com/sipandsavor/cafe/internal/domain"

func toppings() []domain.Topping {
	return []domain.Topping{
		{ID: "boba", Name: "Honey Boba", Price: 50},
		{ID: "pudding", Name: "Egg Pudding", Price: 75},
		{ID: "jelly", Name: "Coconut Jelly", Price: 50},
		{ID: "aloe", Name: "Aloe Vera", Price: 60},
		{ID: "foam", Name: "Cheese Foam", Price: 100},
	}
}

func menuItems() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Golden Oolong Milk Tea",
			Description: "Premium roasted oolong tea blended with fresh milk.",
			Price:       550,
			Category:    domain.CategoryMilkTea,
			Image:       "https://picsum.photos/400/400?random=1",
			IsDrink:     true,
			Calories:    280,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 60},
				{Attribute: "Aroma", Value: 90},
				{Attribute: "Creaminess", Value: 70},
				{Attribute: "Bitterness", Value: 30},
			},
		},
		{
			ID:          "2",
			Name:        "Brown Sugar Boba Latte",
			Description: "Fresh milk with slow-cooked brown sugar pearls. Caffeine-free option available.",
			Price:       625,
			Category:    domain.CategorySignature,
			Image:       "https://picsum.photos/400/400?random=2",
			IsDrink:     true,
			Calories:    450,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 90},
				{Attribute: "Aroma", Value: 50},
				{Attribute: "Creaminess", Value: 85},
				{Attribute: "Chewiness", Value: 100},
			},
		},
		{
			ID:          "3",
			Name:        "Passion Fruit Green Tea",
			Description: "Refreshing jasmine green tea with real passion fruit seeds.",
			Price:       575,
			Category:    domain.CategoryFruitTea,
			Image:       "https://picsum.photos/400/400?random=3",
			IsDrink:     true,
			Calories:    220,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 50},
				{Attribute: "Sourness", Value: 80},
				{Attribute: "Aroma", Value: 70},
				{Attribute: "Freshness", Value: 90},
			},
		},
		{
			ID:          "4",
			Name:        "Signature Cold Brew",
			Description: "Steeped for 18 hours for a smooth, rich flavor profile.",
			Price:       450,
			Category:    domain.CategoryCoffee,
			Image:       "https://picsum.photos/400/400?random=4",
			IsDrink:     true,
			Calories:    10,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 10},
				{Attribute: "Acidity", Value: 30},
				{Attribute: "Aroma", Value: 85},
				{Attribute: "Bitterness", Value: 60},
			},
		},
		{
			ID:          "5",
			Name:        "Matcha Crepe Cake",
			Description: "Twenty layers of delicate handmade crepes with premium matcha cream.",
			Price:       795,
			Category:    domain.CategoryDessert,
			Image:       "https://picsum.photos/400/400?random=5",
			IsDrink:     false,
			Calories:    380,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 50},
				{Attribute: "Creaminess", Value: 80},
				{Attribute: "Texture", Value: 90},
				{Attribute: "Bitterness", Value: 20},
			},
		},
		{
			ID:          "6",
			Name:        "Strawberry Cheese Foam Slush",
			Description: "Icy strawberry blend topped with savory house-made cheese foam.",
			Price:       675,
			Category:    domain.CategoryFruitTea,
			Image:       "https://picsum.photos/400/400?random=6",
			IsDrink:     true,
			Calories:    420,
			FlavorProfile: []domain.FlavorNote{
				{Attribute: "Sweetness", Value: 80},
				{Attribute: "Sourness", Value: 40},
				{Attribute: "Saltiness", Value: 30},
				{Attribute: "Coldness", Value: 100},
			},
		},
	}
}
