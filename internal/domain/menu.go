package domain

// Category groups products on the menu.
type Category string

// Menu categories.
const (
	CategorySignature Category = "Signature Tea"
	CategoryMilkTea   Category = "Milk Tea"
	CategoryFruitTea  Category = "Fruit Tea"
	CategoryCoffee    Category = "Coffee"
	CategoryDessert   Category = "Dessert"

	// CategoryAll is the filter wildcard; no product carries it.
	CategoryAll Category = "All"
)

// Categories lists the menu categories in display order.
func Categories() []Category {
	return []Category{
		CategorySignature,
		CategoryMilkTea,
		CategoryFruitTea,
		CategoryCoffee,
		CategoryDessert,
	}
}

// SugarLevel is the sweetness applied to a drink.
type SugarLevel string

// Sugar levels.
const (
	SugarZero    SugarLevel = "0%"
	SugarSlight  SugarLevel = "30%"
	SugarHalf    SugarLevel = "50%"
	SugarLess    SugarLevel = "70%"
	SugarRegular SugarLevel = "100%"
)

// SugarLevels lists the sugar levels in display order.
func SugarLevels() []SugarLevel {
	return []SugarLevel{SugarZero, SugarSlight, SugarHalf, SugarLess, SugarRegular}
}

// Valid reports whether s is one of the known sugar levels.
func (s SugarLevel) Valid() bool {
	for _, l := range SugarLevels() {
		if l == s {
			return true
		}
	}
	return false
}

// IceLevel is the temperature/ice option applied to a drink.
type IceLevel string

// Ice levels.
const (
	IceHot     IceLevel = "Hot"
	IceNone    IceLevel = "No Ice"
	IceLess    IceLevel = "Less Ice"
	IceRegular IceLevel = "Regular Ice"
	IceExtra   IceLevel = "Extra Ice"
)

// IceLevels lists the ice levels in display order.
func IceLevels() []IceLevel {
	return []IceLevel{IceHot, IceNone, IceLess, IceRegular, IceExtra}
}

// Valid reports whether i is one of the known ice levels.
func (i IceLevel) Valid() bool {
	for _, l := range IceLevels() {
		if l == i {
			return true
		}
	}
	return false
}

// FlavorNote is one named intensity score (0-100) in a product's flavor profile.
type FlavorNote struct {
	Attribute string `json:"attribute"`
	Value     int    `json:"value"`
}

// Product is a menu entry. Prices are in cents.
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         int64        `json:"price"`
	Category      Category     `json:"category"`
	Image         string       `json:"image"`
	IsDrink       bool         `json:"is_drink"`
	Calories      int          `json:"calories"`
	FlavorProfile []FlavorNote `json:"flavor_profile,omitempty"`
}

// Topping is an add-on that can be put on any product. Price is in cents.
type Topping struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// DrinkOptions holds the sugar and ice choice for a drink. A line item carries
// DrinkOptions only when its product is a drink.
type DrinkOptions struct {
	Sugar SugarLevel `json:"sugar"`
	Ice   IceLevel   `json:"ice"`
}
