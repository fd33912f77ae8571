// Package catalog holds the read-only café menu and the filter used to browse it.
package catalog

import (
	"fmt"
	"strings"

	"github.com/sipandsavor/cafe/internal/domain"
)

// Catalog is an immutable set of products and toppings. It is safe for
// concurrent use.
type Catalog struct {
	products []domain.Product
	toppings []domain.Topping
	byID     map[string]int
	topByID  map[string]int
}

// New builds a catalog from the given products and toppings, preserving their order.
func New(products []domain.Product, toppings []domain.Topping) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		toppings: make([]domain.Topping, len(toppings)),
		byID:     make(map[string]int, len(products)),
		topByID:  make(map[string]int, len(toppings)),
	}
	copy(c.products, products)
	copy(c.toppings, toppings)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	for i, t := range c.toppings {
		c.topByID[t.ID] = i
	}
	return c
}

// Default returns the Sip & Savor menu.
func Default() *Catalog {
	return New(menuItems(), toppings())
}

// Products returns every product in menu order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Toppings returns every topping in menu order.
func (c *Catalog) Toppings() []domain.Topping {
	out := make([]domain.Topping, len(c.toppings))
	copy(out, c.toppings)
	return out
}

// Categories returns the filter choices: "All" followed by every menu category.
func (c *Catalog) Categories() []domain.Category {
	return append([]domain.Category{domain.CategoryAll}, domain.Categories()...)
}

// SugarLevels returns the sugar choices offered for drinks, least sweet first.
func (c *Catalog) SugarLevels() []domain.SugarLevel {
	return domain.SugarLevels()
}

// IceLevels returns the ice choices offered for drinks.
func (c *Catalog) IceLevels() []domain.IceLevel {
	return domain.IceLevels()
}

// Product looks up a product by ID.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Topping looks up a topping by ID.
func (c *Catalog) Topping(id string) (domain.Topping, bool) {
	i, ok := c.topByID[id]
	if !ok {
		return domain.Topping{}, false
	}
	return c.toppings[i], true
}

// Filter returns the products in category (or every category for "All" or
// an empty category) whose name or description contains query, ignoring case.
// An empty result is valid.
func (c *Catalog) Filter(category domain.Category, query string) []domain.Product {
	queryLower := strings.ToLower(query)

	matched := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != domain.CategoryAll && p.Category != category {
			continue
		}
		if queryLower != "" &&
			!strings.Contains(strings.ToLower(p.Name), queryLower) &&
			!strings.Contains(strings.ToLower(p.Description), queryLower) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// Context renders the menu as grounding text for the assistant, one product per line.
func (c *Catalog) Context() string {
	lines := make([]string, 0, len(c.products))
	for _, p := range c.products {
		keywords := make([]string, 0, len(p.FlavorProfile))
		for _, f := range p.FlavorProfile {
			keywords = append(keywords, f.Attribute)
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s. Description: %s. Keywords: %s",
			p.Name, p.Category, domain.FormatPrice(p.Price), p.Description, strings.Join(keywords, ", ")))
	}
	return strings.Join(lines, "\n")
}
