package domain

import "fmt"

// TaxRate is the sales tax applied to every order.
const TaxRate = 0.08

// Totals is the price summary of a set of line items, in cents.
type Totals struct {
	Subtotal int64   `json:"subtotal"`
	Tax      int64   `json:"tax"`
	Total    int64   `json:"total"`
	TaxRate  float64 `json:"tax_rate"`
}

// UnitPrice returns the product price plus the price of every topping.
func UnitPrice(p Product, toppings []Topping) int64 {
	unit := p.Price
	for _, t := range toppings {
		unit += t.Price
	}
	return unit
}

// LineTotal returns unit * quantity.
func LineTotal(unit int64, quantity int) int64 {
	return unit * int64(quantity)
}

// Subtotal sums the cached line totals of items.
func Subtotal(items []CartItem) int64 {
	var sum int64
	for i := range items {
		sum += items[i].TotalPrice
	}
	return sum
}

// Tax returns TaxRate of subtotal, rounded half away from zero to the cent.
func Tax(subtotal int64) int64 {
	// 8% == 8/100; integer math keeps the result exact before rounding.
	num := subtotal * 8
	if num >= 0 {
		return (num + 50) / 100
	}
	return (num - 50) / 100
}

// OrderTotals computes subtotal, tax and grand total for items.
func OrderTotals(items []CartItem) Totals {
	sub := Subtotal(items)
	tax := Tax(sub)
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Total:    sub + tax,
		TaxRate:  TaxRate,
	}
}

// FormatPrice renders cents as a dollar amount with two decimals, e.g. "$5.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
