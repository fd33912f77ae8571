package domain

// Cart is the ordered list of committed line items. Insertion order is display order.
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem is one customized product at a given quantity.
// TotalPrice always equals UnitPrice * Quantity.
type CartItem struct {
	ID         string        `json:"id"`
	Product    Product       `json:"product"`
	Drink      *DrinkOptions `json:"drink,omitempty"`
	Toppings   []Topping     `json:"toppings"`
	Quantity   int           `json:"quantity"`
	UnitPrice  int64         `json:"unit_price"`
	TotalPrice int64         `json:"total_price"`
}

// Add appends item to the cart. Identical configurations are never merged.
func (c *Cart) Add(item CartItem) {
	c.Items = append(c.Items, item)
}

// UpdateQuantity adds delta to the quantity of the item with the given ID and
// recomputes its line total. It is a no-op when the ID is unknown or the
// resulting quantity would leave 1..MaxQuantity. It reports whether the item
// changed.
func (c *Cart) UpdateQuantity(id string, delta int) bool {
	i := c.FindItemIndex(id)
	if i < 0 || delta == 0 {
		return false
	}
	qty := c.Items[i].Quantity
	if delta < 1-qty || delta > MaxQuantity-qty {
		return false
	}
	qty += delta
	c.Items[i].Quantity = qty
	c.Items[i].TotalPrice = LineTotal(c.Items[i].UnitPrice, qty)
	return true
}

// Remove deletes the item with the given ID. Unknown IDs are ignored.
// It reports whether an item was removed.
func (c *Cart) Remove(id string) bool {
	i := c.FindItemIndex(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// ItemCount returns the sum of quantities across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Totals returns the subtotal, tax and total of the cart.
func (c *Cart) Totals() Totals {
	return OrderTotals(c.Items)
}

// FindItemIndex returns the index of the line item with the given ID, or -1.
func (c *Cart) FindItemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}
