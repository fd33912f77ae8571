package domain

import "errors"

// ErrCustomizationClosed is returned when a committed or discarded
// customization is modified.
var ErrCustomizationClosed = errors.New("customization is closed")

// MaxQuantity is the largest quantity a line item can hold. It keeps line
// totals well inside int64 cents.
const MaxQuantity = 999

// ErrInvalidQuantity is returned when a quantity outside 1..MaxQuantity is requested.
var ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")

// CustomizationState is the lifecycle state of a product customization.
type CustomizationState string

// Customization states.
const (
	CustomizationInitialized CustomizationState = "initialized"
	CustomizationEditing     CustomizationState = "editing"
	CustomizationCommitted   CustomizationState = "committed"
	CustomizationDiscarded   CustomizationState = "discarded"
)

// Customization is the in-progress selection for one product before it is
// added to the cart.
type Customization struct {
	Product  Product            `json:"product"`
	Sugar    SugarLevel         `json:"sugar"`
	Ice      IceLevel           `json:"ice"`
	Toppings []Topping          `json:"toppings"`
	Quantity int                `json:"quantity"`
	State    CustomizationState `json:"state"`
}

// NewCustomization opens a customization for p with default selections.
// Defaults apply to every product; sugar and ice are dropped on commit for
// non-drinks.
func NewCustomization(p Product) *Customization {
	return &Customization{
		Product:  p,
		Sugar:    SugarRegular,
		Ice:      IceRegular,
		Toppings: []Topping{},
		Quantity: 1,
		State:    CustomizationInitialized,
	}
}

// Open reports whether the customization still accepts changes.
func (c *Customization) Open() bool {
	return c.State == CustomizationInitialized || c.State == CustomizationEditing
}

func (c *Customization) edit() error {
	if !c.Open() {
		return ErrCustomizationClosed
	}
	c.State = CustomizationEditing
	return nil
}

// SetSugar selects the sugar level.
func (c *Customization) SetSugar(s SugarLevel) error {
	if err := c.edit(); err != nil {
		return err
	}
	c.Sugar = s
	return nil
}

// SetIce selects the ice level.
func (c *Customization) SetIce(i IceLevel) error {
	if err := c.edit(); err != nil {
		return err
	}
	c.Ice = i
	return nil
}

// ToggleTopping removes t if a topping with the same ID is selected and
// appends it otherwise. Toggling twice restores the previous selection.
func (c *Customization) ToggleTopping(t Topping) error {
	if err := c.edit(); err != nil {
		return err
	}
	for i := range c.Toppings {
		if c.Toppings[i].ID == t.ID {
			c.Toppings = append(c.Toppings[:i:i], c.Toppings[i+1:]...)
			return nil
		}
	}
	c.Toppings = append(c.Toppings, t)
	return nil
}

// HasTopping reports whether a topping with the given ID is selected.
func (c *Customization) HasTopping(id string) bool {
	for i := range c.Toppings {
		if c.Toppings[i].ID == id {
			return true
		}
	}
	return false
}

// AdjustQuantity adds delta to the quantity, flooring at 1 and saturating at
// MaxQuantity.
func (c *Customization) AdjustQuantity(delta int) error {
	if err := c.edit(); err != nil {
		return err
	}
	switch {
	case delta > MaxQuantity-c.Quantity:
		c.Quantity = MaxQuantity
	case delta < 1-c.Quantity:
		c.Quantity = 1
	default:
		c.Quantity += delta
	}
	return nil
}

// SetQuantity replaces the quantity.
func (c *Customization) SetQuantity(n int) error {
	if n < 1 || n > MaxQuantity {
		return ErrInvalidQuantity
	}
	if err := c.edit(); err != nil {
		return err
	}
	c.Quantity = n
	return nil
}

// Increment raises the quantity by one.
func (c *Customization) Increment() error { return c.AdjustQuantity(1) }

// Decrement lowers the quantity by one, never below 1.
func (c *Customization) Decrement() error { return c.AdjustQuantity(-1) }

// UnitPrice is the product price plus the selected toppings.
func (c *Customization) UnitPrice() int64 {
	return UnitPrice(c.Product, c.Toppings)
}

// TotalPrice is UnitPrice * Quantity.
func (c *Customization) TotalPrice() int64 {
	return LineTotal(c.UnitPrice(), c.Quantity)
}

// Commit snapshots the current selections into a new line item with the given
// ID and closes the customization.
func (c *Customization) Commit(id string) (CartItem, error) {
	if !c.Open() {
		return CartItem{}, ErrCustomizationClosed
	}

	toppings := make([]Topping, len(c.Toppings))
	copy(toppings, c.Toppings)

	item := CartItem{
		ID:         id,
		Product:    c.Product,
		Toppings:   toppings,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice(),
		TotalPrice: c.TotalPrice(),
	}
	if c.Product.IsDrink {
		item.Drink = &DrinkOptions{Sugar: c.Sugar, Ice: c.Ice}
	}

	c.State = CustomizationCommitted
	return item, nil
}

// Discard closes the customization without producing a line item.
func (c *Customization) Discard() {
	if c.Open() {
		c.State = CustomizationDiscarded
	}
}
