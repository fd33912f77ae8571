package http

import (
	"time"

	"github.com/sipandsavor/cafe/internal/domain"
)

// --- Response DTOs ---

// SessionView is the full ordering state shown to the client.
type SessionView struct {
	ID          string             `json:"id"`
	Cart        CartView           `json:"cart"`
	Customizing *CustomizationView `json:"customizing"`
	Checkout    CheckoutView       `json:"checkout"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// CartView is the cart with its totals and badge count.
type CartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Totals    domain.Totals     `json:"totals"`
	Display   TotalsDisplay     `json:"display"`
}

// TotalsDisplay holds the totals formatted for display.
type TotalsDisplay struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// CustomizationView is the open product modal with its live price.
type CustomizationView struct {
	Product    domain.Product            `json:"product"`
	Sugar      domain.SugarLevel         `json:"sugar"`
	Ice        domain.IceLevel           `json:"ice"`
	Toppings   []domain.Topping          `json:"toppings"`
	Quantity   int                       `json:"quantity"`
	UnitPrice  int64                     `json:"unit_price"`
	TotalPrice int64                     `json:"total_price"`
	State      domain.CustomizationState `json:"state"`
}

// CheckoutView is the checkout status and any pending confirmation.
type CheckoutView struct {
	Status       domain.CheckoutStatus `json:"status"`
	SubmittedAt  *time.Time            `json:"submitted_at,omitempty"`
	Confirmation string                `json:"confirmation,omitempty"`
	LastOrderID  string                `json:"last_order_id,omitempty"`
}

// MenuOptions lists every choice the menu offers.
type MenuOptions struct {
	Categories  []domain.Category   `json:"categories"`
	SugarLevels []domain.SugarLevel `json:"sugar_levels"`
	IceLevels   []domain.IceLevel   `json:"ice_levels"`
	Toppings    []domain.Topping    `json:"toppings"`
}

func newSessionView(s *domain.Session) SessionView {
	return SessionView{
		ID:          s.ID,
		Cart:        newCartView(&s.Cart),
		Customizing: newCustomizationView(s.Customizing),
		Checkout:    newCheckoutView(s.Checkout),
		ExpiresAt:   s.ExpiresAt,
	}
}

func newCartView(c *domain.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	totals := c.Totals()
	return CartView{
		Items:     items,
		ItemCount: c.ItemCount(),
		Totals:    totals,
		Display: TotalsDisplay{
			Subtotal: domain.FormatPrice(totals.Subtotal),
			Tax:      domain.FormatPrice(totals.Tax),
			Total:    domain.FormatPrice(totals.Total),
		},
	}
}

func newCustomizationView(c *domain.Customization) *CustomizationView {
	if c == nil {
		return nil
	}
	return &CustomizationView{
		Product:    c.Product,
		Sugar:      c.Sugar,
		Ice:        c.Ice,
		Toppings:   c.Toppings,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice(),
		TotalPrice: c.TotalPrice(),
		State:      c.State,
	}
}

func newCheckoutView(c domain.Checkout) CheckoutView {
	return CheckoutView(c)
}
