package domain

import "time"

// CheckoutStatus is the state of the checkout flow.
type CheckoutStatus string

// Checkout statuses.
const (
	CheckoutIdle       CheckoutStatus = "idle"
	CheckoutSubmitting CheckoutStatus = "submitting"
)

// OrderConfirmation is the message shown once an order has been sent to the kitchen.
const OrderConfirmation = "Thank you! Your order has been sent to the kitchen. 🍵"

// Checkout tracks a session's checkout progress.
type Checkout struct {
	Status       CheckoutStatus `json:"status"`
	SubmittedAt  *time.Time     `json:"submitted_at,omitempty"`
	Confirmation string         `json:"confirmation,omitempty"`
	LastOrderID  string         `json:"last_order_id,omitempty"`
}

// Submitting reports whether an order is being submitted.
func (c *Checkout) Submitting() bool {
	return c.Status == CheckoutSubmitting
}

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one entry in the assistant conversation log.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// AssistantGreeting opens every conversation.
const AssistantGreeting = `Hi! I'm SipBot 🤖. I can help you find the perfect drink! Try asking "What is best for a hot day?"`

// Session is the ordering state of one customer visit: the cart, the open
// customization, the checkout flow and the assistant conversation.
type Session struct {
	ID          string         `json:"id"`
	Cart        Cart           `json:"cart"`
	Customizing *Customization `json:"customizing,omitempty"`
	Checkout    Checkout       `json:"checkout"`
	Chat        []ChatMessage  `json:"chat"`
	Version     int            `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ExpiresAt   time.Time      `json:"expires_at"`

	// AssistantPendingSince is set while a question awaits its reply.
	AssistantPendingSince *time.Time `json:"assistant_pending_since,omitempty"`
}

// NewSession returns an empty session with an idle checkout and the assistant greeting.
func NewSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:       id,
		Cart:     Cart{Items: []CartItem{}},
		Checkout: Checkout{Status: CheckoutIdle},
		Chat: []ChatMessage{
			{Role: ChatRoleModel, Text: AssistantGreeting, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// AppendChat adds a message to the conversation log.
func (s *Session) AppendChat(role ChatRole, text string, at time.Time) {
	s.Chat = append(s.Chat, ChatMessage{Role: role, Text: text, Timestamp: at})
}

// Touch records a modification at now and extends the expiry by ttl.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}
