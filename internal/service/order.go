package service

import (
	"context"
	"log/slog"

	"github.com/sipandsavor/cafe/internal/domain"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

// submittedOrder is what a completed checkout hands to event publishing.
type submittedOrder struct {
	orderID string
	items   []domain.CartItem
	totals  domain.Totals
}

// Checkout starts submitting the cart. The order is sent to the kitchen and
// the cart cleared once the checkout delay has passed.
func (s *SessionService) Checkout(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if sess.Checkout.Submitting() {
			return apperrors.Conflict("order is already being submitted")
		}
		if sess.Cart.IsEmpty() {
			return apperrors.Conflict("cart is empty")
		}

		now := s.now()
		sess.Checkout.Status = domain.CheckoutSubmitting
		sess.Checkout.SubmittedAt = &now
		sess.Checkout.Confirmation = ""
		if sess.Customizing != nil {
			sess.Customizing.Discard()
			sess.Customizing = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("session_id", sessionID),
		slog.Int("item_count", sess.Cart.ItemCount()),
	)

	// The completion outlives the request but keeps its logger and trace.
	bg := context.WithoutCancel(ctx)
	s.pending.Add(1)
	s.schedule(s.delay, func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(bg, completionTimeout)
		defer cancel()
		if err := s.finishCheckout(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "failed to complete checkout",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	})

	return sess, nil
}

// AcknowledgeConfirmation dismisses the order confirmation.
func (s *SessionService) AcknowledgeConfirmation(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if sess.Checkout.Confirmation == "" {
			return errUnchanged
		}
		sess.Checkout.Confirmation = ""
		return nil
	})
}

func (s *SessionService) finishCheckout(ctx context.Context, sessionID string) error {
	var done *submittedOrder
	sess, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if !sess.Checkout.Submitting() {
			return errUnchanged
		}
		done = s.completeOrder(sess)
		return nil
	})
	if err != nil {
		return err
	}
	if done != nil {
		s.orderSubmitted(ctx, sess.ID, done)
	}
	return nil
}

// completeOrder moves a submitting session back to idle with an empty cart
// and the confirmation message.
func (s *SessionService) completeOrder(sess *domain.Session) *submittedOrder {
	order := &submittedOrder{
		orderID: s.newID(),
		items:   sess.Cart.Items,
		totals:  sess.Cart.Totals(),
	}

	sess.Cart.Clear()
	sess.Checkout.Status = domain.CheckoutIdle
	sess.Checkout.SubmittedAt = nil
	sess.Checkout.Confirmation = domain.OrderConfirmation
	sess.Checkout.LastOrderID = order.orderID
	return order
}

func (s *SessionService) checkoutStale(sess *domain.Session) bool {
	c := sess.Checkout
	if !c.Submitting() || c.SubmittedAt == nil {
		return false
	}
	return s.now().After(c.SubmittedAt.Add(s.delay + staleCheckoutGrace))
}

// orderSubmitted records a completed order. Publishing is best effort.
func (s *SessionService) orderSubmitted(ctx context.Context, sessionID string, order *submittedOrder) {
	ordersSubmitted.Inc()
	orderValue.Observe(float64(order.totals.Total))

	if err := s.producer.PublishOrderSubmitted(ctx, sessionID, order.orderID, order.items); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.orderID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, sessionID, order.orderID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order sent to kitchen",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.orderID),
		slog.Int64("total", order.totals.Total),
	)
}
