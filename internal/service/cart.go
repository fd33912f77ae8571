package service

import (
	"context"
	"log/slog"

	"github.com/sipandsavor/cafe/internal/domain"
)

// UpdateItemQuantity adds delta to the quantity of a line item. Unknown items
// and changes that would leave a quantity below 1 are ignored.
func (s *SessionService) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, delta int) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireIdle(sess); err != nil {
			return err
		}
		if !sess.Cart.UpdateQuantity(itemID, delta) {
			return errUnchanged
		}
		s.logger.DebugContext(ctx, "line item quantity changed",
			slog.String("session_id", sessionID),
			slog.String("line_item_id", itemID),
			slog.Int("delta", delta),
		)
		return nil
	})
}

// RemoveItem deletes a line item from the cart. Unknown items are ignored.
func (s *SessionService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireIdle(sess); err != nil {
			return err
		}
		if !sess.Cart.Remove(itemID) {
			return errUnchanged
		}
		s.logger.InfoContext(ctx, "line item removed",
			slog.String("session_id", sessionID),
			slog.String("line_item_id", itemID),
		)
		return nil
	})
}
