package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sipandsavor/cafe/internal/domain"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

// UpdateCustomizationInput holds the selections to change on the open
// customization. Nil fields are left as they are.
type UpdateCustomizationInput struct {
	Sugar         *string
	Ice           *string
	Quantity      *int
	QuantityDelta *int
}

// OpenCustomization starts customizing productID with default selections,
// replacing any customization already open.
func (s *SessionService) OpenCustomization(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	product, ok := s.catalog.Product(productID)
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}

	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireIdle(sess); err != nil {
			return err
		}
		sess.Customizing = domain.NewCustomization(product)
		return nil
	})
}

// UpdateCustomization changes sugar, ice or quantity on the open customization.
func (s *SessionService) UpdateCustomization(ctx context.Context, sessionID string, input UpdateCustomizationInput) (*domain.Session, error) {
	var sugar domain.SugarLevel
	if input.Sugar != nil {
		sugar = domain.SugarLevel(*input.Sugar)
		if !sugar.Valid() {
			return nil, apperrors.InvalidInput("unknown sugar level " + *input.Sugar)
		}
	}
	var ice domain.IceLevel
	if input.Ice != nil {
		ice = domain.IceLevel(*input.Ice)
		if !ice.Valid() {
			return nil, apperrors.InvalidInput("unknown ice level " + *input.Ice)
		}
	}
	if input.Quantity != nil && (*input.Quantity < 1 || *input.Quantity > domain.MaxQuantity) {
		return nil, apperrors.InvalidInput(domain.ErrInvalidQuantity.Error())
	}

	return s.editCustomization(ctx, sessionID, func(c *domain.Customization) error {
		if input.Sugar != nil {
			if err := c.SetSugar(sugar); err != nil {
				return err
			}
		}
		if input.Ice != nil {
			if err := c.SetIce(ice); err != nil {
				return err
			}
		}
		if input.Quantity != nil {
			if err := c.SetQuantity(*input.Quantity); err != nil {
				return err
			}
		}
		if input.QuantityDelta != nil {
			return c.AdjustQuantity(*input.QuantityDelta)
		}
		return nil
	})
}

// ToggleTopping adds the topping to the open customization, or removes it if
// it is already selected.
func (s *SessionService) ToggleTopping(ctx context.Context, sessionID, toppingID string) (*domain.Session, error) {
	topping, ok := s.catalog.Topping(toppingID)
	if !ok {
		return nil, apperrors.NotFound("topping", toppingID)
	}

	return s.editCustomization(ctx, sessionID, func(c *domain.Customization) error {
		return c.ToggleTopping(topping)
	})
}

// CommitCustomization adds the open customization to the cart as a new line
// item and closes it.
func (s *SessionService) CommitCustomization(ctx context.Context, sessionID string) (*domain.Session, error) {
	var item domain.CartItem
	sess, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireIdle(sess); err != nil {
			return err
		}
		if sess.Customizing == nil {
			return apperrors.Conflict("no product is being customized")
		}

		committed, err := sess.Customizing.Commit(s.newID())
		if err != nil {
			return customizationError(err)
		}
		item = committed
		sess.Cart.Add(item)
		sess.Customizing = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	lineItemsAdded.Inc()
	s.logger.InfoContext(ctx, "item added to order",
		slog.String("session_id", sessionID),
		slog.String("line_item_id", item.ID),
		slog.String("product_id", item.Product.ID),
		slog.Int("quantity", item.Quantity),
	)
	return sess, nil
}

// DiscardCustomization closes the open customization without adding it. It
// is a no-op when nothing is open.
func (s *SessionService) DiscardCustomization(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if sess.Customizing == nil {
			return errUnchanged
		}
		sess.Customizing.Discard()
		sess.Customizing = nil
		return nil
	})
}

func (s *SessionService) editCustomization(ctx context.Context, sessionID string, fn func(*domain.Customization) error) (*domain.Session, error) {
	return s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if err := requireIdle(sess); err != nil {
			return err
		}
		if sess.Customizing == nil {
			return apperrors.Conflict("no product is being customized")
		}
		if err := fn(sess.Customizing); err != nil {
			return customizationError(err)
		}
		return nil
	})
}

func customizationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCustomizationClosed):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		return apperrors.InvalidInput(err.Error())
	default:
		return err
	}
}
