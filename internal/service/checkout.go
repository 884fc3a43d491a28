package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

// PlaceholderItemName marks an order position whose menu item vanished
// between cart-add and checkout.
const PlaceholderItemName = "product does no longer exist"

// PaymentGateway tokenizes a card and charges it. Any failure is reported as
// a plain error; the workflow treats all of them as one payment failure.
type PaymentGateway interface {
	TokenizeCard(ctx context.Context, number, expMonth, expYear, cvc string) (string, error)
	Charge(ctx context.Context, amountCents int64, currency, description, cardToken string) (string, error)
}

type CardData struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVC      string `json:"cvc"`
}

type CheckoutService struct {
	Repo     *repo.Repo
	Menu     Menu
	Payments PaymentGateway
	Events   Publisher
	TaxRate  float64
	Currency string
}

func NewCheckoutService(r *repo.Repo, menu Menu, payments PaymentGateway, events Publisher, taxRate float64) *CheckoutService {
	return &CheckoutService{
		Repo:     r,
		Menu:     menu,
		Payments: payments,
		Events:   events,
		TaxRate:  taxRate,
		Currency: "usd",
	}
}

// Checkout converts the user's cart into a charged order and returns the
// order id.
//
// The order is persisted in status "created" before the card is touched and
// is never rolled back: a created order that was never paid is the audit
// trail of the attempted checkout. On a successful charge the order moves to
// "paid" and the cart is deleted best-effort.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, card CardData) (string, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	cart, err := s.Repo.FindCart(userID)
	if err != nil {
		l.Error("checkout_failed", "step", "load_cart", "error", err)
		return "", fmt.Errorf("%w: %v", ErrServer, err)
	}
	if len(cart) == 0 {
		return "", fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	positions, err := s.buildPositions(ctx, cart)
	if err != nil {
		return "", err
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Positions: positions,
		Totals:    sumTotals(positions),
		Status:    models.OrderStatusCreated,
	}
	if err := s.Repo.SaveOrder(order); err != nil {
		l.Error("checkout_failed", "step", "persist_order", "error", err)
		return "", err
	}
	publish(ctx, s.Events, "order_events", order.ID, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  userID,
		"gross":    order.Totals.GrossPrice,
	})

	if err := validateCard(card); err != nil {
		return "", err
	}

	chargeID, err := s.charge(ctx, order, card)
	if err != nil {
		// Order stays in "created": orphaned but retrievable by id.
		l.Error("checkout_failed", "step", "charge", "order_id", order.ID, "error", err)
		return "", ErrPaymentFailed
	}

	order.Status = models.OrderStatusPaid
	order.ChargeID = chargeID
	if err := s.Repo.SaveOrder(order); err != nil {
		l.Error("checkout_failed", "step", "mark_paid", "order_id", order.ID, "error", err)
		return "", err
	}
	publish(ctx, s.Events, "order_events", order.ID, map[string]any{
		"type":      "order_paid",
		"order_id":  order.ID,
		"user_id":   userID,
		"charge_id": chargeID,
	})

	// The customer is charged and the order exists; a cart that refuses to
	// go away must not fail the checkout.
	if err := s.Repo.RemoveCart(userID); err != nil {
		l.Warn("cart_delete_failed", "order_id", order.ID, "error", err)
	}

	l.Info("checkout_success", "order_id", order.ID)
	return order.ID, nil
}

// GetOrder returns an order to its owner.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.Repo.FindOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// buildPositions snapshots the cart against the current menu. A vanished
// item keeps a zero-priced, zero-quantity placeholder position so the order
// records that it was there.
func (s *CheckoutService) buildPositions(ctx context.Context, cart models.Cart) ([]models.OrderPosition, error) {
	items, err := s.Menu.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	byID := make(map[int]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	qty := make(map[int]int, len(cart))
	unique := make([]int, 0, len(cart))
	for _, id := range cart {
		if qty[id] == 0 {
			unique = append(unique, id)
		}
		qty[id]++
	}

	positions := make([]models.OrderPosition, 0, len(unique))
	for _, id := range unique {
		item, ok := byID[id]
		if !ok {
			positions = append(positions, models.OrderPosition{ItemID: id, ItemName: PlaceholderItemName})
			continue
		}
		gross := float64(qty[id]) * item.Price
		tax := gross * s.TaxRate
		positions = append(positions, models.OrderPosition{
			ItemID:     id,
			ItemName:   item.Name,
			Qty:        qty[id],
			GrossPrice: gross,
			NetPrice:   gross - tax,
			Tax:        tax,
		})
	}
	return positions, nil
}

func (s *CheckoutService) charge(ctx context.Context, order *models.Order, card CardData) (string, error) {
	cardToken, err := s.Payments.TokenizeCard(ctx, card.Number, card.ExpMonth, card.ExpYear, card.CVC)
	if err != nil {
		return "", fmt.Errorf("tokenize card: %w", err)
	}

	amount := int64(math.Round(order.Totals.GrossPrice * 100))
	description := fmt.Sprintf("Order number %s", order.ID)
	chargeID, err := s.Payments.Charge(ctx, amount, s.Currency, description, cardToken)
	if err != nil {
		return "", fmt.Errorf("charge card: %w", err)
	}
	return chargeID, nil
}

func sumTotals(positions []models.OrderPosition) models.OrderTotals {
	var totals models.OrderTotals
	for _, p := range positions {
		totals.GrossPrice += p.GrossPrice
		totals.NetPrice += p.NetPrice
		totals.Tax += p.Tax
	}
	return totals
}

func validateCard(card CardData) error {
	if !digits(card.Number, 16, 16) ||
		!digits(card.ExpMonth, 1, 2) ||
		!digits(card.ExpYear, 4, 4) ||
		!digits(card.CVC, 3, 3) {
		return ErrInvalidCardData
	}
	return nil
}

func digits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
