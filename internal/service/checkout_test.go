package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pizza_shop/internal/models"
)

func newTestCheckoutService(t *testing.T, gw PaymentGateway) *CheckoutService {
	t.Helper()
	return NewCheckoutService(newTestRepo(t), testMenu(), gw, nil, 0.23)
}

func TestCheckoutService_SuccessfulCheckout(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	svc := newTestCheckoutService(t, gw)
	ctx := context.Background()

	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101, 101, 102}))

	orderID, err := svc.Checkout(ctx, "u1", validCard())
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	order, err := svc.Repo.FindOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "ch_test", order.ChargeID)
	assert.Equal(t, "u1", order.UserID)

	require.Len(t, order.Positions, 2)
	first, second := order.Positions[0], order.Positions[1]

	assert.Equal(t, 101, first.ItemID)
	assert.Equal(t, 2, first.Qty)
	assert.InDelta(t, 16.00, first.GrossPrice, 0.001)
	assert.InDelta(t, 3.68, first.Tax, 0.001)
	assert.InDelta(t, 12.32, first.NetPrice, 0.001)

	assert.Equal(t, 102, second.ItemID)
	assert.Equal(t, 1, second.Qty)
	assert.InDelta(t, 12.00, second.GrossPrice, 0.001)
	assert.InDelta(t, 2.76, second.Tax, 0.001)
	assert.InDelta(t, 9.24, second.NetPrice, 0.001)

	assert.InDelta(t, 28.00, order.Totals.GrossPrice, 0.001)
	assert.InDelta(t, 6.44, order.Totals.Tax, 0.001)
	assert.InDelta(t, 18.56, order.Totals.NetPrice, 0.001)

	// charge was made in minor units against the gross total
	assert.Equal(t, int64(2800), gw.gotAmount)
	assert.Equal(t, "usd", gw.gotCurrency)
	assert.Equal(t, "tok_test", gw.gotCardToken)
	assert.Contains(t, gw.gotDescription, orderID)

	// successful checkout deletes the cart
	cart, err := svc.Repo.FindCart("u1")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestCheckoutService_TotalsAreSumOfPositions(t *testing.T) {
	t.Parallel()

	svc := newTestCheckoutService(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101, 102, 201, 201, 201}))

	orderID, err := svc.Checkout(ctx, "u1", validCard())
	require.NoError(t, err)

	order, err := svc.Repo.FindOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order)

	var gross, net, tax float64
	for _, p := range order.Positions {
		gross += p.GrossPrice
		net += p.NetPrice
		tax += p.Tax
	}
	assert.InDelta(t, gross, order.Totals.GrossPrice, 0.001)
	assert.InDelta(t, net, order.Totals.NetPrice, 0.001)
	assert.InDelta(t, tax, order.Totals.Tax, 0.001)
}

func TestCheckoutService_VanishedMenuItem(t *testing.T) {
	t.Parallel()

	svc := newTestCheckoutService(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101, 999}))

	orderID, err := svc.Checkout(ctx, "u1", validCard())
	require.NoError(t, err)

	order, err := svc.Repo.FindOrder(orderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Len(t, order.Positions, 2)

	ghost := order.Positions[1]
	assert.Equal(t, 999, ghost.ItemID)
	assert.Equal(t, PlaceholderItemName, ghost.ItemName)
	assert.Zero(t, ghost.Qty)
	assert.Zero(t, ghost.GrossPrice)
	assert.Zero(t, ghost.NetPrice)
	assert.Zero(t, ghost.Tax)

	assert.InDelta(t, 8.00, order.Totals.GrossPrice, 0.001)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestCheckoutService(t, &fakeGateway{})
	_, err := svc.Checkout(context.Background(), "u1", validCard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutService_InvalidCardData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		card CardData
	}{
		{name: "short number", card: CardData{Number: "424242424242424", ExpMonth: "12", ExpYear: "2030", CVC: "123"}},
		{name: "long number", card: CardData{Number: "42424242424242424", ExpMonth: "12", ExpYear: "2030", CVC: "123"}},
		{name: "non-digit number", card: CardData{Number: "424242424242424x", ExpMonth: "12", ExpYear: "2030", CVC: "123"}},
		{name: "empty month", card: CardData{Number: "4242424242424242", ExpMonth: "", ExpYear: "2030", CVC: "123"}},
		{name: "long month", card: CardData{Number: "4242424242424242", ExpMonth: "123", ExpYear: "2030", CVC: "123"}},
		{name: "two digit year", card: CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "30", CVC: "123"}},
		{name: "five digit year", card: CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "20300", CVC: "123"}},
		{name: "short cvc", card: CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "12"}},
		{name: "long cvc", card: CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "1234"}},
		{name: "non-digit cvc", card: CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "12a"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestCheckoutService(t, &fakeGateway{})
			require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101}))

			_, err := svc.Checkout(context.Background(), "u1", tt.card)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCardData)
		})
	}
}

func TestCheckoutService_SingleDigitMonthAccepted(t *testing.T) {
	t.Parallel()

	svc := newTestCheckoutService(t, &fakeGateway{})
	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101}))

	card := validCard()
	card.ExpMonth = "3"
	_, err := svc.Checkout(context.Background(), "u1", card)
	require.NoError(t, err)
}

func TestCheckoutService_PaymentFailureLeavesOrderCreated(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{chargeErr: errors.New("card declined")}
	svc := newTestCheckoutService(t, gw)
	ctx := context.Background()

	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101}))

	_, err := svc.Checkout(ctx, "u1", validCard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentFailed)

	// the created order is orphaned but retrievable; the cart survives
	orders, err := svc.Repo.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusCreated, orders[0].Status)
	assert.Empty(t, orders[0].ChargeID)

	cart, err := svc.Repo.FindCart("u1")
	require.NoError(t, err)
	assert.Equal(t, models.Cart{101}, cart)
}

func TestCheckoutService_TokenizeFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{tokenizeErr: errors.New("stripe down")}
	svc := newTestCheckoutService(t, gw)

	require.NoError(t, svc.Repo.SaveCart("u1", models.Cart{101}))

	_, err := svc.Checkout(context.Background(), "u1", validCard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentFailed)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	t.Parallel()

	svc := newTestCheckoutService(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, svc.Repo.SaveOrder(&models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusPaid}))

	order, err := svc.GetOrder(ctx, "o1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = svc.GetOrder(ctx, "o1", "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOrder(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
