package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
	"github.com/Skotchmaster/pizza_shop/internal/store"
)

func newTestRepo(t *testing.T) *repo.Repo {
	t.Helper()
	s, err := store.New(t.TempDir(), repo.Collections()...)
	require.NoError(t, err)
	return repo.New(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubMenu struct {
	items []models.MenuItem
	err   error
}

func (m stubMenu) Items(ctx context.Context) ([]models.MenuItem, error) {
	return m.items, m.err
}

func testMenu() stubMenu {
	return stubMenu{items: []models.MenuItem{
		{ID: 101, Name: "Margherita", Description: "Tomato and mozzarella", Category: "pizza", Price: 8.00},
		{ID: 102, Name: "Quattro Formaggi", Description: "Four cheeses", Category: "pizza", Price: 12.00},
		{ID: 201, Name: "Lemonade", Description: "Homemade", Category: "drinks", Price: 3.50},
	}}
}

type fakeGateway struct {
	tokenizeErr error
	chargeErr   error

	gotAmount      int64
	gotCurrency    string
	gotDescription string
	gotCardToken   string
}

func (g *fakeGateway) TokenizeCard(ctx context.Context, number, expMonth, expYear, cvc string) (string, error) {
	if g.tokenizeErr != nil {
		return "", g.tokenizeErr
	}
	return "tok_test", nil
}

func (g *fakeGateway) Charge(ctx context.Context, amountCents int64, currency, description, cardToken string) (string, error) {
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.gotAmount = amountCents
	g.gotCurrency = currency
	g.gotDescription = description
	g.gotCardToken = cardToken
	return "ch_test", nil
}

func validCard() CardData {
	return CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "123"}
}
