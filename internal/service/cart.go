package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

// Menu is the read-only menu source consumed by the cart and checkout flows.
type Menu interface {
	Items(ctx context.Context) ([]models.MenuItem, error)
}

type CartService struct {
	Repo *repo.Repo
	Menu Menu
}

func NewCartService(r *repo.Repo, menu Menu) *CartService {
	return &CartService{Repo: r, Menu: menu}
}

// AddItems appends the ids that resolve in the current menu to the user's
// cart. Ids that do not resolve are dropped; if none survive the call fails
// with ErrNoValidItems.
func (s *CartService) AddItems(ctx context.Context, userID string, itemIDs []int) (models.Cart, error) {
	valid, err := s.validItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	cart := s.GetCart(ctx, userID)
	cart = append(cart, valid...)
	if err := s.Repo.SaveCart(userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItems drops every occurrence of the given ids from the cart. Ids not
// present leave the cart unchanged.
func (s *CartService) RemoveItems(ctx context.Context, userID string, itemIDs []int) (models.Cart, error) {
	valid, err := s.validItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	drop := make(map[int]bool, len(valid))
	for _, id := range valid {
		drop[id] = true
	}

	cart := s.GetCart(ctx, userID)
	kept := make(models.Cart, 0, len(cart))
	for _, id := range cart {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	if err := s.Repo.SaveCart(userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// GetCart returns the user's cart, or an empty cart when it is absent or
// unreadable. Swallowing read faults here favors checkout availability over
// the correctness of a corrupted cart; a known, documented risk.
func (s *CartService) GetCart(ctx context.Context, userID string) models.Cart {
	cart, err := s.Repo.FindCart(userID)
	if err != nil {
		logging.FromContext(ctx).Warn("cart_read_failed", "svc", "cart.get", "user_id", userID, "error", err)
		return models.Cart{}
	}
	if cart == nil {
		return models.Cart{}
	}
	return cart
}

func (s *CartService) validItems(ctx context.Context, itemIDs []int) ([]int, error) {
	items, err := s.Menu.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	known := make(map[int]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	valid := make([]int, 0, len(itemIDs))
	for _, id := range itemIDs {
		if known[id] {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}
	return valid, nil
}
