// Package menu reads the read-only menu reference document from the store
// root. The menu is external configuration; this code never writes it.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/store"
)

// ErrBadFormat means the menu document is missing or not a list of items.
// That is a configuration fault: every operation needing the menu aborts.
var ErrBadFormat = errors.New("menu has a wrong format")

const menuKey = "menu"

type Source struct {
	Store *store.Store
}

func NewSource(s *store.Store) *Source {
	return &Source{Store: s}
}

// Items returns the current menu. Entries with missing fields are skipped,
// an unreadable or non-list document is a hard fault.
func (s *Source) Items(ctx context.Context) ([]models.MenuItem, error) {
	data, err := s.Store.Read("", menuKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	var raw []models.MenuItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	l := logging.FromContext(ctx).With("svc", "menu.items")
	items := make([]models.MenuItem, 0, len(raw))
	for _, item := range raw {
		if item.ID == 0 || item.Name == "" || item.Description == "" || item.Category == "" || item.Price <= 0 {
			l.Warn("menu_item_skipped", "item_id", item.ID, "name", item.Name)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
