// Package repo is the typed layer between domain entities and the record
// store. Find methods translate a missing or undecodable document into a nil
// result instead of an error; callers treat absence as an ordinary negative
// answer. Write faults are always returned.
package repo

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/store"
)

const (
	UsersCollection  = "users"
	TokensCollection = "tokens"
	CartsCollection  = "carts"
	OrdersCollection = "orders"
	LogsCollection   = ".logs"
)

// Collections lists every collection the repository expects the store to
// have; passed to store.New at startup.
func Collections() []string {
	return []string{UsersCollection, TokensCollection, CartsCollection, OrdersCollection, LogsCollection}
}

type Repo struct {
	Store *store.Store
	Log   *slog.Logger
}

func New(s *store.Store, log *slog.Logger) *Repo {
	return &Repo{Store: s, Log: log}
}

func (r *Repo) FindUser(id string) (*models.User, error) {
	var user models.User
	ok, err := r.find(UsersCollection, id, &user)
	if !ok || err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail scans the users collection for a matching email. Email
// uniqueness is enforced by this scan at registration time, not by an index.
func (r *Repo) FindUserByEmail(email string) (*models.User, error) {
	ids, err := r.Store.List(UsersCollection)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		user, err := r.FindUser(id)
		if err != nil {
			return nil, err
		}
		if user != nil && user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *Repo) SaveUser(user *models.User) error {
	return r.save(UsersCollection, user.ID, user)
}

func (r *Repo) RemoveUser(id string) error {
	return r.remove(UsersCollection, id)
}

func (r *Repo) FindToken(id string) (*models.Token, error) {
	var token models.Token
	ok, err := r.find(TokensCollection, id, &token)
	if !ok || err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *Repo) SaveToken(token *models.Token) error {
	return r.save(TokensCollection, token.Token, token)
}

func (r *Repo) RemoveToken(id string) error {
	return r.remove(TokensCollection, id)
}

func (r *Repo) ListTokens() ([]models.Token, error) {
	ids, err := r.Store.List(TokensCollection)
	if err != nil {
		return nil, err
	}
	tokens := make([]models.Token, 0, len(ids))
	for _, id := range ids {
		token, err := r.FindToken(id)
		if err != nil {
			return nil, err
		}
		if token != nil {
			tokens = append(tokens, *token)
		}
	}
	return tokens, nil
}

func (r *Repo) FindCart(userID string) (models.Cart, error) {
	var cart models.Cart
	ok, err := r.find(CartsCollection, userID, &cart)
	if !ok || err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *Repo) SaveCart(userID string, cart models.Cart) error {
	return r.save(CartsCollection, userID, cart)
}

func (r *Repo) RemoveCart(userID string) error {
	return r.remove(CartsCollection, userID)
}

func (r *Repo) FindOrder(id string) (*models.Order, error) {
	var order models.Order
	ok, err := r.find(OrdersCollection, id, &order)
	if !ok || err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repo) SaveOrder(order *models.Order) error {
	return r.save(OrdersCollection, order.ID, order)
}

func (r *Repo) ListOrders() ([]models.Order, error) {
	ids, err := r.Store.List(OrdersCollection)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.FindOrder(id)
		if err != nil {
			return nil, err
		}
		if order != nil {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

// find reads and decodes a document into out. Absence and decode failures
// both report ok=false with a nil error; decode failures are logged so a
// corrupted document is diagnosable.
func (r *Repo) find(collection, key string, out any) (bool, error) {
	data, err := r.Store.Read(collection, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		r.Log.Warn("repo_decode_failed", "collection", collection, "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (r *Repo) save(collection, key string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return r.Store.CreateOrUpdate(collection, key, data)
}

func (r *Repo) remove(collection, key string) error {
	err := r.Store.Delete(collection, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
