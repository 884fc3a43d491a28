package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	TosAgreement bool      `json:"tos_agreement"`
	CreatedAt    time.Time `json:"created_at"`
}

type Token struct {
	Token   string    `json:"token"`
	UserID  string    `json:"user_id"`
	Expires time.Time `json:"expires"`
}

// Cart is an ordered list of menu item ids; duplicates represent quantity.
type Cart []int

type OrderStatus string

const (
	OrderStatusCreated             OrderStatus = "created"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusInvoiceMailed       OrderStatus = "invoiceMailed"
	OrderStatusErrorMailingInvoice OrderStatus = "errorMailingInvoice"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusInvoiceMailed || s == OrderStatusErrorMailingInvoice
}

func (s OrderStatus) String() string {
	return string(s)
}

type OrderPosition struct {
	ItemID     int     `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Qty        int     `json:"qty"`
	GrossPrice float64 `json:"gross_price"`
	NetPrice   float64 `json:"net_price"`
	Tax        float64 `json:"tax"`
}

type OrderTotals struct {
	GrossPrice float64 `json:"gross_price"`
	NetPrice   float64 `json:"net_price"`
	Tax        float64 `json:"tax"`
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Positions []OrderPosition `json:"positions"`
	Totals    OrderTotals     `json:"totals"`
	Status    OrderStatus     `json:"status"`
	ChargeID  string          `json:"charge_id,omitempty"`
}

type MenuItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}
