// Package jobs holds the background sweeps: invoice mailing, expired-token
// cleanup and log archiving. Every job processes records independently so
// one bad record never aborts a sweep.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/mail"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

// InvoiceMailer sweeps paid orders, mails the invoice and moves each order to
// invoiceMailed or errorMailingInvoice.
type InvoiceMailer struct {
	Repo *repo.Repo
	Mail mail.Gateway
	From string
}

func (j *InvoiceMailer) Name() string { return "invoiceMailer" }

func (j *InvoiceMailer) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("job", j.Name())

	orders, err := j.Repo.ListOrders()
	if err != nil {
		return err
	}

	pending := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == models.OrderStatusPaid {
			pending = append(pending, order)
		}
	}
	l.Info("invoice_sweep", "pending", len(pending))

	for _, order := range pending {
		j.processOrder(ctx, order, l)
	}
	return nil
}

func (j *InvoiceMailer) processOrder(ctx context.Context, order models.Order, l *slog.Logger) {
	user, err := j.Repo.FindUser(order.UserID)
	if err != nil {
		l.Error("invoice_user_lookup_failed", "order_id", order.ID, "error", err)
		return
	}
	if user == nil {
		// Orphaned order; never retried automatically.
		l.Error("invoice_user_missing", "order_id", order.ID, "user_id", order.UserID)
		return
	}

	msg := mail.Message{
		From:    j.From,
		To:      user.Email,
		Subject: "Your invoice for order " + order.ID,
		HTML:    invoiceBody(order, user),
	}
	if err := j.Mail.Send(ctx, msg); err != nil {
		l.Error("invoice_send_failed", "order_id", order.ID, "error", err)
		j.transition(order, models.OrderStatusErrorMailingInvoice, l)
		return
	}

	l.Info("invoice_sent", "order_id", order.ID, "to", user.Email)
	j.transition(order, models.OrderStatusInvoiceMailed, l)
}

func (j *InvoiceMailer) transition(order models.Order, status models.OrderStatus, l *slog.Logger) {
	order.Status = status
	if err := j.Repo.SaveOrder(&order); err != nil {
		l.Error("invoice_status_update_failed", "order_id", order.ID, "status", status.String(), "error", err)
	}
}

func invoiceBody(order models.Order, user *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<div><p>Hi %s, this is</p>\n", user.FirstName)
	fmt.Fprintf(&b, "<h1>Your invoice for order #%s</h1>\n", order.ID)
	b.WriteString("<table>\n<tr><th>Product</th><th>Quantity</th><th>Price</th></tr>\n")
	for _, p := range order.Positions {
		fmt.Fprintf(&b, "<tr><td>%d-%s</td><td>%d</td><td>%.2f</td></tr>\n", p.ItemID, p.ItemName, p.Qty, p.GrossPrice)
	}
	b.WriteString("</table>\n<div>\n")
	fmt.Fprintf(&b, "<p>Order sum: %.2f</p>\n", order.Totals.GrossPrice)
	fmt.Fprintf(&b, "<p>Including tax: %.2f</p>\n", order.Totals.Tax)
	fmt.Fprintf(&b, "<p>Order was already paid via credit card, payment id: %s</p>\n", order.ChargeID)
	b.WriteString("<p>Thanks for ordering at our pizzeria!</p>\n")
	b.WriteString("<small>Please do not respond to this message. If you have any questions please contact us directly under 123456789.</small>\n")
	b.WriteString("</div>\n</div>\n")
	return b.String()
}
