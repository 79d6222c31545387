package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/order"
)

// Notifier tells the shop that an order was placed.
type Notifier interface {
	OrderPlaced(ctx context.Context, ord order.Order) error
}

// LogNotifier writes the order summary to the service log.
type LogNotifier struct {
	log        zerolog.Logger
	storeEmail string
	storePhone string
}

func NewLogNotifier(log zerolog.Logger, storeEmail, storePhone string) *LogNotifier {
	return &LogNotifier{log: log, storeEmail: storeEmail, storePhone: storePhone}
}

func (n *LogNotifier) OrderPlaced(_ context.Context, ord order.Order) error {
	d := ord.ShippingDetails
	n.log.Info().
		Str("event", "notification").
		Str("order_id", ord.OrderID).
		Str("store_email", n.storeEmail).
		Str("store_phone", n.storePhone).
		Msgf("sending email to %s and SMS to %s", n.storeEmail, n.storePhone)
	n.log.Info().
		Str("event", "details").
		Str("order_id", ord.OrderID).
		Msgf("customer: %s, email: %s, phone: %s", d.FullName, d.Email, d.Phone)
	n.log.Info().
		Str("event", "items").
		Str("order_id", ord.OrderID).
		Msg(ItemsSummary(ord))
	n.log.Info().
		Str("event", "total").
		Str("order_id", ord.OrderID).
		Float64("total", ord.TotalPrice).
		Msgf("Rs. %v", ord.TotalPrice)
	return nil
}

// ItemsSummary renders "name (size) xN" for each line, comma separated.
func ItemsSummary(ord order.Order) string {
	parts := make([]string, 0, len(ord.Items))
	for _, it := range ord.Items {
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", it.Name, it.Size, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) OrderPlaced(ctx context.Context, ord order.Order) error {
	var errs []error
	for _, n := range f {
		if err := n.OrderPlaced(ctx, ord); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
