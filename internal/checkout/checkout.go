package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/cart"
	"github.com/tooniwear/storefront-backend/internal/metrics"
	"github.com/tooniwear/storefront-backend/internal/notify"
	"github.com/tooniwear/storefront-backend/internal/order"
	"github.com/tooniwear/storefront-backend/internal/ratelimit"
	"github.com/tooniwear/storefront-backend/internal/store"
)

var (
	ErrRateLimited     = errors.New("too many checkout attempts")
	ErrMissingShipping = errors.New("missing shipping details")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Request is the checkout form as posted by the storefront.
type Request struct {
	ShippingDetails order.ShippingDetails `json:"shippingDetails"`
	Items           []cart.Item           `json:"items"`
	TotalPrice      float64               `json:"totalPrice"`
	PaymentMethod   string                `json:"paymentMethod"`
}

func (r Request) validate() error {
	d := r.ShippingDetails
	if d.FullName == "" || d.Email == "" || d.Address == "" || d.City == "" || d.Phone == "" {
		return ErrMissingShipping
	}
	if len(r.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

type Service struct {
	orders   order.Repository
	limiter  ratelimit.Limiter
	notifier notify.Notifier
	prefix   string
	log      zerolog.Logger

	now  func() time.Time
	intn func(n int) int
}

func NewService(orders order.Repository, limiter ratelimit.Limiter, notifier notify.Notifier, prefix string, log zerolog.Logger) *Service {
	return &Service{
		orders:   orders,
		limiter:  limiter,
		notifier: notifier,
		prefix:   strings.ToUpper(prefix),
		log:      log,
		now:      time.Now,
		intn:     rand.IntN,
	}
}

// Admit counts one submission for clientAddress against the rate limit.
func (s *Service) Admit(ctx context.Context, clientAddress string) error {
	ok, err := s.limiter.Allow(ctx, clientAddress)
	if err != nil {
		s.log.Warn().Err(err).Str("ip", clientAddress).Msg("rate limiter unavailable, admitting checkout")
		return nil
	}
	if !ok {
		metrics.ObserveCheckout(metrics.ResultRateLimited)
		return ErrRateLimited
	}
	return nil
}

// Place validates req and stores it as a pending order. It does not consult
// the rate limiter.
func (s *Service) Place(ctx context.Context, clientAddress string, req Request) (order.Order, error) {
	if err := req.validate(); err != nil {
		metrics.ObserveCheckout(metrics.ResultInvalid)
		return order.Order{}, err
	}

	now := s.now()
	ord := order.Order{
		OrderID:         NewOrderID(s.prefix, now, s.intn),
		ShippingDetails: req.ShippingDetails,
		Items:           req.Items,
		TotalPrice:      req.TotalPrice,
		PaymentMethod:   req.PaymentMethod,
		CustomerIP:      clientAddress,
		Status:          order.StatusPending,
		CreatedAt:       now.UTC().Format(store.TimeLayout),
	}

	if err := s.orders.Create(ctx, ord); err != nil {
		metrics.ObserveCheckout(metrics.ResultFailed)
		return order.Order{}, fmt.Errorf("save order %s: %w", ord.OrderID, err)
	}
	metrics.ObserveCheckout(metrics.ResultPlaced)
	s.log.Info().Str("event", "order").Str("order_id", ord.OrderID).Str("ip", clientAddress).Msg("order placed")

	if err := s.notifier.OrderPlaced(ctx, ord); err != nil {
		s.log.Error().Err(err).Str("order_id", ord.OrderID).Msg("order notification failed")
	}
	return ord, nil
}

// Submit runs the full checkout for one submission and returns the order id.
func (s *Service) Submit(ctx context.Context, clientAddress string, req Request) (string, error) {
	if err := s.Admit(ctx, clientAddress); err != nil {
		return "", err
	}
	ord, err := s.Place(ctx, clientAddress, req)
	if err != nil {
		return "", err
	}
	return ord.OrderID, nil
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderID builds PREFIX-<last 6 digits of unix ms>-<3 base-36 chars>.
func NewOrderID(prefix string, now time.Time, intn func(int) int) string {
	ms := fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)

	var suffix [3]byte
	for i := range suffix {
		suffix[i] = base36[intn(len(base36))]
	}
	return prefix + "-" + ms + "-" + string(suffix[:])
}
