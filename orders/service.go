package orders

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/virtualpet/storefront/api"
)

// API is the slice of the REST client the order views need.
type API interface {
	MyOrders(ctx context.Context) ([]api.Order, error)
	Orders(ctx context.Context) ([]api.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status string) error
}

// ErrUnknownStatus rejects a status change to a value outside the
// fulfilment vocabulary before it reaches the network.
var ErrUnknownStatus = errors.New("unknown order status")

// Service exposes the customer order history and the back-office
// status-change operations.
type Service struct {
	api API
	log zerolog.Logger
}

// NewService creates the orders service.
func NewService(orderAPI API, log zerolog.Logger) *Service {
	return &Service{api: orderAPI, log: log.With().Str("component", "orders").Logger()}
}

// Mine lists the authenticated customer's own orders.
func (s *Service) Mine(ctx context.Context) ([]api.Order, error) {
	orders, err := s.api.MyOrders(ctx)
	return orders, errors.Wrap(err, "[orders.Mine]")
}

// All lists every order for the back-office panel. Staff only; the
// server enforces the role, the route guard gates the view.
func (s *Service) All(ctx context.Context) ([]api.Order, error) {
	orders, err := s.api.Orders(ctx)
	return orders, errors.Wrap(err, "[orders.All]")
}

// SetStatus normalizes and validates the target status, then applies it.
func (s *Service) SetStatus(ctx context.Context, orderID int64, raw string) error {
	status := NormalizeStatus(raw)
	if !status.Valid() {
		return errors.Wrapf(ErrUnknownStatus, "%q", raw)
	}
	if err := s.api.SetOrderStatus(ctx, orderID, string(status)); err != nil {
		return errors.Wrapf(err, "[orders.SetStatus] order %d", orderID)
	}
	s.log.Info().Int64("order_id", orderID).Str("status", string(status)).Msg("status changed")
	return nil
}
