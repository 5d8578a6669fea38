package api

import (
	"context"
	"fmt"
	"net/http"
)

// Order as returned by the orders endpoints.
type Order struct {
	ID        int64   `json:"id"`
	Client    int64   `json:"client"`
	Employee  *int64  `json:"employee"`
	Products  []int64 `json:"products"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// CreateOrderRequest is the body for POST /orders/. Employee is null for
// storefront orders; Products carries the cart's product ids.
type CreateOrderRequest struct {
	Client   int64   `json:"client"`
	Employee *int64  `json:"employee"`
	Products []int64 `json:"products"`
	Status   string  `json:"status"`
}

// MyOrders lists the authenticated customer's own orders.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Orders lists every order. Staff only; the server enforces the role.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrderStatus moves an order to a new status.
func (c *Client) SetOrderStatus(ctx context.Context, orderID int64, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/set-status/", orderID), body, nil)
}
