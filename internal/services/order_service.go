package services

import (
	"context"

	"tableside/internal/models"
	"tableside/internal/session"
	"tableside/pkg/menubot"
)

type OrderService interface {
	FetchOrders(ctx context.Context, sess *session.Session, token string) ([]models.GroupedOrder, error)
	PlaceOrder(ctx context.Context, sess *session.Session, token, specialRequests string, isRush bool) ([]models.GroupedOrder, error)
}

type orderService struct {
	client *menubot.Client
}

func NewOrderService(client *menubot.Client) OrderService {
	return &orderService{client: client}
}

// FetchOrders retrieves the flat order item records for the table and
// regroups them by order id. The grouping is recomputed on every call and
// never cached.
func (s *orderService) FetchOrders(ctx context.Context, sess *session.Session, token string) ([]models.GroupedOrder, error) {
	gen := sess.Generation()
	key := sess.Key

	records, err := s.client.Orders(ctx, token, key.Franchise, key.Branch, key.Table)
	if err != nil {
		return nil, err
	}

	if gen != sess.Generation() {
		return nil, ErrSuperseded
	}

	return models.GroupOrders(records), nil
}

// PlaceOrder submits the cart's contents as one new order. The cart is
// cleared only after the backend accepts; any failure leaves every line in
// place so the caller can retry with the same contents.
func (s *orderService) PlaceOrder(ctx context.Context, sess *session.Session, token, specialRequests string, isRush bool) ([]models.GroupedOrder, error) {
	items := sess.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := menubot.OrderRequest{
		OrderItems:           make([]string, len(items)),
		IsCombo:              make([]bool, len(items)),
		Quantities:           make([]int, len(items)),
		ItemSpecialRequests:  make([]string, len(items)),
		TotalAmount:          sess.Cart.Total(),
		OrderSpecialRequests: specialRequests,
		IsRush:               isRush,
	}
	for i, item := range items {
		order.OrderItems[i] = item.ID
		order.Quantities[i] = item.Quantity
		order.ItemSpecialRequests[i] = ""
	}

	key := sess.Key
	if err := s.client.PlaceOrder(ctx, token, key.Franchise, key.Branch, key.Table, order); err != nil {
		return nil, err
	}

	sess.Cart.Clear()
	return s.FetchOrders(ctx, sess, token)
}
