package models

import (
	"time"

	"tableside/pkg/menubot"
)

type OrderStatus string

const (
	OrderPreparing OrderStatus = "Preparing"
	OrderServed    OrderStatus = "Served"
)

// GroupedOrder is a read-only projection of one order reconstructed from the
// flat item records the backend returns. It is rebuilt on every fetch and
// never stored.
type GroupedOrder struct {
	OrderID              string             `json:"order_id"`
	CreatedAt            time.Time          `json:"created_at"`
	Items                []menubot.OrderItem `json:"items"`
	OrderSpecialRequests string             `json:"order_special_requests"`
}

// Status derives the order lifecycle state: Served only when every
// constituent record has been served, Preparing otherwise.
func (o GroupedOrder) Status() OrderStatus {
	for _, item := range o.Items {
		if item.ServedAt == nil {
			return OrderPreparing
		}
	}
	return OrderServed
}

// GroupOrders groups flat order item records by order id. Grouping is
// stable: groups appear in first-seen order and keep the first record's
// timestamp and order-level special requests as representative values.
func GroupOrders(records []menubot.OrderItem) []GroupedOrder {
	grouped := make([]GroupedOrder, 0)
	index := make(map[string]int)

	for _, record := range records {
		i, ok := index[record.OrderID]
		if !ok {
			index[record.OrderID] = len(grouped)
			grouped = append(grouped, GroupedOrder{
				OrderID:              record.OrderID,
				CreatedAt:            record.CreatedAt,
				OrderSpecialRequests: record.OrderSpecialRequests,
			})
			i = len(grouped) - 1
		}
		grouped[i].Items = append(grouped[i].Items, record)
	}

	return grouped
}
