package models

// CartItem is one pending line in a session's cart. A given item id appears
// at most once; quantity is always >= 1.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

func (i CartItem) LineTotal() int {
	return i.Price * i.Quantity
}
