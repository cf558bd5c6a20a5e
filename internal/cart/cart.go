package cart

import (
	"sync"

	"tableside/internal/models"
)

// Cart holds the pending lines for one table session. It is owned by the
// session and mutated only by user-facing actions.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts a new line with quantity 1, or increments the existing
// line for the same id. Line order is insertion order; new lines append.
func (c *Cart) AddItem(id, name string, price int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity++
			return
		}
	}

	c.items = append(c.items, models.CartItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: 1,
	})
}

// UpdateQuantity sets the quantity for an existing line. A quantity of zero
// or less removes the line. Unknown ids are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			if quantity <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = quantity
			}
			return
		}
	}
}

// RemoveItem deletes the line for the given id if present.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful order submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Total is the sum of price times quantity over the current lines,
// recomputed on every call.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, item := range c.items {
		total += item.Price * item.Quantity
	}
	return total
}

// Items returns a copy of the current lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
