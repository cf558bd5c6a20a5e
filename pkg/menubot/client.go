package menubot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Table status values reported by the backend.
const (
	StatusUnauthorized = "unauthorized"
	StatusAwaiting     = "awaiting"
	StatusInvalid      = "invalid"
	StatusVerified     = "verified"
)

type UserStatus struct {
	Message  string  `json:"message"`
	Status   string  `json:"status"`
	TablePin *string `json:"table_pin"`
}

type MenuItem struct {
	ID          string `json:"id"`
	NameOfItem  string `json:"name_of_item"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Category    string `json:"category"`
	VegOrNonVeg string `json:"veg_or_non_veg"`
}

type Combo struct {
	ComboID        string     `json:"combo_id"`
	ComboName      string     `json:"combo_name"`
	Description    string     `json:"description"`
	Cost           int        `json:"cost"`
	DiscountedCost int        `json:"discounted_cost"`
	HasDiscount    bool       `json:"has_discount"`
	DiscountPct    float64    `json:"discount_pct"`
	ComboItems     []MenuItem `json:"combo_items"`
}

// EffectiveCost returns the discounted cost when the combo carries a
// discount, the base cost otherwise.
func (c Combo) EffectiveCost() int {
	if c.HasDiscount {
		return c.DiscountedCost
	}
	return c.Cost
}

type OrderItem struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"order_id"`
	ItemID               string     `json:"item_id"`
	Quantity             int        `json:"quantity"`
	ItemSpecialRequests  string     `json:"item_special_requests"`
	IsCombo              bool       `json:"is_combo"`
	ComboID              *string    `json:"combo_id"`
	OrderNumber          *string    `json:"order_number"`
	CreatedAt            time.Time  `json:"created_at"`
	ServedAt             *time.Time `json:"served_at"`
	OrderSpecialRequests string     `json:"order_special_requests"`
	FirstName            *string    `json:"first_name"`
}

type OrderRequest struct {
	OrderItems           []string `json:"order_items"`
	IsCombo              []bool   `json:"is_combo"`
	Quantities           []int    `json:"quantities"`
	ItemSpecialRequests  []string `json:"item_special_requests"`
	TotalAmount          int      `json:"total_amount"`
	OrderSpecialRequests string   `json:"order_special_requests"`
	IsRush               bool     `json:"is_rush"`
}

type ChatResponse struct {
	Response string `json:"response"`
	ChatID   string `json:"chat_id,omitempty"`
}

// APIError is a non-2xx response from the backend, carrying the literal
// rejection message from its error body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("menubot: %d: %s", e.StatusCode, e.Detail)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// UserStatus checks the current table status. The bearer token is optional;
// without one the backend reports "unauthorized".
func (c *Client) UserStatus(ctx context.Context, token, franchise, branch, table string) (*UserStatus, error) {
	url := fmt.Sprintf("%s/user_status/%s/%s/%s", c.BaseURL, franchise, branch, table)

	body, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}

	var status UserStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}

	return &status, nil
}

// VerifyTablePin submits the table PIN. The PIN travels in the "table-pin"
// header, not the body.
func (c *Client) VerifyTablePin(ctx context.Context, token, franchise, branch, table, pin string) error {
	url := fmt.Sprintf("%s/login/%s/%s/%s", c.BaseURL, franchise, branch, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("table-pin", pin)

	_, err = c.do(req)
	return err
}

// FullMenu fetches the complete menu catalog for the table.
func (c *Client) FullMenu(ctx context.Context, token, franchise, branch, table string) ([]MenuItem, error) {
	url := fmt.Sprintf("%s/get_full_menu/%s/%s/%s", c.BaseURL, franchise, branch, table)

	body, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}

	var items []MenuItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu response: %w", err)
	}

	return items, nil
}

// Combos fetches the combo offers for the table.
func (c *Client) Combos(ctx context.Context, token, franchise, branch, table string) ([]Combo, error) {
	url := fmt.Sprintf("%s/get_all_combos/%s/%s/%s", c.BaseURL, franchise, branch, table)

	body, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}

	var combos []Combo
	if err := json.Unmarshal(body, &combos); err != nil {
		return nil, fmt.Errorf("failed to parse combos response: %w", err)
	}

	return combos, nil
}

// Orders fetches the flat order item records for the table.
func (c *Client) Orders(ctx context.Context, token, franchise, branch, table string) ([]OrderItem, error) {
	url := fmt.Sprintf("%s/order/%s/%s/%s", c.BaseURL, franchise, branch, table)

	body, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}

	var items []OrderItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse orders response: %w", err)
	}

	return items, nil
}

// PlaceOrder submits a new order built from parallel item sequences.
func (c *Client) PlaceOrder(ctx context.Context, token, franchise, branch, table string, order OrderRequest) error {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	url := fmt.Sprintf("%s/order/%s/%s/%s", c.BaseURL, franchise, branch, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = c.do(req)
	return err
}

// Chat sends a query to the menu assistant. A non-empty chatID continues an
// existing conversation.
func (c *Client) Chat(ctx context.Context, token, franchise, branch, table, query, chatID string) (*ChatResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if chatID != "" {
		params.Set("chat_id", chatID)
	}

	chatURL := fmt.Sprintf("%s/chat/%s/%s/%s?%s", c.BaseURL, franchise, branch, table, params.Encode())

	body, err := c.get(ctx, chatURL, token)
	if err != nil {
		return nil, err
	}

	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		// Some deployments answer with a bare string.
		var plain string
		if err2 := json.Unmarshal(body, &plain); err2 != nil {
			return nil, fmt.Errorf("failed to parse chat response: %w", err)
		}
		chat.Response = plain
	}

	return &chat, nil
}

func (c *Client) get(ctx context.Context, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body),
		}
	}

	return body, nil
}

// errorDetail pulls the backend's rejection reason out of its error body,
// falling back to a generic message if no known field is present.
func errorDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return payload.Detail
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
	}
	return "request rejected by backend"
}
