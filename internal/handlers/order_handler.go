package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/models"
	"tableside/internal/services"
	"tableside/internal/session"
)

type OrderHandler struct {
	orderService   services.OrderService
	sessionService services.SessionService
}

func NewOrderHandler(orderService services.OrderService, sessionService services.SessionService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		sessionService: sessionService,
	}
}

// orderView is a GroupedOrder plus its derived lifecycle status.
type orderView struct {
	models.GroupedOrder
	Status models.OrderStatus `json:"status"`
}

func orderViews(groups []models.GroupedOrder) []orderView {
	views := make([]orderView, len(groups))
	for i, group := range groups {
		views[i] = orderView{GroupedOrder: group, Status: group.Status()}
	}
	return views
}

func (h *OrderHandler) GetCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": sess.Cart.Items(),
		"total": sess.Cart.Total(),
	})
}

func (h *OrderHandler) AddCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		ID    string `json:"id" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Price int    `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sess.Cart.AddItem(req.ID, req.Name, req.Price)

	c.JSON(http.StatusOK, gin.H{
		"items": sess.Cart.Items(),
		"total": sess.Cart.Total(),
	})
}

func (h *OrderHandler) UpdateCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	sess.Cart.UpdateQuantity(c.Param("item"), req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"items": sess.Cart.Items(),
		"total": sess.Cart.Total(),
	})
}

func (h *OrderHandler) RemoveCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Cart.RemoveItem(c.Param("item"))

	c.JSON(http.StatusOK, gin.H{
		"items": sess.Cart.Items(),
		"total": sess.Cart.Total(),
	})
}

func (h *OrderHandler) ClearCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Cart.Clear()
	c.JSON(http.StatusOK, gin.H{"items": sess.Cart.Items(), "total": 0})
}

// ListOrders returns the table's orders grouped with derived status.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	groups, err := h.orderService.FetchOrders(c.Request.Context(), sess, bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orderViews(groups)})
}

// PlaceOrder submits the cart. A backend rejection leaves the cart intact
// and surfaces the rejection reason.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		SpecialRequests string `json:"special_requests"`
		IsRush          bool   `json:"is_rush"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	groups, err := h.orderService.PlaceOrder(c.Request.Context(), sess, bearerToken(c), req.SpecialRequests, req.IsRush)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"orders": orderViews(groups)})
}

func (h *OrderHandler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}
