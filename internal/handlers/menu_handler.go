package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tableside/internal/services"
	"tableside/pkg/menubot"
)

type MenuHandler struct {
	menuService    services.MenuService
	sessionService services.SessionService
	client         *menubot.Client
}

func NewMenuHandler(menuService services.MenuService, sessionService services.SessionService, client *menubot.Client) *MenuHandler {
	return &MenuHandler{
		menuService:    menuService,
		sessionService: sessionService,
		client:         client,
	}
}

// Catalog returns the session's menu, fetching it on first use.
func (h *MenuHandler) Catalog(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	items, err := h.menuService.Catalog(c.Request.Context(), sess, bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Search answers substring queries against the session's catalog, loading
// the catalog first if this is the session's first menu access.
func (h *MenuHandler) Search(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.menuService.Catalog(c.Request.Context(), sess, bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.menuService.Search(sess, c.Query("q")))
}

// Combos returns the combo offers with their effective cost.
func (h *MenuHandler) Combos(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	combos, err := h.menuService.Combos(c.Request.Context(), sess, bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, len(combos))
	for i, combo := range combos {
		views[i] = gin.H{
			"combo":          combo,
			"effective_cost": combo.EffectiveCost(),
		}
	}

	c.JSON(http.StatusOK, views)
}

// ProxyMenu forwards an authenticated menu fetch straight to the backend.
// It refuses anonymous callers instead of passing them through.
func (h *MenuHandler) ProxyMenu(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token"})
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	items, err := h.client.FullMenu(
		c.Request.Context(),
		token,
		c.Param("franchise"),
		c.Param("branch"),
		c.Param("table"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	c.JSON(http.StatusOK, items)
}
