package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tableside/internal/services"
	"tableside/pkg/menubot"
)

// bearerToken extracts the caller's bearer token, empty when absent.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// respondError maps service errors onto the HTTP surface. Backend
// rejections keep their literal message; anything transient becomes a 502
// so the caller knows a retry is safe.
func respondError(c *gin.Context, err error) {
	var redirect *services.RedirectError
	if errors.As(err, &redirect) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":        "authentication required",
			"redirect_url": redirect.URL,
		})
		return
	}

	var apiErr *menubot.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": apiErr.Detail})
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidPin),
		errors.Is(err, services.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
