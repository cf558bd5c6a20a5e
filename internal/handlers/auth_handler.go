package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignIn asks the configured identity provider to text an OTP.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.authService.SignIn(c.Request.Context(), req.PhoneNumber); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "code_sent"})
}

// VerifyOTP exchanges the texted code for the bearer token the UI will
// present on every table call.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		Code        string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creds, err := h.authService.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, creds)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token"})
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sign out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, user)
}
