package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/services"
)

type ChatHandler struct {
	chatService    services.ChatService
	sessionService services.SessionService
}

func NewChatHandler(chatService services.ChatService, sessionService services.SessionService) *ChatHandler {
	return &ChatHandler{chatService: chatService, sessionService: sessionService}
}

// Ask forwards a question to the menu assistant within the session's
// conversation.
func (h *ChatHandler) Ask(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.chatService.Ask(c.Request.Context(), sess, bearerToken(c), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": resp.Response, "chat_id": resp.ChatID})
}
