package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/models"
	"tableside/internal/services"
	"tableside/internal/session"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession opens a session for a table key and runs the first status
// check. An unauthorized anonymous caller still gets the session id so the
// table can be resumed after sign-in.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var key models.TableKey
	if err := c.ShouldBindJSON(&key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !key.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "franchise, branch and table are required"})
		return
	}

	sess, status, err := h.sessionService.Start(c.Request.Context(), key, bearerToken(c))
	if err != nil {
		var redirect *services.RedirectError
		if errors.As(err, &redirect) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"session_id":   sess.ID,
				"status":       status,
				"redirect_url": redirect.URL,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID, "status": status})
}

// GetStatus re-runs the status check for the session.
func (h *SessionHandler) GetStatus(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	status, err := h.sessionService.CheckStatus(c.Request.Context(), sess, bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// VerifyPin submits the staff-provided table PIN. On rejection the session
// stays awaiting and the backend's reason is passed through verbatim.
func (h *SessionHandler) VerifyPin(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Pin string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status, err := h.sessionService.VerifyPin(c.Request.Context(), sess, bearerToken(c), req.Pin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// EndSession tears the session down and abandons any in-flight effects.
func (h *SessionHandler) EndSession(c *gin.Context) {
	id := c.Param("id")
	if !h.sessionService.End(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrSessionNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}
