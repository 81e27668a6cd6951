package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type NotificationHandler struct {
	inbox *forum.NotificationService
}

func NewNotificationHandler(inbox *forum.NotificationService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rows, total, err := h.inbox.List(userID, pageFromQuery(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	if rows == nil {
		rows = []models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": rows,
		"total":         total,
		"unread":        h.inbox.UnreadCount(userID),
	})
}

// MarkRead flips the read flag on one notification
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.inbox.MarkRead(userID, id); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllRead flips the read flag on every unread notification
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.inbox.MarkAllRead(userID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}
