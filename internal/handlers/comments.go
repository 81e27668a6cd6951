package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type CommentHandler struct {
	comments *forum.CommentService
}

func NewCommentHandler(comments *forum.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateComment creates a comment or reply on a topic
func (h *CommentHandler) CreateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := h.comments.Create(id, userID, input.Body, input.ParentID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, node)
}

// GetComments pages the top-level comments of a topic with live counts
func (h *CommentHandler) GetComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	views, total, err := h.comments.ListTopLevel(actorID(c), id, pageFromQuery(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	if views == nil {
		views = []forum.CommentView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": views,
		"total":    total,
	})
}

// GetReplies pages the direct replies of a comment
func (h *CommentHandler) GetReplies(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	views, total, err := h.comments.ListReplies(actorID(c), id, pageFromQuery(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	if views == nil {
		views = []forum.CommentView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"replies": views,
		"total":   total,
	})
}
