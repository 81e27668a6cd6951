package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type TopicHandler struct {
	content *forum.ContentService
	follows *forum.FollowService
}

func NewTopicHandler(content *forum.ContentService, follows *forum.FollowService) *TopicHandler {
	return &TopicHandler{content: content, follows: follows}
}

// CreateTopic creates a content item in the public forum or, when
// community_id is set, inside that community.
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var input models.CreateContentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	item, err := h.content.Create(forum.CreateContentInput{
		Title:       input.Title,
		Body:        input.Body,
		Image:       input.Image,
		AuthorID:    userID,
		CommunityID: input.CommunityID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetTopic returns a single content item, visibility permitting.
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.content.Get(actorID(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// RecordView counts a view, at most once per IP per day.
func (h *TopicHandler) RecordView(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	counted, err := h.content.RecordView(id, c.ClientIP())
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counted": counted})
}

// Moderate applies approve/reject/pin/unpin/lock/unlock.
func (h *TopicHandler) Moderate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.content.Moderate(userID, id, input.Action)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ToggleFollow watches or unwatches a topic.
func (h *TopicHandler) ToggleFollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	following, err := h.follows.ToggleFollowContent(userID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Watched lists the topics the user follows.
func (h *TopicHandler) Watched(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.follows.Watched(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}

	c.JSON(http.StatusOK, items)
}
