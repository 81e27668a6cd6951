package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
)

type ReactionHandler struct {
	reactions *forum.ReactionService
}

func NewReactionHandler(reactions *forum.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// SetReaction applies toggle semantics and returns the live counts
func (h *ReactionHandler) SetReaction(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Target forum.ReactionTarget `json:"target"`
		Value  string               `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.reactions.Set(userID, input.Target, input.Value)
	if err != nil {
		respondErr(c, err)
		return
	}

	state, err := h.reactions.State(userID, input.Target)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes":    counts.Likes,
		"dislikes": counts.Dislikes,
		"state":    state,
	})
}

// GetReactionState returns none, like or dislike plus counts for a
// target described in the query string.
func (h *ReactionHandler) GetReactionState(c *gin.Context) {
	target := forum.ReactionTarget{
		TopicID:        queryInt(c, "topic_id"),
		CommentID:      queryInt(c, "comment_id"),
		GroupTopicID:   queryInt(c, "group_topic_id"),
		GroupCommentID: queryInt(c, "group_comment_id"),
		ReviewID:       queryInt(c, "review_id"),
	}

	state, err := h.reactions.State(actorID(c), target)
	if err != nil {
		respondErr(c, err)
		return
	}

	counts, err := h.reactions.Counts(target)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    state,
		"likes":    counts.Likes,
		"dislikes": counts.Dislikes,
	})
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}
