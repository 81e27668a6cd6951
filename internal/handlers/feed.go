package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
)

type FeedHandler struct {
	feed *forum.FeedService
}

func NewFeedHandler(feed *forum.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// GetFeed returns one ranked page of the public forum or, with
// community_id, of a community feed.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	filters := forum.FeedFilters{
		PopularOnly: c.Query("popular") == "true",
	}
	if raw := c.Query("community_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid community id"})
			return
		}
		filters.CommunityID = &id
	}
	if raw := c.Query("author_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author id"})
			return
		}
		filters.AuthorID = &id
	}

	page, err := h.feed.Rank(actorID(c), filters, c.DefaultQuery("sort", forum.SortNew), pageFromQuery(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
