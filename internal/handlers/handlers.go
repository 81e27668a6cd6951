package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/realtime"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Topic        *TopicHandler
	Comment      *CommentHandler
	Reaction     *ReactionHandler
	User         *UserHandler
	Community    *CommunityHandler
	Feed         *FeedHandler
	Notification *NotificationHandler
	Review       *ReviewHandler
	WS           *WSHandler
}

// NewHandler wires the engine once and hands each sub-handler the
// services it needs. The hub doubles as the engine's realtime pusher.
func NewHandler(db *gorm.DB, jwtSecret []byte, hub *realtime.Hub) *Handler {
	sanitizer := forum.EscapeSanitizer{}
	gate := forum.NewVisibilityGate(db)
	notifier := forum.NewNotifier(db, hub)
	reactions := forum.NewReactionService(db, gate, notifier)
	comments := forum.NewCommentService(db, sanitizer, gate, reactions, notifier)
	content := forum.NewContentService(db, sanitizer, gate, notifier)
	memberships := forum.NewMembershipService(db, gate)
	follows := forum.NewFollowService(db, notifier)
	feed := forum.NewFeedService(db, gate, reactions)
	reviews := forum.NewReviewService(db, sanitizer)
	inbox := forum.NewNotificationService(db)

	return &Handler{
		Auth:         NewAuthHandler(db, jwtSecret),
		Topic:        NewTopicHandler(content, follows),
		Comment:      NewCommentHandler(comments),
		Reaction:     NewReactionHandler(reactions),
		User:         NewUserHandler(db, gate, follows),
		Community:    NewCommunityHandler(memberships),
		Feed:         NewFeedHandler(feed),
		Notification: NewNotificationHandler(inbox),
		Review:       NewReviewHandler(reviews),
		WS:           NewWSHandler(hub),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// actorID is extractUserID for public endpoints: 0 means anonymous.
func actorID(c *gin.Context) int {
	id, _ := extractUserID(c)
	return id
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) forum.Page {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	return forum.Page{Skip: skip, Limit: limit}
}

// respondErr maps engine errors onto HTTP statuses. Everything is
// recovered here; nothing propagates further.
func respondErr(c *gin.Context, err error) {
	var ve *forum.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, forum.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, forum.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, forum.ErrLocked):
		c.JSON(http.StatusLocked, gin.H{"error": "Content is locked"})
	case errors.Is(err, forum.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	case errors.Is(err, forum.ErrCreateFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
