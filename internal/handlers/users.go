package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type UserHandler struct {
	db      *gorm.DB
	gate    *forum.VisibilityGate
	follows *forum.FollowService
}

func NewUserHandler(db *gorm.DB, gate *forum.VisibilityGate, follows *forum.FollowService) *UserHandler {
	return &UserHandler{db: db, gate: gate, follows: follows}
}

// GetUserProfile returns a user's profile, gated by their visibility
// setting. A denied actor still learns the username, nothing more.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	viewer := actorID(c)
	if !h.gate.CanViewProfile(viewer, &user) {
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":                 user.ID,
				"username":           user.Username,
				"profile_visibility": user.ProfileVisibility,
			},
			"restricted": true,
		})
		return
	}

	var followerCount, followingCount int64
	h.db.Model(&models.FollowEdge{}).Where("following_id = ?", id).Count(&followerCount)
	h.db.Model(&models.FollowEdge{}).Where("follower_id = ?", id).Count(&followingCount)

	isFollowing := false
	if viewer != 0 {
		var edge models.FollowEdge
		err := h.db.Where("follower_id = ? AND following_id = ?", viewer, id).First(&edge).Error
		isFollowing = err == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"follower_count":  followerCount,
		"following_count": followingCount,
		"is_following":    isFollowing,
	})
}

// ToggleFollow follows or unfollows a user
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	following, err := h.follows.ToggleFollowUser(userID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// SetNotify opts in or out of fanout from a followed user
func (h *UserHandler) SetNotify(c *gin.Context) {
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
		Notify *bool `json:"notify" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notify is required"})
		return
	}

	if err := h.follows.SetNotify(userID, id, *input.Notify); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notify": *input.Notify})
}

// GetFollowers returns a user's followers
func (h *UserHandler) GetFollowers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	edges, err := h.follows.Followers(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	followers := []gin.H{}
	for _, edge := range edges {
		followers = append(followers, gin.H{
			"id":       edge.Follower.ID,
			"username": edge.Follower.Username,
			"avatar":   edge.Follower.Avatar,
		})
	}

	c.JSON(http.StatusOK, followers)
}

// GetFollowing returns users that a user is following
func (h *UserHandler) GetFollowing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	edges, err := h.follows.Following(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	following := []gin.H{}
	for _, edge := range edges {
		following = append(following, gin.H{
			"id":       edge.Following.ID,
			"username": edge.Following.Username,
			"avatar":   edge.Following.Avatar,
		})
	}

	c.JSON(http.StatusOK, following)
}
