package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/forum"
	"github.com/emberle/threadboard-backend/internal/models"
)

type CommunityHandler struct {
	memberships *forum.MembershipService
}

func NewCommunityHandler(memberships *forum.MembershipService) *CommunityHandler {
	return &CommunityHandler{memberships: memberships}
}

// CreateCommunity creates a community with the caller as admin
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.memberships.CreateCommunity(userID, input)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

// GetCommunity returns the community container
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	community, err := h.memberships.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, community)
}

// Join requests or takes membership depending on community settings
func (h *CommunityHandler) Join(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	membership, err := h.memberships.Join(userID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// ModerateMembership handles approve, deny and ban
func (h *CommunityHandler) ModerateMembership(c *gin.Context) {
	communityID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	moderatorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Action string `json:"action" binding:"required,oneof=approve deny ban"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be approve, deny or ban"})
		return
	}

	var err error
	switch input.Action {
	case "approve":
		err = h.memberships.Approve(moderatorID, communityID, memberID)
	case "deny":
		err = h.memberships.Deny(moderatorID, communityID, memberID)
	case "ban":
		err = h.memberships.Ban(moderatorID, communityID, memberID)
	}
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership updated"})
}
