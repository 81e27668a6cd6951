package forum

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// VisibilityGate resolves read/write permission from container privacy
// plus the actor's membership or follow state. An actorID of 0 means an
// anonymous request.
type VisibilityGate struct {
	db *gorm.DB
}

func NewVisibilityGate(db *gorm.DB) *VisibilityGate {
	return &VisibilityGate{db: db}
}

func (g *VisibilityGate) activeMembership(actorID int, communityID int) (*models.Membership, bool) {
	if actorID == 0 {
		return nil, false
	}
	var m models.Membership
	err := g.db.Where("community_id = ? AND user_id = ?", communityID, actorID).First(&m).Error
	if err != nil {
		return nil, false
	}
	return &m, m.Status == models.MemberStatusActive
}

// CanViewCommunity: public communities are visible to everyone; private
// ones only to active members.
func (g *VisibilityGate) CanViewCommunity(actorID int, community *models.Community) bool {
	if community.Privacy == models.CommunityPublic {
		return true
	}
	_, active := g.activeMembership(actorID, community.ID)
	return active
}

// CanViewContent gates a content item by its container. Forum items
// are visible to everyone; community items follow the community's
// privacy.
func (g *VisibilityGate) CanViewContent(actorID int, item *models.ContentItem) (bool, error) {
	if item.CommunityID == nil {
		return true, nil
	}
	var community models.Community
	if err := g.db.First(&community, *item.CommunityID).Error; err != nil {
		return false, err
	}
	return g.CanViewCommunity(actorID, &community), nil
}

// CanViewProfile: public profiles are visible to everyone. Private
// profiles require the actor to follow the owner; friends-only profiles
// require a mutual follow.
func (g *VisibilityGate) CanViewProfile(actorID int, owner *models.User) bool {
	if owner.ProfileVisibility == models.VisibilityPublic || actorID == owner.ID {
		return true
	}
	if actorID == 0 {
		return false
	}
	follows := g.edgeExists(actorID, owner.ID)
	switch owner.ProfileVisibility {
	case models.VisibilityPrivate:
		return follows
	case models.VisibilityFriends:
		return follows && g.edgeExists(owner.ID, actorID)
	}
	return false
}

func (g *VisibilityGate) edgeExists(followerID, followingID int) bool {
	var edge models.FollowEdge
	err := g.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&edge).Error
	return !errors.Is(err, gorm.ErrRecordNotFound) && err == nil
}

// CanPost decides whether the actor may post into a community and
// whether the post routes to pending review. Posting requires an
// active, non-banned membership. If the community requires approval and
// the actor is a plain member, the post is still allowed but lands in
// pending status instead of being rejected.
func (g *VisibilityGate) CanPost(actorID int, community *models.Community) (allowed, requiresApproval bool) {
	m, active := g.activeMembership(actorID, community.ID)
	if !active {
		return false, false
	}
	requiresApproval = community.RequireApproval && m.Role == models.MemberRoleMember
	return true, requiresApproval
}

// CanModerate reports whether the actor may moderate within the
// community (admin or moderator role on an active membership).
func (g *VisibilityGate) CanModerate(actorID int, communityID int) bool {
	m, active := g.activeMembership(actorID, communityID)
	if !active {
		return false
	}
	return m.Role == models.MemberRoleAdmin || m.Role == models.MemberRoleModerator
}
