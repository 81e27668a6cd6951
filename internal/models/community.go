package models

import "time"

// Community privacy levels.
const (
	CommunityPublic  = "public"
	CommunityPrivate = "private"
)

// Community membership roles and statuses.
const (
	MemberRoleAdmin     = "admin"
	MemberRoleModerator = "moderator"
	MemberRoleMember    = "member"

	MemberStatusActive  = "active"
	MemberStatusPending = "pending"
	MemberStatusBanned  = "banned"
)

// Community is a named container for content items with its own
// membership and privacy rules. MemberCount and TopicCount are
// maintained through atomic field increments.
type Community struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"unique;not null" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string    `json:"description"`
	Privacy         string    `gorm:"default:public" json:"privacy"` // "public", "private"
	RequireApproval bool      `gorm:"default:false" json:"require_approval"`
	CreatedBy       int       `json:"created_by"`
	MemberCount     int       `gorm:"default:0" json:"member_count"`
	TopicCount      int       `gorm:"default:0" json:"topic_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Membership ties a user to a community. Transitions: pending->active
// (approve), pending->removed (deny), active->banned (moderation).
type Membership struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	CommunityID int       `gorm:"uniqueIndex:idx_membership_pair,priority:1" json:"community_id"`
	UserID      int       `gorm:"uniqueIndex:idx_membership_pair,priority:2" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Role        string    `gorm:"default:member" json:"role"`
	Status      string    `gorm:"default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCommunityRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Privacy         string `json:"privacy"`
	RequireApproval bool   `json:"require_approval"`
}
