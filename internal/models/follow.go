package models

import "time"

// FollowEdge is one direction of the follow graph. Two opposite edges
// between the same pair of users form a mutual follow ("friendship"),
// which is always derived, never stored.
type FollowEdge struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	FollowerID  int       `gorm:"uniqueIndex:idx_follow_pair,priority:1" json:"follower_id"`
	FollowingID int       `gorm:"uniqueIndex:idx_follow_pair,priority:2" json:"following_id"`
	Notify      bool      `gorm:"default:true" json:"notify"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"follower"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContentFollow is a watch edge from a user to a content item.
type ContentFollow struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	UserID        int       `gorm:"uniqueIndex:idx_content_follow,priority:1" json:"user_id"`
	ContentItemID int       `gorm:"uniqueIndex:idx_content_follow,priority:2" json:"content_item_id"`
	CreatedAt     time.Time `json:"created_at"`
}
