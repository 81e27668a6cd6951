package models

import "time"

// TargetKind names the kinds of things a reaction can attach to.
type TargetKind string

const (
	TargetTopic        TargetKind = "topic"
	TargetComment      TargetKind = "comment"
	TargetGroupTopic   TargetKind = "group_topic"
	TargetGroupComment TargetKind = "group_comment"
	TargetReview       TargetKind = "review"
)

// Reaction values.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
	ReactionNone    = "none"
)

// ReactionEntry holds a single user's sentiment toward a single target.
// The unique index enforces at most one value per (user, target) and
// turns racing inserts into duplicate-key conflicts instead of
// double-counted rows.
type ReactionEntry struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"uniqueIndex:idx_reaction_owner,priority:1" json:"user_id"`
	TargetKind TargetKind `gorm:"type:varchar(20);uniqueIndex:idx_reaction_owner,priority:2" json:"target_kind"`
	TargetID   int        `gorm:"uniqueIndex:idx_reaction_owner,priority:3" json:"target_id"`
	Value      string     `gorm:"type:varchar(10);not null" json:"value"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
