package models

import "time"

// Moderation status of a content item.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// ContentItem is a top-level authored post. CommunityID nil means the
// public forum. Comment and reaction counts are always derived by
// counting queries, never stored here.
type ContentItem struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `json:"body"` // sanitized HTML
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Image       string    `json:"image"` // Opaque URL from the upload service
	AuthorID    int       `gorm:"index" json:"author_id"`
	User        User      `gorm:"foreignKey:AuthorID" json:"user"`
	CommunityID *int      `gorm:"index" json:"community_id,omitempty"`
	Status      string    `gorm:"default:published;index" json:"status"`
	Pinned      bool      `gorm:"default:false" json:"pinned"`
	Locked      bool      `gorm:"default:false" json:"locked"`
	Popular     bool      `gorm:"default:false;index" json:"popular"`
	Views       int       `gorm:"default:0" json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateContentRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Image       string `json:"image"`
	CommunityID *int   `json:"community_id,omitempty"`
}

// ViewMarker deduplicates views: one per content item, hashed IP and
// UTC day. The unique index doubles as the lock; the view counter is
// incremented only when this insert wins.
type ViewMarker struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	ContentItemID int       `gorm:"uniqueIndex:idx_view_dedup,priority:1" json:"content_item_id"`
	IPHash        string    `gorm:"uniqueIndex:idx_view_dedup,priority:2" json:"-"`
	Day           string    `gorm:"uniqueIndex:idx_view_dedup,priority:3" json:"day"`
	CreatedAt     time.Time `json:"created_at"`
}
