package models

import "time"

// CommentNode is a reply in a flat tree: every node carries a back
// reference to its parent instead of embedding children, so any subtree
// can be paginated on its own. Nodes are immutable once created.
type CommentNode struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	ContentItemID int       `gorm:"index;not null" json:"content_item_id"`
	AuthorID      int       `json:"author_id"`
	User          User      `gorm:"foreignKey:AuthorID" json:"user"`
	ParentID      *int      `gorm:"index" json:"parent_id,omitempty"`
	Body          string    `gorm:"not null" json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Body     string `json:"body"`
	ParentID *int   `json:"parent_id,omitempty"`
}
