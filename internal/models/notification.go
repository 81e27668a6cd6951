package models

import "time"

type NotificationKind string

const (
	NotificationNewContent  NotificationKind = "new_content"
	NotificationContentLike NotificationKind = "content_like"
	NotificationComment     NotificationKind = "comment"
	NotificationReply       NotificationKind = "reply"
	NotificationFollow      NotificationKind = "follow"
	NotificationFriendship  NotificationKind = "friendship"
)

// Notification is append-only except for the Read flag. The message is
// baked at creation time; rows are the durable source of truth and are
// written before any realtime push is attempted.
type Notification struct {
	ID      int              `gorm:"primaryKey" json:"id"`
	UserID  int              `gorm:"index:idx_notification_inbox,priority:1" json:"user_id"` // recipient
	ActorID *int             `json:"actor_id,omitempty"`                                     // triggering user
	Kind    NotificationKind `gorm:"type:varchar(20);not null" json:"kind"`
	Message string           `gorm:"not null" json:"message"`
	Link    string           `json:"link"`
	Read    bool             `gorm:"default:false" json:"read"`

	ContentItemID *int `json:"content_item_id,omitempty"`
	CommentID     *int `json:"comment_id,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_notification_inbox,priority:2" json:"created_at"`
}
