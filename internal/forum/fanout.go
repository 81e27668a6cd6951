package forum

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// Pusher is the best-effort realtime channel, addressed per user. Push
// failures never affect the triggering action.
type Pusher interface {
	Push(userID int, payload any) error
}

// NopPusher drops every push. Used when no realtime channel is wired.
type NopPusher struct{}

func (NopPusher) Push(int, any) error { return nil }

// Notifier computes recipients for social events and emits one durable
// Notification row per recipient, then attempts a realtime push. The
// row is always written before the push; nothing here ever surfaces an
// error to the caller.
type Notifier struct {
	db     *gorm.DB
	pusher Pusher
}

func NewNotifier(db *gorm.DB, pusher Pusher) *Notifier {
	if pusher == nil {
		pusher = NopPusher{}
	}
	return &Notifier{db: db, pusher: pusher}
}

// deliver persists the row, then pushes. Durable row first, always.
func (n *Notifier) deliver(row models.Notification) {
	if err := n.db.Create(&row).Error; err != nil {
		log.Printf("notification write failed for user %d: %v", row.UserID, err)
		return
	}
	if err := n.pusher.Push(row.UserID, row); err != nil {
		log.Printf("notification push failed for user %d: %v", row.UserID, err)
	}
}

// ContentPublished notifies the author's followers that opted into
// notifications. When the author's profile is not public, recipients
// are restricted to mutual follows.
func (n *Notifier) ContentPublished(author *models.User, content *models.ContentItem) {
	var edges []models.FollowEdge
	if err := n.db.Where("following_id = ? AND notify = ?", author.ID, true).Find(&edges).Error; err != nil {
		log.Printf("fanout recipient query failed: %v", err)
		return
	}

	mutual := map[int]bool{}
	if author.ProfileVisibility != models.VisibilityPublic {
		var ids []int
		if err := n.db.Model(&models.FollowEdge{}).Where("follower_id = ?", author.ID).
			Pluck("following_id", &ids).Error; err != nil {
			log.Printf("fanout mutual query failed: %v", err)
			return
		}
		for _, id := range ids {
			mutual[id] = true
		}
	}

	msg := fmt.Sprintf("%s published a new topic: %s", author.Username, content.Title)
	for _, edge := range edges {
		if edge.FollowerID == author.ID {
			continue
		}
		if author.ProfileVisibility != models.VisibilityPublic && !mutual[edge.FollowerID] {
			continue
		}
		n.deliver(models.Notification{
			UserID:        edge.FollowerID,
			ActorID:       &author.ID,
			Kind:          models.NotificationNewContent,
			Message:       msg,
			Link:          "/topics/" + content.Slug,
			ContentItemID: &content.ID,
		})
	}
}

// ContentLiked notifies the owner of a top-level content item about a
// like. Comment likes and dislikes never reach this path.
func (n *Notifier) ContentLiked(actor *models.User, content *models.ContentItem) {
	if actor.ID == content.AuthorID {
		return
	}
	n.deliver(models.Notification{
		UserID:        content.AuthorID,
		ActorID:       &actor.ID,
		Kind:          models.NotificationContentLike,
		Message:       fmt.Sprintf("%s liked your topic: %s", actor.Username, content.Title),
		Link:          "/topics/" + content.Slug,
		ContentItemID: &content.ID,
	})
}

// Followed notifies the followed user. If the new edge completes a
// mutual pair, the owner of the pre-existing edge also gets a distinct
// friendship notice.
func (n *Notifier) Followed(actor, target *models.User, mutual bool) {
	n.deliver(models.Notification{
		UserID:  target.ID,
		ActorID: &actor.ID,
		Kind:    models.NotificationFollow,
		Message: fmt.Sprintf("%s started following you", actor.Username),
		Link:    "/users/" + fmt.Sprint(actor.ID),
	})
	if mutual {
		n.deliver(models.Notification{
			UserID:  target.ID,
			ActorID: &actor.ID,
			Kind:    models.NotificationFriendship,
			Message: fmt.Sprintf("You and %s are now friends", actor.Username),
			Link:    "/users/" + fmt.Sprint(actor.ID),
		})
	}
}

// Commented notifies the content owner about a new top-level comment.
func (n *Notifier) Commented(actor *models.User, content *models.ContentItem, comment *models.CommentNode) {
	if actor.ID == content.AuthorID {
		return
	}
	n.deliver(models.Notification{
		UserID:        content.AuthorID,
		ActorID:       &actor.ID,
		Kind:          models.NotificationComment,
		Message:       fmt.Sprintf("%s commented on your topic: %s", actor.Username, content.Title),
		Link:          "/topics/" + content.Slug,
		ContentItemID: &content.ID,
		CommentID:     &comment.ID,
	})
}

// Replied notifies the parent comment's author about a reply.
func (n *Notifier) Replied(actor *models.User, content *models.ContentItem, parent, comment *models.CommentNode) {
	if actor.ID == parent.AuthorID {
		return
	}
	n.deliver(models.Notification{
		UserID:        parent.AuthorID,
		ActorID:       &actor.ID,
		Kind:          models.NotificationReply,
		Message:       fmt.Sprintf("%s replied to your comment on: %s", actor.Username, content.Title),
		Link:          "/topics/" + content.Slug,
		ContentItemID: &content.ID,
		CommentID:     &comment.ID,
	})
}
