package forum

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberle/threadboard-backend/internal/models"
)

// ReactionTarget identifies exactly one reactable thing. Zero or more
// than one field set is a validation error.
type ReactionTarget struct {
	TopicID        int `json:"topic_id,omitempty"`
	CommentID      int `json:"comment_id,omitempty"`
	GroupTopicID   int `json:"group_topic_id,omitempty"`
	GroupCommentID int `json:"group_comment_id,omitempty"`
	ReviewID       int `json:"review_id,omitempty"`
}

// Resolve returns the single (kind, id) the target names.
func (t ReactionTarget) Resolve() (models.TargetKind, int, error) {
	var kind models.TargetKind
	var id, set int
	pick := func(k models.TargetKind, v int) {
		if v != 0 {
			kind, id = k, v
			set++
		}
	}
	pick(models.TargetTopic, t.TopicID)
	pick(models.TargetComment, t.CommentID)
	pick(models.TargetGroupTopic, t.GroupTopicID)
	pick(models.TargetGroupComment, t.GroupCommentID)
	pick(models.TargetReview, t.ReviewID)
	if set != 1 {
		return "", 0, invalidf("reaction target must name exactly one of topic, comment, group_topic, group_comment, review")
	}
	return kind, id, nil
}

type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ReactionService is the per-user, per-target reaction ledger.
type ReactionService struct {
	db       *gorm.DB
	gate     *VisibilityGate
	notifier *Notifier
}

func NewReactionService(db *gorm.DB, gate *VisibilityGate, notifier *Notifier) *ReactionService {
	if gate == nil {
		gate = NewVisibilityGate(db)
	}
	return &ReactionService{db: db, gate: gate, notifier: notifier}
}

// Set applies toggle semantics: reacting with the current value removes
// it, anything else becomes the new single value. The write is a single
// conditional upsert keyed by the unique (user, kind, id) index, so a
// concurrent opposite write can never leave both values standing. A
// duplicate-key race resolves by re-reading state, never by retrying
// blind.
func (s *ReactionService) Set(userID int, target ReactionTarget, value string) (ReactionCounts, error) {
	if value != models.ReactionLike && value != models.ReactionDislike {
		return ReactionCounts{}, invalidf("reaction value must be like or dislike")
	}
	kind, id, err := target.Resolve()
	if err != nil {
		return ReactionCounts{}, err
	}
	if err := s.visibleTarget(userID, kind, id); err != nil {
		return ReactionCounts{}, err
	}

	current, err := s.state(userID, kind, id)
	if err != nil {
		return ReactionCounts{}, err
	}

	if current == value {
		// Undo. The value predicate makes a racing switch lose cleanly.
		err = s.db.Where(
			"user_id = ? AND target_kind = ? AND target_id = ? AND value = ?",
			userID, kind, id, value,
		).Delete(&models.ReactionEntry{}).Error
		if err != nil {
			return ReactionCounts{}, err
		}
	} else {
		entry := models.ReactionEntry{UserID: userID, TargetKind: kind, TargetID: id, Value: value}
		err = s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "target_kind"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      value,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race; current state wins, not an error.
				return s.Counts(target)
			}
			return ReactionCounts{}, err
		}
		s.fanoutLike(userID, kind, id, value)
	}

	return s.Counts(target)
}

// State returns none, like or dislike for the given user and target.
func (s *ReactionService) State(userID int, target ReactionTarget) (string, error) {
	kind, id, err := target.Resolve()
	if err != nil {
		return "", err
	}
	if err := s.visibleTarget(userID, kind, id); err != nil {
		return "", err
	}
	return s.state(userID, kind, id)
}

func (s *ReactionService) state(userID int, kind models.TargetKind, id int) (string, error) {
	var entry models.ReactionEntry
	err := s.db.Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, id).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ReactionNone, nil
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Counts returns the live like/dislike tallies for a target. Display
// counts are always computed on read.
func (s *ReactionService) Counts(target ReactionTarget) (ReactionCounts, error) {
	kind, id, err := target.Resolve()
	if err != nil {
		return ReactionCounts{}, err
	}
	return ReactionCounts{
		Likes:    s.Count(kind, id, models.ReactionLike),
		Dislikes: s.Count(kind, id, models.ReactionDislike),
	}, nil
}

func (s *ReactionService) Count(kind models.TargetKind, id int, value string) int64 {
	var n int64
	s.db.Model(&models.ReactionEntry{}).
		Where("target_kind = ? AND target_id = ? AND value = ?", kind, id, value).
		Count(&n)
	return n
}

// visibleTarget verifies the target row exists and that the actor can
// see its container. Topic and comment targets answer to the owning
// community's privacy; reviews have no container.
func (s *ReactionService) visibleTarget(actorID int, kind models.TargetKind, id int) error {
	var item models.ContentItem
	switch kind {
	case models.TargetTopic, models.TargetGroupTopic:
		if err := s.db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	case models.TargetComment, models.TargetGroupComment:
		var node models.CommentNode
		if err := s.db.First(&node, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.db.First(&item, node.ContentItemID).Error; err != nil {
			return err
		}
	case models.TargetReview:
		err := s.db.First(&models.Review{}, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	visible, err := s.gate.CanViewContent(actorID, &item)
	if err != nil {
		return err
	}
	if !visible {
		return ErrForbidden
	}
	return nil
}

// fanoutLike notifies only for likes on top-level content items.
func (s *ReactionService) fanoutLike(userID int, kind models.TargetKind, id int, value string) {
	if s.notifier == nil || value != models.ReactionLike {
		return
	}
	if kind != models.TargetTopic && kind != models.TargetGroupTopic {
		return
	}
	var actor models.User
	if s.db.First(&actor, userID).Error != nil {
		return
	}
	var content models.ContentItem
	if s.db.First(&content, id).Error != nil {
		return
	}
	s.notifier.ContentLiked(&actor, &content)
}
