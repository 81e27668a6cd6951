package forum

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// Replies may nest at most this deep below a top-level comment.
const maxReplyDepth = 3

const maxCommentLength = 10000

// CommentView is a node plus its live counts. Counts are computed by
// counting queries on every read so they can never drift from the
// ledger.
type CommentView struct {
	models.CommentNode
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
	ReplyCount int64 `json:"reply_count"`
}

// CommentService stores reply nodes as a flat arena: every node keys by
// id and points back at its parent, so any subtree paginates
// independently. Rebuilding a visual tree is the caller's job.
type CommentService struct {
	db        *gorm.DB
	sanitizer Sanitizer
	gate      *VisibilityGate
	reactions *ReactionService
	notifier  *Notifier
}

func NewCommentService(db *gorm.DB, sanitizer Sanitizer, gate *VisibilityGate, reactions *ReactionService, notifier *Notifier) *CommentService {
	if sanitizer == nil {
		sanitizer = EscapeSanitizer{}
	}
	if gate == nil {
		gate = NewVisibilityGate(db)
	}
	return &CommentService{db: db, sanitizer: sanitizer, gate: gate, reactions: reactions, notifier: notifier}
}

// Create adds a node under a content item, optionally below a parent.
// The author must be able to see the item's container, the parent must
// belong to the same content item, the item must not be locked, and the
// reply depth cap is enforced here rather than trusted to the composer
// UI.
func (s *CommentService) Create(contentItemID, authorID int, body string, parentID *int) (*models.CommentNode, error) {
	body = s.sanitizer.Sanitize(body)
	if strings.TrimSpace(body) == "" {
		return nil, invalidf("comment body is required")
	}
	if len(body) > maxCommentLength {
		return nil, invalidf("comment body exceeds %d characters", maxCommentLength)
	}

	var content models.ContentItem
	if err := s.db.First(&content, contentItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if visible, err := s.gate.CanViewContent(authorID, &content); err != nil {
		return nil, err
	} else if !visible {
		return nil, ErrForbidden
	}
	if content.Status != models.StatusPublished {
		return nil, ErrNotFound
	}
	if content.Locked {
		return nil, ErrLocked
	}

	var parent *models.CommentNode
	if parentID != nil {
		var p models.CommentNode
		if err := s.db.First(&p, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalidf("parent comment %d does not exist", *parentID)
			}
			return nil, err
		}
		if p.ContentItemID != contentItemID {
			return nil, invalidf("parent comment belongs to a different content item")
		}
		depth, err := s.depth(&p)
		if err != nil {
			return nil, err
		}
		if depth+1 > maxReplyDepth {
			return nil, invalidf("replies may nest at most %d levels deep", maxReplyDepth)
		}
		parent = &p
	}

	node := models.CommentNode{
		ContentItemID: contentItemID,
		AuthorID:      authorID,
		ParentID:      parentID,
		Body:          body,
	}
	if err := s.db.Create(&node).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&node, node.ID)

	if s.notifier != nil {
		var actor models.User
		if s.db.First(&actor, authorID).Error == nil {
			if parent != nil {
				s.notifier.Replied(&actor, &content, parent, &node)
			} else {
				s.notifier.Commented(&actor, &content, &node)
			}
		}
	}

	return &node, nil
}

// depth walks ancestors; a top-level comment is depth 0.
func (s *CommentService) depth(node *models.CommentNode) (int, error) {
	depth := 0
	cur := node
	for cur.ParentID != nil {
		var p models.CommentNode
		if err := s.db.First(&p, *cur.ParentID).Error; err != nil {
			return 0, err
		}
		depth++
		cur = &p
	}
	return depth, nil
}

// ListTopLevel pages the direct comments of a content item visible to
// the actor, oldest first. Sequential calls with growing offsets see
// disjoint pages.
func (s *CommentService) ListTopLevel(actorID, contentItemID int, page Page) ([]CommentView, int64, error) {
	var content models.ContentItem
	if err := s.db.First(&content, contentItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if visible, err := s.gate.CanViewContent(actorID, &content); err != nil {
		return nil, 0, err
	} else if !visible {
		return nil, 0, ErrForbidden
	}
	return s.list(s.db.Where("content_item_id = ? AND parent_id IS NULL", contentItemID),
		ScopeFor(content.CommunityID), page)
}

// ListReplies pages the direct children of a comment, oldest first.
func (s *CommentService) ListReplies(actorID, parentID int, page Page) ([]CommentView, int64, error) {
	var parent models.CommentNode
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	var content models.ContentItem
	if err := s.db.First(&content, parent.ContentItemID).Error; err != nil {
		return nil, 0, err
	}
	if visible, err := s.gate.CanViewContent(actorID, &content); err != nil {
		return nil, 0, err
	} else if !visible {
		return nil, 0, ErrForbidden
	}
	return s.list(s.db.Where("parent_id = ?", parentID), ScopeFor(content.CommunityID), page)
}

func (s *CommentService) list(query *gorm.DB, scope Scope, page Page) ([]CommentView, int64, error) {
	page = page.Clamp()

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.CommentNode{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var nodes []models.CommentNode
	err := query.Session(&gorm.Session{}).
		Preload("User").
		Order("created_at asc, id asc").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&nodes).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]CommentView, 0, len(nodes))
	for _, node := range nodes {
		var replies int64
		s.db.Model(&models.CommentNode{}).Where("parent_id = ?", node.ID).Count(&replies)
		views = append(views, CommentView{
			CommentNode: node,
			Likes:       s.reactions.Count(scope.CommentKind, node.ID, models.ReactionLike),
			Dislikes:    s.reactions.Count(scope.CommentKind, node.ID, models.ReactionDislike),
			ReplyCount:  replies,
		})
	}
	return views, total, nil
}
