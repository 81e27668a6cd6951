package forum

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// Sort strategies for feed queries.
const (
	SortNew       = "new"
	SortPopular   = "popular"
	SortTrending  = "trending"
	SortMostLiked = "most_liked"
)

// FeedFilters restrict the result set before ranking. CommunityID nil
// means the public forum container; PopularOnly restricts to items
// flagged popular, which is distinct from the "popular" sort.
type FeedFilters struct {
	CommunityID *int
	AuthorID    *int
	PopularOnly bool
}

// FeedItem is a content item plus its live counts.
type FeedItem struct {
	models.ContentItem
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Comments int64 `json:"comments"`
}

// FeedPage is one page of a ranked feed. Total comes from a separate
// count query against the same predicate, so under concurrent inserts
// the pair is eventually consistent. That is accepted behavior.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Total   int64      `json:"total"`
	HasMore bool       `json:"has_more"`
}

// FeedService composes paged, multi-strategy queries over content,
// reactions and comment counts.
type FeedService struct {
	db        *gorm.DB
	gate      *VisibilityGate
	reactions *ReactionService
}

func NewFeedService(db *gorm.DB, gate *VisibilityGate, reactions *ReactionService) *FeedService {
	return &FeedService{db: db, gate: gate, reactions: reactions}
}

// Rank returns one page of published content under the given filters
// and sort strategy.
func (s *FeedService) Rank(actorID int, filters FeedFilters, sort string, page Page) (*FeedPage, error) {
	page = page.Clamp()
	scope := ScopeFor(filters.CommunityID)

	if filters.CommunityID != nil {
		var community models.Community
		if err := s.db.First(&community, *filters.CommunityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !s.gate.CanViewCommunity(actorID, &community) {
			return nil, ErrForbidden
		}
	}

	predicate := func() *gorm.DB {
		q := s.db.Model(&models.ContentItem{}).Where("status = ?", models.StatusPublished)
		if filters.CommunityID != nil {
			q = q.Where("community_id = ?", *filters.CommunityID)
		} else {
			q = q.Where("community_id IS NULL")
		}
		if filters.AuthorID != nil {
			q = q.Where("author_id = ?", *filters.AuthorID)
		}
		if filters.PopularOnly {
			q = q.Where("popular = ?", true)
		}
		return q
	}

	var total int64
	if err := predicate().Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.ContentItem
	var err error
	switch sort {
	case SortNew, "":
		err = predicate().Preload("User").
			Order("created_at desc, id desc").
			Offset(page.Skip).Limit(page.Limit).Find(&items).Error
	case SortPopular:
		err = predicate().Preload("User").
			Order("views desc, created_at desc").
			Offset(page.Skip).Limit(page.Limit).Find(&items).Error
	case SortTrending:
		// Coarse composite key, not a decayed score.
		err = predicate().Preload("User").
			Order("popular desc, views desc, created_at desc").
			Offset(page.Skip).Limit(page.Limit).Find(&items).Error
	case SortMostLiked:
		items, err = s.mostLiked(predicate(), scope, page)
	default:
		return nil, invalidf("unknown sort strategy %q", sort)
	}
	if err != nil {
		return nil, err
	}

	feed := make([]FeedItem, 0, len(items))
	for _, item := range items {
		var comments int64
		s.db.Model(&models.CommentNode{}).Where("content_item_id = ?", item.ID).Count(&comments)
		feed = append(feed, FeedItem{
			ContentItem: item,
			Likes:       s.reactions.Count(scope.ContentKind, item.ID, models.ReactionLike),
			Dislikes:    s.reactions.Count(scope.ContentKind, item.ID, models.ReactionDislike),
			Comments:    comments,
		})
	}

	return &FeedPage{
		Items:   feed,
		Total:   total,
		HasMore: int64(page.Skip+len(feed)) < total,
	}, nil
}

// mostLiked needs an aggregation joining like counts per item, so it
// cannot share the plain indexed-query path of the other strategies.
func (s *FeedService) mostLiked(predicate *gorm.DB, scope Scope, page Page) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := predicate.
		Select("content_items.*, COUNT(reaction_entries.id) AS like_count").
		Joins("LEFT JOIN reaction_entries ON reaction_entries.target_kind = ? AND reaction_entries.target_id = content_items.id AND reaction_entries.value = ?",
			scope.ContentKind, models.ReactionLike).
		Group("content_items.id").
		Order("like_count desc, content_items.created_at desc").
		Offset(page.Skip).Limit(page.Limit).
		Preload("User").
		Find(&items).Error
	return items, err
}
