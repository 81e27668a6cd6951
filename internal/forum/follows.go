package forum

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// FollowService maintains the user follow graph and content watch
// edges. Mutual follows are derived by looking for the opposite edge,
// never stored.
type FollowService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewFollowService(db *gorm.DB, notifier *Notifier) *FollowService {
	return &FollowService{db: db, notifier: notifier}
}

// ToggleFollowUser follows targetID, or unfollows if the edge already
// exists. Returns whether the actor follows the target afterwards.
func (s *FollowService) ToggleFollowUser(actorID, targetID int) (bool, error) {
	if actorID == targetID {
		return false, invalidf("you cannot follow yourself")
	}
	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var existing models.FollowEdge
	err := s.db.Where("follower_id = ? AND following_id = ?", actorID, targetID).First(&existing).Error
	if err == nil {
		if err := s.db.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	edge := models.FollowEdge{FollowerID: actorID, FollowingID: targetID, Notify: true}
	if err := s.db.Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Raced with an identical toggle; the edge exists, done.
			return true, nil
		}
		return false, err
	}

	if s.notifier != nil {
		var actor models.User
		if s.db.First(&actor, actorID).Error == nil {
			mutual := s.edgeExists(targetID, actorID)
			s.notifier.Followed(&actor, &target, mutual)
		}
	}
	return true, nil
}

// SetNotify flips whether the actor wants fanout from someone they
// follow.
func (s *FollowService) SetNotify(actorID, targetID int, notify bool) error {
	res := s.db.Model(&models.FollowEdge{}).
		Where("follower_id = ? AND following_id = ?", actorID, targetID).
		Update("notify", notify)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFollowContent watches or unwatches a content item.
func (s *FollowService) ToggleFollowContent(actorID, contentID int) (bool, error) {
	var item models.ContentItem
	if err := s.db.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var existing models.ContentFollow
	err := s.db.Where("user_id = ? AND content_item_id = ?", actorID, contentID).First(&existing).Error
	if err == nil {
		if err := s.db.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	edge := models.ContentFollow{UserID: actorID, ContentItemID: contentID}
	if err := s.db.Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// Followers returns users following userID.
func (s *FollowService) Followers(userID int) ([]models.FollowEdge, error) {
	var edges []models.FollowEdge
	err := s.db.Where("following_id = ?", userID).Preload("Follower").Find(&edges).Error
	return edges, err
}

// Following returns users userID follows.
func (s *FollowService) Following(userID int) ([]models.FollowEdge, error) {
	var edges []models.FollowEdge
	err := s.db.Where("follower_id = ?", userID).Preload("Following").Find(&edges).Error
	return edges, err
}

// Watched returns the content items the user follows.
func (s *FollowService) Watched(userID int) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := s.db.
		Joins("JOIN content_follows ON content_follows.content_item_id = content_items.id").
		Where("content_follows.user_id = ?", userID).
		Preload("User").
		Order("content_follows.created_at desc").
		Find(&items).Error
	return items, err
}

func (s *FollowService) edgeExists(followerID, followingID int) bool {
	var edge models.FollowEdge
	err := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&edge).Error
	return err == nil
}
