package forum

import (
	"strings"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// ReviewService stores standalone reviews, the fifth reaction target
// kind. Reviews take likes through the ledger but never fan out.
type ReviewService struct {
	db        *gorm.DB
	sanitizer Sanitizer
}

func NewReviewService(db *gorm.DB, sanitizer Sanitizer) *ReviewService {
	if sanitizer == nil {
		sanitizer = EscapeSanitizer{}
	}
	return &ReviewService{db: db, sanitizer: sanitizer}
}

func (s *ReviewService) Create(authorID int, req models.CreateReviewRequest) (*models.Review, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidf("review title is required")
	}
	if len(title) > maxTitleLength {
		return nil, invalidf("title exceeds %d characters", maxTitleLength)
	}
	if req.Score < 1 || req.Score > 10 {
		return nil, invalidf("score must be between 1 and 10")
	}

	review := models.Review{
		AuthorID: authorID,
		Title:    title,
		Body:     s.sanitizer.Sanitize(req.Body),
		Score:    req.Score,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&review, review.ID)
	return &review, nil
}

func (s *ReviewService) List(page Page) ([]models.Review, int64, error) {
	page = page.Clamp()

	var total int64
	if err := s.db.Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := s.db.Preload("User").
		Order("created_at desc, id desc").
		Offset(page.Skip).Limit(page.Limit).
		Find(&reviews).Error
	return reviews, total, err
}
