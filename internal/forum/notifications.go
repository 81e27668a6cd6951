package forum

import (
	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// NotificationService reads a user's inbox. Rows are written only by
// the Notifier; the read flag is the only thing that ever changes here.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) List(userID int, page Page) ([]models.Notification, int64, error) {
	page = page.Clamp()

	var total int64
	if err := s.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(page.Skip).Limit(page.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (s *NotificationService) UnreadCount(userID int) int64 {
	var n int64
	s.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&n)
	return n
}

// MarkRead flips the read flag on one of the user's own notifications.
func (s *NotificationService) MarkRead(userID, notificationID int) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID int) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
