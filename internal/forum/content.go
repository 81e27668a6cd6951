package forum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

const (
	maxTitleLength = 300
	maxBodyLength  = 40000

	// Attempts before a slug collision surfaces as ErrCreateFailed.
	slugAttempts = 5
)

// ContentService persists top-level authored items for the public forum
// and for community containers.
type ContentService struct {
	db        *gorm.DB
	sanitizer Sanitizer
	gate      *VisibilityGate
	notifier  *Notifier
}

func NewContentService(db *gorm.DB, sanitizer Sanitizer, gate *VisibilityGate, notifier *Notifier) *ContentService {
	if sanitizer == nil {
		sanitizer = EscapeSanitizer{}
	}
	return &ContentService{db: db, sanitizer: sanitizer, gate: gate, notifier: notifier}
}

type CreateContentInput struct {
	Title       string
	Body        string
	Image       string
	AuthorID    int
	CommunityID *int
}

// Create validates, gates, slugs and persists a content item. Posting
// into a community that requires approval routes a plain member's item
// to pending status instead of rejecting it. Followers are notified
// only when the item goes straight to published.
func (s *ContentService) Create(input CreateContentInput) (*models.ContentItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidf("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, invalidf("title exceeds %d characters", maxTitleLength)
	}
	body := s.sanitizer.Sanitize(input.Body)
	if len(body) > maxBodyLength {
		return nil, invalidf("body exceeds %d characters", maxBodyLength)
	}

	status := models.StatusPublished
	if input.CommunityID != nil {
		var community models.Community
		if err := s.db.First(&community, *input.CommunityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		allowed, requiresApproval := s.gate.CanPost(input.AuthorID, &community)
		if !allowed {
			return nil, ErrForbidden
		}
		if requiresApproval {
			status = models.StatusPending
		}
	}

	item := models.ContentItem{
		Title:       title,
		Body:        body,
		Image:       input.Image,
		AuthorID:    input.AuthorID,
		CommunityID: input.CommunityID,
		Status:      status,
	}

	base := slugify(title)
	created := false
	for attempt := 0; attempt < slugAttempts; attempt++ {
		item.Slug = base
		if attempt > 0 {
			item.Slug = base + "-" + uuid.New().String()[:6]
		}
		err := s.db.Create(&item).Error
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if !created {
		return nil, ErrCreateFailed
	}

	if input.CommunityID != nil {
		s.db.Model(&models.Community{}).Where("id = ?", *input.CommunityID).
			UpdateColumn("topic_count", gorm.Expr("topic_count + 1"))
	}

	s.db.Preload("User").First(&item, item.ID)

	if status == models.StatusPublished && s.notifier != nil {
		var author models.User
		if s.db.First(&author, input.AuthorID).Error == nil {
			s.notifier.ContentPublished(&author, &item)
		}
	}

	return &item, nil
}

// Get loads a content item, gating community content by visibility.
func (s *ContentService) Get(actorID, id int) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := s.db.Preload("User").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.CommunityID != nil {
		var community models.Community
		if err := s.db.First(&community, *item.CommunityID).Error; err != nil {
			return nil, err
		}
		if !s.gate.CanViewCommunity(actorID, &community) {
			return nil, ErrForbidden
		}
	}
	// Pending and rejected items stay hidden except from their author
	// and from whoever could moderate them.
	if item.Status != models.StatusPublished && item.AuthorID != actorID && !s.canModerateContent(actorID, &item) {
		return nil, ErrNotFound
	}
	return &item, nil
}

// Moderation actions.
const (
	ModerateApprove = "approve"
	ModerateReject  = "reject"
	ModeratePin     = "pin"
	ModerateUnpin   = "unpin"
	ModerateLock    = "lock"
	ModerateUnlock  = "unlock"
)

// Moderate applies a moderation action. Community content answers to
// the community's admins and moderators; forum content to site
// moderators. Site moderators can act everywhere.
func (s *ContentService) Moderate(actorID, contentID int, action string) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := s.db.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !s.canModerateContent(actorID, &item) {
		return nil, ErrForbidden
	}

	switch action {
	case ModerateApprove:
		if item.Status != models.StatusPending {
			return nil, ErrConflict
		}
		item.Status = models.StatusPublished
	case ModerateReject:
		if item.Status != models.StatusPending {
			return nil, ErrConflict
		}
		item.Status = models.StatusRejected
	case ModeratePin:
		item.Pinned = true
	case ModerateUnpin:
		item.Pinned = false
	case ModerateLock:
		item.Locked = true
	case ModerateUnlock:
		item.Locked = false
	default:
		return nil, invalidf("unknown moderation action %q", action)
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	if action == ModerateApprove && s.notifier != nil {
		var author models.User
		if s.db.First(&author, item.AuthorID).Error == nil {
			s.notifier.ContentPublished(&author, &item)
		}
	}

	return &item, nil
}

func (s *ContentService) canModerateContent(actorID int, item *models.ContentItem) bool {
	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return false
	}
	if actor.Role == models.RoleModerator || actor.Role == models.RoleAdmin {
		return true
	}
	if item.CommunityID != nil {
		return s.gate.CanModerate(actorID, *item.CommunityID)
	}
	return false
}

// RecordView counts at most one view per IP per UTC day. The dedup
// marker's unique index is the lock: the counter moves only when the
// marker insert wins, and a duplicate key is the expected
// already-counted path.
func (s *ContentService) RecordView(contentID int, ip string) (bool, error) {
	var item models.ContentItem
	if err := s.db.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	sum := sha256.Sum256([]byte(ip))
	marker := models.ViewMarker{
		ContentItemID: contentID,
		IPHash:        hex.EncodeToString(sum[:]),
		Day:           time.Now().UTC().Format("2006-01-02"),
	}
	if err := s.db.Create(&marker).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}

	err := s.db.Model(&models.ContentItem{}).Where("id = ?", contentID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	return err == nil, err
}

// slugify lowercases and strips a title down to a-z0-9 and dashes.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = uuid.New().String()[:8]
	}
	return slug
}
