package forum

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emberle/threadboard-backend/internal/models"
)

// MembershipService manages joining and moderating community
// memberships. Member counters move through atomic field increments
// guarded by conditional status updates, so two racing approvals of the
// same request activate and count exactly once.
type MembershipService struct {
	db   *gorm.DB
	gate *VisibilityGate
}

func NewMembershipService(db *gorm.DB, gate *VisibilityGate) *MembershipService {
	return &MembershipService{db: db, gate: gate}
}

// Join creates a membership. Communities that are private or require
// approval take the request as pending; otherwise the member is active
// immediately. A racing duplicate insert is a Conflict.
func (s *MembershipService) Join(userID, communityID int) (*models.Membership, error) {
	var community models.Community
	if err := s.db.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := models.MemberStatusActive
	if community.Privacy == models.CommunityPrivate || community.RequireApproval {
		status = models.MemberStatusPending
	}

	m := models.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        models.MemberRoleMember,
		Status:      status,
	}
	if err := s.db.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if status == models.MemberStatusActive {
		s.bumpMemberCount(communityID, +1)
	}
	return &m, nil
}

// Approve flips a pending membership to active. The conditional update
// is the race guard: whichever approval loses sees zero rows touched
// and reports Conflict, and the counter increments exactly once.
func (s *MembershipService) Approve(actorID, communityID, userID int) error {
	if !s.gate.CanModerate(actorID, communityID) {
		return ErrForbidden
	}
	res := s.db.Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ? AND status = ?", communityID, userID, models.MemberStatusPending).
		Update("status", models.MemberStatusActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	s.bumpMemberCount(communityID, +1)
	return nil
}

// Deny removes a pending membership request.
func (s *MembershipService) Deny(actorID, communityID, userID int) error {
	if !s.gate.CanModerate(actorID, communityID) {
		return ErrForbidden
	}
	res := s.db.Where("community_id = ? AND user_id = ? AND status = ?",
		communityID, userID, models.MemberStatusPending).
		Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ban flips an active membership to banned and releases its seat in the
// member count.
func (s *MembershipService) Ban(actorID, communityID, userID int) error {
	if !s.gate.CanModerate(actorID, communityID) {
		return ErrForbidden
	}
	res := s.db.Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ? AND status = ?", communityID, userID, models.MemberStatusActive).
		Update("status", models.MemberStatusBanned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.bumpMemberCount(communityID, -1)
	return nil
}

func (s *MembershipService) bumpMemberCount(communityID, delta int) {
	s.db.Model(&models.Community{}).Where("id = ?", communityID).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", delta))
}

// CreateCommunity sets up a community with its creator as admin.
func (s *MembershipService) CreateCommunity(creatorID int, req models.CreateCommunityRequest) (*models.Community, error) {
	name := req.Name
	if name == "" {
		return nil, invalidf("community name is required")
	}
	privacy := req.Privacy
	if privacy == "" {
		privacy = models.CommunityPublic
	}
	if privacy != models.CommunityPublic && privacy != models.CommunityPrivate {
		return nil, invalidf("privacy must be public or private")
	}

	community := models.Community{
		Name:            name,
		Slug:            slugify(name),
		Description:     req.Description,
		Privacy:         privacy,
		RequireApproval: req.RequireApproval,
		CreatedBy:       creatorID,
		MemberCount:     1,
	}
	if err := s.db.Create(&community).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	admin := models.Membership{
		CommunityID: community.ID,
		UserID:      creatorID,
		Role:        models.MemberRoleAdmin,
		Status:      models.MemberStatusActive,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// Get loads a community by id, respecting visibility for the member
// listing but always returning the container itself for public ones.
func (s *MembershipService) Get(id int) (*models.Community, error) {
	var community models.Community
	if err := s.db.First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &community, nil
}
