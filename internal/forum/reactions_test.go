package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberle/threadboard-backend/internal/models"
)

func topicTarget(id int) ReactionTarget {
	return ReactionTarget{TopicID: id}
}

func TestReactionToggle(t *testing.T) {
	resetDB(t)
	svc := NewReactionService(testDB, nil, nil)

	author := seedUser(t, "author", models.VisibilityPublic)
	voter := seedUser(t, "voter", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "First topic")
	target := topicTarget(topic.ID)

	t.Run("like then like again returns to none", func(t *testing.T) {
		counts, err := svc.Set(voter.ID, target, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Likes)

		counts, err = svc.Set(voter.ID, target, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, int64(0), counts.Likes)

		state, err := svc.State(voter.ID, target)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionNone, state)
	})

	t.Run("dislike replaces like", func(t *testing.T) {
		_, err := svc.Set(voter.ID, target, models.ReactionLike)
		require.NoError(t, err)

		counts, err := svc.Set(voter.ID, target, models.ReactionDislike)
		require.NoError(t, err)
		assert.Equal(t, int64(0), counts.Likes)
		assert.Equal(t, int64(1), counts.Dislikes)

		state, err := svc.State(voter.ID, target)
		require.NoError(t, err)
		assert.Equal(t, models.ReactionDislike, state)
	})

	t.Run("at most one row per user and target", func(t *testing.T) {
		// Whatever sequence ran before, the ledger must hold at most
		// one entry for this (user, target).
		var n int64
		testDB.Model(&models.ReactionEntry{}).
			Where("user_id = ? AND target_kind = ? AND target_id = ?", voter.ID, models.TargetTopic, topic.ID).
			Count(&n)
		assert.LessOrEqual(t, n, int64(1))
	})
}

func TestReactionExclusivityUnderSequences(t *testing.T) {
	resetDB(t)
	svc := NewReactionService(testDB, nil, nil)

	author := seedUser(t, "author", models.VisibilityPublic)
	voter := seedUser(t, "voter", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Sequenced topic")
	target := topicTarget(topic.ID)

	sequence := []string{
		models.ReactionLike, models.ReactionDislike, models.ReactionDislike,
		models.ReactionLike, models.ReactionLike, models.ReactionDislike,
	}
	for _, value := range sequence {
		_, err := svc.Set(voter.ID, target, value)
		require.NoError(t, err)

		counts, err := svc.Counts(target)
		require.NoError(t, err)
		assert.LessOrEqual(t, counts.Likes+counts.Dislikes, int64(1))
	}
}

func TestReactionTargetValidation(t *testing.T) {
	resetDB(t)
	svc := NewReactionService(testDB, nil, nil)
	voter := seedUser(t, "voter", models.VisibilityPublic)

	t.Run("zero targets", func(t *testing.T) {
		_, err := svc.Set(voter.ID, ReactionTarget{}, models.ReactionLike)
		assert.True(t, IsValidation(err))
	})

	t.Run("multiple targets", func(t *testing.T) {
		_, err := svc.Set(voter.ID, ReactionTarget{TopicID: 1, CommentID: 2}, models.ReactionLike)
		assert.True(t, IsValidation(err))
	})

	t.Run("bad value", func(t *testing.T) {
		_, err := svc.Set(voter.ID, ReactionTarget{TopicID: 1}, "meh")
		assert.True(t, IsValidation(err))
	})

	t.Run("missing target row", func(t *testing.T) {
		_, err := svc.Set(voter.ID, ReactionTarget{TopicID: 9999}, models.ReactionLike)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReactionVisibility(t *testing.T) {
	resetDB(t)
	gate := NewVisibilityGate(testDB)
	memberships := NewMembershipService(testDB, gate)
	svc := NewReactionService(testDB, gate, nil)

	admin := seedUser(t, "admin", models.VisibilityPublic)
	outsider := seedUser(t, "outsider", models.VisibilityPublic)

	community, err := memberships.CreateCommunity(admin.ID, models.CreateCommunityRequest{
		Name:    "Hidden club",
		Privacy: models.CommunityPrivate,
	})
	require.NoError(t, err)

	topic := models.ContentItem{
		Title: "Club business", Slug: "club-business", AuthorID: admin.ID,
		CommunityID: &community.ID, Status: models.StatusPublished,
	}
	require.NoError(t, testDB.Create(&topic).Error)
	comment := models.CommentNode{ContentItemID: topic.ID, AuthorID: admin.ID, Body: "agenda"}
	require.NoError(t, testDB.Create(&comment).Error)

	t.Run("outsider cannot react to the topic", func(t *testing.T) {
		_, err := svc.Set(outsider.ID, ReactionTarget{GroupTopicID: topic.ID}, models.ReactionLike)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("outsider cannot react to a comment inside", func(t *testing.T) {
		_, err := svc.Set(outsider.ID, ReactionTarget{GroupCommentID: comment.ID}, models.ReactionLike)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("outsider cannot read reaction state", func(t *testing.T) {
		_, err := svc.State(outsider.ID, ReactionTarget{GroupTopicID: topic.ID})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("member reacts normally", func(t *testing.T) {
		counts, err := svc.Set(admin.ID, ReactionTarget{GroupTopicID: topic.ID}, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts.Likes)
	})
}

func TestReactionOnReview(t *testing.T) {
	resetDB(t)
	svc := NewReactionService(testDB, nil, nil)

	author := seedUser(t, "author", models.VisibilityPublic)
	voter := seedUser(t, "voter", models.VisibilityPublic)

	review := models.Review{AuthorID: author.ID, Title: "A review", Body: "ok", Score: 7}
	require.NoError(t, testDB.Create(&review).Error)

	counts, err := svc.Set(voter.ID, ReactionTarget{ReviewID: review.ID}, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Likes)

	// Review likes never notify anyone.
	assert.Empty(t, notificationsFor(t, author.ID))
}
