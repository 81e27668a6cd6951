package forum

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberle/threadboard-backend/internal/models"
)

func newCommentService() *CommentService {
	reactions := NewReactionService(testDB, nil, nil)
	return NewCommentService(testDB, EscapeSanitizer{}, nil, reactions, nil)
}

func TestCreateComment(t *testing.T) {
	resetDB(t)
	svc := newCommentService()

	author := seedUser(t, "author", models.VisibilityPublic)
	commenter := seedUser(t, "commenter", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Discussion topic")

	t.Run("top level", func(t *testing.T) {
		node, err := svc.Create(topic.ID, commenter.ID, "first!", nil)
		require.NoError(t, err)
		assert.Nil(t, node.ParentID)
		assert.Equal(t, topic.ID, node.ContentItemID)
	})

	t.Run("reply under parent", func(t *testing.T) {
		parent, err := svc.Create(topic.ID, author.ID, "a comment", nil)
		require.NoError(t, err)

		reply, err := svc.Create(topic.ID, commenter.ID, "a reply", &parent.ID)
		require.NoError(t, err)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, parent.ID, *reply.ParentID)
	})

	t.Run("parent from another content item is rejected", func(t *testing.T) {
		other := seedTopic(t, author.ID, "Another topic")
		foreign, err := svc.Create(other.ID, author.ID, "elsewhere", nil)
		require.NoError(t, err)

		_, err = svc.Create(topic.ID, commenter.ID, "misplaced", &foreign.ID)
		assert.True(t, IsValidation(err), "expected validation error, got %v", err)
	})

	t.Run("missing content item", func(t *testing.T) {
		_, err := svc.Create(99999, commenter.ID, "void", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("locked content rejects comments", func(t *testing.T) {
		locked := seedTopic(t, author.ID, "Locked topic")
		require.NoError(t, testDB.Model(locked).Update("locked", true).Error)

		_, err := svc.Create(locked.ID, commenter.ID, "too late", nil)
		assert.ErrorIs(t, err, ErrLocked)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.Create(topic.ID, commenter.ID, "   ", nil)
		assert.True(t, IsValidation(err))
	})
}

func TestReplyDepthCap(t *testing.T) {
	resetDB(t)
	svc := newCommentService()

	author := seedUser(t, "author", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Deep thread")

	top, err := svc.Create(topic.ID, author.ID, "depth 0", nil)
	require.NoError(t, err)

	parent := top
	for depth := 1; depth <= 3; depth++ {
		node, err := svc.Create(topic.ID, author.ID, fmt.Sprintf("depth %d", depth), &parent.ID)
		require.NoError(t, err, "depth %d should be allowed", depth)
		parent = node
	}

	_, err = svc.Create(topic.ID, author.ID, "depth 4", &parent.ID)
	assert.True(t, IsValidation(err), "depth 4 should be rejected, got %v", err)
}

func TestReplyPagination(t *testing.T) {
	resetDB(t)
	svc := newCommentService()

	author := seedUser(t, "author", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Paged thread")

	parent, err := svc.Create(topic.ID, author.ID, "parent", nil)
	require.NoError(t, err)

	const replies = 7
	for i := 0; i < replies; i++ {
		_, err := svc.Create(topic.ID, author.ID, fmt.Sprintf("reply %d", i), &parent.ID)
		require.NoError(t, err)
	}

	// Walk pages of 3 with offsets derived from what we already hold:
	// every reply exactly once, no overlaps, oldest first.
	seen := map[int]bool{}
	var order []int
	for skip := 0; ; {
		page, total, err := svc.ListReplies(0, parent.ID, Page{Skip: skip, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(replies), total)
		if len(page) == 0 {
			break
		}
		for _, view := range page {
			assert.False(t, seen[view.ID], "reply %d returned twice", view.ID)
			seen[view.ID] = true
			order = append(order, view.ID)
		}
		skip += len(page)
	}
	assert.Len(t, seen, replies)
	assert.IsIncreasing(t, order, "replies should come back oldest first")
}

func TestCommentVisibility(t *testing.T) {
	resetDB(t)
	gate := NewVisibilityGate(testDB)
	memberships := NewMembershipService(testDB, gate)
	svc := NewCommentService(testDB, EscapeSanitizer{}, gate, NewReactionService(testDB, gate, nil), nil)

	admin := seedUser(t, "admin", models.VisibilityPublic)
	outsider := seedUser(t, "outsider", models.VisibilityPublic)

	community, err := memberships.CreateCommunity(admin.ID, models.CreateCommunityRequest{
		Name:    "Inner circle",
		Privacy: models.CommunityPrivate,
	})
	require.NoError(t, err)

	topic := models.ContentItem{
		Title: "Members only", Slug: "members-only", AuthorID: admin.ID,
		CommunityID: &community.ID, Status: models.StatusPublished,
	}
	require.NoError(t, testDB.Create(&topic).Error)

	comment, err := svc.Create(topic.ID, admin.ID, "inside voice", nil)
	require.NoError(t, err)

	t.Run("outsider cannot read comments", func(t *testing.T) {
		_, _, err := svc.ListTopLevel(outsider.ID, topic.ID, Page{Limit: 10})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous cannot read replies", func(t *testing.T) {
		_, _, err := svc.ListReplies(0, comment.ID, Page{Limit: 10})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("outsider cannot write", func(t *testing.T) {
		_, err := svc.Create(topic.ID, outsider.ID, "sneaking in", nil)
		assert.ErrorIs(t, err, ErrForbidden)

		var n int64
		testDB.Model(&models.CommentNode{}).Where("content_item_id = ?", topic.ID).Count(&n)
		assert.Equal(t, int64(1), n, "no node was inserted")
	})

	t.Run("member reads and writes", func(t *testing.T) {
		views, total, err := svc.ListTopLevel(admin.ID, topic.ID, Page{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, views, 1)

		_, err = svc.Create(topic.ID, admin.ID, "still inside", nil)
		assert.NoError(t, err)
	})
}

func TestListTopLevelCounts(t *testing.T) {
	resetDB(t)
	reactions := NewReactionService(testDB, nil, nil)
	svc := NewCommentService(testDB, EscapeSanitizer{}, nil, reactions, nil)

	author := seedUser(t, "author", models.VisibilityPublic)
	voter := seedUser(t, "voter", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Counted thread")

	comment, err := svc.Create(topic.ID, author.ID, "top", nil)
	require.NoError(t, err)
	_, err = svc.Create(topic.ID, voter.ID, "child a", &comment.ID)
	require.NoError(t, err)
	_, err = svc.Create(topic.ID, voter.ID, "child b", &comment.ID)
	require.NoError(t, err)

	_, err = reactions.Set(voter.ID, ReactionTarget{CommentID: comment.ID}, models.ReactionLike)
	require.NoError(t, err)

	views, total, err := svc.ListTopLevel(0, topic.ID, Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].Likes)
	assert.Equal(t, int64(2), views[0].ReplyCount)

	// Replies never leak into the top-level listing.
	assert.Nil(t, views[0].ParentID)
}
