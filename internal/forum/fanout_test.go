package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberle/threadboard-backend/internal/models"
)

func TestContentPublishedFanout(t *testing.T) {
	resetDB(t)

	t.Run("public author reaches all opted-in followers", func(t *testing.T) {
		resetDB(t)
		author := seedUser(t, "author", models.VisibilityPublic)
		b := seedUser(t, "b", models.VisibilityPublic)
		c := seedUser(t, "c", models.VisibilityPublic)
		muted := seedUser(t, "muted", models.VisibilityPublic)
		follow(t, b.ID, author.ID, true)
		follow(t, c.ID, author.ID, true)
		follow(t, muted.ID, author.ID, false)

		notifier := NewNotifier(testDB, nil)
		topic := seedTopic(t, author.ID, "Hello world")
		notifier.ContentPublished(author, topic)

		assert.Len(t, notificationsFor(t, b.ID), 1)
		assert.Len(t, notificationsFor(t, c.ID), 1)
		assert.Empty(t, notificationsFor(t, muted.ID), "notify=false follower must not be notified")
		assert.Empty(t, notificationsFor(t, author.ID), "self is always excluded")
	})

	t.Run("friends-only author reaches mutual followers only", func(t *testing.T) {
		resetDB(t)
		author := seedUser(t, "author", models.VisibilityFriends)
		b := seedUser(t, "b", models.VisibilityPublic)
		c := seedUser(t, "c", models.VisibilityPublic)
		d := seedUser(t, "d", models.VisibilityPublic)
		// B, C, D follow the author; only B and C are followed back.
		follow(t, b.ID, author.ID, true)
		follow(t, c.ID, author.ID, true)
		follow(t, d.ID, author.ID, true)
		follow(t, author.ID, b.ID, true)
		follow(t, author.ID, c.ID, true)

		notifier := NewNotifier(testDB, nil)
		topic := seedTopic(t, author.ID, "Friends only")
		notifier.ContentPublished(author, topic)

		assert.Len(t, notificationsFor(t, b.ID), 1)
		assert.Len(t, notificationsFor(t, c.ID), 1)
		assert.Empty(t, notificationsFor(t, d.ID), "non-mutual follower must be excluded")
	})
}

func TestReactionFanout(t *testing.T) {
	resetDB(t)

	author := seedUser(t, "author", models.VisibilityPublic)
	voter := seedUser(t, "voter", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Likeable")

	notifier := NewNotifier(testDB, nil)
	svc := NewReactionService(testDB, nil, notifier)

	t.Run("topic like notifies the owner", func(t *testing.T) {
		_, err := svc.Set(voter.ID, topicTarget(topic.ID), models.ReactionLike)
		require.NoError(t, err)

		rows := notificationsFor(t, author.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, models.NotificationContentLike, rows[0].Kind)
	})

	t.Run("dislike never notifies", func(t *testing.T) {
		other := seedTopic(t, author.ID, "Dislikeable")
		_, err := svc.Set(voter.ID, topicTarget(other.ID), models.ReactionDislike)
		require.NoError(t, err)

		assert.Len(t, notificationsFor(t, author.ID), 1, "no new row for a dislike")
	})

	t.Run("comment like never notifies", func(t *testing.T) {
		comments := NewCommentService(testDB, EscapeSanitizer{}, nil, svc, nil)
		comment, err := comments.Create(topic.ID, author.ID, "a comment", nil)
		require.NoError(t, err)

		_, err = svc.Set(voter.ID, ReactionTarget{CommentID: comment.ID}, models.ReactionLike)
		require.NoError(t, err)

		assert.Len(t, notificationsFor(t, author.ID), 1, "no new row for a comment like")
	})

	t.Run("self like never notifies", func(t *testing.T) {
		mine := seedTopic(t, author.ID, "My own")
		_, err := svc.Set(author.ID, topicTarget(mine.ID), models.ReactionLike)
		require.NoError(t, err)

		assert.Len(t, notificationsFor(t, author.ID), 1)
	})
}

func TestCommentFanout(t *testing.T) {
	resetDB(t)

	author := seedUser(t, "author", models.VisibilityPublic)
	commenter := seedUser(t, "commenter", models.VisibilityPublic)
	replier := seedUser(t, "replier", models.VisibilityPublic)
	topic := seedTopic(t, author.ID, "Thread")

	notifier := NewNotifier(testDB, nil)
	reactions := NewReactionService(testDB, nil, nil)
	svc := NewCommentService(testDB, EscapeSanitizer{}, nil, reactions, notifier)

	comment, err := svc.Create(topic.ID, commenter.ID, "top comment", nil)
	require.NoError(t, err)

	rows := notificationsFor(t, author.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationComment, rows[0].Kind)

	_, err = svc.Create(topic.ID, replier.ID, "a reply", &comment.ID)
	require.NoError(t, err)

	rows = notificationsFor(t, commenter.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationReply, rows[0].Kind)

	// The content owner is not additionally notified about replies.
	assert.Len(t, notificationsFor(t, author.ID), 1)

	// Self-replies stay silent.
	_, err = svc.Create(topic.ID, commenter.ID, "replying to myself", &comment.ID)
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, commenter.ID), 1)
}

func TestFollowFanout(t *testing.T) {
	resetDB(t)

	a := seedUser(t, "a", models.VisibilityPublic)
	b := seedUser(t, "b", models.VisibilityPublic)

	notifier := NewNotifier(testDB, nil)
	svc := NewFollowService(testDB, notifier)

	t.Run("follow notifies the target", func(t *testing.T) {
		following, err := svc.ToggleFollowUser(a.ID, b.ID)
		require.NoError(t, err)
		assert.True(t, following)

		rows := notificationsFor(t, b.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, models.NotificationFollow, rows[0].Kind)
	})

	t.Run("completing a mutual pair adds a friendship notice", func(t *testing.T) {
		following, err := svc.ToggleFollowUser(b.ID, a.ID)
		require.NoError(t, err)
		assert.True(t, following)

		rows := notificationsFor(t, a.ID)
		require.Len(t, rows, 2)
		kinds := []models.NotificationKind{rows[0].Kind, rows[1].Kind}
		assert.Contains(t, kinds, models.NotificationFollow)
		assert.Contains(t, kinds, models.NotificationFriendship)
	})
}

func TestPushFailureNeverSurfaces(t *testing.T) {
	resetDB(t)

	author := seedUser(t, "author", models.VisibilityPublic)
	fan := seedUser(t, "fan", models.VisibilityPublic)
	follow(t, fan.ID, author.ID, true)

	pusher := &recordingPusher{fail: true}
	notifier := NewNotifier(testDB, pusher)

	topic := seedTopic(t, author.ID, "Resilient")
	notifier.ContentPublished(author, topic)

	// The durable row exists even though every push failed.
	assert.Len(t, notificationsFor(t, fan.ID), 1)
}

func TestPushHappensAfterDurableRow(t *testing.T) {
	resetDB(t)

	author := seedUser(t, "author", models.VisibilityPublic)
	fan := seedUser(t, "fan", models.VisibilityPublic)
	follow(t, fan.ID, author.ID, true)

	pusher := &recordingPusher{}
	notifier := NewNotifier(testDB, pusher)

	topic := seedTopic(t, author.ID, "Ordered")
	notifier.ContentPublished(author, topic)

	require.Equal(t, []int{fan.ID}, pusher.pushes)
	assert.Len(t, notificationsFor(t, fan.ID), 1)
}
