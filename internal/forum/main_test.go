package forum

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emberle/threadboard-backend/internal/database"
	"github.com/emberle/threadboard-backend/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("threadboard_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("Failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Failed to get connection string: %v", err)
	}

	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	err := testDB.Exec(`TRUNCATE users, communities, memberships, content_items,
		comment_nodes, reaction_entries, follow_edges, content_follows,
		notifications, reviews, view_markers RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}
}

func seedUser(t *testing.T, username, visibility string) *models.User {
	t.Helper()
	user := models.User{
		Username:          username,
		Email:             username + "@example.com",
		Password:          "x",
		Role:              models.RoleUser,
		ProfileVisibility: visibility,
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return &user
}

func seedTopic(t *testing.T, authorID int, title string) *models.ContentItem {
	t.Helper()
	item := models.ContentItem{
		Title:    title,
		Body:     "body",
		Slug:     fmt.Sprintf("%s-%d-%d", slugify(title), authorID, time.Now().UnixNano()),
		AuthorID: authorID,
		Status:   models.StatusPublished,
	}
	if err := testDB.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed topic %q: %v", title, err)
	}
	return &item
}

func follow(t *testing.T, followerID, followingID int, notify bool) {
	t.Helper()
	edge := models.FollowEdge{FollowerID: followerID, FollowingID: followingID, Notify: notify}
	// Select forces notify into the insert; gorm would otherwise skip a
	// false value because the column declares a default.
	if err := testDB.Select("FollowerID", "FollowingID", "Notify", "CreatedAt").Create(&edge).Error; err != nil {
		t.Fatalf("Failed to seed follow edge: %v", err)
	}
}

// recordingPusher captures realtime pushes for assertions, optionally
// failing every push to prove delivery stays best-effort.
type recordingPusher struct {
	mu     sync.Mutex
	pushes []int
	fail   bool
}

func (p *recordingPusher) Push(userID int, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("push channel down")
	}
	p.pushes = append(p.pushes, userID)
	return nil
}

func notificationsFor(t *testing.T, userID int) []models.Notification {
	t.Helper()
	var rows []models.Notification
	if err := testDB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		t.Fatalf("Failed to load notifications: %v", err)
	}
	return rows
}
