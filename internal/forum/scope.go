package forum

import (
	"html"
	"strings"

	"github.com/emberle/threadboard-backend/internal/models"
)

// Scope describes which reaction target kinds a content item and its
// comments use. The same engine serves the public forum and community
// containers; only the descriptor differs.
type Scope struct {
	ContentKind models.TargetKind
	CommentKind models.TargetKind
}

var (
	ForumScope = Scope{ContentKind: models.TargetTopic, CommentKind: models.TargetComment}
	GroupScope = Scope{ContentKind: models.TargetGroupTopic, CommentKind: models.TargetGroupComment}
)

// ScopeFor resolves the descriptor for a content item's container.
func ScopeFor(communityID *int) Scope {
	if communityID != nil {
		return GroupScope
	}
	return ForumScope
}

// Page is offset/limit pagination. A positive limit is clamped to at
// most 25; zero or negative means "unset" and takes the full page of
// 25 rather than erroring.
type Page struct {
	Skip  int
	Limit int
}

const maxPageLimit = 25

func (p Page) Clamp() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 1 {
		p.Limit = maxPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Sanitizer turns raw user input into HTML that is safe to persist.
// The rich-text pipeline lives outside the engine; EscapeSanitizer is
// the fallback used when no pipeline is wired in.
type Sanitizer interface {
	Sanitize(raw string) string
}

type EscapeSanitizer struct{}

func (EscapeSanitizer) Sanitize(raw string) string {
	return html.EscapeString(strings.TrimSpace(raw))
}
