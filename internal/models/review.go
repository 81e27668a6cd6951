package models

import "time"

// Review is a standalone authored piece, likeable through the reaction
// ledger like topics and comments. Review likes never trigger fanout.
type Review struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	AuthorID  int       `gorm:"index" json:"author_id"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"` // sanitized HTML
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Score int    `json:"score"`
}
