package models

import "time"

// Idea moderation states. All three are mutually reachable; re-applying
// the current status is a no-op that still succeeds.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the three moderation states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Idea struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	AuthorID    int       `json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID  int       `json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Status      string    `gorm:"default:pending" json:"status"`
	Votes       []Vote    `gorm:"foreignKey:IdeaID" json:"votes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int    `json:"categoryId"`
}

// UpdateIdeaRequest carries the moderation PATCH payload. Status is the
// usual drag-and-drop change; title/description edits ride along when set.
type UpdateIdeaRequest struct {
	Status      string `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
