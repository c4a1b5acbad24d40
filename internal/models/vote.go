package models

import "time"

// Vote model - one row per (user, idea) pair. Row existence IS the voted
// state; there is no separate toggle flag. The composite unique index is
// what makes concurrent toggles safe.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_user_idea" json:"user_id"`
	IdeaID    int       `gorm:"not null;uniqueIndex:idx_user_idea" json:"idea_id"`
	CreatedAt time.Time `json:"created_at"`
}
