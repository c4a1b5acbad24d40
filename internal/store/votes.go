package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/models"
)

// VoteLedger owns the (user, idea) vote relation. Toggling is its only
// write operation.
type VoteLedger struct {
	db *gorm.DB
}

func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

// Toggle flips the caller's vote on an idea: delete the row if it exists,
// insert it otherwise. The whole check-and-flip runs in one transaction
// against the composite unique index on (user_id, idea_id), never as an
// independent read followed by an independent write. Two concurrent toggles
// from the same user therefore resolve to exactly one net change: the loser
// of the insert race hits the constraint, which means the toggle already
// happened, and is reported as voted without error.
func (l *VoteLedger) Toggle(ctx context.Context, ideaID, userID int) (voted bool, voteID int, err error) {
	var idea models.Idea
	if err := l.db.WithContext(ctx).First(&idea, ideaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return false, 0, err
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND idea_id = ?", userID, ideaID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			// Retracted.
			voted = false
			voteID = 0
			return nil
		}

		vote := models.Vote{UserID: userID, IdeaID: ideaID}
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "idea_id"}},
			DoNothing: true,
		}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		voted = true
		if res.RowsAffected == 0 {
			// Lost the insert race: the row exists, so the cast already
			// happened. Benign; report the surviving row.
			var existing models.Vote
			if err := tx.Where("user_id = ? AND idea_id = ?", userID, ideaID).
				First(&existing).Error; err != nil {
				return err
			}
			voteID = existing.ID
			return nil
		}
		voteID = vote.ID
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return voted, voteID, nil
}

// HasVoted reports whether the user currently has a vote row for the idea.
func (l *VoteLedger) HasVoted(ctx context.Context, ideaID, userID int) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Count(&count).Error
	return count > 0, err
}

// Count returns the number of votes on an idea.
func (l *VoteLedger) Count(ctx context.Context, ideaID int) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Vote{}).
		Where("idea_id = ?", ideaID).
		Count(&count).Error
	return count, err
}
