package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/authz"
	"github.com/ideaboard/backend/internal/models"
)

// IdeaStore owns the idea records, the moderation status state machine and
// the cascading delete that keeps votes and comments free of orphans.
type IdeaStore struct {
	db *gorm.DB
}

func NewIdeaStore(db *gorm.DB) *IdeaStore {
	return &IdeaStore{db: db}
}

// Create persists a new idea. Status always starts pending regardless of
// what the caller put in the struct.
func (s *IdeaStore) Create(ctx context.Context, idea models.Idea) (models.Idea, error) {
	idea.Status = models.StatusPending
	if err := s.db.WithContext(ctx).Create(&idea).Error; err != nil {
		return models.Idea{}, err
	}
	return s.Get(ctx, idea.ID)
}

// Get returns one idea with author, category and votes preloaded.
func (s *IdeaStore) Get(ctx context.Context, ideaID int) (models.Idea, error) {
	var idea models.Idea
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Votes").
		First(&idea, ideaID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Idea{}, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return models.Idea{}, err
	}
	return idea, nil
}

// List returns all ideas, newest first, with author, category and votes.
func (s *IdeaStore) List(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Votes").
		Order("created_at desc").
		Find(&ideas).Error
	return ideas, err
}

// SetStatus moves an idea to a new moderation status. All three states are
// mutually reachable and re-applying the current one succeeds as a no-op.
// Only administrators may call this; title and description edits ride along
// when the request carries them. Returns the refreshed idea.
func (s *IdeaStore) SetStatus(ctx context.Context, ideaID int, req models.UpdateIdeaRequest, actor models.User) (models.Idea, error) {
	if !authz.Allowed(actor, authz.ActionModerate, nil) {
		return models.Idea{}, fmt.Errorf("%w: administrator role required", apperr.ErrForbidden)
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return models.Idea{}, fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, req.Status)
	}

	var idea models.Idea
	if err := s.db.WithContext(ctx).First(&idea, ideaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Idea{}, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return models.Idea{}, err
	}

	if req.Status != "" {
		idea.Status = req.Status
	}
	if req.Title != "" {
		idea.Title = req.Title
	}
	if req.Description != "" {
		idea.Description = req.Description
	}

	if err := s.db.WithContext(ctx).Save(&idea).Error; err != nil {
		return models.Idea{}, err
	}
	return s.Get(ctx, idea.ID)
}

// DeleteCascade removes an idea together with all of its votes and
// comments as one atomic unit: votes first, then comments, then the idea
// itself, inside a single transaction. If any step fails the whole delete
// rolls back and no partial deletion is observable. Permitted for the
// idea's author or an administrator. Returns the deleted idea for audit
// logging.
func (s *IdeaStore) DeleteCascade(ctx context.Context, ideaID int, actor models.User) (models.Idea, error) {
	var idea models.Idea
	if err := s.db.WithContext(ctx).First(&idea, ideaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Idea{}, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return models.Idea{}, err
	}

	if !authz.Allowed(actor, authz.ActionDeleteIdea, idea) {
		return models.Idea{}, fmt.Errorf("%w: not the author of idea %d", apperr.ErrForbidden, ideaID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", ideaID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("idea_id = ?", ideaID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Idea{}, ideaID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Idea{}, err
		}
		return models.Idea{}, fmt.Errorf("%w: %v", apperr.ErrTransaction, err)
	}
	return idea, nil
}
