package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/authz"
	"github.com/ideaboard/backend/internal/models"
)

// CommentStore owns comment records and the per-idea comment count. The
// count is never cached here: it is always recomputed from live rows, so it
// cannot drift after adds or deletes.
type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Add creates a comment on an idea and returns it with the commenting
// user's record attached.
func (s *CommentStore) Add(ctx context.Context, ideaID, userID int, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%w: comment content is empty", apperr.ErrValidation)
	}

	var idea models.Idea
	if err := s.db.WithContext(ctx).First(&idea, ideaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, ideaID)
		}
		return models.Comment{}, err
	}

	comment := models.Comment{
		Content: content,
		IdeaID:  idea.ID,
		UserID:  userID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return models.Comment{}, err
	}

	if err := s.db.WithContext(ctx).Preload("User").First(&comment, comment.ID).Error; err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// ListForIdea returns the idea's comments, newest first, with authors.
func (s *CommentStore) ListForIdea(ctx context.Context, ideaID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Preload("User").
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

// CountForIdea returns the number of live comment rows for the idea.
func (s *CommentStore) CountForIdea(ctx context.Context, ideaID int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("idea_id = ?", ideaID).
		Count(&count).Error
	return count, err
}

// CountsForIdeas returns comment counts for many ideas in one grouped query.
func (s *CommentStore) CountsForIdeas(ctx context.Context, ideaIDs []int) (map[int]int64, error) {
	counts := make(map[int]int64, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		IdeaID int
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("idea_id, count(*) as total").
		Where("idea_id IN ?", ideaIDs).
		Group("idea_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.IdeaID] = row.Total
	}
	return counts, nil
}

// Delete removes a single comment. No cascade: the parent idea's vote set
// is untouched. Permitted for the comment's author or an administrator.
func (s *CommentStore) Delete(ctx context.Context, commentID int, actor models.User) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", apperr.ErrNotFound, commentID)
		}
		return err
	}

	if !authz.Allowed(actor, authz.ActionDeleteComment, comment) {
		return fmt.Errorf("%w: not the comment author", apperr.ErrForbidden)
	}

	return s.db.WithContext(ctx).Delete(&comment).Error
}
