package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/models"
)

func TestAddCommentAttachesAuthor(t *testing.T) {
	db := setupTestDB(t)
	comments := NewCommentStore(db)
	user := seedUser(t, db, "alice", models.RoleUser)
	idea := seedIdea(t, db, user)

	comment, err := comments.Add(context.Background(), idea.ID, user.ID, "  great idea  ")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if comment.Content != "great idea" {
		t.Fatalf("content = %q, want trimmed %q", comment.Content, "great idea")
	}
	if comment.User.Name != "alice" {
		t.Fatalf("comment author name = %q, want %q", comment.User.Name, "alice")
	}
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	db := setupTestDB(t)
	comments := NewCommentStore(db)
	user := seedUser(t, db, "alice", models.RoleUser)
	idea := seedIdea(t, db, user)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := comments.Add(context.Background(), idea.ID, user.ID, content)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("add(%q) = %v, want ErrValidation", content, err)
		}
	}
	if got := commentCount(t, db, idea.ID); got != 0 {
		t.Fatalf("comment count = %d, want 0", got)
	}
}

func TestAddCommentMissingIdea(t *testing.T) {
	db := setupTestDB(t)
	comments := NewCommentStore(db)
	user := seedUser(t, db, "alice", models.RoleUser)

	_, err := comments.Add(context.Background(), 9999, user.ID, "hello")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("add on missing idea = %v, want ErrNotFound", err)
	}
}

// The served count always equals the number of live comment rows: N adds
// give N, deleting one gives N-1.
func TestCommentCountInvariant(t *testing.T) {
	db := setupTestDB(t)
	comments := NewCommentStore(db)
	user := seedUser(t, db, "alice", models.RoleUser)
	idea := seedIdea(t, db, user)
	ctx := context.Background()

	const n = 5
	var last models.Comment
	for i := 0; i < n; i++ {
		comment, err := comments.Add(ctx, idea.ID, user.ID, fmt.Sprintf("comment %d", i))
		if err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
		last = comment

		count, err := comments.CountForIdea(ctx, idea.ID)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != int64(i+1) {
			t.Fatalf("count after %d adds = %d, want %d", i+1, count, i+1)
		}
	}

	if err := comments.Delete(ctx, last.ID, user); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	count, err := comments.CountForIdea(ctx, idea.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != n-1 {
		t.Fatalf("count after delete = %d, want %d", count, n-1)
	}
}

func TestDeleteCommentLeavesVotesAlone(t *testing.T) {
	db := setupTestDB(t)
	stores := New(db)
	user := seedUser(t, db, "alice", models.RoleUser)
	idea := seedIdea(t, db, user)
	ctx := context.Background()

	if _, _, err := stores.Votes.Toggle(ctx, idea.ID, user.ID); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	comment, err := stores.Comments.Add(ctx, idea.ID, user.ID, "hello")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := stores.Comments.Delete(ctx, comment.ID, user); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got := voteCount(t, db, idea.ID); got != 1 {
		t.Fatalf("vote count after comment delete = %d, want 1", got)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	db := setupTestDB(t)
	comments := NewCommentStore(db)
	author := seedUser(t, db, "alice", models.RoleUser)
	stranger := seedUser(t, db, "bob", models.RoleUser)
	admin := seedUser(t, db, "carol", models.RoleAdmin)
	idea := seedIdea(t, db, author)
	ctx := context.Background()

	comment, err := comments.Add(ctx, idea.ID, author.ID, "hello")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := comments.Delete(ctx, comment.ID, stranger); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("stranger delete = %v, want ErrForbidden", err)
	}
	if got := commentCount(t, db, idea.ID); got != 1 {
		t.Fatalf("comment count after denied delete = %d, want 1", got)
	}

	if err := comments.Delete(ctx, comment.ID, admin); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	if err := comments.Delete(ctx, comment.ID, admin); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("delete of missing comment = %v, want ErrNotFound", err)
	}
}
