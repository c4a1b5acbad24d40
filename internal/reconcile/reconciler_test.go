package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestBackend serves a scriptable subset of the API. The ideas handler
// always returns the given list; mutation routes are installed per test.
func newTestBackend(t *testing.T, ideas []Idea, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ideas", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ideas); err != nil {
			t.Errorf("failed to encode ideas: %v", err)
		}
	})
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func jsonReply(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("failed to encode reply: %v", err)
	}
}

func newTestReconciler(t *testing.T, server *httptest.Server, userID int) *Reconciler {
	t.Helper()
	r := NewReconciler(NewClient(server.URL, "test-token"), userID)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return r
}

func TestReconcilerToggleVoteSuccess(t *testing.T) {
	server := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"POST /api/vote": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusOK, map[string]any{"voted": true, "voteId": 777})
		},
	})
	rec := newTestReconciler(t, server, 30)

	if err := rec.ToggleVote(context.Background(), 1); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	idea := findIdea(t, rec.Ideas(), 1)
	if !idea.Voted(30) {
		t.Fatal("board should show user 30's vote after the confirmed toggle")
	}
}

func TestReconcilerToggleVoteFailureRollsBack(t *testing.T) {
	server := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"POST /api/vote": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusNotFound, map[string]any{"error": "idea not found"})
		},
	})
	rec := newTestReconciler(t, server, 30)

	err := rec.ToggleVote(context.Background(), 1)
	if err == nil {
		t.Fatal("toggle should surface the server failure")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %v, want APIError with status 404", err)
	}

	idea := findIdea(t, rec.Ideas(), 1)
	if idea.Voted(30) {
		t.Fatal("failed toggle must roll the vote back")
	}
	if len(idea.Votes) != 1 {
		t.Fatalf("vote rows after rollback = %d, want the original 1", len(idea.Votes))
	}
}

func TestReconcilerSetStatusConfirmsWithServerPayload(t *testing.T) {
	server := findIdea(t, testIdeas(), 1)
	server.Status = "approved"
	server.Title = "Dark mode (edited)"
	backend := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"PATCH /api/ideas/1": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusOK, server)
		},
	})
	rec := newTestReconciler(t, backend, 30)

	if err := rec.SetStatus(context.Background(), 1, "approved"); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	got := findIdea(t, rec.Ideas(), 1)
	if got.Status != "approved" {
		t.Fatalf("status = %q, want approved", got.Status)
	}
	// The server payload wins wholesale, edits and all.
	if got.Title != server.Title {
		t.Fatalf("title = %q, want the server's %q", got.Title, server.Title)
	}
}

func TestReconcilerSetStatusFailureRevertsCard(t *testing.T) {
	backend := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"PATCH /api/ideas/1": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusForbidden, map[string]any{"error": "administrator role required"})
		},
	})
	rec := newTestReconciler(t, backend, 30)

	err := rec.SetStatus(context.Background(), 1, "approved")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("error = %v, want APIError with status 403", err)
	}
	if got := findIdea(t, rec.Ideas(), 1).Status; got != "pending" {
		t.Fatalf("status after revert = %q, want pending", got)
	}
}

func TestReconcilerDeleteIdea(t *testing.T) {
	backend := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"DELETE /api/ideas/1": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusOK, map[string]any{"message": "Idea and associated votes deleted successfully"})
		},
		"DELETE /api/ideas/2": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusForbidden, map[string]any{"error": "not the author"})
		},
	})
	rec := newTestReconciler(t, backend, 30)

	if err := rec.DeleteIdea(context.Background(), 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(rec.Ideas()) != 1 {
		t.Fatalf("list after delete = %d ideas, want 1", len(rec.Ideas()))
	}

	if err := rec.DeleteIdea(context.Background(), 2); err == nil {
		t.Fatal("forbidden delete should surface the failure")
	}
	// The rejected delete reappears on the board.
	if len(rec.Ideas()) != 1 {
		t.Fatalf("list after failed delete = %d ideas, want 1", len(rec.Ideas()))
	}
	findIdea(t, rec.Ideas(), 2)
}

func TestReconcilerAddComment(t *testing.T) {
	backend := newTestBackend(t, testIdeas(), map[string]http.HandlerFunc{
		"POST /api/ideas/1/comments": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusCreated, map[string]any{
				"id": 5, "content": "nice", "idea_id": 1,
				"user": map[string]string{"name": "carol"},
			})
		},
		"POST /api/ideas/2/comments": func(w http.ResponseWriter, r *http.Request) {
			jsonReply(t, w, http.StatusBadRequest, map[string]any{"error": "comment content is required"})
		},
	})
	rec := newTestReconciler(t, backend, 30)

	comment, err := rec.AddComment(context.Background(), 1, "nice")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if comment.User.Name != "carol" {
		t.Fatalf("comment author = %q, want carol", comment.User.Name)
	}
	if got := findIdea(t, rec.Ideas(), 1).Comments; got != 3 {
		t.Fatalf("comment count = %d, want 3", got)
	}

	if _, err := rec.AddComment(context.Background(), 2, "  "); err == nil {
		t.Fatal("rejected comment should surface the failure")
	}
	if got := findIdea(t, rec.Ideas(), 2).Comments; got != 0 {
		t.Fatalf("comment count after rollback = %d, want 0", got)
	}
}
