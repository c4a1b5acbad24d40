package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client performs the board's server round-trips.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// VoteResult is the payload of POST /api/vote.
type VoteResult struct {
	Voted  bool `json:"voted"`
	VoteID int  `json:"voteId"`
}

// Comment is the payload of POST /api/ideas/{id}/comments.
type Comment struct {
	ID        int                   `json:"id"`
	Content   string                `json:"content"`
	IdeaID    int                   `json:"idea_id"`
	User      struct{ Name string } `json:"user"`
	CreatedAt time.Time             `json:"created_at"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchIdeas loads the authoritative idea list.
func (c *Client) FetchIdeas(ctx context.Context) ([]Idea, error) {
	var ideas []Idea
	if err := c.do(ctx, http.MethodGet, "/api/ideas", nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// ToggleVote casts or retracts the caller's vote on an idea.
func (c *Client) ToggleVote(ctx context.Context, ideaID int) (VoteResult, error) {
	var result VoteResult
	err := c.do(ctx, http.MethodPost, "/api/vote", map[string]int{"ideaId": ideaID}, &result)
	return result, err
}

// SetStatus moves an idea to a new moderation status and returns the
// server's refreshed idea.
func (c *Client) SetStatus(ctx context.Context, ideaID int, status string) (*Idea, error) {
	var idea Idea
	path := fmt.Sprintf("/api/ideas/%d", ideaID)
	err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": status}, &idea)
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// DeleteIdea removes an idea with its votes and comments.
func (c *Client) DeleteIdea(ctx context.Context, ideaID int) error {
	path := fmt.Sprintf("/api/ideas/%d", ideaID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AddComment posts a comment on an idea.
func (c *Client) AddComment(ctx context.Context, ideaID int, content string) (*Comment, error) {
	var comment Comment
	path := fmt.Sprintf("/api/ideas/%d/comments", ideaID)
	err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
