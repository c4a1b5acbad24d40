package reconcile

import "context"

// Reconciler drives the board: it applies each mutation optimistically,
// performs the server round-trip, and either settles with the server's
// authoritative payload or rolls the board back to its pre-action snapshot
// and returns the failure to the caller.
type Reconciler struct {
	board  *Board
	client *Client
	userID int
}

func NewReconciler(client *Client, userID int) *Reconciler {
	return &Reconciler{
		board:  NewBoard(nil),
		client: client,
		userID: userID,
	}
}

// Ideas returns the currently displayed list.
func (r *Reconciler) Ideas() []Idea {
	return r.board.Ideas()
}

// Refresh replaces local state wholesale with the server's list.
func (r *Reconciler) Refresh(ctx context.Context) error {
	ideas, err := r.client.FetchIdeas(ctx)
	if err != nil {
		return err
	}
	r.board.Replace(ideas)
	return nil
}

// ToggleVote flips the user's vote locally, then confirms with the server.
// The locally computed vote set is trusted on success; the next Refresh
// replaces placeholder vote ids with authoritative rows.
func (r *Reconciler) ToggleVote(ctx context.Context, ideaID int) error {
	pending := r.board.Apply(VoteToggled{IdeaID: ideaID, UserID: r.userID})
	if _, err := r.client.ToggleVote(ctx, ideaID); err != nil {
		pending.Rollback()
		return err
	}
	pending.Confirm(nil)
	return nil
}

// SetStatus moves an idea between columns before the server confirms the
// drag. On success the server's refreshed idea replaces the local one
// wholesale; on failure only the moved card reverts to its prior column.
func (r *Reconciler) SetStatus(ctx context.Context, ideaID int, status string) error {
	pending := r.board.Apply(StatusChanged{IdeaID: ideaID, Status: status})
	idea, err := r.client.SetStatus(ctx, ideaID, status)
	if err != nil {
		pending.Rollback()
		return err
	}
	pending.Confirm(idea)
	return nil
}

// DeleteIdea removes the idea locally and asks the server to cascade.
func (r *Reconciler) DeleteIdea(ctx context.Context, ideaID int) error {
	pending := r.board.Apply(IdeaDeleted{IdeaID: ideaID})
	if err := r.client.DeleteIdea(ctx, ideaID); err != nil {
		pending.Rollback()
		return err
	}
	pending.Confirm(nil)
	return nil
}

// AddComment bumps the idea's comment count locally and posts the comment.
func (r *Reconciler) AddComment(ctx context.Context, ideaID int, content string) (*Comment, error) {
	pending := r.board.Apply(CommentAdded{IdeaID: ideaID})
	comment, err := r.client.AddComment(ctx, ideaID, content)
	if err != nil {
		pending.Rollback()
		return nil, err
	}
	pending.Confirm(nil)
	return comment, nil
}
