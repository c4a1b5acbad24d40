// Package authz is the single authorization predicate consulted by the
// moderation and deletion paths, keyed on (actor, action, resource).
package authz

import "github.com/ideaboard/backend/internal/models"

type Action int

const (
	// ActionModerate is changing an idea's moderation status.
	ActionModerate Action = iota
	// ActionDeleteIdea is deleting an idea with its votes and comments.
	ActionDeleteIdea
	// ActionDeleteComment is deleting a single comment.
	ActionDeleteComment
	// ActionManage is admin-only user/category management.
	ActionManage
)

// Allowed reports whether actor may perform action on the resource.
// Administrators may do anything; authors may delete what they own.
func Allowed(actor models.User, action Action, resource any) bool {
	if actor.IsAdmin() {
		return true
	}
	switch action {
	case ActionDeleteIdea:
		if idea, ok := resource.(models.Idea); ok {
			return idea.AuthorID == actor.ID
		}
	case ActionDeleteComment:
		if comment, ok := resource.(models.Comment); ok {
			return comment.UserID == actor.ID
		}
	}
	return false
}
