// Package reconcile keeps a locally displayed idea list consistent with
// user actions before server round-trips complete. Mutations are applied
// speculatively through a typed action set; every application captures a
// pre-action snapshot so a failed round-trip can be rolled back without
// leaving the board contradicting the last known-good server data.
//
// The board is single-threaded from the caller's perspective: actions are
// applied and reconciled sequentially as responses arrive, so no locking
// is needed. Concurrent in-flight mutations are allowed to race; the last
// settled response overwrites state for the ideas it touched.
package reconcile

import "time"

// Author is the embedded idea author as served by the API.
type Author struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Category is the embedded idea category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Vote mirrors one vote row of an idea's votes array.
type Vote struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	IdeaID    int       `json:"idea_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Idea is the client-side view of one idea as served by GET /api/ideas.
type Idea struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Author      Author    `json:"author"`
	Category    Category  `json:"category"`
	Votes       []Vote    `json:"votes"`
	Comments    int64     `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Voted reports whether userID has a vote on the idea.
func (i Idea) Voted(userID int) bool {
	for _, v := range i.Votes {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// Action is one speculative board mutation.
type Action interface {
	reduce(ideas []Idea) []Idea
	// ideaID names the idea the action touches, for single-item reverts
	// and server-payload replacement.
	ideaID() int
}

// VoteToggled flips userID's vote on an idea: the vote row is removed if
// present, otherwise added with a placeholder id until the server's
// payload arrives.
type VoteToggled struct {
	IdeaID int
	UserID int
}

func (a VoteToggled) ideaID() int { return a.IdeaID }

func (a VoteToggled) reduce(ideas []Idea) []Idea {
	for idx, idea := range ideas {
		if idea.ID != a.IdeaID {
			continue
		}
		if idea.Voted(a.UserID) {
			kept := make([]Vote, 0, len(idea.Votes))
			for _, v := range idea.Votes {
				if v.UserID != a.UserID {
					kept = append(kept, v)
				}
			}
			idea.Votes = kept
		} else {
			idea.Votes = append(cloneVotes(idea.Votes), Vote{
				ID:        -int(time.Now().UnixMilli()), // placeholder
				UserID:    a.UserID,
				IdeaID:    a.IdeaID,
				CreatedAt: time.Now(),
			})
		}
		ideas[idx] = idea
	}
	return ideas
}

// StatusChanged moves an idea to another Kanban column.
type StatusChanged struct {
	IdeaID int
	Status string
}

func (a StatusChanged) ideaID() int { return a.IdeaID }

func (a StatusChanged) reduce(ideas []Idea) []Idea {
	for idx := range ideas {
		if ideas[idx].ID == a.IdeaID {
			ideas[idx].Status = a.Status
		}
	}
	return ideas
}

// IdeaDeleted removes an idea from the list.
type IdeaDeleted struct {
	IdeaID int
}

func (a IdeaDeleted) ideaID() int { return a.IdeaID }

func (a IdeaDeleted) reduce(ideas []Idea) []Idea {
	kept := make([]Idea, 0, len(ideas))
	for _, idea := range ideas {
		if idea.ID != a.IdeaID {
			kept = append(kept, idea)
		}
	}
	return kept
}

// CommentAdded bumps an idea's displayed comment count.
type CommentAdded struct {
	IdeaID int
}

func (a CommentAdded) ideaID() int { return a.IdeaID }

func (a CommentAdded) reduce(ideas []Idea) []Idea {
	for idx := range ideas {
		if ideas[idx].ID == a.IdeaID {
			ideas[idx].Comments++
		}
	}
	return ideas
}

// Board holds the in-memory idea list, keyed by idea identity.
type Board struct {
	ideas []Idea
}

func NewBoard(ideas []Idea) *Board {
	return &Board{ideas: cloneIdeas(ideas)}
}

// Ideas returns a copy of the current list.
func (b *Board) Ideas() []Idea {
	return cloneIdeas(b.ideas)
}

// Replace swaps in an authoritative server list wholesale.
func (b *Board) Replace(ideas []Idea) {
	b.ideas = cloneIdeas(ideas)
}

// Apply mutates the list speculatively and returns the Pending handle
// holding the pre-action snapshot.
func (b *Board) Apply(action Action) *Pending {
	snapshot := cloneIdeas(b.ideas)
	b.ideas = action.reduce(cloneIdeas(b.ideas))
	return &Pending{board: b, action: action, snapshot: snapshot}
}

// Pending is an applied-but-unconfirmed mutation.
type Pending struct {
	board    *Board
	action   Action
	snapshot []Idea
}

// Confirm settles the mutation. When the server returned an authoritative
// idea payload it replaces the local item wholesale; fields are never
// merged. A nil payload keeps the locally computed result.
func (p *Pending) Confirm(server *Idea) {
	if server == nil {
		return
	}
	for idx := range p.board.ideas {
		if p.board.ideas[idx].ID == server.ID {
			p.board.ideas[idx] = *server
			return
		}
	}
}

// Rollback restores the pre-action state. A failed status drag reverts
// only the moved card; every other action restores the full-list
// snapshot.
func (p *Pending) Rollback() {
	if _, ok := p.action.(StatusChanged); ok {
		for _, prev := range p.snapshot {
			if prev.ID != p.action.ideaID() {
				continue
			}
			for idx := range p.board.ideas {
				if p.board.ideas[idx].ID == prev.ID {
					p.board.ideas[idx] = prev
				}
			}
			return
		}
		return
	}
	p.board.ideas = p.snapshot
}

func cloneIdeas(ideas []Idea) []Idea {
	out := make([]Idea, len(ideas))
	for idx, idea := range ideas {
		idea.Votes = cloneVotes(idea.Votes)
		out[idx] = idea
	}
	return out
}

func cloneVotes(votes []Vote) []Vote {
	out := make([]Vote, len(votes))
	copy(out, votes)
	return out
}
