// Package store holds the persistence-backed core of the idea board: the
// vote ledger, the comment aggregator, the status transition engine and the
// cascading deletion coordinator. Handlers stay thin and call in here; every
// invariant (one vote per user and idea, no orphaned rows, role-gated
// transitions) is enforced at this layer via the database's own primitives.
package store

import "gorm.io/gorm"

type Stores struct {
	Votes    *VoteLedger
	Comments *CommentStore
	Ideas    *IdeaStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		Votes:    NewVoteLedger(db),
		Comments: NewCommentStore(db),
		Ideas:    NewIdeaStore(db),
	}
}
