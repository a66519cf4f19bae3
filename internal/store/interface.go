package store

import (
	"context"

	"github.com/mauv0809/matchpoint/internal/comments"
)

// ResultStore persists matches, their results and comment threads.
type ResultStore interface {
	UpsertMatch(ctx context.Context, m Match) error
	GetMatch(ctx context.Context, id string) (Match, error)
	ListMatches(ctx context.Context) ([]Match, error)

	// GetResult returns ErrNotFound when nothing has been submitted.
	GetResult(ctx context.Context, matchID string) (*Record, error)
	SaveResult(ctx context.Context, rec Record) error
	SetResultStatus(ctx context.Context, matchID string, status Status, reviewerID, reason string) error

	ListComments(ctx context.Context, matchID string) ([]comments.Entry, error)
	InsertComment(ctx context.Context, matchID, authorID, text string) (comments.Entry, error)
	UpdateComment(ctx context.Context, matchID, id, authorID, text string) (comments.Entry, error)
	DeleteComment(ctx context.Context, matchID, id, authorID string) error

	Clear(ctx context.Context) error
}
