package store

import (
	"context"
	"fmt"

	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/result"
)

// ResultBackend stores the actions one actor takes on one match.
type ResultBackend struct {
	store ResultStore
	match Match
	actor string
}

var _ result.Backend = (*ResultBackend)(nil)

// NewResultBackend binds the store to a match and actor.
func NewResultBackend(s ResultStore, m Match, actorID string) *ResultBackend {
	return &ResultBackend{store: s, match: m, actor: actorID}
}

func (b *ResultBackend) SubmitResult(ctx context.Context, payload result.Payload) error {
	return b.store.SaveResult(ctx, Record{
		MatchID:       b.match.ID,
		Kind:          payload.Kind(),
		SubmittedBy:   b.actor,
		SubmittedSide: sideOf(b.match, b.actor),
		Payload:       payload,
	})
}

func (b *ResultBackend) ConfirmResult(ctx context.Context) error {
	if err := b.checkReviewer(ctx); err != nil {
		return err
	}
	return b.store.SetResultStatus(ctx, b.match.ID, StatusConfirmed, b.actor, "")
}

func (b *ResultBackend) DisputeResult(ctx context.Context, reason string) error {
	if err := b.checkReviewer(ctx); err != nil {
		return err
	}
	return b.store.SetResultStatus(ctx, b.match.ID, StatusDisputed, b.actor, reason)
}

// checkReviewer enforces that only the side that did not submit can review.
func (b *ResultBackend) checkReviewer(ctx context.Context) error {
	rec, err := b.store.GetResult(ctx, b.match.ID)
	if err != nil {
		return err
	}
	side := sideOf(b.match, b.actor)
	if side == "" || side == rec.SubmittedSide {
		return fmt.Errorf("%w: %s", ErrNotReviewer, b.actor)
	}
	return nil
}

// CommentBackend stores comments written by one actor on one match.
type CommentBackend struct {
	store   ResultStore
	matchID string
	actor   string
}

var _ comments.Backend = (*CommentBackend)(nil)

// NewCommentBackend binds the store to a match and actor.
func NewCommentBackend(s ResultStore, matchID, actorID string) *CommentBackend {
	return &CommentBackend{store: s, matchID: matchID, actor: actorID}
}

func (b *CommentBackend) CreateComment(ctx context.Context, text string) (comments.Entry, error) {
	return b.store.InsertComment(ctx, b.matchID, b.actor, text)
}

func (b *CommentBackend) UpdateComment(ctx context.Context, id, text string) (comments.Entry, error) {
	return b.store.UpdateComment(ctx, b.matchID, id, b.actor, text)
}

func (b *CommentBackend) DeleteComment(ctx context.Context, id string) error {
	return b.store.DeleteComment(ctx, b.matchID, id, b.actor)
}
