package comments

import "context"

// Backend stores comments for one match. The returned entries are
// authoritative and replace whatever the thread held locally.
type Backend interface {
	CreateComment(ctx context.Context, text string) (Entry, error)
	UpdateComment(ctx context.Context, id, text string) (Entry, error)
	DeleteComment(ctx context.Context, id string) error
}
