package comments

import (
	"errors"
	"time"

	"github.com/mauv0809/matchpoint/internal/inflight"
)

var (
	ErrEmptyComment    = errors.New("comment cannot be empty")
	ErrNotAuthor       = errors.New("only the author can change a comment")
	ErrCommentNotFound = errors.New("comment not found")
	ErrReadOnly        = errors.New("comments are closed for this match")
	ErrActionInFlight  = inflight.ErrBusy
)

// Entry is one comment on a match result.
type Entry struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
