package reporting

import (
	"errors"

	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/store"
)

var ErrImportDisabled = errors.New("match import is not configured")

// Session is one actor's view of one match: the lifecycle machine for its
// result and the comment thread under it.
type Session struct {
	Match   store.Match
	Result  *store.Record
	Machine *result.Machine
	Thread  *comments.Thread
}
