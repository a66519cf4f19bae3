package reporting

import (
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/store"
)

// ResolveMode decides which screen actorID gets for a match. A submitter
// may reopen a pending result for editing; everyone else on their side
// only sees it.
func ResolveMode(m store.Match, rec *store.Record, actorID string, edit bool) result.Mode {
	player, ok := m.Player(actorID)
	if !ok {
		return result.ModeView
	}
	if rec == nil {
		return result.ModeSubmit
	}
	switch rec.Status {
	case store.StatusPending:
		if player.Side != rec.SubmittedSide {
			return result.ModeReview
		}
		if edit {
			return result.ModeSubmit
		}
		return result.ModeView
	case store.StatusDisputed:
		return result.ModeDisputed
	default:
		return result.ModeView
	}
}
