package result

import (
	"errors"

	"github.com/mauv0809/matchpoint/internal/inflight"
)

var (
	ErrActionUnavailable        = errors.New("action is not available in this mode")
	ErrActionInFlight           = inflight.ErrBusy
	ErrClosed                   = errors.New("result has already been sent")
	ErrNotCaptain               = errors.New("only the team captain can submit this result")
	ErrCasualNotAllowed         = errors.New("casual play is only available for friendly matches")
	ErrEntryNotPlayable         = errors.New("entry cannot be played")
	ErrIncompleteTeamAssignment = errors.New("all four players must be assigned to a team")
	ErrMissingWalkoverReason    = errors.New("walkover needs a defaulting team and a reason")
	ErrMissingWalkoverDetail    = errors.New("walkover reason OTHER needs a description")
	ErrUnknownParticipant       = errors.New("player is not on the roster")
	ErrMissingComment           = errors.New("casual play needs a comment")
)
