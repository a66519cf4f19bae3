package scoring

import "errors"

var (
	ErrUnknownSport  = errors.New("unknown sport")
	ErrUnknownFormat = errors.New("unknown match format")
	ErrInvalidRules  = errors.New("invalid scoring rules")

	// ErrInvalidExtendedScore is returned when a close game's extended score is not a valid final score.
	ErrInvalidExtendedScore = errors.New("invalid extended score")
)
