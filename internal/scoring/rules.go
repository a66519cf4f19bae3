package scoring

import "fmt"

// Rules holds the thresholds both rule sets are parameterised by.
type Rules struct {
	// Set-based sports.
	GamesPerSet      int `yaml:"games_per_set"`
	TiebreakSetGames int `yaml:"tiebreak_set_games"`
	TiebreakPoints   int `yaml:"tiebreak_points"`

	// Point-based sports.
	PointsPerGame   int `yaml:"points_per_game"`
	ExtendedTrigger int `yaml:"extended_trigger"`

	WinMargin int `yaml:"win_margin"`
}

// DefaultRules returns standard tennis/padel sets to 6 and pickleball games to 15.
func DefaultRules() Rules {
	return Rules{
		GamesPerSet:      6,
		TiebreakSetGames: 7,
		TiebreakPoints:   7,
		PointsPerGame:    15,
		ExtendedTrigger:  14,
		WinMargin:        2,
	}
}

// Validate checks that the thresholds describe a playable rule set.
func (r Rules) Validate() error {
	switch {
	case r.GamesPerSet <= 0, r.TiebreakPoints <= 0, r.PointsPerGame <= 0, r.WinMargin <= 0:
		return fmt.Errorf("%w: thresholds must be positive", ErrInvalidRules)
	case r.TiebreakSetGames != r.GamesPerSet+1:
		return fmt.Errorf("%w: tiebreak set games must be games per set + 1", ErrInvalidRules)
	case r.ExtendedTrigger <= 0 || r.ExtendedTrigger >= r.PointsPerGame:
		return fmt.Errorf("%w: extended trigger must be below points per game", ErrInvalidRules)
	}
	return nil
}

// RuleSet decides outcomes for a single entry under one family of sports.
type RuleSet interface {
	Winner(e SetEntry) Side
	NeedsExtended(e SetEntry) bool
	// ValidateExtended checks entered extended values once they are required.
	ValidateExtended(e SetEntry) error
}

// setRules scores tennis and padel: games to 6 by two, tiebreak at 6-6.
type setRules struct {
	Rules
}

func (r setRules) Winner(e SetEntry) Side {
	a, b := e.Team1, e.Team2
	if a == 0 && b == 0 {
		return SideNone
	}
	games, tb := r.GamesPerSet, r.TiebreakSetGames

	if a == games && b == games {
		if !e.HasExtended() {
			return SideNone
		}
		return leader(e.Extended())
	}

	if (a == tb && b == games) || (a == games && b == tb) {
		setWinner := leader(a, b)
		x, y := e.Extended()
		if leader(x, y) != setWinner {
			return SideNone
		}
		if max(x, y) < r.TiebreakPoints || abs(x-y) < r.WinMargin {
			return SideNone
		}
		return setWinner
	}

	return decided(a, b, games, r.WinMargin)
}

func (r setRules) NeedsExtended(e SetEntry) bool {
	a, b := e.Team1, e.Team2
	games, tb := r.GamesPerSet, r.TiebreakSetGames
	return (a == games && b == games) ||
		(a == tb && b == games) ||
		(a == games && b == tb)
}

func (r setRules) ValidateExtended(SetEntry) error {
	return nil
}

// pointRules scores pickleball: games to 15 by two; once both sides reach
// the trigger the final score is read from the extended fields.
type pointRules struct {
	Rules
}

func (r pointRules) Winner(e SetEntry) Side {
	a, b := e.Team1, e.Team2
	if a == 0 && b == 0 {
		return SideNone
	}
	if r.NeedsExtended(e) {
		if !e.HasExtended() {
			return SideNone
		}
		x, y := e.Extended()
		return decided(x, y, r.PointsPerGame, r.WinMargin)
	}
	return decided(a, b, r.PointsPerGame, r.WinMargin)
}

func (r pointRules) NeedsExtended(e SetEntry) bool {
	return e.Team1 >= r.ExtendedTrigger && e.Team2 >= r.ExtendedTrigger
}

func (r pointRules) ValidateExtended(e SetEntry) error {
	if !e.HasExtended() {
		return nil
	}
	x, y := e.Extended()
	if max(x, y) < r.PointsPerGame || abs(x-y) < r.WinMargin {
		return fmt.Errorf("%w: %d-%d needs a winner at %d or more leading by %d",
			ErrInvalidExtendedScore, x, y, r.PointsPerGame, r.WinMargin)
	}
	return nil
}

// decided returns the side that reached target with the required margin.
func decided(a, b, target, margin int) Side {
	switch {
	case a >= target && a-b >= margin:
		return SideA
	case b >= target && b-a >= margin:
		return SideB
	default:
		return SideNone
	}
}

func leader(a, b int) Side {
	switch {
	case a > b:
		return SideA
	case b > a:
		return SideB
	default:
		return SideNone
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
