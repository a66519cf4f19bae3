package scoresheet

import (
	"errors"
	"fmt"

	"github.com/mauv0809/matchpoint/internal/scoring"
)

var (
	ErrNoScoresEntered      = errors.New("no scores entered")
	ErrMissingExtendedScore = errors.New("missing tiebreak or extended score")
	ErrInvalidExtendedScore = scoring.ErrInvalidExtendedScore
	ErrNegativeScore        = errors.New("scores cannot be negative")
)

// EntryError ties a validation failure to the set or game it was found in.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index+1, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// SetRecord is the wire shape for one tennis or padel set.
type SetRecord struct {
	SetNumber     int  `json:"set_number" msgpack:"set_number"`
	Team1Games    int  `json:"team1_games" msgpack:"team1_games"`
	Team2Games    int  `json:"team2_games" msgpack:"team2_games"`
	Team1Tiebreak *int `json:"team1_tiebreak,omitempty" msgpack:"team1_tiebreak,omitempty"`
	Team2Tiebreak *int `json:"team2_tiebreak,omitempty" msgpack:"team2_tiebreak,omitempty"`
}

// GameRecord is the wire shape for one pickleball game. Points are final,
// with any extended score already applied.
type GameRecord struct {
	GameNumber  int `json:"game_number" msgpack:"game_number"`
	Team1Points int `json:"team1_points" msgpack:"team1_points"`
	Team2Points int `json:"team2_points" msgpack:"team2_points"`
}

// Scores is a validated sheet ready for submission. Exactly one of Sets or
// Games is populated, depending on the sport; the backend discriminates on it.
type Scores struct {
	Sport scoring.Sport `json:"sport" msgpack:"sport"`
	Sets  []SetRecord   `json:"sets,omitempty" msgpack:"sets,omitempty"`
	Games []GameRecord  `json:"games,omitempty" msgpack:"games,omitempty"`
}

// Len returns the number of submitted entries.
func (s Scores) Len() int {
	return len(s.Sets) + len(s.Games)
}

// Sheet converts the wire shape back into a score sheet. Close point-based
// games that ended on a valid final score carry it in both the primary and
// extended fields so they re-validate unchanged. Close games stored
// unfinished keep their extended fields empty.
func (s Scores) Sheet(engine *scoring.Engine) scoring.Sheet {
	if engine == nil {
		engine = scoring.Default()
	}
	sheet := make(scoring.Sheet, 0, s.Len())
	for _, set := range s.Sets {
		sheet = append(sheet, scoring.SetEntry{
			Index:         set.SetNumber - 1,
			Team1:         set.Team1Games,
			Team2:         set.Team2Games,
			Team1Extended: set.Team1Tiebreak,
			Team2Extended: set.Team2Tiebreak,
		})
	}
	for _, game := range s.Games {
		e := scoring.SetEntry{
			Index: game.GameNumber - 1,
			Team1: game.Team1Points,
			Team2: game.Team2Points,
		}
		if engine.NeedsExtended(scoring.SportPickleball, e) {
			final := e.WithExtended(game.Team1Points, game.Team2Points)
			if engine.For(scoring.SportPickleball).ValidateExtended(final) == nil {
				e = final
			}
		}
		sheet = append(sheet, e)
	}
	return sheet
}
