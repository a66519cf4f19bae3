package scoring

import (
	"fmt"
	"strings"
)

// Sport identifies the rule set a score sheet is evaluated under.
type Sport string

const (
	SportTennis     Sport = "TENNIS"
	SportPadel      Sport = "PADEL"
	SportPickleball Sport = "PICKLEBALL"
)

// ParseSport converts user input such as "padel" into a Sport.
func ParseSport(s string) (Sport, error) {
	switch sport := Sport(strings.ToUpper(strings.TrimSpace(s))); sport {
	case SportTennis, SportPadel, SportPickleball:
		return sport, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
	}
}

// SetBased reports whether the sport is scored in games and sets.
func (s Sport) SetBased() bool {
	return s == SportTennis || s == SportPadel
}

// MatchFormat determines the team size.
type MatchFormat string

const (
	FormatSingles MatchFormat = "SINGLES"
	FormatDoubles MatchFormat = "DOUBLES"
)

// ParseFormat converts user input such as "doubles" into a MatchFormat.
func ParseFormat(s string) (MatchFormat, error) {
	switch format := MatchFormat(strings.ToUpper(strings.TrimSpace(s))); format {
	case FormatSingles, FormatDoubles:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// TeamSize returns the number of players per side.
func (f MatchFormat) TeamSize() int {
	if f == FormatDoubles {
		return 2
	}
	return 1
}

// Side is one of the two teams of a match.
type Side string

const (
	SideNone Side = ""
	SideA    Side = "A"
	SideB    Side = "B"
)

// Opponent returns the other side. SideNone has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// MaxEntries is the number of sets or games in a best-of-three match.
const MaxEntries = 3

// SetEntry is one set (set-based sports) or game (point-based sports).
// Team1/Team2 hold games or points before any tiebreak. The extended
// fields hold tiebreak points or the final score of a close game and are
// nil until entered.
type SetEntry struct {
	Index         int  `json:"index" msgpack:"index"`
	Team1         int  `json:"team1" msgpack:"team1"`
	Team2         int  `json:"team2" msgpack:"team2"`
	Team1Extended *int `json:"team1_extended,omitempty" msgpack:"team1_extended,omitempty"`
	Team2Extended *int `json:"team2_extended,omitempty" msgpack:"team2_extended,omitempty"`
}

// Started reports whether any primary score has been entered.
func (e SetEntry) Started() bool {
	return e.Team1 > 0 || e.Team2 > 0
}

// HasExtended reports whether at least one extended value is non-zero.
func (e SetEntry) HasExtended() bool {
	return value(e.Team1Extended) > 0 || value(e.Team2Extended) > 0
}

// Extended returns both extended values, treating nil as zero.
func (e SetEntry) Extended() (int, int) {
	return value(e.Team1Extended), value(e.Team2Extended)
}

// WithExtended returns a copy of e with both extended values set.
func (e SetEntry) WithExtended(team1, team2 int) SetEntry {
	e.Team1Extended = &team1
	e.Team2Extended = &team2
	return e
}

// Sheet is an index-addressed sequence of up to MaxEntries entries.
type Sheet []SetEntry

// NewSheet builds a sheet from primary scores given as pairs, assigning indexes in order.
func NewSheet(scores ...[2]int) Sheet {
	sheet := make(Sheet, 0, len(scores))
	for i, s := range scores {
		sheet = append(sheet, SetEntry{Index: i, Team1: s[0], Team2: s[1]})
	}
	return sheet
}

// Entry returns the entry at index, or an unplayed entry when absent.
func (s Sheet) Entry(index int) SetEntry {
	for _, e := range s {
		if e.Index == index {
			return e
		}
	}
	return SetEntry{Index: index}
}

// Set replaces or adds the entry at e.Index and returns the updated sheet.
func (s Sheet) Set(e SetEntry) Sheet {
	for i := range s {
		if s[i].Index == e.Index {
			out := append(Sheet(nil), s...)
			out[i] = e
			return out
		}
	}
	return append(append(Sheet(nil), s...), e)
}

func value(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
