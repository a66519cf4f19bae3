package scoresheet

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/scoring"
)

// Validator turns a proposed score sheet into a submittable payload.
type Validator struct {
	engine *scoring.Engine
}

// New creates a Validator. A nil engine uses the default rules.
func New(engine *scoring.Engine) *Validator {
	if engine == nil {
		engine = scoring.Default()
	}
	return &Validator{engine: engine}
}

// Validate filters the sheet to started, playable entries and checks them.
// Unfinished matches are recorded as-is: they still need one entry but skip
// the tiebreak and extended score checks.
func (v *Validator) Validate(sport scoring.Sport, sheet scoring.Sheet, unfinished bool) (Scores, error) {
	entries, err := v.playable(sport, sheet)
	if err != nil {
		return Scores{}, err
	}
	if len(entries) == 0 {
		return Scores{}, ErrNoScoresEntered
	}

	if !unfinished {
		rules := v.engine.For(sport)
		for _, e := range entries {
			if rules.NeedsExtended(e) && !e.HasExtended() {
				return Scores{}, &EntryError{Index: e.Index, Err: ErrMissingExtendedScore}
			}
			if err := rules.ValidateExtended(e); err != nil {
				return Scores{}, &EntryError{Index: e.Index, Err: err}
			}
		}
	}

	scores := encode(sport, entries)
	log.Debug("Validated score sheet", "sport", sport, "entries", scores.Len(), "unfinished", unfinished)
	return scores, nil
}

// playable drops unplayed entries and entries the match never reached, in index order.
func (v *Validator) playable(sport scoring.Sport, sheet scoring.Sheet) ([]scoring.SetEntry, error) {
	var out []scoring.SetEntry
	for i := 0; i < scoring.MaxEntries; i++ {
		e := sheet.Entry(i)
		t1, t2 := e.Extended()
		if e.Team1 < 0 || e.Team2 < 0 || t1 < 0 || t2 < 0 {
			return nil, &EntryError{Index: i, Err: ErrNegativeScore}
		}
		if !e.Started() || !v.engine.IsEntryPlayable(sport, sheet, i) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func encode(sport scoring.Sport, entries []scoring.SetEntry) Scores {
	scores := Scores{Sport: sport}
	for _, e := range entries {
		if sport.SetBased() {
			set := SetRecord{SetNumber: e.Index + 1, Team1Games: e.Team1, Team2Games: e.Team2}
			if e.HasExtended() {
				t1, t2 := e.Extended()
				set.Team1Tiebreak, set.Team2Tiebreak = &t1, &t2
			}
			scores.Sets = append(scores.Sets, set)
			continue
		}

		game := GameRecord{GameNumber: e.Index + 1, Team1Points: e.Team1, Team2Points: e.Team2}
		if e.HasExtended() {
			game.Team1Points, game.Team2Points = e.Extended()
		}
		scores.Games = append(scores.Games, game)
	}
	return scores
}
