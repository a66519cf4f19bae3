package scoring

// Engine evaluates score sheets with one set of Rules.
type Engine struct {
	rules  Rules
	sets   RuleSet
	points RuleSet
}

// NewEngine creates an Engine. Callers loading rules from config should
// run Rules.Validate first.
func NewEngine(rules Rules) *Engine {
	return &Engine{
		rules:  rules,
		sets:   setRules{rules},
		points: pointRules{rules},
	}
}

var defaultEngine = NewEngine(DefaultRules())

// Default returns the engine using DefaultRules.
func Default() *Engine {
	return defaultEngine
}

// Rules returns the thresholds the engine was built with.
func (en *Engine) Rules() Rules {
	return en.rules
}

// For returns the rule set for a sport.
func (en *Engine) For(sport Sport) RuleSet {
	if sport.SetBased() {
		return en.sets
	}
	return en.points
}

// WinnerOf returns the side that has won the entry, or SideNone when it is
// unplayed or still waiting for input.
func (en *Engine) WinnerOf(sport Sport, e SetEntry) Side {
	return en.For(sport).Winner(e)
}

// NeedsExtended reports whether the entry can only be decided by a tiebreak
// or extended score.
func (en *Engine) NeedsExtended(sport Sport, e SetEntry) bool {
	return en.For(sport).NeedsExtended(e)
}

// IsEntryPlayable reports whether the entry at index can be played. The
// deciding entry is only reachable after a one-all split.
func (en *Engine) IsEntryPlayable(sport Sport, sheet Sheet, index int) bool {
	switch index {
	case 0, 1:
		return true
	case 2:
		first := en.WinnerOf(sport, sheet.Entry(0))
		second := en.WinnerOf(sport, sheet.Entry(1))
		return first != SideNone && second != SideNone && first != second
	default:
		return false
	}
}

// Tally counts the decided, playable entries won by each side.
func (en *Engine) Tally(sport Sport, sheet Sheet) (a, b int) {
	for i := 0; i < MaxEntries; i++ {
		if !en.IsEntryPlayable(sport, sheet, i) {
			continue
		}
		switch en.WinnerOf(sport, sheet.Entry(i)) {
		case SideA:
			a++
		case SideB:
			b++
		}
	}
	return a, b
}

// MatchWinner returns the side that has taken two entries.
func (en *Engine) MatchWinner(sport Sport, sheet Sheet) Side {
	need := MaxEntries/2 + 1
	a, b := en.Tally(sport, sheet)
	switch {
	case a >= need:
		return SideA
	case b >= need:
		return SideB
	default:
		return SideNone
	}
}

// WinnerOf evaluates e with the default rules.
func WinnerOf(sport Sport, e SetEntry) Side {
	return defaultEngine.WinnerOf(sport, e)
}

// NeedsExtended evaluates e with the default rules.
func NeedsExtended(sport Sport, e SetEntry) bool {
	return defaultEngine.NeedsExtended(sport, e)
}

// IsEntryPlayable evaluates the sheet with the default rules.
func IsEntryPlayable(sport Sport, sheet Sheet, index int) bool {
	return defaultEngine.IsEntryPlayable(sport, sheet, index)
}
