package teams

import (
	"errors"
	"fmt"
)

var (
	ErrPlayerAlreadyAssigned = errors.New("player already assigned to another slot")
	ErrUnknownSlot           = errors.New("unknown team slot")
	ErrUnknownPlayer         = errors.New("player is not a participant of this match")
	ErrIncomplete            = errors.New("team assignment is incomplete")
)

// Slot is one of the four positions of a doubles friendly.
type Slot int

const (
	Team1Player1 Slot = iota
	Team1Player2
	Team2Player1
	Team2Player2
)

const slotCount = 4

func (s Slot) String() string {
	switch s {
	case Team1Player1:
		return "team1_player1"
	case Team1Player2:
		return "team1_player2"
	case Team2Player1:
		return "team2_player1"
	case Team2Player2:
		return "team2_player2"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Assignment resolves four independent player picks into two disjoint
// teams. An empty string marks an unresolved slot.
type Assignment struct {
	slots [slotCount]string
}

// New returns an empty Assignment.
func New() *Assignment {
	return &Assignment{}
}

// Select puts playerID into slot. Selecting the player already in the slot
// clears it; selecting a player held by another slot is rejected and
// leaves the assignment unchanged.
func (a *Assignment) Select(slot Slot, playerID string) error {
	if slot < 0 || slot >= slotCount {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, int(slot))
	}
	if playerID == "" {
		a.slots[slot] = ""
		return nil
	}
	if a.slots[slot] == playerID {
		a.slots[slot] = ""
		return nil
	}
	for i, id := range a.slots {
		if Slot(i) != slot && id == playerID {
			return fmt.Errorf("%w: %s is in %s", ErrPlayerAlreadyAssigned, playerID, Slot(i))
		}
	}
	a.slots[slot] = playerID
	return nil
}

// Clear empties slot.
func (a *Assignment) Clear(slot Slot) {
	if slot >= 0 && slot < slotCount {
		a.slots[slot] = ""
	}
}

// Get returns the player in slot, or "" when unresolved.
func (a *Assignment) Get(slot Slot) string {
	if slot < 0 || slot >= slotCount {
		return ""
	}
	return a.slots[slot]
}

// IsComplete reports whether all four slots are filled.
func (a *Assignment) IsComplete() bool {
	for _, id := range a.slots {
		if id == "" {
			return false
		}
	}
	return true
}

// Teams returns the two resolved pairs.
func (a *Assignment) Teams() (team1, team2 [2]string) {
	return [2]string{a.slots[Team1Player1], a.slots[Team1Player2]},
		[2]string{a.slots[Team2Player1], a.slots[Team2Player2]}
}

// Validate checks that the assignment is complete and only uses known participants.
func (a *Assignment) Validate(participants []string) error {
	if !a.IsComplete() {
		return ErrIncomplete
	}
	known := make(map[string]struct{}, len(participants))
	for _, id := range participants {
		known[id] = struct{}{}
	}
	for i, id := range a.slots {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnknownPlayer, id, Slot(i))
		}
	}
	return nil
}
