package store

import (
	"errors"
	"time"

	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrResultLocked = errors.New("result is already decided")
	ErrNotReviewer  = errors.New("result must be reviewed by the other side")
)

// Status is the server-side state of a submitted result.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDisputed  Status = "DISPUTED"
)

// Player is a roster entry with the captaincy flag used for doubles.
type Player struct {
	result.Participant
	IsCaptain bool `json:"is_captain"`
}

// Match is a scheduled or played match and its roster.
type Match struct {
	ID          string                 `json:"id"`
	Sport       scoring.Sport          `json:"sport"`
	Format      scoring.MatchFormat    `json:"format"`
	Competition result.CompetitionType `json:"competition"`
	Venue       string                 `json:"venue,omitempty"`
	StartTime   time.Time              `json:"start_time"`
	ExternalID  string                 `json:"external_id,omitempty"`
	Players     []Player               `json:"players"`
}

// Roster returns the participants without captaincy.
func (m Match) Roster() []result.Participant {
	out := make([]result.Participant, 0, len(m.Players))
	for _, p := range m.Players {
		out = append(out, p.Participant)
	}
	return out
}

// Player returns the roster entry for id.
func (m Match) Player(id string) (Player, bool) {
	for _, p := range m.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Record is a stored result.
type Record struct {
	MatchID       string         `json:"match_id"`
	Kind          result.Kind    `json:"kind"`
	Status        Status         `json:"status"`
	SubmittedBy   string         `json:"submitted_by"`
	SubmittedSide scoring.Side   `json:"submitted_side"`
	Payload       result.Payload `json:"payload"`
	DisputeReason string         `json:"dispute_reason,omitempty"`
	ReviewedBy    string         `json:"reviewed_by,omitempty"`
	SubmittedAt   time.Time      `json:"submitted_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Existing converts the record into the shape the lifecycle machine
// re-hydrates its draft from.
func (r *Record) Existing() *result.Existing {
	if r == nil {
		return nil
	}
	ex := &result.Existing{Kind: r.Kind}
	switch p := r.Payload.(type) {
	case result.NormalResult:
		ex.Scores = p.Scores
		ex.Unfinished = p.Unfinished
		ex.Comment = p.Comment
	case result.CasualResult:
		ex.Comment = p.Comment
	case result.CancelledResult:
		ex.Comment = p.Comment
	case result.WalkoverResult:
		report := p.Walkover
		ex.Walkover = &report
		ex.Comment = p.Comment
	}
	return ex
}
