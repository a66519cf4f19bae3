package result

import "github.com/mauv0809/matchpoint/internal/scoresheet"

// Payload is the single shape sent to the backend when a draft is submitted.
type Payload interface {
	Kind() Kind
}

// NormalResult carries validated scores.
type NormalResult struct {
	scoresheet.Scores `msgpack:",inline"`
	Unfinished        bool     `json:"unfinished" msgpack:"unfinished"`
	Comment           string   `json:"comment,omitempty" msgpack:"comment,omitempty"`
	Team1             []string `json:"team1,omitempty" msgpack:"team1,omitempty"`
	Team2             []string `json:"team2,omitempty" msgpack:"team2,omitempty"`
}

// CasualResult is a comment-only friendly.
type CasualResult struct {
	Comment string `json:"comment" msgpack:"comment"`
}

// CancelledResult marks the match as not played.
type CancelledResult struct {
	Comment string `json:"comment,omitempty" msgpack:"comment,omitempty"`
}

// WalkoverResult carries the forfeit report.
type WalkoverResult struct {
	Walkover WalkoverReport `json:"walkover" msgpack:"walkover"`
	Comment  string         `json:"comment,omitempty" msgpack:"comment,omitempty"`
}

func (NormalResult) Kind() Kind    { return KindNormal }
func (CasualResult) Kind() Kind    { return KindCasual }
func (CancelledResult) Kind() Kind { return KindCancelled }
func (WalkoverResult) Kind() Kind  { return KindWalkover }
