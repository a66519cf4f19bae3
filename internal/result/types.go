package result

import (
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/teams"
)

// Mode is the top-level state of the result screen. It is decided by the
// caller from the stored result; the machine never changes it.
type Mode string

const (
	ModeSubmit   Mode = "SUBMIT"
	ModeView     Mode = "VIEW"
	ModeReview   Mode = "REVIEW"
	ModeDisputed Mode = "DISPUTED"
)

// CompetitionType defines the type of match.
type CompetitionType string

const (
	Competitive CompetitionType = "COMPETITIVE"
	Friendly    CompetitionType = "FRIENDLY"
)

// Participant is a player on the match roster.
type Participant struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Side scoring.Side `json:"side"`
}

// Kind names the shape of a submission.
type Kind string

const (
	KindNormal    Kind = "NORMAL"
	KindCasual    Kind = "CASUAL"
	KindWalkover  Kind = "WALKOVER"
	KindCancelled Kind = "CANCELLED"
)

// Intent is what the submitter wants to record. Exactly one intent is
// active per draft: Normal, Casual, Walkover or Cancelled.
type Intent interface {
	Kind() Kind
	isIntent()
}

// Normal is a scored result. Unfinished matches skip tiebreak checks.
type Normal struct {
	Unfinished bool
}

// Casual records a friendly with a comment only, no scores.
type Casual struct{}

// Walkover records a match one side forfeited without playing.
type Walkover struct {
	Report WalkoverReport
}

// Cancelled records that the match did not take place.
type Cancelled struct{}

func (Normal) Kind() Kind    { return KindNormal }
func (Casual) Kind() Kind    { return KindCasual }
func (Walkover) Kind() Kind  { return KindWalkover }
func (Cancelled) Kind() Kind { return KindCancelled }

func (Normal) isIntent()    {}
func (Casual) isIntent()    {}
func (Walkover) isIntent()  {}
func (Cancelled) isIntent() {}

// WalkoverReason is why the defaulting side did not play.
type WalkoverReason string

const (
	ReasonNoShow            WalkoverReason = "NO_SHOW"
	ReasonLateCancellation  WalkoverReason = "LATE_CANCELLATION"
	ReasonInjury            WalkoverReason = "INJURY"
	ReasonPersonalEmergency WalkoverReason = "PERSONAL_EMERGENCY"
	ReasonOther             WalkoverReason = "OTHER"
)

// WalkoverReport describes a forfeit. Detail is required for ReasonOther.
type WalkoverReport struct {
	DefaultingTeam scoring.Side   `json:"defaulting_team" msgpack:"defaulting_team" validate:"required,oneof=A B"`
	Reason         WalkoverReason `json:"reason" msgpack:"reason" validate:"required,oneof=NO_SHOW LATE_CANCELLATION INJURY PERSONAL_EMERGENCY OTHER"`
	Detail         string         `json:"detail,omitempty" msgpack:"detail,omitempty" validate:"required_if=Reason OTHER,max=500"`
}

// Draft is the result under construction during SUBMIT.
type Draft struct {
	Sheet   scoring.Sheet
	Intent  Intent
	Comment string
	Teams   *teams.Assignment
}

// Existing is a previously stored result used to re-hydrate the draft.
type Existing struct {
	Kind       Kind
	Scores     scoresheet.Scores
	Unfinished bool
	Comment    string
	Walkover   *WalkoverReport
}

// Affordances lists the actions the current mode and draft allow.
type Affordances struct {
	EditScores      bool                     `json:"edit_scores"`
	EditableEntries [scoring.MaxEntries]bool `json:"editable_entries"`
	Submit          bool                     `json:"submit"`
	Confirm         bool                     `json:"confirm"`
	Dispute         bool                     `json:"dispute"`
	Comment         bool                     `json:"comment"`
	Casual          bool                     `json:"casual"`
	Walkover        bool                     `json:"walkover"`
	ChooseWalkover  bool                     `json:"choose_walkover"`
	TeamAssignment  bool                     `json:"team_assignment"`
	InFlight        bool                     `json:"in_flight"`
}
