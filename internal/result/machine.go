package result

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/inflight"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/teams"
)

// Params is everything the machine needs from its caller. None of it is
// fetched by the machine itself.
type Params struct {
	MatchID     string
	Sport       scoring.Sport
	Format      scoring.MatchFormat
	Competition CompetitionType
	Mode        Mode
	ActorID     string
	Roster      []Participant
	// IsCaptain is the caller's captaincy check for doubles submissions.
	IsCaptain bool
	// Existing re-hydrates the draft from a stored result.
	Existing *Existing
	Backend  Backend
	Metrics  metrics.Metrics
	// Engine defaults to scoring.Default().
	Engine *scoring.Engine
}

// Machine drives one result screen. It is owned by a single session.
type Machine struct {
	p         Params
	engine    *scoring.Engine
	validator *scoresheet.Validator
	guard     inflight.Guard
	draft     Draft
	closed    bool
}

// New creates a machine for the given mode.
func New(p Params) (*Machine, error) {
	if p.Backend == nil {
		return nil, errors.New("result: backend is required")
	}
	if p.Metrics == nil {
		return nil, errors.New("result: metrics is required")
	}
	switch p.Mode {
	case ModeSubmit, ModeView, ModeReview, ModeDisputed:
	default:
		return nil, fmt.Errorf("result: unknown mode %q", p.Mode)
	}
	if p.Competition == "" {
		p.Competition = Competitive
	}
	engine := p.Engine
	if engine == nil {
		engine = scoring.Default()
	}
	m := &Machine{
		p:         p,
		engine:    engine,
		validator: scoresheet.New(engine),
	}
	m.draft = m.newDraft()
	return m, nil
}

func (m *Machine) newDraft() Draft {
	d := Draft{Intent: Normal{}}
	if m.usesTeamAssignment() {
		d.Teams = teams.New()
	}
	ex := m.p.Existing
	if ex == nil {
		return d
	}
	d.Comment = ex.Comment
	switch ex.Kind {
	case KindCasual:
		if m.p.Competition == Friendly {
			d.Intent = Casual{}
		}
	case KindCancelled:
		d.Intent = Cancelled{}
	case KindWalkover:
		if ex.Walkover != nil {
			d.Intent = Walkover{Report: *ex.Walkover}
		}
	default:
		d.Sheet = ex.Scores.Sheet(m.engine)
		d.Intent = Normal{Unfinished: ex.Unfinished}
	}
	return d
}

func (m *Machine) usesTeamAssignment() bool {
	return m.p.Format == scoring.FormatDoubles && m.p.Competition == Friendly
}

// Mode returns the mode the machine was created with.
func (m *Machine) Mode() Mode {
	return m.p.Mode
}

// Draft returns a copy of the current draft.
func (m *Machine) Draft() Draft {
	d := m.draft
	d.Sheet = append(scoring.Sheet(nil), m.draft.Sheet...)
	return d
}

// Closed reports whether an action has completed and the screen should close.
func (m *Machine) Closed() bool {
	return m.closed
}

// ActorSide returns the side the acting participant plays on.
func (m *Machine) ActorSide() scoring.Side {
	for _, p := range m.p.Roster {
		if p.ID == m.p.ActorID {
			return p.Side
		}
	}
	return scoring.SideNone
}

func (m *Machine) editable() error {
	switch {
	case m.closed:
		return ErrClosed
	case m.p.Mode != ModeSubmit:
		return fmt.Errorf("%w: %s", ErrActionUnavailable, m.p.Mode)
	case m.guard.Busy():
		return ErrActionInFlight
	}
	return nil
}

// SetEntry records the score of one set or game. The deciding entry can
// only be edited after a one-all split.
func (m *Machine) SetEntry(e scoring.SetEntry) error {
	if err := m.editable(); err != nil {
		return err
	}
	if _, ok := m.draft.Intent.(Normal); !ok {
		return fmt.Errorf("%w: scores are not entered for %s", ErrActionUnavailable, m.draft.Intent.Kind())
	}
	if !m.engine.IsEntryPlayable(m.p.Sport, m.draft.Sheet, e.Index) {
		return fmt.Errorf("%w: entry %d", ErrEntryNotPlayable, e.Index+1)
	}
	m.draft.Sheet = m.draft.Sheet.Set(e)
	return nil
}

// SetIntent switches the draft between the normal, casual, walkover and
// cancelled shapes. A nil intent resets to a finished normal result.
func (m *Machine) SetIntent(intent Intent) error {
	if err := m.editable(); err != nil {
		return err
	}
	switch in := intent.(type) {
	case nil:
		intent = Normal{}
	case Casual:
		if m.p.Competition != Friendly {
			return ErrCasualNotAllowed
		}
	case Walkover:
		in.Report = m.inferDefaulting(in.Report)
		intent = in
	}
	m.draft.Intent = intent
	return nil
}

// SetComment sets the free-text comment sent with the result.
func (m *Machine) SetComment(text string) error {
	if err := m.editable(); err != nil {
		return err
	}
	m.draft.Comment = text
	return nil
}

// SelectPlayer fills a team slot for a doubles friendly.
func (m *Machine) SelectPlayer(slot teams.Slot, playerID string) error {
	if err := m.editable(); err != nil {
		return err
	}
	if m.draft.Teams == nil {
		return fmt.Errorf("%w: teams are fixed for this match", ErrActionUnavailable)
	}
	if playerID != "" && !m.onRoster(playerID) {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, playerID)
	}
	return m.draft.Teams.Select(slot, playerID)
}

func (m *Machine) onRoster(id string) bool {
	for _, p := range m.p.Roster {
		if p.ID == id {
			return true
		}
	}
	return false
}

// In singles the defaulting side is always the one the actor is not on.
func (m *Machine) inferDefaulting(r WalkoverReport) WalkoverReport {
	if m.p.Format == scoring.FormatSingles {
		r.DefaultingTeam = m.ActorSide().Opponent()
	}
	return r
}

func (m *Machine) captainBlocked() bool {
	if m.p.Format != scoring.FormatDoubles || m.p.IsCaptain {
		return false
	}
	_, casual := m.draft.Intent.(Casual)
	return !casual
}

// Affordances reports which actions are currently enabled.
func (m *Machine) Affordances() Affordances {
	busy := m.guard.Busy()
	submitting := m.p.Mode == ModeSubmit && !m.closed
	_, normal := m.draft.Intent.(Normal)

	a := Affordances{
		EditScores:     submitting && normal,
		Submit:         submitting && !busy && !m.captainBlocked(),
		Confirm:        m.p.Mode == ModeReview && !m.closed && !busy,
		Dispute:        m.p.Mode == ModeReview && !m.closed && !busy,
		Comment:        m.p.Mode == ModeView || m.p.Mode == ModeReview,
		Casual:         submitting && m.p.Competition == Friendly,
		Walkover:       submitting,
		ChooseWalkover: submitting && m.p.Format == scoring.FormatDoubles,
		TeamAssignment: submitting && normal && m.draft.Teams != nil,
		InFlight:       busy,
	}
	if a.EditScores {
		for i := range a.EditableEntries {
			a.EditableEntries[i] = m.engine.IsEntryPlayable(m.p.Sport, m.draft.Sheet, i)
		}
	}
	return a
}

// Prepare checks the draft and builds the payload Submit would send. It
// never calls the backend.
func (m *Machine) Prepare() (Payload, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if m.p.Mode != ModeSubmit {
		return nil, fmt.Errorf("%w: %s", ErrActionUnavailable, m.p.Mode)
	}
	if m.captainBlocked() {
		return nil, ErrNotCaptain
	}
	comment := strings.TrimSpace(m.draft.Comment)

	switch in := m.draft.Intent.(type) {
	case Casual:
		if comment == "" {
			return nil, ErrMissingComment
		}
		return CasualResult{Comment: comment}, nil
	case Cancelled:
		return CancelledResult{Comment: comment}, nil
	case Walkover:
		report := m.inferDefaulting(in.Report)
		report.Detail = strings.TrimSpace(report.Detail)
		if err := report.Validate(); err != nil {
			return nil, err
		}
		return WalkoverResult{Walkover: report, Comment: comment}, nil
	case Normal:
		team1, team2, err := m.lineup()
		if err != nil {
			return nil, err
		}
		scores, err := m.validator.Validate(m.p.Sport, m.draft.Sheet, in.Unfinished)
		if err != nil {
			return nil, err
		}
		return NormalResult{
			Scores:     scores,
			Unfinished: in.Unfinished,
			Comment:    comment,
			Team1:      team1,
			Team2:      team2,
		}, nil
	default:
		return nil, fmt.Errorf("result: unknown intent %T", in)
	}
}

// lineup returns the two teams, from the assignment for doubles friendlies
// and from the roster sides otherwise.
func (m *Machine) lineup() (team1, team2 []string, err error) {
	if m.draft.Teams != nil {
		ids := make([]string, 0, len(m.p.Roster))
		for _, p := range m.p.Roster {
			ids = append(ids, p.ID)
		}
		if err := m.draft.Teams.Validate(ids); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrIncompleteTeamAssignment, err)
		}
		t1, t2 := m.draft.Teams.Teams()
		return t1[:], t2[:], nil
	}
	for _, p := range m.p.Roster {
		switch p.Side {
		case scoring.SideA:
			team1 = append(team1, p.ID)
		case scoring.SideB:
			team2 = append(team2, p.ID)
		}
	}
	return team1, team2, nil
}

// Submit validates the draft and sends it to the backend. The draft is kept
// when anything fails and discarded once the backend accepts it.
func (m *Machine) Submit(ctx context.Context) error {
	return m.run("submit", func() error {
		payload, err := m.Prepare()
		if err != nil {
			m.p.Metrics.IncValidationFailures(reasonOf(err))
			log.Warn("Result rejected before submission", "matchID", m.p.MatchID, "actor", m.p.ActorID, "error", err)
			return err
		}
		log.Info("Submitting result", "matchID", m.p.MatchID, "actor", m.p.ActorID, "kind", payload.Kind())
		if err := m.call(ctx, "submit", func(ctx context.Context) error {
			return m.p.Backend.SubmitResult(ctx, payload)
		}); err != nil {
			return err
		}
		m.p.Metrics.IncResultsSubmitted(string(payload.Kind()))
		m.draft = Draft{}
		return nil
	})
}

// Confirm accepts the result submitted by the other side.
func (m *Machine) Confirm(ctx context.Context) error {
	return m.run("confirm", func() error {
		if err := m.reviewing(); err != nil {
			return err
		}
		log.Info("Confirming result", "matchID", m.p.MatchID, "actor", m.p.ActorID)
		return m.call(ctx, "confirm", m.p.Backend.ConfirmResult)
	})
}

// Dispute rejects the result submitted by the other side.
func (m *Machine) Dispute(ctx context.Context, reason string) error {
	return m.run("dispute", func() error {
		if err := m.reviewing(); err != nil {
			return err
		}
		reason = strings.TrimSpace(reason)
		log.Info("Disputing result", "matchID", m.p.MatchID, "actor", m.p.ActorID, "reason", reason)
		return m.call(ctx, "dispute", func(ctx context.Context) error {
			return m.p.Backend.DisputeResult(ctx, reason)
		})
	})
}

func (m *Machine) reviewing() error {
	if m.closed {
		return ErrClosed
	}
	if m.p.Mode != ModeReview {
		return fmt.Errorf("%w: %s", ErrActionUnavailable, m.p.Mode)
	}
	return nil
}

// run executes fn under the shared in-flight guard.
func (m *Machine) run(action string, fn func() error) error {
	err := m.guard.Run(fn)
	if errors.Is(err, inflight.ErrBusy) {
		m.p.Metrics.IncInFlightRejected(action)
		log.Debug("Action ignored, another is in flight", "matchID", m.p.MatchID, "action", action)
	}
	return err
}

// call invokes the backend and closes the machine on success.
func (m *Machine) call(ctx context.Context, action string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	m.p.Metrics.ObserveActionDuration(action, time.Since(start).Seconds())
	if err != nil {
		m.p.Metrics.IncBackendFailures(action)
		log.Error("Backend rejected action", "matchID", m.p.MatchID, "action", action, "error", err)
		return fmt.Errorf("%s failed: %w", action, err)
	}
	m.p.Metrics.IncResultActions(action)
	m.closed = true
	return nil
}

// reasonOf maps a validation error to a metrics label.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, scoresheet.ErrNoScoresEntered):
		return "no_scores"
	case errors.Is(err, scoresheet.ErrMissingExtendedScore):
		return "missing_extended"
	case errors.Is(err, scoresheet.ErrInvalidExtendedScore):
		return "invalid_extended"
	case errors.Is(err, scoresheet.ErrNegativeScore):
		return "negative_score"
	case errors.Is(err, ErrIncompleteTeamAssignment):
		return "incomplete_teams"
	case errors.Is(err, ErrMissingWalkoverReason):
		return "walkover_reason"
	case errors.Is(err, ErrMissingWalkoverDetail):
		return "walkover_detail"
	case errors.Is(err, ErrMissingComment):
		return "missing_comment"
	case errors.Is(err, ErrNotCaptain):
		return "not_captain"
	case errors.Is(err, ErrActionUnavailable), errors.Is(err, ErrClosed):
		return "unavailable"
	default:
		return "other"
	}
}
