package result

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var singlesRoster = []Participant{
	{ID: "p1", Name: "Ana", Side: scoring.SideA},
	{ID: "p2", Name: "Ben", Side: scoring.SideB},
}

var doublesRoster = []Participant{
	{ID: "p1", Name: "Ana", Side: scoring.SideA},
	{ID: "p2", Name: "Ben", Side: scoring.SideA},
	{ID: "p3", Name: "Cleo", Side: scoring.SideB},
	{ID: "p4", Name: "Dan", Side: scoring.SideB},
}

func newMachine(t *testing.T, p Params) (*Machine, *MockBackend, *metrics.Mock) {
	t.Helper()
	backend := NewMockBackend()
	mm := metrics.NewMock()
	if p.MatchID == "" {
		p.MatchID = "m1"
	}
	if p.Sport == "" {
		p.Sport = scoring.SportPadel
	}
	if p.Format == "" {
		p.Format = scoring.FormatSingles
	}
	if p.Mode == "" {
		p.Mode = ModeSubmit
	}
	if p.ActorID == "" {
		p.ActorID = "p1"
	}
	if p.Roster == nil {
		p.Roster = singlesRoster
		if p.Format == scoring.FormatDoubles {
			p.Roster = doublesRoster
		}
	}
	p.Backend = backend
	p.Metrics = mm
	m, err := New(p)
	require.NoError(t, err)
	return m, backend, mm
}

func setScores(t *testing.T, m *Machine, scores ...[2]int) {
	t.Helper()
	for _, e := range scoring.NewSheet(scores...) {
		require.NoError(t, m.SetEntry(e))
	}
}

func TestNew(t *testing.T) {
	_, err := New(Params{Mode: ModeSubmit, Metrics: metrics.NewMock()})
	assert.Error(t, err)

	_, err = New(Params{Mode: "LOST", Backend: NewMockBackend(), Metrics: metrics.NewMock()})
	assert.Error(t, err)
}

func TestSubmit_Normal(t *testing.T) {
	m, backend, mm := newMachine(t, Params{})
	setScores(t, m, [2]int{6, 4}, [2]int{6, 4})
	require.NoError(t, m.SetComment("  good game "))

	require.NoError(t, m.Submit(context.Background()))

	require.Len(t, backend.SubmitResultCalls, 1)
	payload, ok := backend.SubmitResultCalls[0].(NormalResult)
	require.True(t, ok)
	assert.Len(t, payload.Sets, 2, "the unreachable deciding set is not submitted")
	assert.Equal(t, "good game", payload.Comment)
	assert.Equal(t, []string{"p1"}, payload.Team1)
	assert.Equal(t, []string{"p2"}, payload.Team2)
	assert.True(t, m.Closed())
	assert.Equal(t, Draft{}, m.Draft())
	assert.Equal(t, 1, mm.ResultsSubmitted("NORMAL"))
	assert.Equal(t, 1, mm.ResultActions("submit"))

	assert.ErrorIs(t, m.Submit(context.Background()), ErrClosed)
	assert.Len(t, backend.SubmitResultCalls, 1)
}

func TestSubmit_ValidationBlocksBackend(t *testing.T) {
	tests := []struct {
		name   string
		scores [][2]int
		want   error
	}{
		{"nothing entered", nil, scoresheet.ErrNoScoresEntered},
		{"tiebreak missing", [][2]int{{7, 6}, {6, 3}}, scoresheet.ErrMissingExtendedScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, backend, mm := newMachine(t, Params{})
			setScores(t, m, tt.scores...)
			before := m.Draft()

			err := m.Submit(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, backend.SubmitResultCalls)
			assert.False(t, m.Closed())
			assert.Equal(t, before, m.Draft())
			assert.Equal(t, 1, mm.ValidationFailures(reasonOf(tt.want)))
		})
	}
}

func TestSubmit_BackendFailureKeepsDraft(t *testing.T) {
	m, backend, mm := newMachine(t, Params{})
	backend.SubmitResultFunc = func(context.Context, Payload) error { return errors.New("timeout") }
	setScores(t, m, [2]int{6, 1}, [2]int{6, 2})
	before := m.Draft()

	err := m.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.False(t, m.Closed())
	assert.Equal(t, before, m.Draft())
	assert.Equal(t, 1, mm.BackendFailures("submit"))

	backend.SubmitResultFunc = nil
	require.NoError(t, m.Submit(context.Background()), "the guard is released after a failure")
	assert.Len(t, backend.SubmitResultCalls, 2)
}

func TestSubmit_SingleFlight(t *testing.T) {
	m, backend, mm := newMachine(t, Params{})
	setScores(t, m, [2]int{6, 1}, [2]int{6, 2})

	started := make(chan struct{})
	release := make(chan struct{})
	backend.SubmitResultFunc = func(context.Context, Payload) error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- m.Submit(context.Background()) }()
	<-started

	assert.ErrorIs(t, m.Submit(context.Background()), ErrActionInFlight)
	assert.ErrorIs(t, m.SetComment("late edit"), ErrActionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, backend.Submissions())
	assert.Equal(t, 1, mm.InFlightRejected("submit"))
}

func TestSetEntry_DecidingEntry(t *testing.T) {
	m, _, _ := newMachine(t, Params{})
	setScores(t, m, [2]int{6, 4}, [2]int{6, 3})

	err := m.SetEntry(scoring.SetEntry{Index: 2, Team1: 1})
	assert.ErrorIs(t, err, ErrEntryNotPlayable)
	assert.Equal(t, [3]bool{true, true, false}, m.Affordances().EditableEntries)

	require.NoError(t, m.SetEntry(scoring.SetEntry{Index: 1, Team1: 3, Team2: 6}))
	assert.Equal(t, [3]bool{true, true, true}, m.Affordances().EditableEntries)
	require.NoError(t, m.SetEntry(scoring.SetEntry{Index: 2, Team1: 1}))
}

func TestSubmit_Unfinished(t *testing.T) {
	m, backend, _ := newMachine(t, Params{})
	setScores(t, m, [2]int{6, 6})
	require.NoError(t, m.SetIntent(Normal{Unfinished: true}))

	require.NoError(t, m.Submit(context.Background()))
	payload := backend.SubmitResultCalls[0].(NormalResult)
	assert.True(t, payload.Unfinished)
	assert.Len(t, payload.Sets, 1)
}

func TestSubmit_Casual(t *testing.T) {
	t.Run("competitive matches cannot be casual", func(t *testing.T) {
		m, _, _ := newMachine(t, Params{Competition: Competitive})
		assert.ErrorIs(t, m.SetIntent(Casual{}), ErrCasualNotAllowed)
		assert.False(t, m.Affordances().Casual)
	})

	t.Run("friendly casual skips scoring", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{Competition: Friendly})
		setScores(t, m, [2]int{7, 6})
		require.NoError(t, m.SetIntent(Casual{}))
		assert.False(t, m.Affordances().EditScores)

		assert.ErrorIs(t, m.Submit(context.Background()), ErrMissingComment)

		require.NoError(t, m.SetComment("fun hit"))
		require.NoError(t, m.Submit(context.Background()))
		assert.Equal(t, CasualResult{Comment: "fun hit"}, backend.SubmitResultCalls[0])
	})
}

func TestSubmit_Cancelled(t *testing.T) {
	m, backend, mm := newMachine(t, Params{})
	require.NoError(t, m.SetIntent(Cancelled{}))
	require.NoError(t, m.Submit(context.Background()))
	assert.Equal(t, CancelledResult{}, backend.SubmitResultCalls[0])
	assert.Equal(t, 1, mm.ResultsSubmitted("CANCELLED"))
}

func TestSubmit_Walkover(t *testing.T) {
	t.Run("singles infers the defaulting side", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{ActorID: "p2"})
		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{Reason: ReasonNoShow}}))
		require.NoError(t, m.Submit(context.Background()))

		payload := backend.SubmitResultCalls[0].(WalkoverResult)
		assert.Equal(t, scoring.SideA, payload.Walkover.DefaultingTeam)
		assert.Equal(t, ReasonNoShow, payload.Walkover.Reason)
	})

	t.Run("doubles needs a chosen side", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{Format: scoring.FormatDoubles, IsCaptain: true})
		assert.True(t, m.Affordances().ChooseWalkover)

		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{Reason: ReasonInjury}}))
		assert.ErrorIs(t, m.Submit(context.Background()), ErrMissingWalkoverReason)

		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{DefaultingTeam: scoring.SideB}}))
		assert.ErrorIs(t, m.Submit(context.Background()), ErrMissingWalkoverReason)

		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{DefaultingTeam: scoring.SideB, Reason: ReasonInjury}}))
		require.NoError(t, m.Submit(context.Background()))
		assert.Len(t, backend.SubmitResultCalls, 1)
	})

	t.Run("other reason needs detail", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{})
		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{Reason: ReasonOther, Detail: "   "}}))
		assert.ErrorIs(t, m.Submit(context.Background()), ErrMissingWalkoverDetail)
		assert.Empty(t, backend.SubmitResultCalls)

		require.NoError(t, m.SetIntent(Walkover{Report: WalkoverReport{Reason: ReasonOther, Detail: " flat tyre "}}))
		require.NoError(t, m.Submit(context.Background()))
		assert.Equal(t, "flat tyre", backend.SubmitResultCalls[0].(WalkoverResult).Walkover.Detail)
	})
}

func TestSubmit_CaptainGate(t *testing.T) {
	m, backend, _ := newMachine(t, Params{Format: scoring.FormatDoubles, Competition: Friendly})
	setScores(t, m, [2]int{6, 1}, [2]int{6, 2})
	assert.False(t, m.Affordances().Submit)
	assert.ErrorIs(t, m.Submit(context.Background()), ErrNotCaptain)

	require.NoError(t, m.SetIntent(Casual{}))
	assert.True(t, m.Affordances().Submit, "casual play is not gated")
	require.NoError(t, m.SetComment("social"))
	require.NoError(t, m.Submit(context.Background()))
	assert.Len(t, backend.SubmitResultCalls, 1)
}

func TestSubmit_DoublesFriendlyTeams(t *testing.T) {
	m, backend, _ := newMachine(t, Params{Format: scoring.FormatDoubles, Competition: Friendly, IsCaptain: true})
	setScores(t, m, [2]int{6, 1}, [2]int{6, 2})
	assert.True(t, m.Affordances().TeamAssignment)

	require.NoError(t, m.SelectPlayer(teams.Team1Player1, "p1"))
	require.NoError(t, m.SelectPlayer(teams.Team1Player2, "p3"))
	require.NoError(t, m.SelectPlayer(teams.Team2Player1, "p2"))
	assert.ErrorIs(t, m.SelectPlayer(teams.Team2Player2, "p3"), teams.ErrPlayerAlreadyAssigned)
	assert.ErrorIs(t, m.SelectPlayer(teams.Team2Player2, "ghost"), ErrUnknownParticipant)

	assert.ErrorIs(t, m.Submit(context.Background()), ErrIncompleteTeamAssignment)

	require.NoError(t, m.SelectPlayer(teams.Team2Player2, "p4"))
	require.NoError(t, m.Submit(context.Background()))
	payload := backend.SubmitResultCalls[0].(NormalResult)
	assert.Equal(t, []string{"p1", "p3"}, payload.Team1)
	assert.Equal(t, []string{"p2", "p4"}, payload.Team2)
}

func TestSelectPlayer_FixedTeams(t *testing.T) {
	m, _, _ := newMachine(t, Params{Format: scoring.FormatDoubles, Competition: Competitive, IsCaptain: true})
	assert.ErrorIs(t, m.SelectPlayer(teams.Team1Player1, "p1"), ErrActionUnavailable)
}

func TestReview(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		m, backend, mm := newMachine(t, Params{Mode: ModeReview, ActorID: "p2"})
		a := m.Affordances()
		assert.True(t, a.Confirm)
		assert.True(t, a.Dispute)
		assert.False(t, a.Submit)
		assert.ErrorIs(t, m.Submit(context.Background()), ErrActionUnavailable)

		require.NoError(t, m.Confirm(context.Background()))
		assert.Equal(t, 1, backend.ConfirmResultCalls)
		assert.True(t, m.Closed())
		assert.Equal(t, 1, mm.ResultActions("confirm"))

		assert.ErrorIs(t, m.Dispute(context.Background(), "late"), ErrClosed)
		assert.Empty(t, backend.DisputeResultCalls)
	})

	t.Run("dispute failure can be retried", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{Mode: ModeReview, ActorID: "p2"})
		backend.DisputeResultFunc = func(context.Context, string) error { return errors.New("offline") }
		assert.Error(t, m.Dispute(context.Background(), " wrong score "))
		assert.False(t, m.Closed())

		backend.DisputeResultFunc = nil
		require.NoError(t, m.Dispute(context.Background(), "wrong score"))
		assert.Equal(t, []string{"wrong score", "wrong score"}, backend.DisputeResultCalls)
	})

	t.Run("confirm and dispute share the guard", func(t *testing.T) {
		m, backend, _ := newMachine(t, Params{Mode: ModeReview, ActorID: "p2"})
		started := make(chan struct{})
		release := make(chan struct{})
		backend.ConfirmResultFunc = func(context.Context) error {
			close(started)
			<-release
			return nil
		}
		done := make(chan error, 1)
		go func() { done <- m.Confirm(context.Background()) }()
		<-started

		assert.ErrorIs(t, m.Dispute(context.Background(), "no"), ErrActionInFlight)
		close(release)
		require.NoError(t, <-done)
		assert.Empty(t, backend.DisputeResultCalls)
	})
}

func TestReadOnlyModes(t *testing.T) {
	for _, mode := range []Mode{ModeView, ModeDisputed} {
		t.Run(string(mode), func(t *testing.T) {
			m, backend, _ := newMachine(t, Params{Mode: mode})
			a := m.Affordances()
			assert.False(t, a.Submit)
			assert.False(t, a.Confirm)
			assert.False(t, a.Dispute)
			assert.False(t, a.EditScores)
			assert.Equal(t, mode == ModeView, a.Comment)

			assert.ErrorIs(t, m.Confirm(context.Background()), ErrActionUnavailable)
			assert.ErrorIs(t, m.Dispute(context.Background(), ""), ErrActionUnavailable)
			assert.ErrorIs(t, m.SetEntry(scoring.SetEntry{Team1: 6}), ErrActionUnavailable)
			assert.Zero(t, backend.ConfirmResultCalls)
		})
	}
}

func TestExistingRehydratesDraft(t *testing.T) {
	t1, t2 := 7, 5
	existing := &Existing{
		Kind: KindNormal,
		Scores: scoresheet.Scores{
			Sport: scoring.SportPadel,
			Sets: []scoresheet.SetRecord{
				{SetNumber: 1, Team1Games: 7, Team2Games: 6, Team1Tiebreak: &t1, Team2Tiebreak: &t2},
				{SetNumber: 2, Team1Games: 6, Team2Games: 2},
			},
		},
		Comment: "rematch",
	}
	m, backend, _ := newMachine(t, Params{Existing: existing})
	d := m.Draft()
	assert.Equal(t, "rematch", d.Comment)
	assert.Len(t, d.Sheet, 2)

	require.NoError(t, m.Submit(context.Background()))
	payload := backend.SubmitResultCalls[0].(NormalResult)
	assert.Equal(t, existing.Scores, payload.Scores)
}

func TestWalkoverReportValidate(t *testing.T) {
	tests := []struct {
		name   string
		report WalkoverReport
		want   error
	}{
		{"complete", WalkoverReport{DefaultingTeam: scoring.SideA, Reason: ReasonLateCancellation}, nil},
		{"no team", WalkoverReport{Reason: ReasonNoShow}, ErrMissingWalkoverReason},
		{"no reason", WalkoverReport{DefaultingTeam: scoring.SideB}, ErrMissingWalkoverReason},
		{"unknown reason", WalkoverReport{DefaultingTeam: scoring.SideB, Reason: "RAIN"}, ErrMissingWalkoverReason},
		{"other without detail", WalkoverReport{DefaultingTeam: scoring.SideB, Reason: ReasonOther}, ErrMissingWalkoverDetail},
		{"other with detail", WalkoverReport{DefaultingTeam: scoring.SideB, Reason: ReasonOther, Detail: "court flooded"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseWalkoverReason(t *testing.T) {
	r, err := ParseWalkoverReason(" no_show ")
	require.NoError(t, err)
	assert.Equal(t, ReasonNoShow, r)

	_, err = ParseWalkoverReason("bored")
	assert.ErrorIs(t, err, ErrMissingWalkoverReason)
}
