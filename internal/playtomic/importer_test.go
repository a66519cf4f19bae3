package playtomic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedMatch() Match {
	return Match{
		MatchID:         "pt-1",
		SportID:         "padel",
		Start:           1752084000,
		GameStatus:      GameStatusPlayed,
		CompetitionMode: "competitive",
		ResourceName:    "Court 2",
		Teams: []Team{
			{ID: "t1", Players: []Player{{UserID: "a", Name: "Ana"}, {UserID: "b", Name: "Ben"}}},
			{ID: "t2", Players: []Player{{UserID: "c", Name: "Cleo"}, {UserID: "d", Name: "Dan"}}},
		},
		Results: []SetResult{
			{Name: "Set 1", Scores: map[string]int{"t1": 6, "t2": 4}},
			{Name: "Set 2", Scores: map[string]int{"t1": 3, "t2": 6}},
			{Name: "Set 3", Scores: map[string]int{"t1": 7, "t2": 6}},
		},
	}
}

func TestConvert(t *testing.T) {
	imported, err := Convert("m1", playedMatch())
	require.NoError(t, err)

	m := imported.Match
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "pt-1", m.ExternalID)
	assert.Equal(t, scoring.SportPadel, m.Sport)
	assert.Equal(t, scoring.FormatDoubles, m.Format)
	assert.Equal(t, result.Competitive, m.Competition)
	require.Len(t, m.Players, 4)
	assert.Equal(t, scoring.SideA, m.Players[1].Side)
	assert.Equal(t, scoring.SideB, m.Players[2].Side)
	assert.True(t, m.Players[2].IsCaptain)
	assert.False(t, m.Players[3].IsCaptain)

	assert.True(t, imported.Played)
	assert.Equal(t, scoring.NewSheet([2]int{6, 4}, [2]int{3, 6}, [2]int{7, 6}), imported.Sheet)
}

func TestConvert_Singles(t *testing.T) {
	pm := playedMatch()
	pm.CompetitionMode = ""
	pm.Teams[0].Players = pm.Teams[0].Players[:1]
	pm.Teams[1].Players = pm.Teams[1].Players[:1]

	imported, err := Convert("m2", pm)
	require.NoError(t, err)
	assert.Equal(t, scoring.FormatSingles, imported.Match.Format)
	assert.Equal(t, result.Friendly, imported.Match.Competition)
}

func TestConvert_Unsupported(t *testing.T) {
	pm := playedMatch()
	pm.Teams = pm.Teams[:1]
	_, err := Convert("m1", pm)
	assert.ErrorIs(t, err, ErrUnsupportedMatch)

	pm = playedMatch()
	pm.SportID = "SQUASH"
	_, err = Convert("m1", pm)
	assert.ErrorIs(t, err, ErrUnsupportedMatch)
}

func TestImporter_Import(t *testing.T) {
	client := NewMockClient()
	client.GetSpecificMatchFunc = func(matchID string) (Match, error) {
		if matchID == "pt-1" {
			return playedMatch(), nil
		}
		return Match{}, errors.New("not found")
	}
	importer := NewImporter(client)

	imported, err := importer.Import(context.Background(), "m1", "pt-1")
	require.NoError(t, err)
	assert.Equal(t, "m1", imported.Match.ID)
	assert.Equal(t, []string{"pt-1"}, client.GetSpecificMatchCalls)

	_, err = importer.Import(context.Background(), "m1", "pt-2")
	assert.Error(t, err)
}

func TestImporter_Recent(t *testing.T) {
	client := NewMockClient()
	client.GetMatchesFunc = func(params *SearchMatchesParams) ([]MatchSummary, error) {
		assert.Equal(t, []string{"tenant-1"}, params.TenantIDs)
		assert.Equal(t, "2026-06-01T00:00:00", params.FromStartDate)
		return []MatchSummary{{MatchID: "pt-1"}, {MatchID: "pt-2"}, {MatchID: "pt-3"}}, nil
	}
	client.GetSpecificMatchFunc = func(matchID string) (Match, error) {
		switch matchID {
		case "pt-1":
			return playedMatch(), nil
		case "pt-2":
			pm := playedMatch()
			pm.Teams = nil
			return pm, nil
		default:
			return Match{}, errors.New("gone")
		}
	}

	imported, err := NewImporter(client).Recent(context.Background(), "tenant-1", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "pt-1", imported[0].Match.ID)
	assert.Len(t, client.GetSpecificMatchCalls, 3)
}
