package scoresheet

import (
	"errors"
	"testing"

	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(n int) *int { return &n }

func TestValidate_SetBased(t *testing.T) {
	v := New(nil)

	t.Run("straight sets leave the deciding set out", func(t *testing.T) {
		scores, err := v.Validate(scoring.SportPadel, scoring.NewSheet([2]int{6, 4}, [2]int{6, 4}), false)
		require.NoError(t, err)
		require.Len(t, scores.Sets, 2)
		assert.Empty(t, scores.Games)
		assert.Equal(t, 1, scores.Sets[0].SetNumber)
		assert.Equal(t, 2, scores.Sets[1].SetNumber)
		assert.Nil(t, scores.Sets[0].Team1Tiebreak)
	})

	t.Run("a stale third set after a sweep is dropped", func(t *testing.T) {
		sheet := scoring.NewSheet([2]int{6, 4}, [2]int{6, 3}, [2]int{6, 6})
		scores, err := v.Validate(scoring.SportTennis, sheet, false)
		require.NoError(t, err, "the unreachable third set must not be validated")
		assert.Len(t, scores.Sets, 2)
	})

	t.Run("deciding set in progress is included", func(t *testing.T) {
		sheet := scoring.NewSheet([2]int{6, 4}, [2]int{4, 6}, [2]int{1, 0})
		scores, err := v.Validate(scoring.SportPadel, sheet, false)
		require.NoError(t, err)
		require.Len(t, scores.Sets, 3)
		assert.Equal(t, SetRecord{SetNumber: 3, Team1Games: 1, Team2Games: 0}, scores.Sets[2])
	})

	t.Run("tiebreak required at seven six", func(t *testing.T) {
		sheet := scoring.NewSheet([2]int{7, 6}, [2]int{6, 2})
		_, err := v.Validate(scoring.SportPadel, sheet, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingExtendedScore)

		var entryErr *EntryError
		require.True(t, errors.As(err, &entryErr))
		assert.Equal(t, 0, entryErr.Index)
	})

	t.Run("zero tiebreak counts as missing", func(t *testing.T) {
		sheet := scoring.Sheet{{Index: 0, Team1: 6, Team2: 6, Team1Extended: ptr(0), Team2Extended: ptr(0)}}
		_, err := v.Validate(scoring.SportTennis, sheet, false)
		assert.ErrorIs(t, err, ErrMissingExtendedScore)
	})

	t.Run("seven five needs no tiebreak", func(t *testing.T) {
		scores, err := v.Validate(scoring.SportPadel, scoring.NewSheet([2]int{7, 5}, [2]int{6, 3}), false)
		require.NoError(t, err)
		assert.Len(t, scores.Sets, 2)
	})

	t.Run("tiebreak points are carried on the set record", func(t *testing.T) {
		sheet := scoring.Sheet{
			{Index: 0, Team1: 7, Team2: 6, Team1Extended: ptr(7), Team2Extended: ptr(4)},
			{Index: 1, Team1: 6, Team2: 3},
		}
		scores, err := v.Validate(scoring.SportPadel, sheet, false)
		require.NoError(t, err)
		require.NotNil(t, scores.Sets[0].Team1Tiebreak)
		assert.Equal(t, 7, *scores.Sets[0].Team1Tiebreak)
		assert.Equal(t, 4, *scores.Sets[0].Team2Tiebreak)
		assert.Equal(t, 7, scores.Sets[0].Team1Games)
	})

	t.Run("unfinished match skips tiebreak checks", func(t *testing.T) {
		scores, err := v.Validate(scoring.SportPadel, scoring.NewSheet([2]int{6, 6}), true)
		require.NoError(t, err)
		assert.Len(t, scores.Sets, 1)
	})
}

func TestValidate_NoScores(t *testing.T) {
	v := New(nil)

	tests := []struct {
		name       string
		sheet      scoring.Sheet
		unfinished bool
	}{
		{"empty sheet", nil, false},
		{"all zero", scoring.NewSheet([2]int{0, 0}, [2]int{0, 0}, [2]int{0, 0}), false},
		{"unfinished still needs an entry", scoring.NewSheet([2]int{0, 0}), true},
		{"only an unreachable third entry", scoring.Sheet{{Index: 2, Team1: 6, Team2: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(scoring.SportTennis, tt.sheet, tt.unfinished)
			assert.ErrorIs(t, err, ErrNoScoresEntered)
		})
	}
}

func TestValidate_PointBased(t *testing.T) {
	v := New(nil)

	t.Run("close game without extended score", func(t *testing.T) {
		_, err := v.Validate(scoring.SportPickleball, scoring.NewSheet([2]int{15, 10}, [2]int{14, 14}), false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingExtendedScore)
		var entryErr *EntryError
		require.True(t, errors.As(err, &entryErr))
		assert.Equal(t, 1, entryErr.Index)
	})

	t.Run("extended score below fifteen", func(t *testing.T) {
		sheet := scoring.Sheet{{Index: 0, Team1: 14, Team2: 14, Team1Extended: ptr(14), Team2Extended: ptr(12)}}
		_, err := v.Validate(scoring.SportPickleball, sheet, false)
		assert.ErrorIs(t, err, ErrInvalidExtendedScore)
	})

	t.Run("extended score without a two point lead", func(t *testing.T) {
		sheet := scoring.Sheet{{Index: 0, Team1: 15, Team2: 14, Team1Extended: ptr(17), Team2Extended: ptr(16)}}
		_, err := v.Validate(scoring.SportPickleball, sheet, false)
		assert.ErrorIs(t, err, ErrInvalidExtendedScore)
	})

	t.Run("extended score replaces the raw points", func(t *testing.T) {
		sheet := scoring.Sheet{
			{Index: 0, Team1: 14, Team2: 14, Team1Extended: ptr(18), Team2Extended: ptr(16)},
			{Index: 1, Team1: 15, Team2: 7},
		}
		scores, err := v.Validate(scoring.SportPickleball, sheet, false)
		require.NoError(t, err)
		assert.Empty(t, scores.Sets)
		require.Len(t, scores.Games, 2)
		assert.Equal(t, GameRecord{GameNumber: 1, Team1Points: 18, Team2Points: 16}, scores.Games[0])
		assert.Equal(t, GameRecord{GameNumber: 2, Team1Points: 15, Team2Points: 7}, scores.Games[1])
	})

	t.Run("unfinished skips extended validation", func(t *testing.T) {
		scores, err := v.Validate(scoring.SportPickleball, scoring.NewSheet([2]int{14, 14}), true)
		require.NoError(t, err)
		assert.Len(t, scores.Games, 1)
	})
}

func TestValidate_NegativeScore(t *testing.T) {
	_, err := New(nil).Validate(scoring.SportPadel, scoring.NewSheet([2]int{6, -1}), false)
	assert.ErrorIs(t, err, ErrNegativeScore)
}

func TestScoresSheetRoundTrip(t *testing.T) {
	v := New(nil)
	sheet := scoring.Sheet{
		{Index: 0, Team1: 14, Team2: 14, Team1Extended: ptr(16), Team2Extended: ptr(14)},
		{Index: 1, Team1: 15, Team2: 7},
	}
	scores, err := v.Validate(scoring.SportPickleball, sheet, false)
	require.NoError(t, err)

	again, err := v.Validate(scoring.SportPickleball, scores.Sheet(nil), false)
	require.NoError(t, err)
	assert.Equal(t, scores, again)
}

func TestScoresSheet_UnfinishedCloseGame(t *testing.T) {
	v := New(nil)
	scores, err := v.Validate(scoring.SportPickleball, scoring.NewSheet([2]int{15, 14}), true)
	require.NoError(t, err)
	require.Equal(t, []GameRecord{{GameNumber: 1, Team1Points: 15, Team2Points: 14}}, scores.Games)

	sheet := scores.Sheet(nil)
	entry := sheet.Entry(0)
	assert.Equal(t, 15, entry.Team1)
	assert.Equal(t, 14, entry.Team2)
	assert.False(t, entry.HasExtended(), "raw points of an unfinished game are not a final score")

	_, err = v.Validate(scoring.SportPickleball, sheet, false)
	assert.ErrorIs(t, err, ErrMissingExtendedScore)
	assert.NotErrorIs(t, err, ErrInvalidExtendedScore)
}
