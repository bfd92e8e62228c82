package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOddsJoinsOnMatchID(t *testing.T) {
	m := matchRow(7, "arsenal", "chelsea", 2, 0)
	m.Referee = "Michael Oliver"

	date := time.Date(2023, 10, 7, 0, 0, 0, 0, time.UTC)
	o := &OddsRow{
		MatchID:         m.MatchID,
		MatchDate:       date,
		HomeTeam:        "arsenal",
		AwayTeam:        "chelsea",
		HomeGoals:       9, // deliberately wrong, statistics side is authoritative
		Referee:         "Somebody Else",
		HomeFouls:       11,
		AwayFouls:       8,
		HomeYellowCards: 1,
		AwayYellowCards: 3,
		Result:          "H",
		OddsAvgHomeWin:  1.7,
		OddsAvgDraw:     3.9,
		OddsAvgAwayWin:  4.8,
		OddsB365HomeWin: 1.72,
	}

	merged, err := MergeOdds([]*MatchRow{m}, []*OddsRow{o})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	got := merged[0]

	// statistics columns keep their values
	assert.Equal(t, 2, got.HomeGoals)
	assert.Equal(t, "Michael Oliver", got.Referee)

	// odds and discipline come across
	assert.Equal(t, "H", got.Result)
	assert.InDelta(t, 11.0, got.HomeFouls, 1e-9)
	assert.InDelta(t, 3.0, got.AwayYellowCards, 1e-9)
	assert.InDelta(t, 1.7, got.OddsAvgHomeWin, 1e-9)
	assert.InDelta(t, 1.72, got.OddsB365HomeWin, 1e-9)
}

func TestMergeOddsLeavesUnmatchedNaN(t *testing.T) {
	m := matchRow(7, "arsenal", "chelsea", 2, 0)
	merged, err := MergeOdds([]*MatchRow{m}, nil)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.True(t, math.IsNaN(merged[0].OddsAvgHomeWin))
	assert.True(t, math.IsNaN(merged[0].HomeFouls))
	assert.Equal(t, "", merged[0].Result)
}

func TestMergeOddsLeavesInputRowsUntouched(t *testing.T) {
	m := matchRow(7, "arsenal", "chelsea", 2, 0)
	o := &OddsRow{MatchID: m.MatchID, Result: "H", OddsAvgHomeWin: 1.7}

	merged, err := MergeOdds([]*MatchRow{m}, []*OddsRow{o})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "H", merged[0].Result)

	// the earlier stage's table is a separate artefact
	assert.Equal(t, "", m.Result)
	assert.True(t, math.IsNaN(m.OddsAvgHomeWin))
	assert.NotSame(t, m, merged[0])
}

func TestMergeOddsRejectsDuplicateOddsKey(t *testing.T) {
	m := matchRow(7, "arsenal", "chelsea", 2, 0)
	dup := []*OddsRow{{MatchID: m.MatchID}, {MatchID: m.MatchID}}
	_, err := MergeOdds([]*MatchRow{m}, dup)
	require.ErrorContains(t, err, "duplicate odds row")
}
