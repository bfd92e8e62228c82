package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// featurePair builds the two feature rows of one finished match
func featurePair(day int, homeTeam, awayTeam string, hg, ag int) []*RollingRecord {
	m := matchRow(day, homeTeam, awayTeam, hg, ag)
	m.OddsAvgHomeWin, m.OddsAvgDraw, m.OddsAvgAwayWin = 2.0, 3.4, 3.8
	records := Expand([]*MatchRow{m})
	return BuildRollingFeatures(records)
}

func TestAssembleTargets(t *testing.T) {
	cases := []struct {
		hg, ag, want int
	}{
		{3, 0, TargetHomeWin},
		{1, 1, TargetDraw},
		{0, 2, TargetAwayWin},
	}
	for _, c := range cases {
		rows, err := AssembleModelTable(featurePair(7, "arsenal", "chelsea", c.hg, c.ag))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, c.want, rows[0].Target)
	}
}

func TestAssembleCarriesHomeSideOdds(t *testing.T) {
	rows, err := AssembleModelTable(featurePair(7, "arsenal", "chelsea", 2, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 2.0, rows[0].OddsWin, 1e-9)
	assert.InDelta(t, 3.4, rows[0].OddsDraw, 1e-9)
	assert.InDelta(t, 3.8, rows[0].OddsLose, 1e-9)
}

func TestAssembleDiffSymmetry(t *testing.T) {
	h := &RollingRecord{TeamMatchRecord: TeamMatchRecord{
		MatchID: "m1", Team: "a", IsHome: 1, GoalsFor: 1, Points: 3,
	}}
	a := &RollingRecord{TeamMatchRecord: TeamMatchRecord{
		MatchID: "m1", Team: "b", IsHome: 0, GoalsFor: 0, Points: 0,
	}}
	h.AvgPointsL5, a.AvgPointsL5 = 2.2, 1.4
	h.AvgXGDiffL5, a.AvgXGDiffL5 = 0.7, -0.1

	rows, err := AssembleModelTable([]*RollingRecord{h, a})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.8, rows[0].DiffAvgPointsL5, 1e-9)
	assert.InDelta(t, 0.8, rows[0].DiffAvgXGDiffL5, 1e-9)

	// swapping the venues flips the sign
	h.IsHome, a.IsHome = 0, 1
	swapped, err := AssembleModelTable([]*RollingRecord{h, a})
	require.NoError(t, err)
	require.Len(t, swapped, 1)
	assert.InDelta(t, -0.8, swapped[0].DiffAvgPointsL5, 1e-9)
}

func TestAssembleFirstMatchFeaturesNaN(t *testing.T) {
	rows, err := AssembleModelTable(featurePair(7, "arsenal", "chelsea", 2, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// both sides played their first match, every diff is NaN - NaN
	for _, v := range rows[0].Features() {
		assert.True(t, math.IsNaN(v))
	}
}

func TestAssembleRejectsDuplicateRows(t *testing.T) {
	h := &RollingRecord{TeamMatchRecord: TeamMatchRecord{MatchID: "m1", Team: "a", IsHome: 1}}
	h2 := &RollingRecord{TeamMatchRecord: TeamMatchRecord{MatchID: "m1", Team: "c", IsHome: 1}}
	_, err := AssembleModelTable([]*RollingRecord{h, h2})
	assert.ErrorContains(t, err, "duplicate home feature row")
}

func TestAssembleSortsByDate(t *testing.T) {
	later := featurePair(20, "everton", "fulham", 1, 0)
	earlier := featurePair(6, "arsenal", "chelsea", 0, 0)
	rows, err := AssembleModelTable(append(later, earlier...))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].MatchDate.Before(rows[1].MatchDate))
}
