package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftRollExcludesCurrentRow(t *testing.T) {
	values := []float64{3, 1, 0, 3, 1, 3, 0}
	got := shiftRoll(values, 5)

	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 4.0/3.0, got[3], 1e-9)
	assert.InDelta(t, 7.0/4.0, got[4], 1e-9)
	assert.InDelta(t, 8.0/5.0, got[5], 1e-9)
	// position 6 only sees positions 1..5, position 0 has left the window
	assert.InDelta(t, 8.0/5.0, got[6], 1e-9)
}

func TestShiftRollSkipsNaN(t *testing.T) {
	nan := math.NaN()
	values := []float64{3, nan, 1}
	got := shiftRoll(values, 5)

	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 3.0, got[1], 1e-9)
	// the NaN at position 1 does not drag the mean down
	assert.InDelta(t, 3.0, got[2], 1e-9)
}

func TestShiftRollAllNaNWindow(t *testing.T) {
	nan := math.NaN()
	got := shiftRoll([]float64{nan, nan, 1}, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
}

func teamRecord(team, season string, day, isHome, gf, ga int) *TeamMatchRecord {
	date := time.Date(2023, 8, day, 0, 0, 0, 0, time.UTC)
	opponent := "opponent fc"
	var home, away string
	if isHome == 1 {
		home, away = team, opponent
	} else {
		home, away = opponent, team
	}
	id, _ := BuildMatchID(date, home, away)
	nan := math.NaN()
	r := &TeamMatchRecord{
		MatchID: id, MatchDate: date, Season: season,
		Team: team, Opponent: opponent, IsHome: isHome,
		GoalsFor: gf, GoalsAgainst: ga,
		XGFor: nan, XGAgainst: nan,
		ShotsFor: nan, ShotsOnTargetFor: nan, ShotsOnTargetAgainst: nan,
		Possession: nan, Saves: nan, CleanSheets: nan,
		Fouls: nan, YellowCards: nan, Blocks: nan, Clearances: nan,
		OddsWin: nan, OddsDraw: nan, OddsLose: nan, OddsOver25: nan, OddsUnder25: nan,
	}
	r.Points = CalculatePoints(gf, ga)
	return r
}

func TestRollingPointsSequence(t *testing.T) {
	rows := []*TeamMatchRecord{
		teamRecord("arsenal", "2023-2024", 1, 1, 2, 0), // win, 3 points
		teamRecord("arsenal", "2023-2024", 8, 0, 1, 1), // draw, 1 point
		teamRecord("arsenal", "2023-2024", 15, 1, 0, 2), // loss, 0 points
		teamRecord("arsenal", "2023-2024", 22, 1, 1, 0),
	}
	out := BuildRollingFeatures(rows)
	require.Len(t, out, 4)

	assert.True(t, math.IsNaN(out[0].AvgPointsL5), "first match has no history")
	assert.InDelta(t, 3.0, out[1].AvgPointsL5, 1e-9)
	assert.InDelta(t, 2.0, out[2].AvgPointsL5, 1e-9)
	// matchday 4 averages the full 3, 1, 0 history
	assert.InDelta(t, 4.0/3.0, out[3].AvgPointsL5, 1e-9)

	// the long window sees the same matches here
	assert.True(t, math.IsNaN(out[0].AvgPointsL10))
	assert.InDelta(t, 3.0, out[1].AvgPointsL10, 1e-9)
	assert.InDelta(t, 2.0, out[2].AvgPointsL10, 1e-9)
	assert.InDelta(t, 4.0/3.0, out[3].AvgPointsL10, 1e-9)
}

// Features for match k depend only on matches before k: recomputing on
// the history truncated just after match k must reproduce them exactly.
func TestRollingFeaturesUnchangedUnderTruncation(t *testing.T) {
	scores := [][2]int{{2, 0}, {1, 1}, {0, 2}, {3, 1}, {0, 0}, {1, 2}, {2, 2}, {4, 0}}
	var rows []*TeamMatchRecord
	for i, s := range scores {
		r := teamRecord("newcastle", "2023-2024", i+1, i%2, s[0], s[1])
		r.XGFor, r.XGAgainst = float64(s[0])+0.3, float64(s[1])+0.4
		r.Fouls, r.YellowCards = float64(10+i), float64(i%3)
		rows = append(rows, r)
	}

	full := BuildRollingFeatures(rows)
	require.Len(t, full, len(rows))

	for k := 1; k <= len(rows); k++ {
		truncated := BuildRollingFeatures(rows[:k])
		require.Len(t, truncated, k)

		want := rollingFeatureValues(full[k-1])
		got := rollingFeatureValues(truncated[k-1])
		require.Len(t, got, len(want))
		for i := range want {
			if math.IsNaN(want[i]) {
				assert.True(t, math.IsNaN(got[i]), "match %d feature %d", k, i)
				continue
			}
			assert.InDelta(t, want[i], got[i], 1e-9, "match %d feature %d", k, i)
		}
	}
}

func TestRollingResetsEachSeason(t *testing.T) {
	rows := []*TeamMatchRecord{
		teamRecord("everton", "2022-2023", 1, 1, 3, 0),
		teamRecord("everton", "2022-2023", 8, 1, 3, 0),
		teamRecord("everton", "2023-2024", 1, 1, 1, 1),
		teamRecord("everton", "2023-2024", 8, 1, 0, 0),
	}
	out := BuildRollingFeatures(rows)
	require.Len(t, out, 4)

	// sorted season first, so the new season starts at index 2
	assert.Equal(t, "2023-2024", out[2].Season)
	assert.True(t, math.IsNaN(out[2].AvgPointsL5), "form must not carry across seasons")
	assert.InDelta(t, 1.0, out[3].AvgPointsL5, 1e-9)
}

func TestRollingVenueMaskKeepsFullSequence(t *testing.T) {
	rows := []*TeamMatchRecord{
		teamRecord("fulham", "2023-2024", 1, 1, 2, 0),  // home win
		teamRecord("fulham", "2023-2024", 8, 0, 2, 0),  // away win
		teamRecord("fulham", "2023-2024", 15, 1, 0, 1), // home loss
		teamRecord("fulham", "2023-2024", 22, 0, 1, 1), // away draw
	}
	out := BuildRollingFeatures(rows)
	require.Len(t, out, 4)

	// home form only averages home matches, but the shift still walks
	// the whole sequence
	assert.True(t, math.IsNaN(out[0].AvgPointsHomeL5))
	assert.InDelta(t, 3.0, out[1].AvgPointsHomeL5, 1e-9)
	assert.InDelta(t, 3.0, out[2].AvgPointsHomeL5, 1e-9)
	assert.InDelta(t, 1.5, out[3].AvgPointsHomeL5, 1e-9)

	assert.True(t, math.IsNaN(out[0].AvgPointsAwayL5))
	assert.True(t, math.IsNaN(out[1].AvgPointsAwayL5), "no prior away match yet")
	assert.InDelta(t, 3.0, out[2].AvgPointsAwayL5, 1e-9)
	assert.InDelta(t, 3.0, out[3].AvgPointsAwayL5, 1e-9)
}

func TestRollingComposites(t *testing.T) {
	r1 := teamRecord("brentford", "2023-2024", 1, 1, 2, 1)
	r1.XGFor, r1.XGAgainst = 1.8, 0.9
	r1.Fouls, r1.YellowCards = 10, 2
	r2 := teamRecord("brentford", "2023-2024", 8, 1, 0, 0)
	r2.XGFor, r2.XGAgainst = 1.1, 1.4
	r2.Fouls, r2.YellowCards = 8, 1

	out := BuildRollingFeatures([]*TeamMatchRecord{r1, r2})
	require.Len(t, out, 2)

	second := out[1]
	assert.InDelta(t, 2.0-1.0, second.AvgGoalDiffL5, 1e-9)
	assert.InDelta(t, 1.8-0.9, second.AvgXGDiffL5, 1e-9)
	assert.InDelta(t, 10.0+2.0, second.AvgDisciplineL5, 1e-9)

	// composites on the first row inherit NaN from their parts
	assert.True(t, math.IsNaN(out[0].AvgGoalDiffL5))
	assert.True(t, math.IsNaN(out[0].AvgDisciplineL5))
}

func TestRollingWindowTruncation(t *testing.T) {
	var rows []*TeamMatchRecord
	for i := 0; i < 8; i++ {
		// all wins, 3 points each
		rows = append(rows, teamRecord("liverpool", "2023-2024", i+1, 1, 1, 0))
	}
	rows[0].GoalsFor, rows[0].GoalsAgainst = 0, 1 // first match a loss
	rows[0].Points = 0

	out := BuildRollingFeatures(rows)
	// match 7 sees matches 2..6 (all wins), the opening loss has aged out
	assert.InDelta(t, 3.0, out[6].AvgPointsL5, 1e-9)
	// the long window still sees it
	assert.InDelta(t, (0.0+3*5)/6.0, out[6].AvgPointsL10, 1e-9)
}
