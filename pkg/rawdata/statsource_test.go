package rawdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Date":      "match_date",
		"Round":     "matchweek",
		"GF":        "goals_for",
		"xG":        "xg",
		"npxG":      "non_penalty_xg",
		"Save %":    "save_percentage",
		"Cmp %":     "pass_completion_pct",
		"PSxG+/-":   "post_shot_xg_diff",
		"Tkl+Int":   "defensive_actions",
		"Opp.Formation": "opponent_formation",
		"Team":      "team",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizeHeader(input), input)
	}
}

const sampleStatsCSV = "Team,Season,Date,Round,Competition,Venue,Opponent,Referee," +
	"GF,GA,xG,xGA,Sh,SoT,SoTA,Poss,Saves,CS,Blocks,Clr,Formation,Opp Formation\n" +
	"Arsenal,2021/2022,2021-08-13,Matchweek 1,Premier League,Away,Brentford,M Oliver," +
	"0,2,1.2,1.1,22,4,6,65,4,0,3,18,4/2/31,4-3-3\n" +
	"Brentford,2021/2022,2021-08-13,Matchweek 1,Premier League,Home,Arsenal,M Oliver," +
	"2,0,1.1,1.2,12,6,4,35,4,1,5,30,3-5-2,4-2-3-1\n"

func TestParseStatsCSV(t *testing.T) {
	rows, err := ParseStatsCSV(sampleStatsCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// sorted season, matchweek, team: arsenal first
	r := rows[0]
	assert.Equal(t, "arsenal", r.Team)
	assert.Equal(t, "brentford", r.Opponent)
	assert.Equal(t, "2021-2022", r.Season)
	assert.Equal(t, 1, r.MatchweekNum)
	assert.Equal(t, "Away", r.Venue)
	assert.False(t, r.IsHome())
	assert.Equal(t, "Michael Oliver", r.Referee)
	assert.Equal(t, 0, r.GoalsFor)
	assert.Equal(t, 2, r.GoalsAgainst)
	assert.InDelta(t, 1.2, r.XG, 1e-9)
	assert.InDelta(t, 65.0, r.Possession, 1e-9)
	assert.Equal(t, "4-2-3", r.TeamFormation)
	assert.Equal(t, "4-3-3", r.OpponentFormation)

	// columns absent from the file stay NaN
	assert.True(t, math.IsNaN(r.PostShotXG))
	assert.True(t, math.IsNaN(r.PassesCompleted))

	id, err := r.MatchID()
	require.NoError(t, err)
	assert.Equal(t, "2021-08-13_brentford_arsenal", id)
}

func TestParseStatsCSVRejectsRowsWithoutMatchweek(t *testing.T) {
	csv := "Team,Season,Date,Round,Venue,Opponent,GF,GA\n" +
		"Arsenal,2021/2022,2021-08-13,no number here,Away,Brentford,0,2\n"
	rows, err := ParseStatsCSV(csv)
	require.NoError(t, err)
	assert.Empty(t, rows, "malformed rows are skipped, not fatal")
}

func TestParseStatsCSVRejectsRowsWithoutGoals(t *testing.T) {
	// an unscored row would otherwise reach the points calculation
	csv := "Team,Season,Date,Round,Venue,Opponent,GF,GA\n" +
		"Arsenal,2021/2022,2021-08-13,Matchweek 1,Away,Brentford,,2\n" +
		"Brentford,2021/2022,2021-08-13,Matchweek 1,Home,Arsenal,junk,0\n" +
		"Chelsea,2021/2022,2021-08-14,Matchweek 1,Home,Everton,1,1\n"
	rows, err := ParseStatsCSV(csv)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "chelsea", rows[0].Team)
}
