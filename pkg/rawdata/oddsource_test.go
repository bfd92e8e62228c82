package rawdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOddsCSV = "\ufeffDiv,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR,Referee," +
	"HS,AS,HST,AST,HF,AF,HC,AC,HY,AY,HR,AR," +
	"B365H,B365D,B365A,AvgH,AvgD,AvgA,B365>2.5,B365<2.5,Avg>2.5,Avg<2.5\n" +
	"E0,13/08/2021,Brentford,Arsenal,2,0,H,M Oliver," +
	"12,22,6,4,10,12,2,5,1,2,0,0," +
	"4.00,3.50,1.95,3.90,3.45,1.97,2.05,1.85,2.00,1.88\n" +
	"E0,14/08/2021,Man United,Leeds,5,1,H,P Tierney," +
	"16,10,8,3,9,11,4,3,0,1,0,0," +
	"1.55,4.33,6.00,1.57,4.20,5.80,1.70,2.20,1.72,2.18\n" +
	"E0,14/08/2021,,,,,,,,,,,,,,,,,,,,,,,,,,,,\n"

func TestParseOddsCSV(t *testing.T) {
	rows, err := ParseOddsCSV(sampleOddsCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2, "the empty row should be skipped")

	first := rows[0]
	assert.Equal(t, "2021-08-13_brentford_arsenal", first.MatchID)
	assert.Equal(t, "brentford", first.HomeTeam)
	assert.Equal(t, "arsenal", first.AwayTeam)
	assert.Equal(t, 2, first.HomeGoals)
	assert.Equal(t, 0, first.AwayGoals)
	assert.Equal(t, "H", first.Result)
	assert.Equal(t, "Michael Oliver", first.Referee)
	assert.InDelta(t, 10.0, first.HomeFouls, 1e-9)
	assert.InDelta(t, 3.90, first.OddsAvgHomeWin, 1e-9)
	assert.InDelta(t, 1.88, first.OddsAvgUnder25, 1e-9)

	second := rows[1]
	assert.Equal(t, "manchester united", second.HomeTeam)
	assert.Equal(t, "leeds united", second.AwayTeam)
	assert.Equal(t, "Paul Tierney", second.Referee)
}

func TestParseOddsCSVMissingOddsBecomeNaN(t *testing.T) {
	csv := "Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"13/08/2021,Brentford,Arsenal,2,0\n"
	rows, err := ParseOddsCSV(csv)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, math.IsNaN(rows[0].OddsAvgHomeWin))
	assert.True(t, math.IsNaN(rows[0].HomeFouls))
}

func TestImpliedProbabilities(t *testing.T) {
	w, d, l := ImpliedProbabilities(2.0, 3.4, 4.0)
	assert.InDelta(t, 1.0, w+d+l, 1e-9, "probabilities must renormalise")
	assert.Greater(t, w, d)
	assert.Greater(t, d, l)

	// margin stripped: raw inverses sum above one
	raw := 1/2.0 + 1/3.4 + 1/4.0
	assert.InDelta(t, (1/2.0)/raw, w, 1e-9)
}

func TestImpliedProbabilitiesMissingOdds(t *testing.T) {
	w, d, l := ImpliedProbabilities(math.NaN(), 3.4, 4.0)
	assert.True(t, math.IsNaN(w))
	assert.True(t, math.IsNaN(d))
	assert.True(t, math.IsNaN(l))

	w, _, _ = ImpliedProbabilities(0, 3.4, 4.0)
	assert.True(t, math.IsNaN(w))
}
