package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTeamSynonyms(t *testing.T) {
	cases := map[string]string{
		"Man Utd":        "manchester united",
		"MU":             "manchester united",
		"Spurs":          "tottenham hotspur",
		"  Wolves  ":     "wolverhampton wanderers",
		"Nott'm Forest":  "nottingham forest",
		"ARSENAL":        "arsenal",
		"Leicester City": "leicester city",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeTeam(input), input)
	}
}

func TestNormalizeTeamUnknownPassesThrough(t *testing.T) {
	// promoted sides not in the table should survive, lowercased
	assert.Equal(t, "sunderland", NormalizeTeam("Sunderland"))
}

func TestNormalizeTeamIdempotent(t *testing.T) {
	// already canonical names, synonym results and unknowns must all
	// be fixed points, records get normalised on every pass through
	for _, name := range []string{"Man Utd", "manchester united", "Spurs", "Sunderland", "arsenal"} {
		once := NormalizeTeam(name)
		assert.Equal(t, once, NormalizeTeam(once), name)
	}
}

func TestNormalizeReferee(t *testing.T) {
	assert.Equal(t, "Michael Oliver", NormalizeReferee("M. Oliver"))
	assert.Equal(t, "Michael Oliver", NormalizeReferee("M Oliver"))
	assert.Equal(t, "Michael Oliver", NormalizeReferee("Michael Oliver"))
	assert.Equal(t, "Anthony Taylor", NormalizeReferee("anthony taylor"))
	assert.Equal(t, "", NormalizeReferee(""))
}

func TestNormalizeFormation(t *testing.T) {
	assert.Equal(t, "4-2-3-1", NormalizeFormation("4-2-3-1"))
	assert.Equal(t, "4-2-3", NormalizeFormation("4/2/31"))
	assert.Equal(t, "4-4", NormalizeFormation("4 and 4"))
	assert.Equal(t, "442", NormalizeFormation("442"))
	assert.Equal(t, "", NormalizeFormation(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "manchester_united", Slug("manchester united"))
	assert.Equal(t, "arsenal", Slug(" Arsenal "))
}

func TestBuildMatchID(t *testing.T) {
	date := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	id, err := BuildMatchID(date, "manchester united", "tottenham hotspur")
	require.NoError(t, err)
	assert.Equal(t, "2024-08-17_manchester_united_tottenham_hotspur", id)
}

func TestBuildMatchIDStableAcrossSources(t *testing.T) {
	// the same fixture keyed from either source must collide
	date := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	fromStats, err := BuildMatchID(date, NormalizeTeam("Nott'm Forest"), NormalizeTeam("Chelsea"))
	require.NoError(t, err)
	fromOdds, err := BuildMatchID(date, NormalizeTeam("Nottingham"), NormalizeTeam("chelsea"))
	require.NoError(t, err)
	assert.Equal(t, fromStats, fromOdds)
}

func TestMatchIDPatternEscapesUnderscores(t *testing.T) {
	// underscores are LIKE wildcards, the pattern must match them literally
	assert.Equal(t, `%\_west\_ham\_aston\_villa`, MatchIDPattern("west ham", "aston villa"))
	assert.Equal(t, `%\_arsenal\_chelsea`, MatchIDPattern("arsenal", "chelsea"))
}

func TestBuildMatchIDRequiresInputs(t *testing.T) {
	date := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	_, err := BuildMatchID(time.Time{}, "a", "b")
	assert.Error(t, err)
	_, err = BuildMatchID(date, "", "b")
	assert.Error(t, err)
	_, err = BuildMatchID(date, "a", "")
	assert.Error(t, err)
}
