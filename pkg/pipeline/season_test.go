package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeasonFormats(t *testing.T) {
	for _, input := range []string{"2023-2024", "2023/2024", "23/24", "2324"} {
		got, err := ParseSeason(input)
		require.NoError(t, err, input)
		assert.Equal(t, "2023-2024", got, input)
	}
}

func TestParseSeasonRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "2023", "2023-2025", "abc/def", "2023-2024-2025"} {
		_, err := ParseSeason(input)
		assert.Error(t, err, input)
	}
}

func TestSeasonToNative(t *testing.T) {
	got, err := SeasonToNative("2021-2022")
	require.NoError(t, err)
	assert.Equal(t, "2122", got)

	got, err = SeasonToNative("24/25")
	require.NoError(t, err)
	assert.Equal(t, "2425", got)
}

func TestIsSameSeason(t *testing.T) {
	assert.True(t, IsSameSeason("2023/2024", "23/24"))
	assert.False(t, IsSameSeason("2022-2023", "2023-2024"))
	assert.False(t, IsSameSeason("junk", "2023-2024"))
}

func TestParseDateFormats(t *testing.T) {
	iso, err := ParseDate("2024-08-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-08-17", FormatDate(iso))

	dayFirst, err := ParseDate("17/08/2024")
	require.NoError(t, err)
	assert.Equal(t, iso, dayFirst)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}
