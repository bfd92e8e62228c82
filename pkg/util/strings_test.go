package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("arsenal", "arsenal"))
	assert.Equal(t, 7, LevenshteinDistance("", "arsenal"))
	assert.Equal(t, 1, LevenshteinDistance("wolves", "wolvez"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestFuzzyMatchFindsSubstring(t *testing.T) {
	// partial match slides the shorter string across the longer one
	assert.Equal(t, 0, FuzzyMatch("united", "manchester united"))
	assert.Equal(t, 0, FuzzyMatch("Spurs ", "tottenham spurs"))
	assert.Greater(t, FuzzyMatch("arsenal", "everton"), 2)
}

func TestGetAsInteger(t *testing.T) {
	n, err := GetAsInteger(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = GetAsInteger(4.0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = GetAsInteger(4.5)
	assert.Error(t, err)
	_, err = GetAsInteger("")
	assert.Error(t, err)
}

func TestGetAsFloat(t *testing.T) {
	f, err := GetAsFloat("2.35")
	require.NoError(t, err)
	assert.InDelta(t, 2.35, f, 1e-9)

	f, err = GetAsFloat(7)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, f, 1e-9)

	_, err = GetAsFloat("")
	assert.Error(t, err)
}
